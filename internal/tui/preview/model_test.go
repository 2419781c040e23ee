package preview

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"
	"github.com/Digital-Shane/treeview"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/google/go-cmp/cmp"
)

func startPreview(t *testing.T, model *Model, opts ...teatest.TestOption) *teatest.TestModel {
	t.Helper()
	options := append([]teatest.TestOption{teatest.WithInitialTermSize(100, 28)}, opts...)
	tm := teatest.NewTestModel(t, model, options...)
	t.Cleanup(func() {
		_ = tm.Quit()
	})
	return tm
}

func finalPreview(t *testing.T, tm *teatest.TestModel) *Model {
	t.Helper()
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second))
	model, ok := final.(*Model)
	if !ok {
		t.Fatalf("Final model type = %T, want *Model", final)
	}
	return model
}

func waitForOutput(t *testing.T, tm *teatest.TestModel, contains string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(contains))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(25*time.Millisecond))
}

func sendKey(tm *teatest.TestModel, key tea.KeyType) {
	tm.Send(tea.KeyMsg{Type: key})
}

func nodeID(node *treeview.Node[treeview.FileInfo]) string {
	if node == nil {
		return ""
	}
	return node.ID()
}

func focusFirst(t *testing.T, model *Model) string {
	t.Helper()
	id := model.TuiTreeModel.Tree.Nodes()[0].ID()
	if _, err := model.TuiTreeModel.Tree.SetFocusedID(context.Background(), id); err != nil {
		t.Fatalf("SetFocusedID(%q) error = %v", id, err)
	}
	return id
}

// pagedResults returns count movie results, enough to need paging.
func pagedResults(count int) []library.Result {
	out := make([]library.Result, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("Movie %02d", i)
		out = append(out, library.Result{
			Name: name,
			Path: "/dl/" + name,
			Metadata: &metadata.Metadata{
				Type:          metadata.Movie,
				Title:         name,
				OriginalTitle: name,
				MediaFiles:    []*tree.File{tree.NewFile("/dl/" + name + "/" + name + ".mkv")},
			},
		})
	}
	return out
}

func TestPreviewQuitKeys(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "Esc", msg: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "CtrlC", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
		{name: "Q", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model := New(BuildMetadata(theme.Default(), testMovie()))
			tm := startPreview(t, model, teatest.WithInitialTermSize(100, 12))
			tm.Send(tea.WindowSizeMsg{Width: 100, Height: 12})
			tm.Send(tc.msg)
			tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
			finalPreview(t, tm)
		})
	}
}

func TestPreviewRendersHeaderAndStats(t *testing.T) {
	model := New(BuildMetadata(theme.Default(), testShow()), WithTitle("tv", "Show Analysis - /dl/Show"))
	tm := startPreview(t, model)

	waitForOutput(t, tm, "Show Analysis - /dl/Show")
	waitForOutput(t, tm, "Episodes:")

	sendKey(tm, tea.KeyCtrlC)
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := finalPreview(t, tm)
	want := Statistics{Shows: 1, Seasons: 2, Episodes: 3, Media: 4, Subtitles: 1, Diverted: 1}
	if diff := cmp.Diff(want, final.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviewStatsFocusAndScroll(t *testing.T) {
	model := New(BuildMetadata(theme.Default(), testShow()))
	tm := startPreview(t, model)

	waitForOutput(t, tm, "TV Shows:")
	tm.Send(tea.WindowSizeMsg{Width: 100, Height: 12})

	sendKey(tm, tea.KeyTab)
	waitForOutput(t, tm, "Tab: Tree Focus")
	sendKey(tm, tea.KeyDown)

	sendKey(tm, tea.KeyCtrlC)
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := finalPreview(t, tm)
	if !final.statsFocused {
		t.Error("statsFocused = false, want true after Tab")
	}
	if final.statsViewport.YOffset == 0 {
		t.Fatalf("statsViewport.YOffset = 0, height=%d, totalLines=%d", final.statsViewport.Height, final.statsViewport.TotalLineCount())
	}
}

func TestPreviewPageNavigation(t *testing.T) {
	results := pagedResults(25)

	t.Run("PageDownMovesForward", func(t *testing.T) {
		model := New(Build(theme.Default(), results...))
		first := focusFirst(t, model)
		tm := startPreview(t, model)
		sendKey(tm, tea.KeyPgDown)
		sendKey(tm, tea.KeyCtrlC)
		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
		final := finalPreview(t, tm)
		if got := nodeID(final.TuiTreeModel.Tree.GetFocusedNode()); got == first {
			t.Fatalf("focused ID = %q after PgDn, want it to move from %q", got, first)
		}
	})

	t.Run("PageUpReturnsToStart", func(t *testing.T) {
		model := New(Build(theme.Default(), results...))
		first := focusFirst(t, model)
		tm := startPreview(t, model)
		sendKey(tm, tea.KeyPgDown)
		sendKey(tm, tea.KeyPgUp)
		sendKey(tm, tea.KeyCtrlC)
		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
		final := finalPreview(t, tm)
		if got := nodeID(final.TuiTreeModel.Tree.GetFocusedNode()); got != first {
			t.Fatalf("focused ID = %q, want %q", got, first)
		}
	})
}

func TestStatsViewportFollowsThemeFrame(t *testing.T) {
	tests := []struct {
		name  string
		th    theme.Theme
		frame int
	}{
		{name: "default", th: theme.Default(), frame: 4},
		{
			name: "hidden border without padding",
			th: theme.New(
				theme.WithBorders(theme.Borders{Panel: lipgloss.HiddenBorder()}),
				theme.WithSpacing(theme.Spacing{PanelPadding: 0, PanelGap: 2, StatusHPadding: 1}),
			),
			frame: 2,
		},
		{
			name:  "wide padding",
			th:    theme.New(theme.WithSpacing(theme.Spacing{PanelPadding: 3, PanelGap: 2, StatusHPadding: 1})),
			frame: 8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(Build(tc.th, pagedResults(2)...), WithTheme(tc.th))
			m.width, m.height = 100, 30
			m.CalculateLayout()

			if got, want := m.statsViewport.Width, m.statsWidth-tc.frame; got != want {
				t.Errorf("viewport width = %d, want %d", got, want)
			}
			if got, want := m.statsViewport.Height, m.statsHeight-tc.frame; got != want {
				t.Errorf("viewport height = %d, want %d", got, want)
			}
		})
	}
}
