package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/log"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"
)

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func testShow() *metadata.Metadata {
	e1 := tree.NewFile("/dl/Show/Season 1/Show.S01E01.mkv")
	e2 := tree.NewFile("/dl/Show/Season 1/Show.S01E02.mkv")
	extra := tree.NewFile("/dl/Show/Season 1/Show.Extras.mkv")
	return &metadata.Metadata{
		Type:          metadata.TV,
		Title:         "Show",
		OriginalTitle: "Show.Complete",
		Seasons: map[int]*metadata.SeasonMetadata{
			1: {
				Index: 1, Title: "Show", OriginalTitle: "Season 1",
				MediaFiles: []*tree.File{e1, e2, extra},
				Episodes:   map[int]*tree.File{1: e1, 2: e2},
				Diverted:   []*tree.File{extra},
				Subtitles:  []*tree.File{tree.NewFile("/dl/Show/Subs/subs.zip")},
			},
		},
	}
}

func TestRenderMetadataMovie(t *testing.T) {
	md := &metadata.Metadata{
		Type:          metadata.Movie,
		Title:         "Heat 1995",
		OriginalTitle: "Heat.1995.1080p",
		MediaFiles:    []*tree.File{tree.NewFile("/dl/Heat.1995.1080p/Heat.1995.mkv")},
	}
	got := RenderMetadata(theme.Default(), md)
	assertContains(t, got, "Heat 1995", "MOVIE", "Heat.1995.1080p", "Media files (1)", "Heat.1995.mkv", "Subtitles: none")
}

func TestRenderMetadataShow(t *testing.T) {
	got := RenderMetadata(theme.Default(), testShow())
	assertContains(t, got, "TV", "Show.Complete", "Season 01", "E01", "Show.S01E01.mkv", "E02", "Unindexed (1)", "Show.Extras.mkv", "Subtitles (1)", "subs.zip")
	if strings.HasSuffix(got, "\n") {
		t.Error("RenderMetadata() output ends with a newline")
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		md   *metadata.Metadata
		want string
	}{
		{
			name: "movie",
			md:   &metadata.Metadata{Type: metadata.Movie, MediaFiles: []*tree.File{tree.NewFile("/a.mkv")}},
			want: "1 media file, 0 subtitles",
		},
		{name: "show", md: testShow(), want: "1 season, 2 episodes, 1 unindexed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Summarize(tc.md); got != tc.want {
				t.Errorf("Summarize() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderScan(t *testing.T) {
	results := []library.Result{
		{Name: "Broken", Path: "/lib/Broken", Err: errors.New("no media files anywhere below folder")},
		{Name: "Show.Complete", Path: "/lib/Show.Complete", Metadata: testShow()},
	}
	got := RenderScan(theme.Default(), "/lib", results)
	assertContains(t, got, "Library /lib", "FAIL", "Broken", "no media files anywhere below folder", "OK", "Show", "(Show.Complete)", "2 episodes", "1 analysed, 1 failed")
}

func TestRenderHistory(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assertContains(t, RenderHistory(theme.Default(), nil), "No analysis history recorded.")
	})

	sessions := []*log.LogSession{{
		Metadata: log.SessionMetadata{
			CommandArgs: []string{"title-lens", "tv", "/dl/Show"},
			WorkingDir:  "/dl",
			Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Succeeded:   1,
			Failed:      1,
		},
		Analyses: []log.AnalysisLog{
			{MediaType: metadata.TV, Path: "/dl/Show", Title: "Show", Seasons: []int{1, 2}, Episodes: 12, Diverted: []string{"x.mkv"}, Success: true},
			{MediaType: metadata.Movie, Path: "/dl/Empty", Error: "media root not found", Success: false},
		},
	}}
	got := RenderHistory(theme.Default(), sessions)
	assertContains(t, got, "title-lens tv /dl/Show", "1 analysed, 1 failed", "Show", "2 seasons, 12 episodes, 1 unindexed", "/dl/Empty", "media root not found")
}

func TestRenderMetadataIndentFollowsPanelGap(t *testing.T) {
	tests := []struct {
		name  string
		gap   int
		inner string
	}{
		{name: "default gap", gap: 2, inner: "    "},
		{name: "wide gap", gap: 4, inner: "        "},
		{name: "no gap keeps one column", gap: 0, inner: "  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			th := theme.New(theme.WithSpacing(theme.Spacing{PanelPadding: 1, PanelGap: tc.gap, StatusHPadding: 1}))
			got := RenderMetadata(th, testShow())

			episode := "\n" + tc.inner + th.Icon("episode") + " "
			if !strings.Contains(got, episode) {
				t.Errorf("episode line not indented by %d columns:\n%s", len(tc.inner), got)
			}
			deeper := "\n" + tc.inner + " " + th.Icon("episode")
			if strings.Contains(got, deeper) {
				t.Errorf("episode line indented past %d columns:\n%s", len(tc.inner), got)
			}
		})
	}
}
