package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/tui/components"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Model wraps the treeview TUI model with a header, a statistics panel and a
// status bar. It is read only: nothing on disk is touched.
type Model struct {
	*treeview.TuiTreeModel[treeview.FileInfo]
	width  int
	height int

	// Header text after the icon
	Title string
	// Icon key used in the header
	IconKey string

	// Layout metrics
	treeWidth   int
	treeHeight  int
	statsWidth  int
	statsHeight int

	statsCache Statistics
	statsDirty bool

	theme theme.Theme

	statsViewport *viewport.Model
	statsFocused  bool
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the theme used by the preview.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) {
		m.theme = th
	}
}

// WithTitle sets the header text and icon.
func WithTitle(iconKey, title string) Option {
	return func(m *Model) {
		m.IconKey = iconKey
		m.Title = title
	}
}

// New returns a Model for tree with default dimensions, adjusted on the first
// WindowSize message.
func New(tree *treeview.Tree[treeview.FileInfo], opts ...Option) *Model {
	m := &Model{
		width:      80,
		height:     24,
		statsDirty: true,
		IconKey:    "default",
		Title:      "Analysis",
	}

	initOpts := append([]Option{WithTheme(theme.Default())}, opts...)
	for _, opt := range initOpts {
		opt(m)
	}

	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true

	m.CalculateLayout()
	m.statsViewport = components.NewStatsViewport(m.statsWidth, m.statsHeight, m.theme)
	m.TuiTreeModel = m.createSizedTuiModel(tree)
	return m
}

func (m *Model) arrowIcons() (string, string) {
	icons := []rune(m.theme.Icon("arrows"))
	switch {
	case len(icons) >= 4:
		return string(icons[0:2]), string(icons[2:4])
	case len(icons) >= 2:
		return string(icons[0]), string(icons[1:])
	default:
		return "↑↓", "←→"
	}
}

// CalculateLayout recomputes panel dimensions from the current window size.
func (m *Model) CalculateLayout() {
	tw := m.width * 6 / 10
	// header, two separators and the status bar
	th := m.height - 4
	if th < 5 {
		th = 5
	}
	m.treeWidth = tw
	m.treeHeight = th
	m.statsWidth = m.width - tw
	m.statsHeight = max(th, 1)

	if m.statsViewport != nil && (m.statsViewport.Width > 0 || m.statsViewport.Height > 0) {
		frameW, frameH := m.panelFrame()
		m.statsViewport.Width = max(m.statsWidth-frameW, 1)
		m.statsViewport.Height = max(m.statsHeight-frameH, 1)
	}
}

// panelFrame returns the columns and rows taken by the stats panel border and
// padding.
func (m *Model) panelFrame() (int, int) {
	border := m.theme.Borders().Panel
	pad := 2 * m.theme.Spacing().PanelPadding
	return border.GetLeftSize() + border.GetRightSize() + pad,
		border.GetTopSize() + border.GetBottomSize() + pad
}

// createSizedTuiModel builds a tree model sized to the current dimensions with
// search and reset disabled.
func (m *Model) createSizedTuiModel(tree *treeview.Tree[treeview.FileInfo]) *treeview.TuiTreeModel[treeview.FileInfo] {
	keyMap := treeview.DefaultKeyMap()
	keyMap.SearchStart = []string{}
	keyMap.Reset = []string{}

	return treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[treeview.FileInfo](m.treeWidth),
		treeview.WithTuiHeight[treeview.FileInfo](m.treeHeight),
		treeview.WithTuiAllowResize[treeview.FileInfo](true),
		treeview.WithTuiDisableNavBar[treeview.FileInfo](true),
		treeview.WithTuiKeyMap[treeview.FileInfo](keyMap),
	)
}

// Init initializes the embedded tree model and requests the window size.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TuiTreeModel.Init(),
		tea.WindowSize(),
	)
}

// Update handles resize, navigation and quit keys, and mouse wheel scrolling.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.CalculateLayout()
		updated, cmd := m.TuiTreeModel.Update(tea.WindowSizeMsg{Width: m.treeWidth, Height: m.treeHeight})
		if tm, ok := updated.(*treeview.TuiTreeModel[treeview.FileInfo]); ok {
			m.TuiTreeModel = tm
		}
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.statsFocused = !m.statsFocused
			return m, nil
		case "up":
			if m.statsFocused {
				m.statsViewport.ScrollUp(1)
				return m, nil
			}
		case "down":
			if m.statsFocused {
				m.statsViewport.ScrollDown(1)
				return m, nil
			}
		case "pgup":
			if m.statsFocused {
				m.statsViewport.HalfPageUp()
				return m, nil
			}
			m.TuiTreeModel.Tree.Move(context.Background(), -max(m.treeHeight, 10))
			return m, nil
		case "pgdown":
			if m.statsFocused {
				m.statsViewport.HalfPageDown()
				return m, nil
			}
			m.TuiTreeModel.Tree.Move(context.Background(), max(m.treeHeight, 10))
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		step := 0
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			step = -1
		case tea.MouseButtonWheelDown:
			step = 1
		}
		if step == 0 {
			break
		}
		switch {
		case m.statsFocused && step < 0:
			m.statsViewport.ScrollUp(1)
		case m.statsFocused:
			m.statsViewport.ScrollDown(1)
		default:
			m.TuiTreeModel.Tree.Move(context.Background(), step)
		}
		return m, nil
	}

	updatedModel, cmd := m.TuiTreeModel.Update(msg)
	if tm, ok := updatedModel.(*treeview.TuiTreeModel[treeview.FileInfo]); ok {
		m.TuiTreeModel = tm
	}
	return m, cmd
}

// View returns the header, the tree and stats panels, and the status bar.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderTwoPanelLayout())
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderHeader() string {
	style := m.theme.HeaderStyle().Width(m.width)
	return style.Render(fmt.Sprintf("%s %s", m.theme.Icon(m.IconKey), m.Title))
}

func (m *Model) renderStatusBar() string {
	focusInfo := "Tab: Stats Focus"
	if m.statsFocused {
		focusInfo = "Tab: Tree Focus"
	}
	upDown, leftRight := m.arrowIcons()
	statusText := fmt.Sprintf("%s  │  %s: Navigate  PgUp/PgDn: Page  %s: Expand/Collapse  │  Esc/Ctrl+C: Quit",
		focusInfo, upDown, leftRight)
	return m.theme.StatusBarStyle().Width(m.width - 1).Render(statusText)
}

func (m *Model) renderTwoPanelLayout() string {
	statsPanel := m.renderStatsPanel()
	treeContainer := lipgloss.NewStyle().
		Width(m.treeWidth).
		MaxWidth(m.treeWidth).
		Render(m.TuiTreeModel.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, treeContainer, statsPanel)
}

func (m *Model) renderStatsPanel() string {
	if m.statsDirty || m.statsViewport.View() == "" {
		m.updateStatsContent()
	}

	borderStyle := m.theme.PanelStyle()
	title := components.StatsTitle(m.theme, m.statsViewport, m.statsFocused)

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.statsViewport.View())
	return borderStyle.
		Width(m.statsWidth - borderStyle.GetHorizontalFrameSize()).
		Height(m.statsHeight - borderStyle.GetVerticalFrameSize()).
		Render(content)
}

func (m *Model) updateStatsContent() {
	stats := m.Stats()
	var b strings.Builder
	b.Grow(512)

	th := m.theme

	b.WriteString("Titles:\n")
	b.WriteString(components.StatLine(th, "movie", "Movies", stats.Movies))
	b.WriteString(components.StatLine(th, "tv", "TV Shows", stats.Shows))
	if stats.Failed > 0 {
		b.WriteString(components.StatLine(th, "error", "Failed", stats.Failed))
	}

	b.WriteString("\nContents:\n")
	b.WriteString(components.StatLine(th, "season", "Seasons", stats.Seasons))
	b.WriteString(components.StatLine(th, "episode", "Episodes", stats.Episodes))
	b.WriteString(components.StatLine(th, "media", "Media", stats.Media))
	b.WriteString(components.StatLine(th, "subtitle", "Subtitles", stats.Subtitles))
	b.WriteString(components.StatLine(th, "archive", "Archives", stats.Archives))
	if stats.Diverted > 0 {
		b.WriteString(components.StatLine(th, "diverted", "Unindexed", stats.Diverted))
	}

	if files := stats.Episodes + stats.Diverted; files > 0 {
		fmt.Fprintf(&b, "\nIndexed: %d%%", stats.Episodes*100/files)
	}
	m.statsViewport.SetContent(b.String())
}

// Statistics counts result tree nodes by role.
type Statistics struct {
	Movies    int
	Shows     int
	Failed    int
	Seasons   int
	Episodes  int
	Media     int
	Subtitles int
	Archives  int
	Diverted  int
}

// Stats walks the tree and counts annotated nodes. The result is cached until
// the tree changes.
func (m *Model) Stats() Statistics {
	if !m.statsDirty {
		return m.statsCache
	}
	var stats Statistics
	for info := range m.TuiTreeModel.Tree.All(context.Background()) {
		a := components.GetAnnotation(info.Node)
		if a == nil {
			continue
		}
		switch a.Role {
		case components.RoleMovie:
			stats.Movies++
		case components.RoleShow:
			stats.Shows++
		case components.RoleError:
			stats.Failed++
		case components.RoleSeason:
			stats.Seasons++
		case components.RoleEpisode:
			stats.Episodes++
			stats.Media++
		case components.RoleMedia:
			stats.Media++
		case components.RoleDiverted:
			stats.Diverted++
			stats.Media++
		case components.RoleSubtitle:
			stats.Subtitles++
		case components.RoleArchive:
			stats.Archives++
		}
	}
	m.statsCache = stats
	m.statsDirty = false
	return stats
}
