package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scanEventMsg struct {
	event library.Event
	done  bool
}

const scanErrorBaseLines = 6

// ScanProgressModel displays progress while a library scan runs.
type ScanProgressModel struct {
	scanner  *library.Scanner
	dir      string
	events   <-chan library.Event
	summary  library.Summary
	errors   []string
	fatalErr error

	width  int
	height int

	progress progress.Model
	theme    theme.Theme

	ctx    context.Context
	cancel context.CancelFunc

	done bool
}

// NewScanProgressModel creates a progress model that scans dir with scanner.
func NewScanProgressModel(scanner *library.Scanner, dir string, th theme.Theme) *ScanProgressModel {
	gradient := th.ProgressGradient()
	if len(gradient) < 2 {
		colors := th.Colors()
		gradient = []string{string(colors.Primary), string(colors.Accent)}
	}
	prog := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	prog.Width = 50

	return &ScanProgressModel{
		scanner:  scanner,
		dir:      dir,
		summary:  scanner.SummarySnapshot(),
		width:    80,
		height:   12,
		progress: prog,
		theme:    th,
	}
}

// Init starts the scan.
func (m *ScanProgressModel) Init() tea.Cmd {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	events, err := m.scanner.Start(m.ctx, m.dir)
	if err != nil {
		m.fatalErr = err
		m.done = true
		return tea.Quit
	}
	m.events = events
	return m.waitForEvent()
}

func (m *ScanProgressModel) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return scanEventMsg{done: true}
		}
		return scanEventMsg{event: evt}
	}
}

// Update processes Bubble Tea messages.
func (m *ScanProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case scanEventMsg:
		return m.handleScanEvent(msg)
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *ScanProgressModel) handleScanEvent(msg scanEventMsg) (tea.Model, tea.Cmd) {
	if msg.done {
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.summary = m.scanner.SummarySnapshot()
		m.done = true
		return m, tea.Quit
	}

	m.summary = msg.event.Summary
	if err := msg.event.Err; err != nil {
		if errors.Is(err, context.Canceled) {
			m.fatalErr = err
		} else {
			m.errors = append(m.errors, fmt.Sprintf("%s: %v", m.summary.LastItem, err))
		}
	}

	ratio := 0.0
	if m.summary.TotalItems > 0 {
		ratio = float64(m.summary.ProcessedItems) / float64(m.summary.TotalItems)
	}
	cmd := m.progress.SetPercent(ratio)
	if m.summary.Done {
		m.done = true
		return m, tea.Batch(cmd, tea.Quit)
	}
	return m, tea.Batch(cmd, m.waitForEvent())
}

// View renders the progress UI.
func (m *ScanProgressModel) View() string {
	if m.fatalErr != nil && !errors.Is(m.fatalErr, context.Canceled) {
		return fmt.Sprintf("Error: %v\n", m.fatalErr)
	}

	if m.summary.TotalItems == 0 {
		return "Listing library entries...\n"
	}

	percent := 100 * m.summary.ProcessedItems / m.summary.TotalItems

	statsLines := []string{
		fmt.Sprintf("Total Entries: %d", m.summary.TotalItems),
		fmt.Sprintf("Analysed: %d", m.summary.ProcessedItems),
		fmt.Sprintf("Failed: %d", m.summary.FailedItems),
		fmt.Sprintf("Progress: %d%%", percent),
		fmt.Sprintf("Max Worker Pool: %d workers", m.summary.WorkerLimit),
	}

	statusText := "Analysing library entries in parallel... please wait"
	if m.summary.LastItem != "" {
		statusText = m.summary.LastItem
	}

	colors := m.theme.Colors()
	workers := lipgloss.NewStyle().
		Foreground(colors.Accent).
		Bold(true).
		Render(fmt.Sprintf("Library: %s | Active Workers: %d", m.dir, m.summary.ActiveWorkers))

	sections := []string{
		m.theme.HeaderStyle().Width(m.width).Render(fmt.Sprintf("%s Scanning Library", m.theme.Icon("stats"))),
		workers,
		m.progress.View(),
		fmt.Sprintf("Entries processed: %d/%d", m.summary.ProcessedItems, m.summary.TotalItems),
		m.renderStatsPanel(statsLines),
		m.theme.StatusBarStyle().Width(m.width).Render(statusText),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ScanProgressModel) renderStatsPanel(statsLines []string) string {
	panel := m.theme.PanelStyle()
	panelWidth := max(m.width-panel.GetHorizontalFrameSize(), 0)

	blocks := []string{strings.Join(statsLines, "\n")}
	if errBlock := m.renderErrorBlock(); errBlock != "" {
		blocks = append(blocks, errBlock)
	}
	return panel.Width(panelWidth).Render(strings.Join(blocks, "\n"))
}

// renderErrorBlock lists the most recent failures that fit the window.
func (m *ScanProgressModel) renderErrorBlock() string {
	if len(m.errors) == 0 {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Error)

	maxErrorLines := max(m.height-scanErrorBaseLines-1, 1)
	errorsToShow := min(len(m.errors), maxErrorLines)
	startIdx := len(m.errors) - errorsToShow
	availableWidth := max(m.width-2, 10)

	lines := make([]string, 0, errorsToShow+2)
	lines = append(lines, fmt.Sprintf("Errors: %d", len(m.errors)))
	for _, msg := range m.errors[startIdx:] {
		if len(msg) > availableWidth {
			msg = msg[:availableWidth-3] + "..."
		}
		lines = append(lines, fmt.Sprintf("• %s", msg))
	}
	if len(m.errors) > errorsToShow {
		lines = append(lines, fmt.Sprintf("... and %d more", len(m.errors)-errorsToShow))
	}
	return errorStyle.Render(strings.Join(lines, "\n"))
}

// Done reports whether the scan finished without being interrupted.
func (m *ScanProgressModel) Done() bool {
	return m.done && !m.summary.Canceled && m.fatalErr == nil
}

// Results returns the scan results gathered so far.
func (m *ScanProgressModel) Results() []library.Result {
	return m.scanner.Results()
}

// Summary returns the last observed scan summary.
func (m *ScanProgressModel) Summary() library.Summary {
	return m.summary
}

// Err returns the error that stopped the scan, if any. Per-entry failures are
// part of the results instead.
func (m *ScanProgressModel) Err() error {
	return m.fatalErr
}
