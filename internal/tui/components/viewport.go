package components

import (
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// NewStatsViewport constructs the borderless viewport inside a statistics
// panel.
func NewStatsViewport(width, height int, th theme.Theme) *viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = th.PanelStyle().
		BorderStyle(lipgloss.Border{}).
		BorderForeground(lipgloss.Color(""))
	return &vp
}

// StatsTitle renders the panel title. A scroll hint is added when the content
// does not fit vp.
func StatsTitle(th theme.Theme, vp *viewport.Model, focused bool) string {
	hint := ""
	if vp.TotalLineCount() > vp.Height {
		if focused {
			hint = " [Use Tab+↑↓]"
		} else {
			hint = " [Tab to scroll]"
		}
	}
	return th.PanelTitleStyle().MarginBottom(1).Render(fmt.Sprintf("%s Statistics%s", th.Icon("stats"), hint))
}

// StatLine renders one indented counter row.
func StatLine(th theme.Theme, iconKey, label string, value int) string {
	return fmt.Sprintf("  %s %-12s %d\n", th.Icon(iconKey), label+":", value)
}
