package components

import (
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
)

// annotationRule adapts an annotation predicate to a node predicate. Nodes
// without an annotation never match.
func annotationRule(cond func(*Annotation) bool) func(*treeview.Node[treeview.FileInfo]) bool {
	return func(n *treeview.Node[treeview.FileInfo]) bool {
		if a := GetAnnotation(n); a != nil {
			return cond(a)
		}
		return false
	}
}

// roleIs returns a predicate matching nodes with role r.
func roleIs(r Role) func(*treeview.Node[treeview.FileInfo]) bool {
	return annotationRule(func(a *Annotation) bool { return a.Role == r })
}

// CreatePreviewProvider constructs the [treeview.DefaultNodeProvider] used to
// render analysis results. Error icons and styles take precedence over role
// icons and styles.
func CreatePreviewProvider(th theme.Theme) *treeview.DefaultNodeProvider[treeview.FileInfo] {
	colors := th.Colors()
	iconSet := th.IconSet()
	icon := func(key string) string {
		if v, ok := iconSet[key]; ok {
			return v
		}
		return th.Icon(key)
	}

	errorIconRule := treeview.WithIconRule(roleIs(RoleError), icon("error"))
	movieIconRule := treeview.WithIconRule(roleIs(RoleMovie), icon("movie"))
	showIconRule := treeview.WithIconRule(roleIs(RoleShow), icon("tv"))
	seasonIconRule := treeview.WithIconRule(roleIs(RoleSeason), icon("season"))
	episodeIconRule := treeview.WithIconRule(roleIs(RoleEpisode), icon("episode"))
	mediaIconRule := treeview.WithIconRule(roleIs(RoleMedia), icon("media"))
	subtitleIconRule := treeview.WithIconRule(roleIs(RoleSubtitle), icon("subtitle"))
	archiveIconRule := treeview.WithIconRule(roleIs(RoleArchive), icon("archive"))
	divertedIconRule := treeview.WithIconRule(roleIs(RoleDiverted), icon("diverted"))
	groupIconRule := treeview.WithIconRule(roleIs(RoleGroup), icon("folder"))
	defaultIconRule := treeview.WithDefaultIcon[treeview.FileInfo](icon("default"))

	titleStyle := lipgloss.NewStyle().Foreground(colors.Primary).Bold(true)
	titleFocused := lipgloss.NewStyle().Foreground(colors.Background).Bold(true).Background(colors.Secondary).PaddingRight(1)
	fileFocused := lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Primary)

	errorStyleRule := treeview.WithStyleRule(
		roleIs(RoleError),
		lipgloss.NewStyle().Foreground(colors.Error),
		lipgloss.NewStyle().Foreground(colors.Error).Background(colors.Background),
	)
	movieStyleRule := treeview.WithStyleRule(roleIs(RoleMovie), titleStyle, titleFocused)
	showStyleRule := treeview.WithStyleRule(roleIs(RoleShow), titleStyle, titleFocused)
	seasonStyleRule := treeview.WithStyleRule(
		roleIs(RoleSeason),
		lipgloss.NewStyle().Foreground(colors.Secondary).Bold(true),
		lipgloss.NewStyle().Foreground(colors.Background).Bold(true).Background(colors.Primary),
	)
	divertedStyleRule := treeview.WithStyleRule(
		roleIs(RoleDiverted),
		lipgloss.NewStyle().Foreground(colors.Warning),
		lipgloss.NewStyle().Foreground(colors.Warning).Background(colors.Background),
	)
	groupStyleRule := treeview.WithStyleRule(
		roleIs(RoleGroup),
		lipgloss.NewStyle().Foreground(colors.Accent).Italic(true),
		fileFocused,
	)
	fileStyleRule := treeview.WithStyleRule(
		annotationRule(func(a *Annotation) bool {
			return a.Role == RoleEpisode || a.Role == RoleMedia || a.Role == RoleSubtitle || a.Role == RoleArchive
		}),
		lipgloss.NewStyle().Foreground(colors.Muted),
		fileFocused,
	)
	defaultStyleRule := treeview.WithStyleRule(
		func(*treeview.Node[treeview.FileInfo]) bool { return true },
		lipgloss.NewStyle().Foreground(colors.Primary),
		fileFocused,
	)

	formatterRule := treeview.WithFormatter(PreviewFormatter)

	return treeview.NewDefaultNodeProvider(
		// Icon rules (order matters - most specific first)
		errorIconRule, movieIconRule, showIconRule, seasonIconRule, episodeIconRule, mediaIconRule,
		subtitleIconRule, archiveIconRule, divertedIconRule, groupIconRule, defaultIconRule,
		// Style rules (order matters - most specific first)
		errorStyleRule, movieStyleRule, showStyleRule, seasonStyleRule, divertedStyleRule, groupStyleRule,
		fileStyleRule, defaultStyleRule,
		formatterRule,
	)
}

// PreviewFormatter produces the display label for a result node.
//
//   - Without an annotation the node name is shown.
//   - Episodes read "E03 ← file.mkv" so the inferred number sits next to the source.
//   - Failed entries show the name and the failure.
//   - Otherwise the label, or the name, followed by the detail in parentheses.
func PreviewFormatter(node *treeview.Node[treeview.FileInfo]) (string, bool) {
	a := GetAnnotation(node)
	if a == nil {
		return node.Name(), true
	}

	label := a.Label
	if label == "" {
		label = node.Name()
	}

	switch a.Role {
	case RoleEpisode:
		return fmt.Sprintf("E%02d ← %s", a.Index, node.Name()), true
	case RoleError:
		return fmt.Sprintf("%s: %s", label, a.Failure), true
	}
	if a.Detail != "" {
		return fmt.Sprintf("%s (%s)", label, a.Detail), true
	}
	return label, true
}
