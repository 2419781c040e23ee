// Package report renders analysis results as static styled text for
// non-interactive output.
package report

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/log"
	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// indentOf is the per-level indent of a report, one column per unit of panel
// gap.
func indentOf(th theme.Theme) string {
	return strings.Repeat(" ", max(th.Spacing().PanelGap, 1))
}

// RenderMetadata renders one analysis result.
func RenderMetadata(th theme.Theme, md *metadata.Metadata) string {
	indent := indentOf(th)
	var b strings.Builder
	writeTitle(&b, th, md)

	label := th.LabelStyle()
	muted := th.MutedStyle()
	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s%s %s\n", indent, label.Render(fmt.Sprintf("%-11s", name+":")), value)
	}
	if md.OriginalTitle != md.Title {
		field("Original", md.OriginalTitle)
	}
	field("Root", folderPath(md.Root))
	if md.MediaRoot != nil && md.Root != nil && md.MediaRoot.Path() != md.Root.Path() {
		field("Media root", muted.Render(md.MediaRoot.Path()))
	}

	if md.Type == metadata.Movie {
		writeFiles(&b, th, indent, "Media files", "media", md.MediaFiles)
		writeFiles(&b, th, indent, "Subtitles", "subtitle", md.Subtitles)
		return strings.TrimRight(b.String(), "\n")
	}

	for _, idx := range md.SeasonIndices() {
		writeSeason(&b, th, md.Seasons[idx])
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeTitle(b *strings.Builder, th theme.Theme, md *metadata.Metadata) {
	icon := th.Icon("movie")
	if md.Type == metadata.TV {
		icon = th.Icon("tv")
	}
	title := th.HeaderStyle().Render(md.Title)
	badge := th.BadgeStyle(theme.BadgeInfo).Render(strings.ToUpper(string(md.Type)))
	fmt.Fprintf(b, "%s %s %s\n", icon, title, badge)
}

func writeSeason(b *strings.Builder, th theme.Theme, s *metadata.SeasonMetadata) {
	indent := indentOf(th)
	heading := lipgloss.NewStyle().Foreground(th.Colors().Secondary).Bold(true).
		Render(fmt.Sprintf("Season %02d", s.Index))
	fmt.Fprintf(b, "\n%s%s %s %s\n", indent, th.Icon("season"), heading, th.MutedStyle().Render(s.OriginalTitle))

	inner := indent + indent
	if p := folderPath(s.MediaRoot); p != "" && p != folderPath(s.Root) {
		fmt.Fprintf(b, "%s%s %s\n", inner, th.LabelStyle().Render("Media root:"), th.MutedStyle().Render(p))
	}
	for _, ep := range s.EpisodeIndices() {
		fmt.Fprintf(b, "%s%s %s %s\n", inner, th.Icon("episode"), th.LabelStyle().Render(fmt.Sprintf("E%02d", ep)), s.Episodes[ep].Title())
	}
	if len(s.Diverted) > 0 {
		warn := lipgloss.NewStyle().Foreground(th.Colors().Warning)
		fmt.Fprintf(b, "%s%s %s\n", inner, th.Icon("warning"), warn.Render(fmt.Sprintf("Unindexed (%d)", len(s.Diverted))))
		for _, f := range s.Diverted {
			fmt.Fprintf(b, "%s%s• %s\n", inner, indent, warn.Render(f.Title()))
		}
	}
	writeFiles(b, th, inner, "Subtitles", "subtitle", s.Subtitles)
}

func writeFiles(b *strings.Builder, th theme.Theme, prefix, heading, iconKey string, files []*tree.File) {
	indent := indentOf(th)
	if len(files) == 0 {
		fmt.Fprintf(b, "%s%s %s\n", prefix, th.Icon(iconKey), th.MutedStyle().Render(fmt.Sprintf("%s: none", heading)))
		return
	}
	fmt.Fprintf(b, "%s%s %s\n", prefix, th.Icon(iconKey), th.LabelStyle().Render(fmt.Sprintf("%s (%d)", heading, len(files))))
	for _, f := range files {
		name := f.Title()
		if f.Type() == media.FileArchivedSubtitle {
			name = fmt.Sprintf("%s %s", th.Icon("archive"), name)
		}
		fmt.Fprintf(b, "%s%s• %s\n", prefix, indent, name)
	}
}

func folderPath(f *tree.Folder) string {
	if f == nil {
		return ""
	}
	return f.Path()
}

// Summarize describes a result in a few words, such as "2 seasons, 13 episodes".
func Summarize(md *metadata.Metadata) string {
	if md.Type == metadata.Movie {
		return fmt.Sprintf("%s, %s",
			plural(len(md.MediaFiles), "media file"), plural(len(md.Subtitles), "subtitle"))
	}
	parts := []string{plural(len(md.Seasons), "season"), plural(md.EpisodeCount(), "episode")}
	if n := md.DivertedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unindexed", n))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// RenderScan renders one line per scan result followed by totals.
func RenderScan(th theme.Theme, dir string, results []library.Result) string {
	indent := indentOf(th)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", th.Icon("stats"), th.HeaderStyle().Render("Library "+dir))

	ok, failed := 0, 0
	for _, r := range results {
		if r.Err != nil || r.Metadata == nil {
			failed++
			reason := "no result"
			if r.Err != nil {
				reason = r.Err.Error()
			}
			fmt.Fprintf(&b, "%s%s %s %s\n", indent, th.BadgeStyle(theme.BadgeError).Render("FAIL"), r.Name,
				lipgloss.NewStyle().Foreground(th.Colors().Error).Render(reason))
			continue
		}
		ok++
		md := r.Metadata
		title := md.Title
		if title != r.Name {
			title = fmt.Sprintf("%s %s", title, th.MutedStyle().Render("("+r.Name+")"))
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", indent, th.BadgeStyle(theme.BadgeSuccess).Render(" OK "), title,
			th.MutedStyle().Render(Summarize(md)))
	}

	fmt.Fprintf(&b, "\n%s %d analysed, %d failed", th.LabelStyle().Render("Total:"), ok, failed)
	return b.String()
}

// RenderHistory renders analysis sessions, newest first as given.
func RenderHistory(th theme.Theme, sessions []*log.LogSession) string {
	indent := indentOf(th)
	if len(sessions) == 0 {
		return th.MutedStyle().Render("No analysis history recorded.")
	}

	var b strings.Builder
	for i, s := range sessions {
		if i > 0 {
			b.WriteByte('\n')
		}
		md := s.Metadata
		heading := fmt.Sprintf("%s  %s", md.Timestamp.Local().Format("2006-01-02 15:04:05"), strings.Join(md.CommandArgs, " "))
		fmt.Fprintf(&b, "%s %s\n", th.Icon("history"), th.LabelStyle().Render(heading))
		fmt.Fprintf(&b, "%s%s\n", indent, th.MutedStyle().Render(fmt.Sprintf("%s · %d analysed, %d failed", md.WorkingDir, md.Succeeded, md.Failed)))
		for _, a := range s.Analyses {
			if a.Success {
				fmt.Fprintf(&b, "%s%s %s %s\n", indent, th.Icon("success"), a.Title, th.MutedStyle().Render(historyDetail(a)))
			} else {
				fmt.Fprintf(&b, "%s%s %s %s\n", indent, th.Icon("error"), a.Path,
					lipgloss.NewStyle().Foreground(th.Colors().Error).Render(a.Error))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func historyDetail(a log.AnalysisLog) string {
	if a.MediaType == metadata.Movie {
		return fmt.Sprintf("%s, %s", plural(a.MediaFiles, "media file"), plural(a.Subtitles, "subtitle"))
	}
	detail := fmt.Sprintf("%s, %s", plural(len(a.Seasons), "season"), plural(a.Episodes, "episode"))
	if len(a.Diverted) > 0 {
		detail += fmt.Sprintf(", %d unindexed", len(a.Diverted))
	}
	return detail
}
