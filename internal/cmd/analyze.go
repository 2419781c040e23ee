package cmd

import (
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/analyzer"
	"github.com/Digital-Shane/title-lens/internal/log"
	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/Digital-Shane/title-lens/internal/tui"
	"github.com/Digital-Shane/title-lens/internal/tui/report"

	"github.com/spf13/cobra"
)

// analyzeKind describes one single-root analysis command.
type analyzeKind struct {
	mediaType metadata.MediaType
	use       string
	aliases   []string
	short     string
	long      string
}

var (
	analyzeMovie = analyzeKind{
		mediaType: metadata.Movie,
		use:       "movie [path]",
		aliases:   []string{"movies", "film"},
		short:     "Analyse a movie download folder",
		long: `Analyse a movie download folder and report its title, media files and subtitles.

The path defaults to the current directory.`,
	}
	analyzeTV = analyzeKind{
		mediaType: metadata.TV,
		use:       "tv [path]",
		aliases:   []string{"show", "series"},
		short:     "Analyse a TV series download folder",
		long: `Analyse a TV series download folder and report its seasons, the episode number
inferred for every media file, and the subtitles of each season.

The path defaults to the current directory.`,
	}
)

func newAnalyzeCommand(c *commandContext, kind analyzeKind) *cobra.Command {
	return &cobra.Command{
		Use:     kind.use,
		Aliases: kind.aliases,
		Short:   kind.short,
		Long:    kind.long,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			md, err := c.analyzePath(cmd, args, kind.mediaType, path)
			if err != nil {
				return err
			}
			return c.printMetadata(cmd, md)
		},
	}
}

// analyzePath loads path and analyses it, recording the outcome in the
// history log.
func (c *commandContext) analyzePath(cmd *cobra.Command, args []string, mediaType metadata.MediaType, path string) (*metadata.Metadata, error) {
	a, err := analyzer.New(mediaType, c.analyzerOptions())
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	root, err := tree.Load(ctx, path, tree.LoadOptions{MaxDepth: c.cfg.MaxDepth})
	if err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Debugw("loaded folder", "root", root.Path(), "entries", len(root.Children()))

	defer startHistory(cmd, args)()
	md, err := a.Analyze(ctx, root)
	log.LogAnalysis(mediaType, root.Path(), md, err)
	if err != nil {
		return nil, fmt.Errorf("%s analysis failed: %w", mediaType, err)
	}
	return md, nil
}

func (c *commandContext) printMetadata(cmd *cobra.Command, md *metadata.Metadata) error {
	switch {
	case c.jsonOutput:
		return writeJSON(cmd, md)
	case c.interactive:
		title := fmt.Sprintf("%s Analysis - %s", titleCase(md.Type), md.Root.Path())
		return runProgram(tui.NewMetadataPreview(md, title, c.theme))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderMetadata(c.theme, md))
		return nil
	}
}

func titleCase(t metadata.MediaType) string {
	if t == metadata.TV {
		return "TV Show"
	}
	return "Movie"
}
