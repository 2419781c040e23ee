package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/subtitle"
	"github.com/Digital-Shane/title-lens/internal/tree"

	"github.com/spf13/cobra"
)

// extraction is the outcome of unpacking one archived subtitle.
type extraction struct {
	Archive   string       `json:"archive"`
	Folder    *tree.Folder `json:"folder,omitempty"`
	Subtitles []*tree.File `json:"subtitles,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// subtitleListing is the JSON form of the subtitles command.
type subtitleListing struct {
	Subtitles []*tree.File `json:"subtitles"`
	Extracted []extraction `json:"extracted,omitempty"`

	fromArchive bool
}

func newSubtitlesCommand(c *commandContext) *cobra.Command {
	var mediaTypeFlag string
	var out string
	var extract bool

	cmd := &cobra.Command{
		Use:   "subtitles [path]",
		Short: "List subtitles of a download or unpack an archived subtitle",
		Long: `List the subtitles found for a movie or TV series download.

When path is an archive, it is unpacked into --out (a temporary directory when
empty) and the folder holding the subtitles is reported. With --extract every
archived subtitle of the download is unpacked the same way.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			ex := subtitle.New()

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				res := c.extract(cmd, ex, tree.NewFile(abs), out)
				if res.Error != "" {
					return fmt.Errorf("%s: %s", res.Archive, res.Error)
				}
				return c.printSubtitles(cmd, subtitleListing{Subtitles: res.Subtitles, Extracted: []extraction{res}, fromArchive: true})
			}

			mediaType, err := metadata.ParseMediaType(mediaTypeFlag)
			if err != nil {
				return err
			}
			md, err := c.analyzePath(cmd, args, mediaType, path)
			if err != nil {
				return err
			}

			listing := subtitleListing{Subtitles: ex.Subtitles(md)}
			if extract {
				for _, archive := range ex.Archives(md) {
					dest := ""
					if out != "" {
						dest = filepath.Join(out, strings.TrimSuffix(archive.Title(), filepath.Ext(archive.Title())))
					}
					listing.Extracted = append(listing.Extracted, c.extract(cmd, ex, archive, dest))
				}
			}
			return c.printSubtitles(cmd, listing)
		},
	}

	cmd.Flags().StringVarP(&mediaTypeFlag, "type", "t", "movie", "Media type of the download: movie or tv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Directory to unpack archives into (default a temporary directory)")
	cmd.Flags().BoolVarP(&extract, "extract", "x", false, "Unpack every archived subtitle of the download")
	return cmd
}

func (c *commandContext) extract(cmd *cobra.Command, ex *subtitle.Extractor, archive *tree.File, dest string) extraction {
	res := extraction{Archive: archive.Path()}
	folder, err := ex.ExtractArchive(cmd.Context(), archive, dest)
	if err != nil {
		logger.FromCtx(cmd.Context()).Warnw("subtitle archive not extracted", "archive", archive.Path(), "error", err)
		res.Error = err.Error()
		return res
	}
	res.Folder = folder
	for _, f := range folder.Files() {
		if f.Type() == media.FileSubtitle {
			res.Subtitles = append(res.Subtitles, f)
		}
	}
	return res
}

func (c *commandContext) printSubtitles(cmd *cobra.Command, listing subtitleListing) error {
	if c.jsonOutput {
		return writeJSON(cmd, listing)
	}

	w := cmd.OutOrStdout()
	if listing.fromArchive {
		writeExtraction(w, c, listing.Extracted[0])
		return nil
	}
	if len(listing.Subtitles) == 0 {
		fmt.Fprintln(w, c.theme.MutedStyle().Render("No subtitles found."))
	}
	for _, f := range listing.Subtitles {
		icon := c.theme.Icon("subtitle")
		if f.Type() == media.FileArchivedSubtitle {
			icon = c.theme.Icon("archive")
		}
		fmt.Fprintf(w, "%s %s\n", icon, f.Path())
	}
	for _, e := range listing.Extracted {
		fmt.Fprintln(w)
		writeExtraction(w, c, e)
	}
	return nil
}

func writeExtraction(w io.Writer, c *commandContext, e extraction) {
	label := c.theme.LabelStyle()
	fmt.Fprintf(w, "%s %s\n", c.theme.Icon("archive"), label.Render(filepath.Base(e.Archive)))
	if e.Error != "" {
		fmt.Fprintf(w, "  %s %s\n", c.theme.Icon("error"), e.Error)
		return
	}
	fmt.Fprintf(w, "  %s %s\n", label.Render("Folder:"), e.Folder.Path())
	for _, f := range e.Subtitles {
		fmt.Fprintf(w, "  • %s\n", f.Title())
	}
}
