package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/log"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tui"
	"github.com/Digital-Shane/title-lens/internal/tui/report"

	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newScanCommand(c *commandContext) *cobra.Command {
	var mediaTypeFlag string
	var workers int

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Analyse every entry of a library or download directory",
		Long: `Analyse every child folder of a directory as a movie or a TV series.

Entries are analysed in parallel, each on its own tree. A failed entry is
reported next to the others and does not stop the scan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			mediaType, err := metadata.ParseMediaType(mediaTypeFlag)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = c.cfg.ScanWorkers
			}

			scanner, err := library.New(library.Config{
				MediaType: mediaType,
				Options:   c.analyzerOptions(),
				Workers:   workers,
				MaxDepth:  c.cfg.MaxDepth,
			})
			if err != nil {
				return err
			}

			results, err := c.runScan(cmd, scanner, dir)
			return c.finishScan(cmd, mediaType, dir, results, err)
		},
	}

	cmd.Flags().StringVarP(&mediaTypeFlag, "type", "t", "movie", "Media type of every entry: movie or tv")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Entries analysed at once (default from config)")
	return cmd
}

// finishScan records results in the history log and prints them. A cancelled
// scan still reports the entries it finished, as text instead of the
// interactive preview, and then returns the cancellation.
func (c *commandContext) finishScan(cmd *cobra.Command, mediaType metadata.MediaType, dir string, results []library.Result, scanErr error) error {
	cancelled := errors.Is(scanErr, context.Canceled)
	if scanErr != nil && (!cancelled || len(results) == 0) {
		return scanErr
	}

	done := startHistory(cmd, []string{dir})
	for _, r := range results {
		log.LogAnalysis(mediaType, r.Path, r.Metadata, r.Err)
	}
	done()

	var err error
	switch {
	case c.jsonOutput:
		err = writeJSON(cmd, toResultJSON(results))
	case c.interactive && !cancelled:
		err = runProgram(tui.NewScanPreview(results, fmt.Sprintf("Library Scan - %s", dir), c.theme))
	default:
		if cancelled {
			fmt.Fprintln(cmd.OutOrStdout(), c.theme.MutedStyle().Render("Scan interrupted, showing finished entries."))
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderScan(c.theme, dir, results))
	}
	if err != nil {
		return err
	}
	return scanErr
}

// runScan scans dir, showing a progress view in interactive mode.
func (c *commandContext) runScan(cmd *cobra.Command, scanner *library.Scanner, dir string) ([]library.Result, error) {
	if !c.interactive {
		return scanner.Scan(cmd.Context(), dir)
	}

	model := tui.NewScanProgressModel(scanner, dir, c.theme)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	pm, ok := final.(*tui.ScanProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T after scanning", final)
	}
	if err := pm.Err(); err != nil {
		return nil, err
	}
	if !pm.Done() {
		return pm.Results(), context.Canceled
	}
	return pm.Results(), nil
}
