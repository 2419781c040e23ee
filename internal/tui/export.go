package tui

import (
	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tui/preview"
	"github.com/Digital-Shane/title-lens/internal/tui/progress"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"
)

// Type aliases so commands only import the tui package.
type (
	PreviewModel      = preview.Model
	ScanProgressModel = progress.ScanProgressModel
)

// NewMetadataPreview constructs the interactive preview of one analysis.
func NewMetadataPreview(md *metadata.Metadata, title string, th theme.Theme) *preview.Model {
	iconKey := "movie"
	if md.Type == metadata.TV {
		iconKey = "tv"
	}
	return preview.New(preview.BuildMetadata(th, md), preview.WithTheme(th), preview.WithTitle(iconKey, title))
}

// NewScanPreview constructs the interactive preview of a library scan.
func NewScanPreview(results []library.Result, title string, th theme.Theme) *preview.Model {
	return preview.New(preview.Build(th, results...), preview.WithTheme(th), preview.WithTitle("stats", title))
}

// NewScanProgressModel constructs the library scan progress UI model.
func NewScanProgressModel(scanner *library.Scanner, dir string, th theme.Theme) *progress.ScanProgressModel {
	return progress.NewScanProgressModel(scanner, dir, th)
}
