package analyzer

import (
	"maps"
	"slices"

	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
)

// baseBuilder holds the facts every media type records.
type baseBuilder struct {
	root          *tree.Folder
	mediaRoot     *tree.Folder
	title         string
	originalTitle string
}

func (b *baseBuilder) SetRoot(root *tree.Folder)           { b.root = root }
func (b *baseBuilder) SetMediaRoot(mediaRoot *tree.Folder) { b.mediaRoot = mediaRoot }
func (b *baseBuilder) SetTitle(title string)               { b.title = title }
func (b *baseBuilder) SetOriginalTitle(title string)       { b.originalTitle = title }
func (b *baseBuilder) Root() *tree.Folder                  { return b.root }
func (b *baseBuilder) MediaRoot() *tree.Folder             { return b.mediaRoot }
func (b *baseBuilder) Title() string                       { return b.title }

func (b *baseBuilder) base(mediaType metadata.MediaType) *metadata.Metadata {
	return &metadata.Metadata{
		Type:          mediaType,
		Title:         b.title,
		OriginalTitle: b.originalTitle,
		Root:          b.root,
		MediaRoot:     b.mediaRoot,
	}
}

// MovieBuilder accumulates the facts of a movie analysis.
type MovieBuilder struct {
	baseBuilder
	mediaFiles []*tree.File
	subtitles  []*tree.File
}

// NewMovieBuilder returns an empty movie builder.
func NewMovieBuilder() *MovieBuilder { return &MovieBuilder{} }

func (b *MovieBuilder) SetMediaFiles(files []*tree.File) { b.mediaFiles = files }
func (b *MovieBuilder) SetSubtitles(files []*tree.File)  { b.subtitles = files }

// Build returns the metadata. Later builder calls do not affect it.
func (b *MovieBuilder) Build() *metadata.Metadata {
	md := b.base(metadata.Movie)
	md.MediaFiles = cloneFiles(b.mediaFiles)
	md.Subtitles = cloneFiles(b.subtitles)
	return md
}

// TVBuilder accumulates the facts of a show analysis.
type TVBuilder struct {
	baseBuilder
	seasons map[int]*metadata.SeasonMetadata
}

// NewTVBuilder returns an empty show builder.
func NewTVBuilder() *TVBuilder { return &TVBuilder{} }

func (b *TVBuilder) SetSeasons(seasons map[int]*metadata.SeasonMetadata) { b.seasons = seasons }

// Build returns the metadata. Later builder calls do not affect it.
func (b *TVBuilder) Build() *metadata.Metadata {
	md := b.base(metadata.TV)
	md.Seasons = make(map[int]*metadata.SeasonMetadata, len(b.seasons))
	for idx, s := range b.seasons {
		season := *s
		season.MediaFiles = cloneFiles(s.MediaFiles)
		season.Subtitles = cloneFiles(s.Subtitles)
		season.Diverted = cloneFiles(s.Diverted)
		season.Episodes = maps.Clone(s.Episodes)
		if season.Episodes == nil {
			season.Episodes = map[int]*tree.File{}
		}
		md.Seasons[idx] = &season
	}
	return md
}

func cloneFiles(files []*tree.File) []*tree.File {
	if files == nil {
		return []*tree.File{}
	}
	return slices.Clone(files)
}
