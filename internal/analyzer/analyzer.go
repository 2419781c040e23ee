package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/config"
	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"go.uber.org/zap"
)

// MediaAnalyzer infers metadata for one library entry from names and
// directory shape alone.
//
// Analyze reads root but never modifies it. The context only carries the
// diagnostics logger; analysis does not block and is not cancellable.
type MediaAnalyzer interface {
	Analyze(ctx context.Context, root *tree.Folder) (*metadata.Metadata, error)
}

// Options configures an analyzer.
type Options struct {
	SeasonKeywords media.SeasonKeywords
	// StrictSeasonIndex fails the analysis when two season folders share an
	// index instead of keeping the later one.
	StrictSeasonIndex bool
	// StrictEpisodeIndex fails the analysis when two files share an episode
	// index instead of diverting the later one.
	StrictEpisodeIndex bool
	// Logger receives diagnostics. When nil the logger in the context is used.
	Logger *zap.SugaredLogger
}

// OptionsFromConfig maps persisted settings onto analyzer options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SeasonKeywords:     media.NewSeasonKeywords(cfg.SeasonAliases...),
		StrictSeasonIndex:  cfg.StrictSeasonIndex,
		StrictEpisodeIndex: cfg.StrictEpisodeIndex,
	}
}

func (o Options) logger(ctx context.Context, root *tree.Folder) *zap.SugaredLogger {
	l := o.Logger
	if l == nil {
		l = logger.FromCtx(ctx)
	}
	return l.With("root", root.Path())
}

// New returns the analyzer for mediaType.
func New(mediaType metadata.MediaType, opts Options) (MediaAnalyzer, error) {
	switch mediaType {
	case metadata.Movie:
		return &movieAnalyzer{opts: opts}, nil
	case metadata.TV:
		return &tvAnalyzer{opts: opts}, nil
	}
	return nil, fmt.Errorf("no analyzer for media type %q", mediaType)
}

var errNilRoot = errors.New("analyze: nil root folder")

type movieAnalyzer struct {
	opts Options
}

func (a *movieAnalyzer) Analyze(ctx context.Context, root *tree.Folder) (*metadata.Metadata, error) {
	if root == nil {
		return nil, errNilRoot
	}
	log := a.opts.logger(ctx, root)

	b := NewMovieBuilder()
	b.SetRoot(root)
	b.SetTitle(root.Title())

	mediaRoot, err := movieMediaRoot(root)
	if err != nil {
		return nil, err
	}
	b.SetMediaRoot(mediaRoot)
	b.SetOriginalTitle(mediaRoot.Title())

	b.SetSubtitles(findSubtitles(log, root))
	b.SetMediaFiles(collectMediaFiles(mediaRoot))

	log.Debugw("movie analysed", "media_root", mediaRoot.Path())
	return b.Build(), nil
}

type tvAnalyzer struct {
	opts Options
}

func (a *tvAnalyzer) Analyze(ctx context.Context, root *tree.Folder) (*metadata.Metadata, error) {
	if root == nil {
		return nil, errNilRoot
	}
	log := a.opts.logger(ctx, root)

	if len(collectMediaFiles(root)) == 0 {
		return nil, newError(CodeMediaRootNotFound, root.Path(), "no media files anywhere below folder")
	}

	b := NewTVBuilder()
	b.SetRoot(root)
	b.SetTitle(root.Title())

	mediaRoot := tvMediaRoot(root, a.opts.SeasonKeywords)
	b.SetMediaRoot(mediaRoot)
	b.SetOriginalTitle(mediaRoot.Title())

	seasons, err := a.resolveSeasons(log, b)
	if err != nil {
		return nil, err
	}
	b.SetSeasons(seasons)

	log.Debugw("show analysed", "media_root", mediaRoot.Path(), "seasons", len(seasons))
	return b.Build(), nil
}
