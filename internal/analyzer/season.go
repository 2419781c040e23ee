package analyzer

import (
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"go.uber.org/zap"
)

// resolveSeasons splits the media root of b into seasons. Without season
// folders the whole media root is one season; otherwise every season folder
// is resolved on its own.
func (a *tvAnalyzer) resolveSeasons(log *zap.SugaredLogger, b *TVBuilder) (map[int]*metadata.SeasonMetadata, error) {
	mediaRoot := b.MediaRoot()
	folders := seasonFolders(mediaRoot, a.opts.SeasonKeywords)
	if len(folders) == 0 {
		return a.flatSeason(log, b)
	}

	seasons := make(map[int]*metadata.SeasonMetadata, len(folders))
	for _, folder := range folders {
		index, ok := a.opts.SeasonKeywords.ExtractSeasonIndex(folder.Title())
		if !ok {
			if len(folders) > 1 {
				return nil, newError(CodeSeasonIndexNotFound, folder.Path(),
					"season folder %q has no number and %d season folders exist; rename it", folder.Title(), len(folders))
			}
			index = 1
		}

		season, err := a.seasonFromFolder(log, b, folder, index)
		if err != nil {
			return nil, err
		}

		if prev, dup := seasons[index]; dup {
			if a.opts.StrictSeasonIndex {
				return nil, newError(CodeSeasonIndexDuplicated, folder.Path(),
					"season %d is already claimed by %q", index, prev.OriginalTitle)
			}
			log.Warnw("duplicated season index, later folder wins",
				"season", index,
				"replaced", prev.Root.Path(),
				"path", folder.Path(),
			)
		}
		seasons[index] = season
	}

	return seasons, nil
}

// flatSeason handles a media root without season folders.
func (a *tvAnalyzer) flatSeason(log *zap.SugaredLogger, b *TVBuilder) (map[int]*metadata.SeasonMetadata, error) {
	mediaRoot := b.MediaRoot()
	files := collectMediaFiles(mediaRoot)

	index, ok := a.opts.SeasonKeywords.ExtractSeasonIndex(mediaRoot.Title())
	if !ok || index <= 0 {
		index = 1
	}

	episodes, diverted, err := resolveEpisodes(log.With("season", index), files, a.opts.StrictEpisodeIndex)
	if err != nil {
		return nil, err
	}

	return map[int]*metadata.SeasonMetadata{
		index: {
			Index:         index,
			Title:         b.Title(),
			OriginalTitle: mediaRoot.Title(),
			Root:          b.Root(),
			MediaRoot:     mediaRoot,
			MediaFiles:    files,
			Subtitles:     findSubtitles(log, b.Root()),
			Episodes:      episodes,
			Diverted:      diverted,
		},
	}, nil
}

// seasonFromFolder resolves one season folder. Its media root follows the
// movie rule and falls back to the folder itself when nothing directly below
// holds media.
func (a *tvAnalyzer) seasonFromFolder(log *zap.SugaredLogger, b *TVBuilder, folder *tree.Folder, index int) (*metadata.SeasonMetadata, error) {
	log = log.With("season", index)

	seasonRoot, err := movieMediaRoot(folder)
	if err != nil {
		log.Debugw("season folder has no direct media, using the folder itself", "path", folder.Path())
		seasonRoot = folder
	}

	files := collectMediaFiles(seasonRoot)
	episodes, diverted, err := resolveEpisodes(log, files, a.opts.StrictEpisodeIndex)
	if err != nil {
		return nil, err
	}

	return &metadata.SeasonMetadata{
		Index:         index,
		Title:         b.Title(),
		OriginalTitle: folder.Title(),
		Root:          folder,
		MediaRoot:     seasonRoot,
		MediaFiles:    files,
		Subtitles:     findSubtitles(log, seasonRoot),
		Episodes:      episodes,
		Diverted:      diverted,
	}, nil
}
