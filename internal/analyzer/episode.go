package analyzer

import (
	"strconv"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"go.uber.org/zap"
)

// filePrefix returns the leading words shared by the names of files, with a
// trailing space. An empty string means no shared leading word was found.
func filePrefix(log *zap.SugaredLogger, files []*tree.File) string {
	table := newTokenTable()
	for _, f := range files {
		table.addName(f.Title())
	}
	prefix, ok := table.prefix()
	if !ok && len(files) > 1 {
		log.Warnw("no common file name prefix, reading episode numbers from full names",
			"files", len(files),
			"first", files[0].Title(),
		)
	}
	return prefix
}

// episodeIndex reads the episode number from name once the shared prefix is
// removed. Only the first word of the remainder is considered: a bare number,
// then an S01E02 code, then any digit run. Zero is not a valid episode.
func episodeIndex(name, prefix string) (int, error) {
	rest := media.TruncSuffix(media.Normalize(name))
	if prefix != "" {
		rest = strings.Replace(rest, prefix, "", 1)
	}
	word, _, _ := strings.Cut(rest, " ")

	if isDigits(word) {
		if n, err := strconv.Atoi(word); err == nil && n > 0 {
			return n, nil
		}
	}
	if n, ok := media.ExtractEpisodeCode(word); ok && n > 0 {
		return n, nil
	}
	if n, ok := media.ExtractNumber(word); ok && n > 0 {
		return n, nil
	}
	return 0, newError(CodeEpisodeIndexNotFound, name, "no episode number in %q", word)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolveEpisodes maps files onto episode numbers in input order. Files
// without a number, and files whose number is already taken, are diverted.
// In strict mode a taken number fails the analysis instead.
func resolveEpisodes(log *zap.SugaredLogger, files []*tree.File, strict bool) (map[int]*tree.File, []*tree.File, error) {
	episodes := make(map[int]*tree.File, len(files))
	diverted := []*tree.File{}

	prefix := filePrefix(log, files)
	if prefix != "" {
		log.Debugw("episode file prefix", "prefix", prefix)
	}

	for _, f := range files {
		idx, err := episodeIndex(f.Title(), prefix)
		if err != nil {
			log.Infow("episode index not found, diverting file", "file", f.Path(), "error", err)
			diverted = append(diverted, f)
			continue
		}

		if kept, taken := episodes[idx]; taken {
			if strict {
				return nil, nil, newError(CodeEpisodeIndexDuplicated, f.Path(),
					"episode %d is already claimed by %s", idx, kept.Title())
			}
			log.Warnw("duplicated episode index, diverting file",
				"file", f.Path(),
				"episode", idx,
				"kept", kept.Path(),
			)
			diverted = append(diverted, f)
			continue
		}

		episodes[idx] = f
	}

	return episodes, diverted, nil
}
