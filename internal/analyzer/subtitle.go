package analyzer

import (
	"github.com/Digital-Shane/title-lens/internal/tree"
	"go.uber.org/zap"
)

// findSubtitles returns the subtitle files and archives of folder. When
// folder has none it descends into its first subfolder only, repeating until
// a folder with subtitles or a leaf is reached. Sibling branches are never
// searched.
func findSubtitles(log *zap.SugaredLogger, folder *tree.Folder) []*tree.File {
	for cur := folder; cur != nil; {
		if cur.ContainsSubtitleFile() {
			return subtitleFiles(cur)
		}
		subs := cur.Folders()
		if len(subs) == 0 {
			break
		}
		cur = subs[0]
	}

	log.Infow("subtitle not found", "path", folder.Path())
	return []*tree.File{}
}

func subtitleFiles(folder *tree.Folder) []*tree.File {
	var out []*tree.File
	for _, f := range folder.Files() {
		if f.Type().IsSubtitleKind() {
			out = append(out, f)
		}
	}
	return out
}
