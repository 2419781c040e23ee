package analyzer

import (
	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/tree"
)

// movieMediaRoot returns root when it holds media directly, else its first
// child that does.
func movieMediaRoot(root *tree.Folder) (*tree.Folder, error) {
	if root.CountFiles(media.FileMedia) > 0 {
		return root, nil
	}
	for _, child := range root.Folders() {
		if child.CountFiles(media.FileMedia) > 0 {
			return child, nil
		}
	}
	return nil, newError(CodeMediaRootNotFound, root.Path(), "no media files in folder or its children")
}

// tvMediaRoot returns the only child of root that holds media directly or
// looks like a season. With zero or several such children root itself is
// the media root and season discovery sorts them out.
func tvMediaRoot(root *tree.Folder, keywords media.SeasonKeywords) *tree.Folder {
	var candidates []*tree.Folder
	for _, child := range root.Folders() {
		if child.CountFiles(media.FileMedia) > 0 || keywords.Contains(child.Title()) {
			candidates = append(candidates, child)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return root
}

// seasonFolders returns the children of root whose names carry a season
// keyword, in child order.
func seasonFolders(root *tree.Folder, keywords media.SeasonKeywords) []*tree.Folder {
	var out []*tree.Folder
	for _, child := range root.Folders() {
		if keywords.Contains(child.Title()) {
			out = append(out, child)
		}
	}
	return out
}

// collectMediaFiles gathers media files depth first. A folder holding media
// directly ends the descent on that branch.
func collectMediaFiles(root *tree.Folder) []*tree.File {
	var files []*tree.File
	for _, f := range root.Files() {
		if f.Type() == media.FileMedia {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		return files
	}
	for _, child := range root.Folders() {
		files = append(files, collectMediaFiles(child)...)
	}
	return files
}
