package tree

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/treeview"
)

// ErrNotDirectory is returned when a folder view is requested for a file.
var ErrNotDirectory = errors.New("not a directory")

// Folder is a read-only snapshot of a directory node and everything below it.
// Children are captured when the view is built; later changes to the backing
// nodes are not observed.
type Folder struct {
	title   string
	path    string
	node    *treeview.Node[treeview.FileInfo]
	entries []Entry
	files   []*File
	folders []*Folder
}

// FromNode builds a folder view over n and its descendants.
func FromNode(n *treeview.Node[treeview.FileInfo]) (*Folder, error) {
	if n == nil {
		return nil, fmt.Errorf("nil node: %w", ErrNotDirectory)
	}
	if !n.Data().IsDir() {
		return nil, fmt.Errorf("%s: %w", n.Data().Path, ErrNotDirectory)
	}
	return snapshot(n), nil
}

func snapshot(n *treeview.Node[treeview.FileInfo]) *Folder {
	f := &Folder{
		title: n.Name(),
		path:  n.Data().Path,
		node:  n,
	}
	for _, child := range n.Children() {
		if child.Data().IsDir() {
			sub := snapshot(child)
			f.folders = append(f.folders, sub)
			f.entries = append(f.entries, sub)
			continue
		}
		file := newFile(child)
		f.files = append(f.files, file)
		f.entries = append(f.entries, file)
	}
	return f
}

// Title returns the directory name.
func (f *Folder) Title() string { return f.title }

// Path returns the path the directory was loaded from.
func (f *Folder) Path() string { return f.path }

// IsDir is always true for folders.
func (f *Folder) IsDir() bool { return true }

// Node returns the tree node backing the folder.
func (f *Folder) Node() *treeview.Node[treeview.FileInfo] { return f.node }

// Files returns the direct files in child order.
func (f *Folder) Files() []*File {
	out := make([]*File, len(f.files))
	copy(out, f.files)
	return out
}

// Folders returns the direct subfolders in child order.
func (f *Folder) Folders() []*Folder {
	out := make([]*Folder, len(f.folders))
	copy(out, f.folders)
	return out
}

// Children returns files and folders in child order.
func (f *Folder) Children() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// CountFiles counts the direct files of type ft.
func (f *Folder) CountFiles(ft media.FileType) int {
	count := 0
	for _, file := range f.files {
		if file.fileType == ft {
			count++
		}
	}
	return count
}

// ContainsSubtitleFile reports whether a subtitle or subtitle archive sits
// directly in f.
func (f *Folder) ContainsSubtitleFile() bool {
	for _, file := range f.files {
		if file.fileType.IsSubtitleKind() {
			return true
		}
	}
	return false
}

// ContainsSubtitleFileRecursive reports whether a subtitle or subtitle
// archive exists anywhere below f.
func (f *Folder) ContainsSubtitleFileRecursive() bool {
	if f.ContainsSubtitleFile() {
		return true
	}
	for _, sub := range f.folders {
		if sub.ContainsSubtitleFileRecursive() {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the folder as its path.
func (f *Folder) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.path)
}
