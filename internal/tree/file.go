package tree

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/treeview"
)

// Entry is either a *File or a *Folder.
type Entry interface {
	Title() string
	Path() string
	IsDir() bool
}

// File is a read-only view of a file node.
type File struct {
	title    string
	path     string
	fileType media.FileType
	node     *treeview.Node[treeview.FileInfo]
}

func newFile(n *treeview.Node[treeview.FileInfo]) *File {
	return &File{
		title:    n.Name(),
		path:     n.Data().Path,
		fileType: media.Classify(n.Name()),
		node:     n,
	}
}

// NewFile returns a file view for path without reading the disk.
func NewFile(path string) *File {
	return newFile(NewNode(path, false))
}

// Title returns the on-disk name including the extension.
func (f *File) Title() string { return f.title }

// Path returns the path the file was loaded from.
func (f *File) Path() string { return f.path }

// Type returns the file classification.
func (f *File) Type() media.FileType { return f.fileType }

// IsDir is always false for files.
func (f *File) IsDir() bool { return false }

// Node returns the tree node backing the file.
func (f *File) Node() *treeview.Node[treeview.FileInfo] { return f.node }

// MarshalJSON encodes the file as its path.
func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.path)
}

// simpleFileInfo is an os.FileInfo for nodes that do not exist on disk.
type simpleFileInfo struct {
	name  string
	isDir bool
}

func (s simpleFileInfo) Name() string { return s.name }
func (s simpleFileInfo) Size() int64  { return 0 }
func (s simpleFileInfo) Mode() os.FileMode {
	if s.isDir {
		return os.ModeDir | 0o755
	}
	return 0o644
}
func (s simpleFileInfo) ModTime() time.Time { return time.Time{} }
func (s simpleFileInfo) IsDir() bool        { return s.isDir }
func (s simpleFileInfo) Sys() any           { return nil }

// NewNode builds a detached tree node for path. The node name is the last
// path element. It is used for virtual nodes and in-memory trees.
func NewNode(path string, isDir bool) *treeview.Node[treeview.FileInfo] {
	return NewNamedNode(path, filepath.Base(path), path, isDir)
}

// NewNamedNode builds a detached tree node with an explicit id and name.
func NewNamedNode(id, name, path string, isDir bool) *treeview.Node[treeview.FileInfo] {
	return treeview.NewNode(id, name, treeview.FileInfo{
		FileInfo: simpleFileInfo{name: name, isDir: isDir},
		Path:     path,
		Extra:    map[string]any{},
	})
}
