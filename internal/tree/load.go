package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/treeview"
)

// defaultTraversalCap bounds the number of nodes read for one tree.
const defaultTraversalCap = 2000000

// LoadOptions tunes filesystem loading.
type LoadOptions struct {
	// MaxDepth limits how deep below the root the loader descends. Zero means
	// no limit.
	MaxDepth int
	// FollowSymlinks makes the loader descend into symlinked directories.
	FollowSymlinks bool
}

type treeBuilderFunc func(context.Context, string, bool, ...treeview.Option[treeview.FileInfo]) (*treeview.Tree[treeview.FileInfo], error)

var fileSystemTreeBuilder treeBuilderFunc = treeview.NewTreeFromFileSystem

// Load reads the directory at path into a folder view. Hidden entries and
// macOS artifacts are skipped.
func Load(ctx context.Context, path string, opts LoadOptions) (*Folder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}

	buildOpts := []treeview.Option[treeview.FileInfo]{
		treeview.WithTraversalCap[treeview.FileInfo](defaultTraversalCap),
		treeview.WithFilterFunc(Visible),
	}
	if opts.MaxDepth > 0 {
		buildOpts = append(buildOpts, treeview.WithMaxDepth[treeview.FileInfo](opts.MaxDepth))
	}

	t, err := fileSystemTreeBuilder(ctx, abs, opts.FollowSymlinks, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", abs, err)
	}

	return FromNode(rootNode(t, abs, info))
}

// rootNode returns the node for abs. The filesystem builder yields the root
// directory as the single top-level node; when it yields its children instead
// they are attached to a synthesized root.
func rootNode(t *treeview.Tree[treeview.FileInfo], abs string, info os.FileInfo) *treeview.Node[treeview.FileInfo] {
	nodes := t.Nodes()
	if len(nodes) == 1 && nodes[0].Data().IsDir() && filepath.Clean(nodes[0].Data().Path) == abs {
		return nodes[0]
	}
	root := treeview.NewNode(abs, filepath.Base(abs), treeview.FileInfo{
		FileInfo: info,
		Path:     abs,
		Extra:    map[string]any{},
	})
	root.SetChildren(nodes)
	return root
}

// Visible reports whether an entry takes part in analysis: regular files and
// directories that are neither hidden nor macOS metadata.
func Visible(fi treeview.FileInfo) bool {
	name := fi.Name()
	if name == ".DS_Store" || strings.HasPrefix(name, "._") || strings.HasPrefix(name, ".") {
		return false
	}
	return fi.IsDir() || fi.FileInfo.Mode().IsRegular()
}
