package analyzer

import (
	"path"
	"strings"
	"testing"

	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/Digital-Shane/treeview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// buildFolder builds an in-memory tree rooted at root. Entries are slash
// separated paths relative to root; a trailing slash marks an empty folder.
// Children keep the order in which they first appear.
func buildFolder(t *testing.T, root string, entries ...string) *tree.Folder {
	t.Helper()

	top := tree.NewNode(root, true)
	nodes := map[string]*treeview.Node[treeview.FileInfo]{root: top}

	var ensureDir func(p string) *treeview.Node[treeview.FileInfo]
	ensureDir = func(p string) *treeview.Node[treeview.FileInfo] {
		if n, ok := nodes[p]; ok {
			return n
		}
		parent := ensureDir(path.Dir(p))
		n := tree.NewNode(p, true)
		parent.AddChild(n)
		nodes[p] = n
		return n
	}

	for _, e := range entries {
		full := path.Join(root, e)
		if strings.HasSuffix(e, "/") {
			ensureDir(full)
			continue
		}
		parent := ensureDir(path.Dir(full))
		n := tree.NewNode(full, false)
		parent.AddChild(n)
		nodes[full] = n
	}

	folder, err := tree.FromNode(top)
	if err != nil {
		t.Fatalf("FromNode() error = %v", err)
	}
	return folder
}

func observedLogger(level zapcore.Level) (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core).Sugar(), logs
}

func fileTitles(files []*tree.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Title())
	}
	return out
}

func episodeTitles(episodes map[int]*tree.File) map[int]string {
	out := make(map[int]string, len(episodes))
	for idx, f := range episodes {
		out[idx] = f.Title()
	}
	return out
}
