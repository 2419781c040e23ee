package tree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll(%q) error = %v", full, err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%q) error = %v", full, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Show")
	writeFiles(t, dir,
		"Season 1/Show.S01E01.mkv",
		"Season 1/.DS_Store",
		"Season 1/._Show.S01E01.mkv",
		".hidden/secret.mkv",
		"Show.nfo",
	)

	root, err := Load(context.Background(), dir, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if root.Title() != "Show" {
		t.Errorf("Title() = %q, want %q", root.Title(), "Show")
	}
	if !filepath.IsAbs(root.Path()) {
		t.Errorf("Path() = %q, want absolute path", root.Path())
	}
	if diff := cmp.Diff([]string{"Season 1"}, titles(root.Folders())); diff != "" {
		t.Errorf("Folders() mismatch (-want +got):\n%s", diff)
	}
	season := root.Folders()[0]
	if diff := cmp.Diff([]string{"Show.S01E01.mkv"}, titles(season.Files())); diff != "" {
		t.Errorf("season Files() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mkv")

	_, err := Load(context.Background(), filepath.Join(dir, "a.mkv"), LoadOptions{})
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Load(file) error = %v, want ErrNotDirectory", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"), LoadOptions{})
	if err == nil {
		t.Errorf("Load(missing) error = nil, want error")
	}
}
