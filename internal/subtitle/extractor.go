// Package subtitle unpacks archived subtitles found by an analysis.
package subtitle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"

	"github.com/mholt/archives"
)

var (
	// ErrInvalidFileType is returned when a file is not a subtitle archive.
	ErrInvalidFileType = errors.New("not an archived subtitle")
	// ErrNoSubtitleFound is returned when an extracted archive holds no
	// subtitle on its first branch.
	ErrNoSubtitleFound = errors.New("subtitle archive extracted, but no subtitle found")
	// ErrUnsupportedArchive is returned for archive formats that cannot be
	// unpacked.
	ErrUnsupportedArchive = errors.New("unsupported archive format")
	// ErrUnsafePath is returned when an archive entry would land outside the
	// destination.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// maxEntrySize caps a single extracted entry.
const maxEntrySize = 64 << 20

// Loader reads a directory into a folder view.
type Loader func(ctx context.Context, path string, opts tree.LoadOptions) (*tree.Folder, error)

// Extractor lists and unpacks the subtitles of an analysis result.
type Extractor struct {
	load Loader
}

// New returns an extractor that reads extracted archives from disk.
func New() *Extractor {
	return &Extractor{load: tree.Load}
}

// NewWithLoader returns an extractor using load to read extracted archives.
func NewWithLoader(load Loader) *Extractor {
	if load == nil {
		load = tree.Load
	}
	return &Extractor{load: load}
}

// Subtitles returns every subtitle file of md. Show subtitles are listed in
// season order; a file shared by several seasons appears once.
func (e *Extractor) Subtitles(md *metadata.Metadata) []*tree.File {
	if md == nil {
		return nil
	}
	if md.Type == metadata.Movie {
		return append([]*tree.File(nil), md.Subtitles...)
	}

	var out []*tree.File
	seen := make(map[string]bool)
	for _, idx := range md.SeasonIndices() {
		for _, f := range md.Seasons[idx].Subtitles {
			if seen[f.Path()] {
				continue
			}
			seen[f.Path()] = true
			out = append(out, f)
		}
	}
	return out
}

// Archives returns the archived subtitles among Subtitles(md).
func (e *Extractor) Archives(md *metadata.Metadata) []*tree.File {
	var out []*tree.File
	for _, f := range e.Subtitles(md) {
		if f.Type() == media.FileArchivedSubtitle {
			out = append(out, f)
		}
	}
	return out
}

// ExtractArchive unpacks file into dest and returns the first folder on the
// first branch of the extracted tree that directly holds subtitles. An empty
// dest extracts into a new temporary directory.
func (e *Extractor) ExtractArchive(ctx context.Context, file *tree.File, dest string) (*tree.Folder, error) {
	if file == nil || file.Type() != media.FileArchivedSubtitle {
		return nil, ErrInvalidFileType
	}
	log := logger.FromCtx(ctx, "archive", file.Path())

	if dest == "" {
		tmp, err := os.MkdirTemp("", "title-lens-subtitle-")
		if err != nil {
			return nil, fmt.Errorf("failed to create extraction directory: %w", err)
		}
		dest = tmp
	} else if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	n, err := extract(ctx, file.Path(), dest)
	if err != nil {
		return nil, err
	}
	log.Debugw("archive extracted", "dest", dest, "entries", n)

	root, err := e.load(ctx, dest, tree.LoadOptions{})
	if err != nil {
		return nil, err
	}

	folder := subtitleFolder(root)
	if folder == nil {
		return nil, fmt.Errorf("%s: %w", dest, ErrNoSubtitleFound)
	}
	return folder, nil
}

// subtitleFolder descends through first subfolders until one directly holds
// subtitles.
func subtitleFolder(root *tree.Folder) *tree.Folder {
	for cur := root; cur != nil; {
		if cur.ContainsSubtitleFile() {
			return cur
		}
		subs := cur.Folders()
		if len(subs) == 0 {
			return nil
		}
		cur = subs[0]
	}
	return nil
}

// extract unpacks src into dest and returns the number of files written. A
// lone gzip stream such as "movie.en.srt.gz" becomes a single file; any other
// format is detected by name and header.
func extract(ctx context.Context, src, dest string) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open subtitle archive: %w", err)
	}
	defer f.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return 0, err
	}

	if isBareGzip(src) {
		return gunzip(f, root, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	}

	format, stream, err := archives.Identify(ctx, filepath.Base(src), f)
	if errors.Is(err, archives.NoMatch) {
		return 0, fmt.Errorf("%s: %w", filepath.Base(src), ErrUnsupportedArchive)
	}
	if err != nil {
		return 0, fmt.Errorf("identify subtitle archive: %w", err)
	}
	ex, ok := format.(archives.Extractor)
	if !ok {
		return 0, fmt.Errorf("%s: %w", filepath.Base(src), ErrUnsupportedArchive)
	}

	count := 0
	err = ex.Extract(ctx, stream, func(ctx context.Context, entry archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := safeJoin(root, entry.NameInArchive)
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		// Links and devices never carry subtitles.
		if !entry.Mode().IsRegular() {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open archive entry %s: %w", entry.NameInArchive, err)
		}
		defer rc.Close()
		if err := writeEntry(rc, entry.NameInArchive, target); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

// isBareGzip reports whether name is gzip compressed without a tar inside.
func isBareGzip(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".gz") && !strings.HasSuffix(lower, ".tar.gz")
}

func gunzip(r io.Reader, root, name string) (int, error) {
	rc, err := archives.Gz{}.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("open gzip stream: %w", err)
	}
	defer rc.Close()

	target, err := safeJoin(root, name)
	if err != nil {
		return 0, err
	}
	if err := writeEntry(rc, name, target); err != nil {
		return 0, err
	}
	return 1, nil
}

func writeEntry(r io.Reader, name, target string) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	written, err := io.Copy(out, io.LimitReader(r, maxEntrySize+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	if written > maxEntrySize {
		return fmt.Errorf("archive entry %s exceeds %d bytes", name, maxEntrySize)
	}
	return nil
}

// safeJoin resolves name below root and rejects names that leave it.
func safeJoin(root, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	return target, nil
}
