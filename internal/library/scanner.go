// Package library analyses every entry of a download or library directory.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Digital-Shane/title-lens/internal/analyzer"
	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/mhmtszr/concurrent-swiss-map"
)

const defaultWorkers = 8

// Loader reads one entry into a folder view.
type Loader func(ctx context.Context, path string, opts tree.LoadOptions) (*tree.Folder, error)

// Config configures a Scanner.
type Config struct {
	MediaType metadata.MediaType
	Options   analyzer.Options
	// Workers bounds the number of entries analysed at once.
	Workers int
	// MaxDepth limits how deep each entry is read. Zero means no limit.
	MaxDepth int
	Loader   Loader
}

// Result is the outcome for one entry. Exactly one of Metadata and Err is set.
type Result struct {
	Name     string
	Path     string
	Metadata *metadata.Metadata
	Err      error
}

// Summary captures scan progress at a point in time.
type Summary struct {
	TotalItems     int
	ProcessedItems int
	FailedItems    int
	ActiveWorkers  int
	WorkerLimit    int
	LastItem       string
	Done           bool
	Canceled       bool
}

// Event is a progress update emitted while scanning.
type Event struct {
	Summary Summary
	Err     error
}

// Scanner analyses library entries on a bounded worker pool. Every entry is
// loaded into its own tree, so analyses never share state.
type Scanner struct {
	cfg      Config
	analyzer analyzer.MediaAnalyzer
	load     Loader

	results *csmap.CsMap[string, Result]

	summaryMu sync.RWMutex
	summary   Summary
}

type scanItem struct {
	name string
	path string
}

// New constructs a scanner with defaults applied.
func New(cfg Config) (*Scanner, error) {
	a, err := analyzer.New(cfg.MediaType, cfg.Options)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	load := cfg.Loader
	if load == nil {
		load = tree.Load
	}
	return &Scanner{
		cfg:      cfg,
		analyzer: a,
		load:     load,
		results:  csmap.Create[string, Result](),
		summary:  Summary{WorkerLimit: cfg.Workers},
	}, nil
}

// Scan analyses every visible child directory of dir and returns the results
// sorted by entry name. Entries analysed by an earlier scan are not analysed
// again. When ctx ends early the results gathered so far are
// returned together with the context error.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]Result, error) {
	items, err := listEntries(dir)
	if err != nil {
		return nil, err
	}
	for range s.start(ctx, items) {
	}
	if err := ctx.Err(); err != nil {
		return s.Results(), err
	}
	return s.Results(), nil
}

// Start lists dir and begins scanning in the background. The returned channel
// carries progress events and is closed when the scan ends.
func (s *Scanner) Start(ctx context.Context, dir string) (<-chan Event, error) {
	items, err := listEntries(dir)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, items), nil
}

func (s *Scanner) start(ctx context.Context, items []scanItem) <-chan Event {
	events := make(chan Event, 128)
	go s.run(ctx, events, items)
	return events
}

// Results returns the results gathered so far, sorted by entry name.
func (s *Scanner) Results() []Result {
	out := make([]Result, 0, s.results.Count())
	s.results.Range(func(_ string, r Result) bool {
		out = append(out, r)
		return false
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// SummarySnapshot returns the latest progress summary.
func (s *Scanner) SummarySnapshot() Summary {
	s.summaryMu.RLock()
	defer s.summaryMu.RUnlock()
	return s.summary
}

func (s *Scanner) run(ctx context.Context, events chan<- Event, items []scanItem) {
	defer close(events)

	s.summaryMu.Lock()
	s.summary.TotalItems = len(items)
	s.summaryMu.Unlock()
	s.emit(ctx, events, nil)

	if len(items) > 0 {
		s.runPool(ctx, events, items)
		if ctx.Err() != nil {
			return
		}
	}

	s.summaryMu.Lock()
	s.summary.Done = true
	s.summaryMu.Unlock()
	s.emit(ctx, events, nil)
}

func (s *Scanner) runPool(ctx context.Context, events chan<- Event, items []scanItem) {
	workerCount := min(s.cfg.Workers, len(items))
	workCh := make(chan scanItem)
	resultCh := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go s.worker(ctx, &wg, workCh, resultCh)
	}

	s.summaryMu.Lock()
	s.summary.ActiveWorkers = workerCount
	s.summaryMu.Unlock()
	s.emit(ctx, events, nil)

	go func() {
		defer close(workCh)
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			if _, exists := s.results.Load(item.path); exists {
				continue
			}
			select {
			case workCh <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for {
		select {
		case <-ctx.Done():
			s.summaryMu.Lock()
			s.summary.Canceled = true
			s.summary.ActiveWorkers = 0
			s.summaryMu.Unlock()
			s.emit(ctx, events, ctx.Err())
			return
		case res, ok := <-resultCh:
			if !ok {
				s.summaryMu.Lock()
				s.summary.ActiveWorkers = 0
				s.summaryMu.Unlock()
				s.emit(ctx, events, nil)
				return
			}
			s.processResult(res)
			s.emit(ctx, events, res.Err)
		}
	}
}

func (s *Scanner) worker(ctx context.Context, wg *sync.WaitGroup, workCh <-chan scanItem, resultCh chan<- Result) {
	defer wg.Done()

	for item := range workCh {
		if ctx.Err() != nil {
			return
		}

		res := s.analyze(ctx, item)

		select {
		case resultCh <- res:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scanner) analyze(ctx context.Context, item scanItem) Result {
	log := logger.FromCtx(ctx, "entry", item.name)
	ctx = logger.WithCtx(ctx, log)

	res := Result{Name: item.name, Path: item.path}
	root, err := s.load(ctx, item.path, tree.LoadOptions{MaxDepth: s.cfg.MaxDepth})
	if err != nil {
		res.Err = err
		return res
	}

	md, err := s.analyzer.Analyze(ctx, root)
	if err != nil {
		log.Debugw("entry analysis failed", "error", err)
		res.Err = err
		return res
	}
	res.Metadata = md
	return res
}

func (s *Scanner) processResult(res Result) {
	s.results.Store(res.Path, res)

	s.summaryMu.Lock()
	s.summary.ProcessedItems++
	if res.Err != nil {
		s.summary.FailedItems++
	}
	s.summary.LastItem = res.Name
	s.summaryMu.Unlock()
}

func (s *Scanner) emit(ctx context.Context, events chan<- Event, err error) {
	summary := s.SummarySnapshot()
	select {
	case events <- Event{Summary: summary, Err: err}:
	case <-ctx.Done():
	}
}

// listEntries returns the visible child directories of dir in name order.
func listEntries(dir string) ([]scanItem, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read library %s: %w", abs, err)
	}

	items := make([]scanItem, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		items = append(items, scanItem{name: e.Name(), path: filepath.Join(abs, e.Name())})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", abs, ErrEmptyLibrary)
	}
	return items, nil
}

// ErrEmptyLibrary is returned when a library directory has no entries.
var ErrEmptyLibrary = errors.New("no entries to scan")
