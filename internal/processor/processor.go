// Package processor drives one chunking run over a repository: walk,
// classify, chunk, and accumulate chunks, statistics, and syntax
// errors. A Processor is one run's context; concurrent runs use
// separate Processors and share nothing.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"repolens/internal/chunk"
	"repolens/internal/chunker"
	"repolens/internal/chunker/languages"
	"repolens/internal/classify"
	"repolens/internal/syntaxerr"
	"repolens/internal/walker"
)

// Stats are one run's counters. Only the run driver mutates them.
type Stats struct {
	FilesProcessed int                    `json:"files_processed"`
	ChunksCreated  int                    `json:"chunks_created"`
	FilesByType    map[chunk.Category]int `json:"files_by_type"`
	ChunksByType   map[chunk.Category]int `json:"chunks_by_type"`
	// ProcessingTime is the cumulative run duration in seconds.
	ProcessingTime float64 `json:"processing_time"`
	Errors         int     `json:"errors"`
}

// Options configure a run.
type Options struct {
	Workers     int      // parallel file workers; 0 means NumCPU
	ExcludeDirs []string // nil means the walker defaults
	ChunkSize   int      // windowed chunk size; 0 means the default
	CodeOverlap int
	DocOverlap  int
}

// Processor owns the chunk list, statistics, and error tracker for one
// repository-processing run.
type Processor struct {
	root    string
	opts    Options
	chunker *chunker.Chunker
	tracker *syntaxerr.Tracker
	logger  *slog.Logger

	mu     sync.Mutex
	chunks []chunk.Chunk
	stats  Stats
}

// New creates a run context for the repository at root. The logger may
// be nil.
func New(root string, opts Options, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("repository", filepath.Base(root))

	tracker := syntaxerr.NewTracker()
	ck := chunker.New(languages.NewDefaultRegistry(), tracker, logger)
	ck.SetWindowPolicy(chunker.WindowPolicy{
		ChunkSize:   opts.ChunkSize,
		CodeOverlap: opts.CodeOverlap,
		DocOverlap:  opts.DocOverlap,
	})
	return &Processor{
		root:    root,
		opts:    opts,
		chunker: ck,
		tracker: tracker,
		logger:  logger,
		stats: Stats{
			FilesByType:  make(map[chunk.Category]int),
			ChunksByType: make(map[chunk.Category]int),
		},
	}
}

// fileResult is one worker's output for one file, merged into the run
// state in a single critical section.
type fileResult struct {
	category chunk.Category
	chunks   []chunk.Chunk
	skipped  bool // IO failure or directory: not counted as processed
	failed   bool // unexpected failure, counted in Stats.Errors
}

// ProcessFile chunks a single file identified by its repository-relative
// path. It never returns an error: IO failures are logged and yield no
// chunks.
func (p *Processor) ProcessFile(relPath string) []chunk.Chunk {
	res := p.processFile(relPath)
	p.merge(res)
	return res.chunks
}

func (p *Processor) processFile(relPath string) fileResult {
	start := time.Now()
	abs := filepath.Join(p.root, filepath.FromSlash(relPath))

	info, err := os.Stat(abs)
	if err != nil {
		p.logger.Warn("file does not exist", "path", relPath)
		return fileResult{skipped: true}
	}
	if info.IsDir() {
		p.logger.Debug("skipping directory", "path", relPath)
		return fileResult{skipped: true}
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		p.logger.Error("error reading file", "path", relPath, "error", err)
		return fileResult{failed: true}
	}

	category, language := classify.File(relPath)
	chunks := p.chunker.ChunkFile(relPath, string(src), category, language)

	if len(chunks) == 0 {
		p.logger.Warn("no chunks returned for file", "path", relPath)
	} else {
		p.logger.Info("processed file",
			"path", relPath,
			"category", category,
			"language", language,
			"chunks", len(chunks),
			"elapsed", time.Since(start))
	}
	return fileResult{category: category, chunks: chunks}
}

// merge folds one file's result into the run state.
func (p *Processor) merge(res fileResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if res.failed {
		p.stats.Errors++
		return
	}
	if res.skipped {
		return
	}
	p.stats.FilesProcessed++
	p.stats.FilesByType[res.category]++
	p.stats.ChunksCreated += len(res.chunks)
	p.stats.ChunksByType[res.category] += len(res.chunks)
	p.chunks = append(p.chunks, res.chunks...)
}

// ProcessRepository walks the repository and chunks every discovered
// file across a pool of workers. No single file's failure aborts the
// run; only an unreadable root does.
func (p *Processor) ProcessRepository(ctx context.Context) ([]chunk.Chunk, error) {
	p.logger.Info("starting repository processing", "root", p.root)
	start := time.Now()

	workers := p.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	files, walkErrs := walker.Walk(ctx, p.root, p.opts.ExcludeDirs)

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for fi := range files {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				p.merge(p.processFile(fi.RelPath))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// The walker watches the same context, so its channels close on
		// their own; drain anyway so it never blocks on a full buffer.
		for range files {
		}
		return nil, err
	}
	if err := <-walkErrs; err != nil {
		return nil, fmt.Errorf("walk %s: %w", p.root, err)
	}

	p.mu.Lock()
	p.stats.ProcessingTime = time.Since(start).Seconds()
	chunks := p.chunks
	stats := p.stats
	p.mu.Unlock()

	p.logger.Info("repository processing complete",
		"chunks", stats.ChunksCreated,
		"files", stats.FilesProcessed,
		"errors", stats.Errors,
		"elapsed", time.Since(start))

	return chunks, nil
}

// Stats returns a snapshot of the run's counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.stats
	s.FilesByType = copyCounts(p.stats.FilesByType)
	s.ChunksByType = copyCounts(p.stats.ChunksByType)
	return s
}

// Chunks returns the chunks accumulated so far.
func (p *Processor) Chunks() []chunk.Chunk {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]chunk.Chunk, len(p.chunks))
	copy(out, p.chunks)
	return out
}

// SyntaxErrorReport aggregates the parse failures seen during the run.
func (p *Processor) SyntaxErrorReport() syntaxerr.Report {
	return p.tracker.Report()
}

func copyCounts(m map[chunk.Category]int) map[chunk.Category]int {
	out := make(map[chunk.Category]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
