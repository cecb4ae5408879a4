// Package chunker decomposes repository files into retrievable chunks.
// Structural strategies (tree-sitter grammars, markdown headings) are
// selected per file from its classification; anything else, and any
// structural failure, degrades to size-based line windows. Chunking is
// total: it never fails, it only falls back.
package chunker

import (
	"log/slog"

	"repolens/internal/chunk"
	"repolens/internal/syntaxerr"
)

// Kind is the chunking strategy resolved for a file. The set is closed;
// dispatch happens exactly once per file.
type Kind int

const (
	KindWindowed Kind = iota
	KindStructural
	KindMarkdown
	KindWholeFile
)

// WindowPolicy controls the size-based fallback windows.
type WindowPolicy struct {
	ChunkSize   int
	CodeOverlap int
	DocOverlap  int
}

// DefaultWindowPolicy returns the reference windowing parameters.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{
		ChunkSize:   DefaultChunkSize,
		CodeOverlap: OverlapCode,
		DocOverlap:  OverlapDocs,
	}
}

// Chunker dispatches files to the strategy their classification selects
// and records parse failures on the shared tracker.
type Chunker struct {
	registry *Registry
	tracker  *syntaxerr.Tracker
	logger   *slog.Logger
	window   WindowPolicy
}

// New creates a chunker. The tracker collects syntax errors across the
// run; the logger may be nil.
func New(registry *Registry, tracker *syntaxerr.Tracker, logger *slog.Logger) *Chunker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chunker{
		registry: registry,
		tracker:  tracker,
		logger:   logger,
		window:   DefaultWindowPolicy(),
	}
}

// SetWindowPolicy overrides the fallback window sizes. Zero fields keep
// their defaults.
func (c *Chunker) SetWindowPolicy(p WindowPolicy) {
	if p.ChunkSize > 0 {
		c.window.ChunkSize = p.ChunkSize
	}
	if p.CodeOverlap > 0 {
		c.window.CodeOverlap = p.CodeOverlap
	}
	if p.DocOverlap > 0 {
		c.window.DocOverlap = p.DocOverlap
	}
}

// Resolve picks the strategy for a (category, language) pair.
func (c *Chunker) Resolve(category chunk.Category, language string) Kind {
	switch category {
	case chunk.Code:
		if c.registry.Lookup(language) != nil {
			return KindStructural
		}
		return KindWindowed
	case chunk.Documentation:
		if language == "md" {
			return KindMarkdown
		}
		return KindWindowed
	default:
		// Configuration and unknown files stay whole.
		return KindWholeFile
	}
}

// ChunkFile chunks one file's content. It never fails: structural
// errors are logged to the tracker and answered with windowed chunks.
func (c *Chunker) ChunkFile(path, content string, category chunk.Category, language string) []chunk.Chunk {
	switch c.Resolve(category, language) {
	case KindStructural:
		chunks, records := c.structural(path, content, language)
		c.tracker.AddBatch(records)
		return chunks
	case KindMarkdown:
		return c.markdown(path, content)
	case KindWholeFile:
		return c.wholeFile(path, content, category, language)
	default:
		overlap := c.window.CodeOverlap
		if category == chunk.Documentation {
			overlap = c.window.DocOverlap
		}
		return BySize(content, path, category, language, c.window.ChunkSize, overlap)
	}
}

// wholeFile emits a single chunk covering the entire artifact, with no
// line range. Configuration chunks carry their format as the kind tag.
func (c *Chunker) wholeFile(path, content string, category chunk.Category, language string) []chunk.Chunk {
	kind := "whole_file"
	if category == chunk.Configuration {
		kind = language
	}
	return []chunk.Chunk{chunk.New(chunk.Chunk{
		Content:  content,
		FilePath: path,
		Type:     category,
		Language: language,
		Metadata: map[string]any{"kind": kind},
	})}
}
