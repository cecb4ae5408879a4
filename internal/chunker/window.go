package chunker

import (
	"strings"

	"repolens/internal/chunk"
)

// Default windowing policy: ~1500 characters per chunk, with a little
// more overlap for prose than for code.
const (
	DefaultChunkSize = 1500
	OverlapCode      = 200
	OverlapDocs      = 250
)

// BySize splits content into overlapping line windows of roughly
// chunkSize characters. It is a pure function of its inputs: identical
// content and parameters always yield identical chunks. An empty input
// yields no chunks.
func BySize(content, path string, category chunk.Category, language string, chunkSize, overlap int) []chunk.Chunk {
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil
	}

	var chunks []chunk.Chunk
	var buf []string
	bufLen := 0
	startLine := 1

	window := func(endLine int) chunk.Chunk {
		return chunk.New(chunk.Chunk{
			Content:   strings.Join(buf, "\n"),
			FilePath:  path,
			Type:      category,
			StartLine: startLine,
			EndLine:   endLine,
			Language:  language,
			Metadata:  map[string]any{"kind": "size_based_chunk"},
		})
	}

	for i, line := range lines {
		lineNo := i + 1
		buf = append(buf, line)
		bufLen += len(line) + 1 // +1 for the line terminator

		if bufLen < chunkSize {
			continue
		}
		chunks = append(chunks, window(lineNo))

		// Seed the next buffer with a suffix of this one: whole lines
		// from the end while their cumulative length fits the overlap.
		cut := len(buf)
		tailLen := 0
		for cut > 0 {
			if tailLen+len(buf[cut-1])+1 > overlap {
				break
			}
			tailLen += len(buf[cut-1]) + 1
			cut--
		}
		buf = append([]string(nil), buf[cut:]...)
		bufLen = tailLen
		// Overlapping lines keep their original numbering.
		startLine = lineNo - len(buf) + 1
	}

	if len(buf) > 0 {
		chunks = append(chunks, window(len(lines)))
	}
	return chunks
}

// splitLines splits on newlines without manufacturing a trailing empty
// line for newline-terminated content. An empty string has no lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
