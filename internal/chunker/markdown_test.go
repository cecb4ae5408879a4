package chunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolens/internal/chunk"
	"repolens/internal/chunker"
	"repolens/internal/chunker/languages"
	"repolens/internal/syntaxerr"
)

func newTestChunker() (*chunker.Chunker, *syntaxerr.Tracker) {
	tracker := syntaxerr.NewTracker()
	return chunker.New(languages.NewDefaultRegistry(), tracker, nil), tracker
}

func TestMarkdownSections(t *testing.T) {
	ck, _ := newTestChunker()
	content := "# Alpha\nfirst section\n## Beta\nsecond section\n"

	chunks := ck.ChunkFile("README.md", content, chunk.Documentation, "md")
	require.Len(t, chunks, 2)

	assert.Equal(t, "Alpha", chunks[0].Name)
	assert.Equal(t, "markdown_section", chunks[0].Kind())
	assert.Equal(t, 1, chunks[0].Metadata["heading_level"])
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Contains(t, chunks[0].Content, "first section")

	assert.Equal(t, "Beta", chunks[1].Name)
	assert.Equal(t, 2, chunks[1].Metadata["heading_level"])
	assert.Equal(t, 3, chunks[1].StartLine)
	assert.Contains(t, chunks[1].Content, "second section")

	for _, c := range chunks {
		assert.Equal(t, chunk.Documentation, c.Type)
		assert.Equal(t, "md", c.Language)
	}
}

func TestMarkdownIntroBeforeFirstHeading(t *testing.T) {
	ck, _ := newTestChunker()
	content := "Some opening prose.\n\n# Section\nbody\n"

	chunks := ck.ChunkFile("README.md", content, chunk.Documentation, "md")
	require.Len(t, chunks, 2)

	assert.Equal(t, "Introduction", chunks[0].Name)
	assert.Equal(t, "markdown_intro", chunks[0].Kind())
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, "Section", chunks[1].Name)
}

func TestMarkdownWithoutHeadingsFallsBackToWindows(t *testing.T) {
	ck, _ := newTestChunker()
	content := "plain prose with no headings at all\nsecond line\n"

	chunks := ck.ChunkFile("NOTES.md", content, chunk.Documentation, "md")
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "size_based_chunk", c.Kind())
	}
}

func TestNonMarkdownDocumentationIsWindowed(t *testing.T) {
	ck, _ := newTestChunker()
	chunks := ck.ChunkFile("NOTES.txt", "# looks like a heading\nbut txt is windowed\n", chunk.Documentation, "txt")
	require.NotEmpty(t, chunks)
	assert.Equal(t, "size_based_chunk", chunks[0].Kind())
}
