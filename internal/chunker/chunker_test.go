package chunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolens/internal/chunk"
	"repolens/internal/chunker"
)

func TestResolve(t *testing.T) {
	ck, _ := newTestChunker()

	tests := []struct {
		category chunk.Category
		language string
		want     chunker.Kind
	}{
		{chunk.Code, "python", chunker.KindStructural},
		{chunk.Code, "go", chunker.KindStructural},
		{chunk.Code, "ruby", chunker.KindWindowed},
		{chunk.Documentation, "md", chunker.KindMarkdown},
		{chunk.Documentation, "txt", chunker.KindWindowed},
		{chunk.Configuration, "yaml", chunker.KindWholeFile},
		{chunk.Unknown, "unknown", chunker.KindWholeFile},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ck.Resolve(tt.category, tt.language), "%s/%s", tt.category, tt.language)
	}
}

func TestWholeFileConfiguration(t *testing.T) {
	ck, _ := newTestChunker()
	content := "{\n  \"name\": \"demo\"\n}\n"

	chunks := ck.ChunkFile("package.json", content, chunk.Configuration, "npm")
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, content, c.Content)
	assert.Equal(t, chunk.Configuration, c.Type)
	// Configuration chunks carry their format as the kind tag.
	assert.Equal(t, "npm", c.Kind())
	assert.Zero(t, c.StartLine)
	assert.Zero(t, c.EndLine)
}

func TestWholeFileUnknown(t *testing.T) {
	ck, _ := newTestChunker()
	chunks := ck.ChunkFile("LICENSE", "MIT License\n", chunk.Unknown, "unknown")
	require.Len(t, chunks, 1)
	assert.Equal(t, "whole_file", chunks[0].Kind())
}

func TestUnsupportedCodeLanguageIsWindowed(t *testing.T) {
	ck, tracker := newTestChunker()
	chunks := ck.ChunkFile("app.rb", "def hello\n  puts 'hi'\nend\n", chunk.Code, "ruby")

	require.NotEmpty(t, chunks)
	assert.Equal(t, "size_based_chunk", chunks[0].Kind())
	assert.False(t, tracker.HasErrors())
}

func TestSetWindowPolicyKeepsDefaultsForZeroFields(t *testing.T) {
	ck, _ := newTestChunker()
	ck.SetWindowPolicy(chunker.WindowPolicy{ChunkSize: 50})

	// A 3-line file under the default 1500 but over 50 chars must split.
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\nbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\ncccccccccccccccccccccccccccccc\n"
	chunks := ck.ChunkFile("big.rb", content, chunk.Code, "ruby")
	assert.Greater(t, len(chunks), 1)
}
