package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolens/internal/chunk"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func seedRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "main.py", "def main():\n    print('hello')\n")
	writeFile(t, root, "README.md", "# Demo\nA sample project.\n## Usage\nRun it.\n")
	writeFile(t, root, "config.json", "{\"debug\": true}\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = 1\n")
	return root
}

func TestProcessRepository(t *testing.T) {
	root := seedRepo(t)
	p := New(root, Options{Workers: 2}, nil)

	chunks, err := p.ProcessRepository(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	stats := p.Stats()
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, len(chunks), stats.ChunksCreated)
	assert.Equal(t, 0, stats.Errors)
	assert.Greater(t, stats.ProcessingTime, 0.0)

	assert.Equal(t, 1, stats.FilesByType[chunk.Code])
	assert.Equal(t, 1, stats.FilesByType[chunk.Documentation])
	assert.Equal(t, 1, stats.FilesByType[chunk.Configuration])

	// node_modules content never shows up.
	for _, c := range chunks {
		assert.NotContains(t, c.FilePath, "node_modules")
	}

	report := p.SyntaxErrorReport()
	assert.False(t, report.HasSyntaxErrors)
}

func TestProcessRepositoryRecordsSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.py", "def broken(:\n    pass\n")

	p := New(root, Options{}, nil)
	chunks, err := p.ProcessRepository(context.Background())
	require.NoError(t, err)

	// The broken file still yields fallback chunks.
	require.NotEmpty(t, chunks)
	report := p.SyntaxErrorReport()
	assert.True(t, report.HasSyntaxErrors)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, "broken.py", report.Errors[0].FilePath)
}

func TestProcessRepositoryCancelledContext(t *testing.T) {
	root := seedRepo(t)
	p := New(root, Options{Workers: 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessRepository(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessRepositoryMissingRoot(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "nope"), Options{}, nil)
	_, err := p.ProcessRepository(context.Background())
	assert.Error(t, err)
}

func TestProcessFile(t *testing.T) {
	root := seedRepo(t)
	p := New(root, Options{}, nil)

	chunks := p.ProcessFile("main.py")
	require.Len(t, chunks, 1)
	assert.Equal(t, "main", chunks[0].Name)
	assert.Equal(t, 1, p.Stats().FilesProcessed)

	// Missing files are skipped, not counted as processed or failed.
	assert.Nil(t, p.ProcessFile("ghost.py"))
	stats := p.Stats()
	assert.Equal(t, 1, stats.FilesProcessed)
	assert.Equal(t, 0, stats.Errors)
}

func TestSaveReport(t *testing.T) {
	root := seedRepo(t)
	p := New(root, Options{}, nil)

	_, err := p.ProcessRepository(context.Background())
	require.NoError(t, err)

	outDir := t.TempDir()
	path, err := p.SaveReport(outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, filepath.Base(root)+"_chunks.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, filepath.Base(root), report.Repository)
	assert.Equal(t, report.Stats.ChunksCreated, len(report.Chunks))
	assert.Equal(t, 3, report.Stats.FilesProcessed)
}
