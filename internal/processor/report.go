package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"repolens/internal/chunk"
)

// RunReport is the JSON-serializable result of one run. Field names are
// the stable on-disk contract.
type RunReport struct {
	Repository string        `json:"repository"`
	Stats      Stats         `json:"stats"`
	Chunks     []chunk.Chunk `json:"chunks"`
}

// Report snapshots the run into its serializable form.
func (p *Processor) Report() RunReport {
	return RunReport{
		Repository: filepath.Base(p.root),
		Stats:      p.Stats(),
		Chunks:     p.Chunks(),
	}
}

// SaveReport writes the run report to <repository>_chunks.json under
// outputDir, creating the directory if needed, and returns the path.
func (p *Processor) SaveReport(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	report := p.Report()
	path := filepath.Join(outputDir, report.Repository+"_chunks.json")

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write run report: %w", err)
	}

	p.logger.Info("saved chunks", "count", len(report.Chunks), "path", path)
	return path, nil
}
