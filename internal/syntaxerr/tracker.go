// Package syntaxerr tracks parse failures encountered while chunking a
// repository and aggregates them into a per-run report.
package syntaxerr

import (
	"fmt"
	"strings"
	"sync"
)

// Record is one detected syntax problem. Records are append-only and
// never mutated after being added to a tracker.
type Record struct {
	FilePath string         `json:"file_path"`
	Language string         `json:"language"`
	Message  string         `json:"error_msg"`
	Line     int            `json:"line_number,omitempty"`
	Entity   string         `json:"function_name,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Report is the aggregate view of a run's syntax errors, grouped by
// language. Field names are the stable wire contract.
type Report struct {
	HasSyntaxErrors  bool                `json:"has_syntax_errors"`
	ErrorCount       int                 `json:"error_count"`
	Summary          string              `json:"summary"`
	Errors           []Record            `json:"errors"`
	ErrorsByLanguage map[string][]Record `json:"errors_by_language,omitempty"`
}

// Languages returns the report's language keys in the first-seen order
// of its errors, matching the summary line.
func (r Report) Languages() []string {
	var languages []string
	seen := make(map[string]bool)
	for _, rec := range r.Errors {
		if !seen[rec.Language] {
			seen[rec.Language] = true
			languages = append(languages, rec.Language)
		}
	}
	return languages
}

// Tracker is an append-only log of syntax errors, safe for concurrent
// use. Chunkers append local batches; nothing is ever removed.
type Tracker struct {
	mu      sync.Mutex
	records []Record
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Add appends one record. It never fails.
func (t *Tracker) Add(r Record) {
	t.mu.Lock()
	t.records = append(t.records, r)
	t.mu.Unlock()
}

// AddBatch appends a worker's local batch in one critical section so
// records from one file are never interleaved with another's.
func (t *Tracker) AddBatch(batch []Record) {
	if len(batch) == 0 {
		return
	}
	t.mu.Lock()
	t.records = append(t.records, batch...)
	t.mu.Unlock()
}

func (t *Tracker) HasErrors() bool {
	return t.Count() > 0
}

func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Errors returns a copy of the recorded errors in insertion order.
func (t *Tracker) Errors() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Report aggregates the tracker's records.
func (t *Tracker) Report() Report {
	return BuildReport(t.Errors())
}

// BuildReport groups records by language and produces the summary line.
// Languages appear in first-seen order.
func BuildReport(records []Record) Report {
	if len(records) == 0 {
		return Report{
			Summary: "No syntax errors were detected in the codebase.",
			Errors:  []Record{},
		}
	}

	byLanguage := make(map[string][]Record)
	var languages []string
	for _, r := range records {
		if _, seen := byLanguage[r.Language]; !seen {
			languages = append(languages, r.Language)
		}
		byLanguage[r.Language] = append(byLanguage[r.Language], r)
	}

	summary := fmt.Sprintf("Found %d syntax errors across %d languages: %s",
		len(records), len(languages), strings.Join(languages, ", "))

	return Report{
		HasSyntaxErrors:  true,
		ErrorCount:       len(records),
		Summary:          summary,
		Errors:           records,
		ErrorsByLanguage: byLanguage,
	}
}
