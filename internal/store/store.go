// Package store archives completed runs in SQLite: statistics, chunks,
// and syntax errors, one row set per run. Embedding vectors are never
// stored; they live only in memory for the lifetime of a query.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"repolens/internal/chunk"
	"repolens/internal/processor"
	"repolens/internal/syntaxerr"
)

// RunRecord is one archived run's header.
type RunRecord struct {
	ID         int64
	Repository string
	CreatedAt  time.Time
	Stats      processor.Stats
}

// Store persists run reports.
type Store interface {
	// SaveRun archives a run report plus its syntax errors and returns
	// the run ID.
	SaveRun(report processor.RunReport, errs []syntaxerr.Record) (int64, error)
	// LatestRun returns the most recent run, or nil if none exist.
	LatestRun() (*RunRecord, error)
	// Run returns a run by ID.
	Run(id int64) (*RunRecord, error)
	// RunChunks returns the chunks archived for a run.
	RunChunks(runID int64) ([]chunk.Chunk, error)
	// RunErrors returns the syntax errors archived for a run.
	RunErrors(runID int64) ([]syntaxerr.Record, error)
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the archive at dbPath and initializes the
// schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveRun(report processor.RunReport, errs []syntaxerr.Record) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	statsJSON, err := json.Marshal(report.Stats)
	if err != nil {
		return 0, fmt.Errorf("marshal stats: %w", err)
	}

	res, err := tx.Exec("INSERT INTO runs (repository, stats) VALUES (?, ?)",
		report.Repository, string(statsJSON))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	chunkStmt, err := tx.Prepare(`
		INSERT INTO chunks (run_id, file_path, chunk_type, language, name, parent,
		                    start_line, end_line, token_count, content, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer chunkStmt.Close()

	for _, c := range report.Chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal chunk metadata: %w", err)
		}
		if _, err := chunkStmt.Exec(runID, c.FilePath, string(c.Type), c.Language,
			c.Name, c.Parent, c.StartLine, c.EndLine, c.TokenCount, c.Content, string(meta)); err != nil {
			return 0, fmt.Errorf("insert chunk for %s: %w", c.FilePath, err)
		}
	}

	errStmt, err := tx.Prepare(`
		INSERT INTO syntax_errors (run_id, file_path, language, error_msg,
		                           line_number, function_name, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer errStmt.Close()

	for _, e := range errs {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal error metadata: %w", err)
		}
		if _, err := errStmt.Exec(runID, e.FilePath, e.Language, e.Message,
			e.Line, e.Entity, string(meta)); err != nil {
			return 0, fmt.Errorf("insert syntax error for %s: %w", e.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *SQLiteStore) LatestRun() (*RunRecord, error) {
	return s.scanRun(s.db.QueryRow(
		"SELECT id, repository, created_at, stats FROM runs ORDER BY id DESC LIMIT 1"))
}

func (s *SQLiteStore) Run(id int64) (*RunRecord, error) {
	return s.scanRun(s.db.QueryRow(
		"SELECT id, repository, created_at, stats FROM runs WHERE id = ?", id))
}

func (s *SQLiteStore) scanRun(row *sql.Row) (*RunRecord, error) {
	var r RunRecord
	var statsJSON string
	err := row.Scan(&r.ID, &r.Repository, &r.CreatedAt, &statsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(statsJSON), &r.Stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStore) RunChunks(runID int64) ([]chunk.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT file_path, chunk_type, language, name, parent,
		       start_line, end_line, token_count, content, metadata
		FROM chunks WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []chunk.Chunk
	for rows.Next() {
		var c chunk.Chunk
		var chunkType, meta string
		if err := rows.Scan(&c.FilePath, &chunkType, &c.Language, &c.Name, &c.Parent,
			&c.StartLine, &c.EndLine, &c.TokenCount, &c.Content, &meta); err != nil {
			return nil, err
		}
		c.Type = chunk.Category(chunkType)
		if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal chunk metadata: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) RunErrors(runID int64) ([]syntaxerr.Record, error) {
	rows, err := s.db.Query(`
		SELECT file_path, language, error_msg, line_number, function_name, metadata
		FROM syntax_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []syntaxerr.Record
	for rows.Next() {
		var r syntaxerr.Record
		var meta string
		if err := rows.Scan(&r.FilePath, &r.Language, &r.Message, &r.Line, &r.Entity, &meta); err != nil {
			return nil, err
		}
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &r.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal error metadata: %w", err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
