// Package history persists a local audit of tool runs in SQLite: one row
// per extraction, generation, or pipeline invocation.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Schema for the runs table. Applied by Open.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	command       TEXT NOT NULL,
	file_id       TEXT NOT NULL DEFAULT '',
	scenario_type TEXT NOT NULL DEFAULT '',
	formats       TEXT NOT NULL DEFAULT '',
	outputs       TEXT NOT NULL DEFAULT '{}',
	status        TEXT NOT NULL,
	error         TEXT NOT NULL DEFAULT '',
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run is one recorded invocation.
type Run struct {
	ID           string            `json:"id"`
	Command      string            `json:"command"`
	FileID       string            `json:"file_id,omitempty"`
	ScenarioType string            `json:"scenario_type,omitempty"`
	Formats      string            `json:"formats,omitempty"`
	Outputs      map[string]string `json:"outputs,omitempty"`
	Status       string            `json:"status"`
	Error        string            `json:"error,omitempty"`
	StartedAt    int64             `json:"started_at"`
	FinishedAt   int64             `json:"finished_at"`
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts a run. A missing ID or FinishedAt is filled in.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt == 0 {
		r.FinishedAt = time.Now().UnixMilli()
	}
	outputs, err := json.Marshal(r.Outputs)
	if err != nil {
		return fmt.Errorf("history: marshal outputs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, file_id, scenario_type, formats, outputs, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Command, r.FileID, r.ScenarioType, r.Formats, string(outputs),
		r.Status, r.Error, r.StartedAt, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, file_id, scenario_type, formats, outputs, status, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var outputs string
		if err := rows.Scan(&r.ID, &r.Command, &r.FileID, &r.ScenarioType, &r.Formats,
			&outputs, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		if outputs != "" && outputs != "null" {
			if err := json.Unmarshal([]byte(outputs), &r.Outputs); err != nil {
				return nil, fmt.Errorf("history: decode outputs: %w", err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
