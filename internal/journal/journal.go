// Package journal persists an append-only SQLite log of pipeline events:
// stage transitions, gate decisions, and pipeline completion. The manifest
// stays the source of truth; the journal answers "what happened when" for the
// history command without replaying manifests.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event types recorded by the pipeline runner.
const (
	EventStageStarted      = "stage_started"
	EventStageCompleted    = "stage_completed"
	EventStageFailed       = "stage_failed"
	EventGateApproved      = "gate_approved"
	EventGateRejected      = "gate_rejected"
	EventPipelineCompleted = "pipeline_completed"
)

// Event is one journal row.
type Event struct {
	ID        int64
	EventID   string
	Project   string
	Stage     string
	Type      string
	Detail    string
	CreatedAt time.Time
}

// Store is the SQLite-backed event journal.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id TEXT NOT NULL UNIQUE,
    project TEXT NOT NULL,
    stage TEXT NOT NULL DEFAULT '',
    event_type TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_project ON events(project, id);
`

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one event.
func (s *Store) Record(ctx context.Context, project, stage, eventType, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, project, stage, event_type, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		project,
		stage,
		eventType,
		detail,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record journal event: %w", err)
	}
	return nil
}

// List returns the most recent events for a project, newest first. A limit of
// zero or less means no limit.
func (s *Store) List(ctx context.Context, project string, limit int) ([]Event, error) {
	query := `SELECT id, event_id, project, stage, event_type, detail, created_at
              FROM events WHERE project = ? ORDER BY id DESC`
	args := []any{project}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var createdAt string
		if err := rows.Scan(&event.ID, &event.EventID, &event.Project, &event.Stage, &event.Type, &event.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			event.CreatedAt = ts
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
