package tasklist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteJournal is an append-only record of dispatched actions. Replaying it
// through the reducer reproduces the list, so the journal is the single
// source of truth when persistence is enabled.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Reasonable pragmas for an app server
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Close() error { return j.db.Close() }

// ApplyMigrations ensures schema exists
func (j *SQLiteJournal) ApplyMigrations(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS actions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	payload TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
	`)
	return err
}

// Append implements Journal. The whole action is stored as JSON next to its
// kind so the table stays queryable without decoding payloads.
func (j *SQLiteJournal) Append(a Action) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	_, err = j.db.Exec(`
		INSERT INTO actions (kind, payload, recorded_at)
		VALUES (?, ?, ?)
	`, string(a.Kind), string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Actions returns every journaled action in dispatch order, for replay.
func (j *SQLiteJournal) Actions(ctx context.Context) ([]Action, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT payload
		FROM actions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var a Action
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SQLiteFileDSN builds a DSN like: file:/absolute/path?_pragma=busy_timeout(5000)
func SQLiteFileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}
