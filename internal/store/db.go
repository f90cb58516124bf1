// Package store keeps assessment history and candidate scores in SQLite.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"hrintel/internal/errors"
	"hrintel/internal/utils"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = stderrors.New("record not found")

// timeLayout is fixed width so that created_at columns sort chronologically
// as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed history store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to create database directory", err).
			WithContext("path", path)
	}

	// modernc sqlite takes pragmas through the DSN
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to open database", err).
			WithContext("path", path)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to connect to database", err).
			WithContext("path", path)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to migrate database", err).
			WithContext("path", path)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS assessments (
  id TEXT PRIMARY KEY,
  candidate_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  level TEXT NOT NULL,
  skills TEXT NOT NULL DEFAULT '[]',
  questions TEXT NOT NULL DEFAULT '[]',
  focus TEXT NOT NULL,
  technical_weight INTEGER NOT NULL,
  insight TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS candidate_results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  jd_title TEXT NOT NULL DEFAULT '',
  candidate_name TEXT NOT NULL,
  technical REAL NOT NULL,
  problem_solving REAL NOT NULL,
  system_design REAL NOT NULL,
  communication REAL NOT NULL,
  total_score REAL NOT NULL,
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at);`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_results_total ON candidate_results(total_score);`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written before the fixed-width layout
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}
		}
	}
	return t
}
