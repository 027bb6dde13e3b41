// Package store persists users, repositories and skill scores in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = domain.ErrNotFound

// Store is a SQLite-backed implementation of the user, repository and skill stores.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers, which SQLite requires anyway.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Debug().Str("path", path).Msg("database ready")
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			github_id INTEGER NOT NULL DEFAULT 0,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			access_token TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			last_sync TEXT
		);

		CREATE TABLE IF NOT EXISTS repositories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			gh_repo_id INTEGER NOT NULL,
			full_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			primary_language TEXT NOT NULL DEFAULT '',
			languages TEXT NOT NULL DEFAULT '{}',
			topics TEXT NOT NULL DEFAULT '[]',
			stars INTEGER NOT NULL DEFAULT 0,
			forks INTEGER NOT NULL DEFAULT 0,
			last_pushed_at TEXT NOT NULL,
			UNIQUE (user_id, gh_repo_id)
		);
		CREATE INDEX IF NOT EXISTS idx_repositories_user ON repositories(user_id);

		CREATE TABLE IF NOT EXISTS skills (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_skills (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			skill_id TEXT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
			score REAL NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (user_id, skill_id)
		);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
