package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/naka-gawa/github-skills/internal/domain"
)

const userColumns = `id, github_id, username, email, avatar_url, access_token, created_at, last_sync`

// FindUserByUsername returns ErrNotFound when no such user exists.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// FindUserByID returns ErrNotFound when no such user exists.
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// SaveUser inserts or updates u, keyed by username. A missing ID and CreatedAt are filled in.
func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			github_id = excluded.github_id,
			email = excluded.email,
			avatar_url = excluded.avatar_url,
			access_token = excluded.access_token,
			last_sync = excluded.last_sync`,
		u.ID, u.GitHubID, u.Username, u.Email, u.AvatarURL, u.AccessToken, formatTime(u.CreatedAt), nullTime(u.LastSync),
	)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.Username, err)
	}

	// On conflict the existing row keeps its id and creation time.
	var createdAt string
	if err := s.conn.QueryRowContext(ctx, `SELECT id, created_at FROM users WHERE username = ?`, u.Username).
		Scan(&u.ID, &createdAt); err != nil {
		return fmt.Errorf("failed to reload user %s: %w", u.Username, err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("failed to parse created_at: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
		lastSync  sql.NullString
	)
	err := row.Scan(&u.ID, &u.GitHubID, &u.Username, &u.Email, &u.AvatarURL, &u.AccessToken, &createdAt, &lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lastSync.Valid {
		t, err := parseTime(lastSync.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last_sync: %w", err)
		}
		u.LastSync = &t
	}
	return &u, nil
}
