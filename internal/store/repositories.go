package store

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/naka-gawa/github-skills/internal/domain"
)

// FindByUser returns the user's repositories, most recently pushed first.
func (s *Store) FindByUser(ctx context.Context, userID string) ([]domain.RepositoryRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT gh_repo_id, full_name, description, primary_language, languages, topics, stars, forks, last_pushed_at
		FROM repositories WHERE user_id = ?
		ORDER BY last_pushed_at DESC, gh_repo_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer rows.Close()

	records := []domain.RepositoryRecord{}
	for rows.Next() {
		var (
			r                 domain.RepositoryRecord
			languages, topics string
			pushedAt          string
		)
		if err := rows.Scan(&r.GitHubID, &r.FullName, &r.Description, &r.PrimaryLanguage, &languages, &topics, &r.Stars, &r.Forks, &pushedAt); err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		if err := json.Unmarshal([]byte(languages), &r.Languages); err != nil {
			return nil, fmt.Errorf("failed to decode languages of %s: %w", r.FullName, err)
		}
		if err := json.Unmarshal([]byte(topics), &r.Topics); err != nil {
			return nil, fmt.Errorf("failed to decode topics of %s: %w", r.FullName, err)
		}
		if r.Languages == nil {
			r.Languages = map[string]float64{}
		}
		if r.Topics == nil {
			r.Topics = []string{}
		}
		if r.LastPushedAt, err = parseTime(pushedAt); err != nil {
			return nil, fmt.Errorf("failed to parse last_pushed_at of %s: %w", r.FullName, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repositories: %w", err)
	}
	return records, nil
}

// SaveAll upserts records for the user in one transaction, keyed by GitHub id.
func (s *Store) SaveAll(ctx context.Context, userID string, records []domain.RepositoryRecord) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO repositories (id, user_id, gh_repo_id, full_name, description, primary_language, languages, topics, stars, forks, last_pushed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, gh_repo_id) DO UPDATE SET
			full_name = excluded.full_name,
			description = excluded.description,
			primary_language = excluded.primary_language,
			languages = excluded.languages,
			topics = excluded.topics,
			stars = excluded.stars,
			forks = excluded.forks,
			last_pushed_at = excluded.last_pushed_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare repository upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		languages, err := json.Marshal(nonNilLanguages(r.Languages))
		if err != nil {
			return fmt.Errorf("failed to encode languages of %s: %w", r.FullName, err)
		}
		topics, err := json.Marshal(nonNilTopics(r.Topics))
		if err != nil {
			return fmt.Errorf("failed to encode topics of %s: %w", r.FullName, err)
		}
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), userID, r.GitHubID, r.FullName, r.Description, r.PrimaryLanguage,
			string(languages), string(topics), r.Stars, r.Forks, formatTime(r.LastPushedAt)); err != nil {
			return fmt.Errorf("failed to save repository %s: %w", r.FullName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit repositories: %w", err)
	}
	s.logger.Debug().Str("user", userID).Int("repos", len(records)).Msg("repositories saved")
	return nil
}

func nonNilLanguages(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nonNilTopics(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}
