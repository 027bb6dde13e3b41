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

// FindSkillByName returns ErrNotFound when the skill has never been seen.
func (s *Store) FindSkillByName(ctx context.Context, name string) (*domain.Skill, error) {
	var sk domain.Skill
	err := s.conn.QueryRowContext(ctx, `SELECT id, name, category FROM skills WHERE name = ?`, name).
		Scan(&sk.ID, &sk.Name, &sk.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find skill %s: %w", name, err)
	}
	return &sk, nil
}

// SaveSkill inserts or updates a skill. A missing ID is generated.
func (s *Store) SaveSkill(ctx context.Context, sk *domain.Skill) error {
	if sk.ID == "" {
		sk.ID = uuid.NewString()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO skills (id, name, category) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category`,
		sk.ID, sk.Name, sk.Category)
	if err != nil {
		return fmt.Errorf("failed to save skill %s: %w", sk.Name, err)
	}
	return nil
}

// SaveUserSkills writes the user's scores in one transaction, replacing any
// previous score for the same (user, skill). Either every score is written or none is.
func (s *Store) SaveUserSkills(ctx context.Context, userID string, scores []domain.UserSkill) (err error) {
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
		INSERT INTO user_skills (id, user_id, skill_id, score, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, skill_id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare user skill upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range scores {
		us := &scores[i]
		us.UserID = userID
		if us.ID == "" {
			us.ID = uuid.NewString()
		}
		if us.UpdatedAt.IsZero() {
			us.UpdatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, us.ID, us.UserID, us.SkillID, us.Score, formatTime(us.UpdatedAt)); err != nil {
			return fmt.Errorf("failed to save user skill %s: %w", us.SkillID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user skills: %w", err)
	}
	return nil
}

// ListUserSkills returns the user's skills, highest score first.
func (s *Store) ListUserSkills(ctx context.Context, userID string) ([]domain.SkillView, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT s.id, s.name, us.score, s.category
		FROM user_skills us JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = ?
		ORDER BY us.score DESC, s.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user skills: %w", err)
	}
	defer rows.Close()

	views := []domain.SkillView{}
	for rows.Next() {
		var v domain.SkillView
		if err := rows.Scan(&v.ID, &v.Name, &v.Score, &v.Category); err != nil {
			return nil, fmt.Errorf("failed to scan user skill: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user skills: %w", err)
	}
	return views, nil
}
