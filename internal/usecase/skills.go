package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/scoring"
	"github.com/rs/zerolog"
)

// SkillService writes computed scores into skill storage.
type SkillService struct {
	store  SkillStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewSkillService creates a new SkillService instance.
func NewSkillService(store SkillStore, logger zerolog.Logger) *SkillService {
	return &SkillService{store: store, logger: logger, now: time.Now}
}

// Apply upserts one score per skill for the user and returns how many were written.
// Existing skills keep their category; new ones get domain.DefaultSkillCategory.
// Scores overwrite the previous value, they are never added to it. The scores
// are written in a single store call, so a failure leaves the previous scores intact.
func (s *SkillService) Apply(ctx context.Context, userID string, scores map[string]float64) (int, error) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	userSkills := make([]domain.UserSkill, 0, len(names))
	for _, name := range names {
		skill, err := s.findOrCreateSkill(ctx, name)
		if err != nil {
			return 0, err
		}
		userSkills = append(userSkills, domain.UserSkill{
			UserID:    userID,
			SkillID:   skill.ID,
			Score:     scoring.Clamp(scores[name]),
			UpdatedAt: now,
		})
	}

	if err := s.store.SaveUserSkills(ctx, userID, userSkills); err != nil {
		return 0, fmt.Errorf("failed to save skill scores: %w", err)
	}

	s.logger.Debug().Str("user", userID).Int("skills", len(names)).Msg("skill scores updated")
	return len(names), nil
}

// List returns the user's stored skills.
func (s *SkillService) List(ctx context.Context, userID string) ([]domain.SkillView, error) {
	skills, err := s.store.ListUserSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

func (s *SkillService) findOrCreateSkill(ctx context.Context, name string) (*domain.Skill, error) {
	skill, err := s.store.FindSkillByName(ctx, name)
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up skill %s: %w", name, err)
	}

	skill = &domain.Skill{Name: name, Category: domain.DefaultSkillCategory}
	if err := s.store.SaveSkill(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill %s: %w", name, err)
	}
	return skill, nil
}
