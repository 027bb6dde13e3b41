package usecase

import (
	"context"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/gateway"
)

// RepositoryStore persists normalized repositories per user.
type RepositoryStore interface {
	FindByUser(ctx context.Context, userID string) ([]domain.RepositoryRecord, error)
	SaveAll(ctx context.Context, userID string, records []domain.RepositoryRecord) error
}

// SkillStore persists shared skills and per-user scores.
// FindSkillByName returns domain.ErrNotFound when nothing matches.
// SaveUserSkills is atomic: all scores are written or none.
type SkillStore interface {
	FindSkillByName(ctx context.Context, name string) (*domain.Skill, error)
	SaveSkill(ctx context.Context, skill *domain.Skill) error
	SaveUserSkills(ctx context.Context, userID string, scores []domain.UserSkill) error
	ListUserSkills(ctx context.Context, userID string) ([]domain.SkillView, error)
}

// UserStore persists users. FindUserByUsername returns domain.ErrNotFound for unknown users.
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	SaveUser(ctx context.Context, user *domain.User) error
}

// Recommender produces recommendations for a user's repositories. It never fails.
type Recommender interface {
	GetRecommendations(ctx context.Context, user domain.User, repos []domain.RepositoryRecord) domain.RecommendationResponse
}

// FetcherFactory builds a GitHub fetcher bound to one access token.
type FetcherFactory func(token string) (gateway.Fetcher, error)
