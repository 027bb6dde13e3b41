// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/metrics"
	"github.com/naka-gawa/github-skills/internal/recommend"
	"github.com/rs/zerolog"
)

// DefaultEmptyMessage is shown to users who have never synced.
const DefaultEmptyMessage = "No repositories found. Please sync your data."

// RecommendationAggregator is the use case for building recommendations.
// It loads the stored repositories and delegates to the Recommender.
type RecommendationAggregator struct {
	repos        RepositoryStore
	recommender  Recommender
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	emptyMessage string
}

// AggregatorOption configures a RecommendationAggregator.
type AggregatorOption func(*RecommendationAggregator)

// WithEmptyMessage sets the guidance shown when a user has no repositories.
func WithEmptyMessage(msg string) AggregatorOption {
	return func(a *RecommendationAggregator) {
		if msg != "" {
			a.emptyMessage = msg
		}
	}
}

// WithAggregatorMetrics records empty and fallback outcomes on m.
func WithAggregatorMetrics(m *metrics.Metrics) AggregatorOption {
	return func(a *RecommendationAggregator) { a.metrics = m }
}

// NewRecommendationAggregator creates a new RecommendationAggregator instance.
func NewRecommendationAggregator(repos RepositoryStore, recommender Recommender, logger zerolog.Logger, opts ...AggregatorOption) *RecommendationAggregator {
	a := &RecommendationAggregator{
		repos:        repos,
		recommender:  recommender,
		logger:       logger,
		emptyMessage: DefaultEmptyMessage,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetRecommendations always returns a well-formed response: the empty variant
// for users without repositories, the fallback when storage fails, and the
// Recommender's answer otherwise.
func (a *RecommendationAggregator) GetRecommendations(ctx context.Context, user domain.User) domain.RecommendationResponse {
	log := a.logger.With().Str("user", user.Username).Logger()

	repos, err := a.repos.FindByUser(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load repositories, using fallback")
		a.metrics.RecommendationServed(metrics.OutcomeFallback)
		return recommend.Fallback()
	}
	if len(repos) == 0 {
		log.Warn().Msg("no repositories found")
		a.metrics.RecommendationServed(metrics.OutcomeEmpty)
		return recommend.Empty(a.emptyMessage)
	}

	resp := a.recommender.GetRecommendations(ctx, user, repos)
	log.Info().
		Int("career_paths", len(resp.CareerPaths)).
		Int("skill_gaps", len(resp.SkillGaps)).
		Int("project_ideas", len(resp.ProjectIdeas)).
		Msg("recommendations generated")
	return resp
}

// SkillAnalysis re-runs the full recommendation and keeps the skill analysis.
func (a *RecommendationAggregator) SkillAnalysis(ctx context.Context, user domain.User) domain.SkillAnalysis {
	return a.GetRecommendations(ctx, user).SkillAnalysis
}

// CareerAnalysis re-runs the full recommendation and keeps career paths and skill gaps.
func (a *RecommendationAggregator) CareerAnalysis(ctx context.Context, user domain.User) domain.CareerAnalysis {
	full := a.GetRecommendations(ctx, user)
	return domain.CareerAnalysis{
		CareerPaths: full.CareerPaths,
		SkillGaps:   full.SkillGaps,
	}
}
