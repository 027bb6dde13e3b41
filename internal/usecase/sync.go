package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/gateway"
	"github.com/naka-gawa/github-skills/internal/metrics"
	"github.com/naka-gawa/github-skills/internal/normalize"
	"github.com/naka-gawa/github-skills/internal/scoring"
	"github.com/rs/zerolog"
)

var (
	// ErrNoAccessToken rejects a sync before any network call is made.
	ErrNoAccessToken = errors.New("user has no access token")
	// ErrFetchFailed aborts a sync; nothing is written when it is returned.
	ErrFetchFailed = errors.New("failed to fetch data from GitHub")
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Repositories int       `json:"repositories"`
	Skipped      int       `json:"skipped"`
	Skills       int       `json:"skills"`
	SyncedAt     time.Time `json:"syncedAt"`
}

// SyncService runs fetch → normalize → persist → score for one user.
type SyncService struct {
	users      UserStore
	repos      RepositoryStore
	skills     *SkillService
	newFetcher FetcherFactory
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewSyncService creates a new SyncService instance.
func NewSyncService(users UserStore, repos RepositoryStore, skills *SkillService, newFetcher FetcherFactory, logger zerolog.Logger, m *metrics.Metrics) *SyncService {
	return &SyncService{
		users:      users,
		repos:      repos,
		skills:     skills,
		newFetcher: newFetcher,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Sync refreshes the user's repositories and skill scores from GitHub.
// The caller must not run two syncs for the same user at once.
func (s *SyncService) Sync(ctx context.Context, user *domain.User) (*SyncResult, error) {
	result, err := s.sync(ctx, user)
	switch {
	case errors.Is(err, ErrNoAccessToken):
		s.metrics.SyncFinished(metrics.OutcomePrecondition)
	case errors.Is(err, ErrFetchFailed):
		s.metrics.SyncFinished(metrics.OutcomeFetchFailed)
	case err != nil:
		s.metrics.SyncFinished(metrics.OutcomeError)
	default:
		s.metrics.SyncFinished(metrics.OutcomeSuccess)
	}
	return result, err
}

func (s *SyncService) sync(ctx context.Context, user *domain.User) (*SyncResult, error) {
	if !user.HasAccessToken() {
		return nil, ErrNoAccessToken
	}
	log := s.logger.With().Str("user", user.Username).Logger()
	log.Info().Msg("sync started")

	fetcher, err := s.newFetcher(user.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	snapshot, err := gateway.FetchSnapshot(ctx, fetcher)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	records, warning := normalize.Normalize(snapshot.Payload)
	skipped := 0
	if warning != nil {
		var batch *normalize.BatchWarning
		if errors.As(warning, &batch) {
			skipped = len(batch.Skipped)
		}
		s.metrics.NodesSkipped(skipped)
		log.Warn().Err(warning).Int("skipped", skipped).Msg("some repositories could not be normalized")
	}

	if err := s.repos.SaveAll(ctx, user.ID, records); err != nil {
		return nil, fmt.Errorf("failed to save repositories: %w", err)
	}

	syncedAt := s.now().UTC()
	applyProfile(user, snapshot.Profile)
	user.LastSync = &syncedAt
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	written, err := s.skills.Apply(ctx, user.ID, scoring.Compute(records))
	if err != nil {
		return nil, fmt.Errorf("failed to update skills: %w", err)
	}
	s.metrics.SkillsUpserted(written)

	log.Info().Int("repos", len(records)).Int("skipped", skipped).Int("skills", written).Msg("sync completed")
	return &SyncResult{
		Repositories: len(records),
		Skipped:      skipped,
		Skills:       written,
		SyncedAt:     syncedAt,
	}, nil
}

func applyProfile(user *domain.User, profile *domain.Profile) {
	if profile == nil {
		return
	}
	if profile.GitHubID != 0 {
		user.GitHubID = profile.GitHubID
	}
	if profile.Email != "" {
		user.Email = profile.Email
	}
	if profile.AvatarURL != "" {
		user.AvatarURL = profile.AvatarURL
	}
}
