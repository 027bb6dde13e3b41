package usecase

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-skills/internal/domain"
)

// SkillSummary describes the distribution of a user's skill scores.
type SkillSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Portfolio is the public view of a user's skills.
type Portfolio struct {
	Username  string             `json:"username"`
	AvatarURL string             `json:"avatarUrl"`
	Skills    []domain.SkillView `json:"skills"`
	Summary   SkillSummary       `json:"summary"`
}

// PortfolioService builds public portfolios.
type PortfolioService struct {
	users  UserStore
	skills SkillStore
}

// NewPortfolioService creates a new PortfolioService instance.
func NewPortfolioService(users UserStore, skills SkillStore) *PortfolioService {
	return &PortfolioService{users: users, skills: skills}
}

// Get returns the portfolio of username, or domain.ErrNotFound.
func (p *PortfolioService) Get(ctx context.Context, username string) (*Portfolio, error) {
	user, err := p.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	skills, err := p.skills.ListUserSkills(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return &Portfolio{
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Skills:    skills,
		Summary:   Summarize(skills),
	}, nil
}

// Summarize computes summary statistics of the skill scores. An empty list yields zeros.
func Summarize(skills []domain.SkillView) SkillSummary {
	if len(skills) == 0 {
		return SkillSummary{}
	}
	data := make(stats.Float64Data, 0, len(skills))
	for _, s := range skills {
		data = append(data, s.Score)
	}

	// Errors only occur on empty input, which is excluded above.
	mean, _ := data.Mean()
	median, _ := data.Median()
	p90, _ := data.Percentile(90)
	highest, _ := data.Max()

	return SkillSummary{
		Count:  len(skills),
		Mean:   mean,
		Median: median,
		P90:    p90,
		Max:    highest,
	}
}
