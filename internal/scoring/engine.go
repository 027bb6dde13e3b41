// Package scoring derives per-skill proficiency scores from repository records.
package scoring

import (
	"math"

	"github.com/naka-gawa/github-skills/internal/domain"
)

const (
	// StarWeight bounds how much repository popularity can amplify language volume.
	StarWeight = 0.1
	// TopicBonus is added once per topic occurrence.
	TopicBonus = 5.0
)

// Compute returns one score per distinct language and topic name seen in repos.
//
// Each language contributes log1p(bytes) * (1 + log1p(stars)*StarWeight) and each
// topic contributes TopicBonus. Languages and topics share one namespace. Final
// scores are truncated to [0, domain.MaxSkillScore], not rescaled.
func Compute(repos []domain.RepositoryRecord) map[string]float64 {
	scores := make(map[string]float64)
	for _, repo := range repos {
		boost := 1 + math.Log1p(nonNegative(float64(repo.Stars)))*StarWeight
		for lang, size := range repo.Languages {
			scores[lang] += math.Log1p(nonNegative(size)) * boost
		}
		for _, topic := range repo.Topics {
			scores[topic] += TopicBonus
		}
	}
	for name, score := range scores {
		scores[name] = Clamp(score)
	}
	return scores
}

// Clamp truncates a score to [0, domain.MaxSkillScore].
func Clamp(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	return math.Min(score, domain.MaxSkillScore)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
