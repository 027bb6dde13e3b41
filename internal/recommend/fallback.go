package recommend

import "github.com/naka-gawa/github-skills/internal/domain"

const fallbackCareer = "Full Stack Developer"

// Fallback is returned whenever the recommendation service cannot be used.
// Callers can always render it.
func Fallback() domain.RecommendationResponse {
	resp := domain.NewRecommendationResponse()
	resp.CareerPaths = []domain.CareerPath{{
		Title:         fallbackCareer,
		Score:         0.5,
		Confidence:    0.3,
		Description:   "Build both client-side and server-side applications.",
		MatchedSkills: []string{},
		SalaryRange:   "$80k - $150k",
		Demand:        "High",
	}}
	return resp
}

// Empty has the Fallback shape but marks a user with no synced repositories:
// score and confidence are zero and the description carries message.
func Empty(message string) domain.RecommendationResponse {
	resp := domain.NewRecommendationResponse()
	resp.CareerPaths = []domain.CareerPath{{
		Title:         fallbackCareer,
		Score:         0.0,
		Confidence:    0.0,
		Description:   message,
		MatchedSkills: []string{},
		SalaryRange:   "N/A",
		Demand:        "High",
	}}
	return resp
}
