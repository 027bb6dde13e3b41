package recommend

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	raw, err := decodeObject([]byte(body))
	require.NoError(t, err)
	return raw
}

func TestParse_EmptyObject(t *testing.T) {
	resp := Parse(map[string]any{})

	assert.Equal(t, domain.NewRecommendationResponse(), resp)
}

func TestParse_FullResponse(t *testing.T) {
	raw := decode(t, `{
		"career_paths": [{"title": "Data Engineer", "score": 0.6, "confidence": 0.5, "description": "pipelines", "matched_skills": ["Python"], "salary_range": "$100k", "demand": "Medium"}],
		"skill_gaps": [{"career": "Data Engineer", "missing_skills": ["Spark"], "nice_to_have": ["Airflow"], "priority": "high", "completion_percentage": "60"}],
		"project_ideas": [{"title": "ETL", "skills": ["Python"], "difficulty": "Intermediate", "description": "d", "estimated_time": "2 weeks", "learning_goals": ["Spark"], "skills_you_have": ["Python"], "skills_to_learn": ["Spark"], "match_percentage": 50.9, "reason": "r"}],
		"technologies": [{"technology": "Spark", "category": "Data", "difficulty": "Hard", "learning_time": "1 month", "job_relevance": "High", "prerequisites_met": ["Python"], "reason": "r"}],
		"learning_resources": [{"title": "Course", "provider": "P", "skills": ["Spark"], "difficulty": "Beginner", "duration": "4h", "url": "https://example.com", "type": "course", "relevant_skills": ["Spark"], "relevance_score": 80}],
		"skill_analysis": {
			"strengths": [{"skill": "Python", "score": 88.5, "repos_count": 4, "category": "Language"}],
			"weaknesses": [{"skill": "Testing", "reason": "few tests", "suggestion": "add tests"}],
			"skills": [{"skill": "Python", "proficiency": 88, "repos_count": 4, "category": "Language"}]
		},
		"repo_improvements": [{"repo": "octo/etl", "current_stars": 3, "improvements": [{"type": "docs", "suggestion": "add README", "impact": 2}]}],
		"profile_stats": {"language_diversity": 3, "topic_diversity": 5, "total_repos": 4, "total_stars": 12, "avg_languages_per_repo": 1.75}
	}`)

	resp := Parse(raw)

	assert.Equal(t, domain.CareerPath{Title: "Data Engineer", Score: 0.6, Confidence: 0.5, Description: "pipelines", MatchedSkills: []string{"Python"}, SalaryRange: "$100k", Demand: "Medium"}, resp.CareerPaths[0])
	assert.Equal(t, 60, resp.SkillGaps[0].CompletionPercentage)
	assert.Equal(t, []string{"Airflow"}, resp.SkillGaps[0].NiceToHave)
	assert.Equal(t, 50, resp.ProjectIdeas[0].MatchPercentage)
	assert.Equal(t, "2 weeks", resp.ProjectIdeas[0].EstimatedTime)
	assert.Equal(t, "1 month", resp.Technologies[0].LearningTime)
	assert.Equal(t, 80, resp.LearningResources[0].RelevanceScore)
	assert.Equal(t, "https://example.com", resp.LearningResources[0].URL)
	assert.Equal(t, 88.5, resp.SkillAnalysis.Strengths[0].Score)
	assert.Equal(t, "add tests", resp.SkillAnalysis.Weaknesses[0].Suggestion)
	assert.Equal(t, 88, resp.SkillAnalysis.Skills[0].Proficiency)
	assert.Equal(t, []map[string]string{{"type": "docs", "suggestion": "add README", "impact": "2"}}, resp.RepoImprovements[0].Improvements)
	assert.Equal(t, domain.ProfileStats{LanguageDiversity: 3, TopicDiversity: 5, TotalRepos: 4, TotalStars: 12, AvgLanguagesPerRepo: 1.75}, resp.ProfileStats)
}

func TestParse_MalformedFieldsDecay(t *testing.T) {
	raw := decode(t, `{
		"career_paths": [{"title": 42, "score": "high", "confidence": null, "matched_skills": "Go"}, "not-an-object", null],
		"skill_gaps": {"career": "not a list"},
		"skill_analysis": ["wrong"],
		"repo_improvements": [{"repo": "octo/x", "improvements": null}],
		"profile_stats": {"total_repos": true, "avg_languages_per_repo": "NaN"}
	}`)

	resp := Parse(raw)

	require.Len(t, resp.CareerPaths, 1)
	assert.Equal(t, domain.CareerPath{MatchedSkills: []string{}}, resp.CareerPaths[0])
	assert.Equal(t, []domain.SkillGap{}, resp.SkillGaps)
	assert.Equal(t, domain.NewSkillAnalysis(), resp.SkillAnalysis)
	assert.Equal(t, []map[string]string{}, resp.RepoImprovements[0].Improvements)
	assert.Equal(t, domain.ProfileStats{}, resp.ProfileStats)

	_, err := json.Marshal(resp)
	assert.NoError(t, err)
}
