package recommend

import "github.com/naka-gawa/github-skills/internal/domain"

// Parse converts a decoded /recommend response into a RecommendationResponse.
// Every sub-object is extracted independently; missing or mistyped fields decay
// to empty collections, "" or 0.
func Parse(raw map[string]any) domain.RecommendationResponse {
	return domain.RecommendationResponse{
		CareerPaths:       mapList(raw["career_paths"], parseCareerPath),
		SkillGaps:         mapList(raw["skill_gaps"], parseSkillGap),
		ProjectIdeas:      mapList(raw["project_ideas"], parseProjectIdea),
		Technologies:      mapList(raw["technologies"], parseTechnology),
		LearningResources: mapList(raw["learning_resources"], parseLearningResource),
		SkillAnalysis:     parseSkillAnalysis(toObject(raw["skill_analysis"])),
		RepoImprovements:  mapList(raw["repo_improvements"], parseRepoImprovement),
		ProfileStats:      parseProfileStats(toObject(raw["profile_stats"])),
	}
}

func parseCareerPath(raw map[string]any) domain.CareerPath {
	return domain.CareerPath{
		Title:         toStringOrEmpty(raw["title"]),
		Score:         toNumberOrZero(raw["score"]),
		Confidence:    toNumberOrZero(raw["confidence"]),
		Description:   toStringOrEmpty(raw["description"]),
		MatchedSkills: toStringListOrEmpty(raw["matched_skills"]),
		SalaryRange:   toStringOrEmpty(raw["salary_range"]),
		Demand:        toStringOrEmpty(raw["demand"]),
	}
}

func parseSkillGap(raw map[string]any) domain.SkillGap {
	return domain.SkillGap{
		Career:               toStringOrEmpty(raw["career"]),
		MissingSkills:        toStringListOrEmpty(raw["missing_skills"]),
		NiceToHave:           toStringListOrEmpty(raw["nice_to_have"]),
		Priority:             toStringOrEmpty(raw["priority"]),
		CompletionPercentage: toIntOrZero(raw["completion_percentage"]),
	}
}

func parseProjectIdea(raw map[string]any) domain.ProjectIdea {
	return domain.ProjectIdea{
		Title:           toStringOrEmpty(raw["title"]),
		Skills:          toStringListOrEmpty(raw["skills"]),
		Difficulty:      toStringOrEmpty(raw["difficulty"]),
		Description:     toStringOrEmpty(raw["description"]),
		EstimatedTime:   toStringOrEmpty(raw["estimated_time"]),
		LearningGoals:   toStringListOrEmpty(raw["learning_goals"]),
		SkillsYouHave:   toStringListOrEmpty(raw["skills_you_have"]),
		SkillsToLearn:   toStringListOrEmpty(raw["skills_to_learn"]),
		MatchPercentage: toIntOrZero(raw["match_percentage"]),
		Reason:          toStringOrEmpty(raw["reason"]),
	}
}

func parseTechnology(raw map[string]any) domain.Technology {
	return domain.Technology{
		Technology:       toStringOrEmpty(raw["technology"]),
		Category:         toStringOrEmpty(raw["category"]),
		Difficulty:       toStringOrEmpty(raw["difficulty"]),
		LearningTime:     toStringOrEmpty(raw["learning_time"]),
		JobRelevance:     toStringOrEmpty(raw["job_relevance"]),
		PrerequisitesMet: toStringListOrEmpty(raw["prerequisites_met"]),
		Reason:           toStringOrEmpty(raw["reason"]),
	}
}

func parseLearningResource(raw map[string]any) domain.LearningResource {
	return domain.LearningResource{
		Title:          toStringOrEmpty(raw["title"]),
		Provider:       toStringOrEmpty(raw["provider"]),
		Skills:         toStringListOrEmpty(raw["skills"]),
		Difficulty:     toStringOrEmpty(raw["difficulty"]),
		Duration:       toStringOrEmpty(raw["duration"]),
		URL:            toStringOrEmpty(raw["url"]),
		Type:           toStringOrEmpty(raw["type"]),
		RelevantSkills: toStringListOrEmpty(raw["relevant_skills"]),
		RelevanceScore: toIntOrZero(raw["relevance_score"]),
	}
}

func parseSkillAnalysis(raw map[string]any) domain.SkillAnalysis {
	if raw == nil {
		return domain.NewSkillAnalysis()
	}
	return domain.SkillAnalysis{
		Strengths: mapList(raw["strengths"], func(s map[string]any) domain.Strength {
			return domain.Strength{
				Skill:      toStringOrEmpty(s["skill"]),
				Score:      toNumberOrZero(s["score"]),
				ReposCount: toIntOrZero(s["repos_count"]),
				Category:   toStringOrEmpty(s["category"]),
			}
		}),
		Weaknesses: mapList(raw["weaknesses"], func(w map[string]any) domain.Weakness {
			return domain.Weakness{
				Skill:      toStringOrEmpty(w["skill"]),
				Reason:     toStringOrEmpty(w["reason"]),
				Suggestion: toStringOrEmpty(w["suggestion"]),
			}
		}),
		Skills: mapList(raw["skills"], func(s map[string]any) domain.SkillInfo {
			return domain.SkillInfo{
				Skill:       toStringOrEmpty(s["skill"]),
				Proficiency: toIntOrZero(s["proficiency"]),
				ReposCount:  toIntOrZero(s["repos_count"]),
				Category:    toStringOrEmpty(s["category"]),
			}
		}),
	}
}

func parseRepoImprovement(raw map[string]any) domain.RepoImprovement {
	return domain.RepoImprovement{
		Repo:         toStringOrEmpty(raw["repo"]),
		CurrentStars: toIntOrZero(raw["current_stars"]),
		Improvements: mapList(raw["improvements"], toStringMap),
	}
}

func parseProfileStats(raw map[string]any) domain.ProfileStats {
	if raw == nil {
		return domain.ProfileStats{}
	}
	return domain.ProfileStats{
		LanguageDiversity:   toIntOrZero(raw["language_diversity"]),
		TopicDiversity:      toIntOrZero(raw["topic_diversity"]),
		TotalRepos:          toIntOrZero(raw["total_repos"]),
		TotalStars:          toIntOrZero(raw["total_stars"]),
		AvgLanguagesPerRepo: toNumberOrZero(raw["avg_languages_per_repo"]),
	}
}
