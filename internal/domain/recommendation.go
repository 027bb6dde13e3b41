package domain

// RecommendationResponse is the fixed-shape result of a recommendation request.
// List fields are never nil so that they always serialize as arrays.
type RecommendationResponse struct {
	CareerPaths       []CareerPath       `json:"careerPaths"`
	SkillGaps         []SkillGap         `json:"skillGaps"`
	ProjectIdeas      []ProjectIdea      `json:"projectIdeas"`
	Technologies      []Technology       `json:"technologies"`
	LearningResources []LearningResource `json:"learningResources"`
	SkillAnalysis     SkillAnalysis      `json:"skillAnalysis"`
	RepoImprovements  []RepoImprovement  `json:"repoImprovements"`
	ProfileStats      ProfileStats       `json:"profileStats"`
}

// NewRecommendationResponse returns a response whose collections are all empty.
func NewRecommendationResponse() RecommendationResponse {
	return RecommendationResponse{
		CareerPaths:       []CareerPath{},
		SkillGaps:         []SkillGap{},
		ProjectIdeas:      []ProjectIdea{},
		Technologies:      []Technology{},
		LearningResources: []LearningResource{},
		SkillAnalysis:     NewSkillAnalysis(),
		RepoImprovements:  []RepoImprovement{},
	}
}

// CareerPath is a suggested role with how well the user matches it.
type CareerPath struct {
	Title         string   `json:"title"`
	Score         float64  `json:"score"`
	Confidence    float64  `json:"confidence"`
	Description   string   `json:"description"`
	MatchedSkills []string `json:"matchedSkills"`
	SalaryRange   string   `json:"salaryRange"`
	Demand        string   `json:"demand"`
}

// SkillGap lists what the user still needs for a career.
type SkillGap struct {
	Career               string   `json:"career"`
	MissingSkills        []string `json:"missingSkills"`
	NiceToHave           []string `json:"niceToHave"`
	Priority             string   `json:"priority"`
	CompletionPercentage int      `json:"completionPercentage"`
}

// ProjectIdea is a suggested project to build missing skills.
type ProjectIdea struct {
	Title           string   `json:"title"`
	Skills          []string `json:"skills"`
	Difficulty      string   `json:"difficulty"`
	Description     string   `json:"description"`
	EstimatedTime   string   `json:"estimatedTime"`
	LearningGoals   []string `json:"learningGoals"`
	SkillsYouHave   []string `json:"skillsYouHave"`
	SkillsToLearn   []string `json:"skillsToLearn"`
	MatchPercentage int      `json:"matchPercentage"`
	Reason          string   `json:"reason"`
}

// Technology is a suggested technology to learn.
type Technology struct {
	Technology       string   `json:"technology"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	LearningTime     string   `json:"learningTime"`
	JobRelevance     string   `json:"jobRelevance"`
	PrerequisitesMet []string `json:"prerequisitesMet"`
	Reason           string   `json:"reason"`
}

// LearningResource points to material for one skill.
type LearningResource struct {
	Title          string   `json:"title"`
	Provider       string   `json:"provider"`
	Skills         []string `json:"skills"`
	Difficulty     string   `json:"difficulty"`
	Duration       string   `json:"duration"`
	URL            string   `json:"url"`
	Type           string   `json:"type"`
	RelevantSkills []string `json:"relevantSkills"`
	RelevanceScore int      `json:"relevanceScore"`
}

// SkillAnalysis groups the strengths, weaknesses and full skill list of a profile.
type SkillAnalysis struct {
	Strengths  []Strength  `json:"strengths"`
	Weaknesses []Weakness  `json:"weaknesses"`
	Skills     []SkillInfo `json:"skills"`
}

// NewSkillAnalysis returns an analysis with empty, non-nil lists.
func NewSkillAnalysis() SkillAnalysis {
	return SkillAnalysis{
		Strengths:  []Strength{},
		Weaknesses: []Weakness{},
		Skills:     []SkillInfo{},
	}
}

// Strength is a skill the user already shows.
type Strength struct {
	Skill      string  `json:"skill"`
	Score      float64 `json:"score"`
	ReposCount int     `json:"reposCount"`
	Category   string  `json:"category"`
}

// Weakness is a skill the user should improve, with a suggestion.
type Weakness struct {
	Skill      string `json:"skill"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

// SkillInfo is the proficiency detected for one skill.
type SkillInfo struct {
	Skill       string `json:"skill"`
	Proficiency int    `json:"proficiency"`
	ReposCount  int    `json:"reposCount"`
	Category    string `json:"category"`
}

// RepoImprovement suggests changes to one of the user's repositories.
type RepoImprovement struct {
	Repo         string              `json:"repo"`
	CurrentStars int                 `json:"currentStars"`
	Improvements []map[string]string `json:"improvements"`
}

// ProfileStats summarizes the user's repositories.
type ProfileStats struct {
	LanguageDiversity   int     `json:"languageDiversity"`
	TopicDiversity      int     `json:"topicDiversity"`
	TotalRepos          int     `json:"totalRepos"`
	TotalStars          int     `json:"totalStars"`
	AvgLanguagesPerRepo float64 `json:"avgLanguagesPerRepo"`
}

// CareerAnalysis is the career-focused projection of a RecommendationResponse.
type CareerAnalysis struct {
	CareerPaths []CareerPath `json:"careerPaths"`
	SkillGaps   []SkillGap   `json:"skillGaps"`
}
