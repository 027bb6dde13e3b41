package domain

import "time"

// DefaultSkillCategory is assigned to a skill the first time it is seen.
const DefaultSkillCategory = "Uncategorized"

// MaxSkillScore is the upper bound of every stored skill score.
const MaxSkillScore = 100.0

// Skill is a language or topic name shared across users.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UserSkill holds one user's score for one skill.
type UserSkill struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SkillID   string    `json:"skillId"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SkillView is a user's skill joined with the shared skill row.
type SkillView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}
