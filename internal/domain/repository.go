// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepositoryRecord is the normalized form of one GitHub repository.
// It is the input of skill scoring and of the recommendation request.
type RepositoryRecord struct {
	GitHubID        int64              `json:"githubId"`
	FullName        string             `json:"fullName"`
	Description     string             `json:"description"`
	PrimaryLanguage string             `json:"primaryLanguage,omitempty"`
	Languages       map[string]float64 `json:"languages"`
	Topics          []string           `json:"topics"`
	Stars           int                `json:"stars"`
	Forks           int                `json:"forks"`
	LastPushedAt    time.Time          `json:"lastPushedAt"`
}

// Profile is the GitHub account behind an access token.
type Profile struct {
	GitHubID  int64
	Login     string
	Email     string
	AvatarURL string
}
