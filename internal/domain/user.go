package domain

import "time"

// User is a person whose repositories are synced and scored.
type User struct {
	ID          string     `json:"id"`
	GitHubID    int64      `json:"githubId"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	AccessToken string     `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastSync    *time.Time `json:"lastSync,omitempty"`
}

// HasAccessToken reports whether the user can be synced.
func (u User) HasAccessToken() bool {
	return u.AccessToken != ""
}
