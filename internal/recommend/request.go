package recommend

import "github.com/naka-gawa/github-skills/internal/domain"

// Request is the body of POST /recommend.
type Request struct {
	UserID string        `json:"user_id"`
	Repos  []RepoPayload `json:"repos"`
}

// RepoPayload is one repository as the recommendation service expects it.
// No field is ever omitted.
type RepoPayload struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Languages   map[string]float64 `json:"languages"`
	Topics      []string           `json:"topics"`
	Stars       int                `json:"stars"`
	Forks       int                `json:"forks"`
}

// BuildRequest defaults every nullable field before transmission.
func BuildRequest(user domain.User, repos []domain.RepositoryRecord) Request {
	req := Request{
		UserID: user.ID,
		Repos:  make([]RepoPayload, 0, len(repos)),
	}
	for _, repo := range repos {
		languages := repo.Languages
		if languages == nil {
			languages = map[string]float64{}
		}
		topics := repo.Topics
		if topics == nil {
			topics = []string{}
		}
		req.Repos = append(req.Repos, RepoPayload{
			Name:        repo.FullName,
			Description: repo.Description,
			Languages:   languages,
			Topics:      topics,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
		})
	}
	return req
}
