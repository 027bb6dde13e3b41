package normalize

import (
	"fmt"
	"time"

	"github.com/naka-gawa/github-skills/internal/domain"
)

// Normalize converts every node of p into a RepositoryRecord.
//
// A node without a usable databaseId or pushedAt is skipped; every other missing
// field decays to its zero value. The returned error, when non-nil, is always a
// *BatchWarning and the records are still valid.
func Normalize(p *Payload) ([]domain.RepositoryRecord, error) {
	conn, ok := p.connection()
	if !ok {
		return []domain.RepositoryRecord{}, &BatchWarning{Root: ErrMissingRoot}
	}

	nodes := conn.Nodes
	records := make([]domain.RepositoryRecord, 0, len(nodes))
	var skipped []NodeError
	for i, node := range nodes {
		if err, bad := conn.malformed[i]; bad {
			skipped = append(skipped, NodeError{Index: i, Err: fmt.Errorf("%w: %w", ErrMalformedNode, err)})
			continue
		}
		record, err := normalizeNode(node)
		if err != nil {
			skipped = append(skipped, NodeError{Index: i, Name: node.displayName(), Err: err})
			continue
		}
		records = append(records, record)
	}

	if len(skipped) > 0 {
		return records, &BatchWarning{Total: len(nodes), Skipped: skipped}
	}
	return records, nil
}

func (p *Payload) connection() (*RepositoryConnection, bool) {
	if p == nil || p.Viewer == nil || p.Viewer.Repositories == nil || p.Viewer.Repositories.Nodes == nil {
		return nil, false
	}
	return p.Viewer.Repositories, true
}

func (n *RepositoryNode) displayName() string {
	if n == nil {
		return ""
	}
	if name := StringOrEmpty(n.NameWithOwner); name != "" {
		return name
	}
	return StringOrEmpty(n.Name)
}

func normalizeNode(n *RepositoryNode) (domain.RepositoryRecord, error) {
	if n == nil {
		return domain.RepositoryRecord{}, ErrNullNode
	}

	id, err := n.DatabaseID.Int64()
	if err != nil {
		return domain.RepositoryRecord{}, fmt.Errorf("databaseId: %w", err)
	}

	pushedAt, err := n.pushedAt()
	if err != nil {
		return domain.RepositoryRecord{}, fmt.Errorf("pushedAt: %w", err)
	}

	return domain.RepositoryRecord{
		GitHubID:        id,
		FullName:        n.displayName(),
		Description:     StringOrEmpty(n.Description),
		PrimaryLanguage: n.primaryLanguage(),
		Languages:       n.languages(),
		Topics:          n.topics(),
		Stars:           n.StargazerCount.IntOrZero(),
		Forks:           n.ForkCount.IntOrZero(),
		LastPushedAt:    pushedAt,
	}, nil
}

func (n *RepositoryNode) pushedAt() (time.Time, error) {
	if n.PushedAt == nil || *n.PushedAt == "" {
		return time.Time{}, ErrMissingField
	}
	t, err := time.Parse(time.RFC3339, *n.PushedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return t.UTC(), nil
}

func (n *RepositoryNode) primaryLanguage() string {
	if n.PrimaryLanguage == nil {
		return ""
	}
	return StringOrEmpty(n.PrimaryLanguage.Name)
}

func (n *RepositoryNode) languages() map[string]float64 {
	languages := make(map[string]float64)
	if n.Languages == nil {
		return languages
	}
	for _, edge := range n.Languages.Edges {
		if edge == nil || edge.Node == nil {
			continue
		}
		name := StringOrEmpty(edge.Node.Name)
		if name == "" {
			continue
		}
		languages[name] = edge.Size.FloatOrZero()
	}
	return languages
}

func (n *RepositoryNode) topics() []string {
	topics := []string{}
	if n.RepositoryTopics == nil {
		return topics
	}
	for _, node := range n.RepositoryTopics.Nodes {
		if node == nil || node.Topic == nil {
			continue
		}
		if name := StringOrEmpty(node.Topic.Name); name != "" {
			topics = append(topics, name)
		}
	}
	return topics
}
