package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/normalize"
	"github.com/naka-gawa/github-skills/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepositoryStore struct {
	mock.Mock
}

func (m *mockRepositoryStore) FindByUser(ctx context.Context, userID string) ([]domain.RepositoryRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepositoryRecord), args.Error(1)
}

func (m *mockRepositoryStore) SaveAll(ctx context.Context, userID string, records []domain.RepositoryRecord) error {
	return m.Called(ctx, userID, records).Error(0)
}

type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) GetRecommendations(ctx context.Context, user domain.User, repos []domain.RepositoryRecord) domain.RecommendationResponse {
	return m.Called(ctx, user, repos).Get(0).(domain.RecommendationResponse)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchProfile(ctx context.Context) (*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockFetcher) FetchRepositories(ctx context.Context) (*normalize.Payload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*normalize.Payload), args.Error(1)
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "skills.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func repoNode(id, name, lang string, size string, stars string, topics ...string) *normalize.RepositoryNode {
	node := &normalize.RepositoryNode{
		DatabaseID:     normalize.NewNumber(id),
		Name:           ptr(name),
		NameWithOwner:  ptr("octo/" + name),
		StargazerCount: normalize.NewNumber(stars),
		ForkCount:      normalize.NewNumber("0"),
		PushedAt:       ptr("2024-01-02T03:04:05Z"),
		Languages: &normalize.LanguageConnection{Edges: []*normalize.LanguageEdge{
			{Size: normalize.NewNumber(size), Node: &normalize.LanguageRef{Name: ptr(lang)}},
		}},
		RepositoryTopics: &normalize.TopicConnection{},
	}
	for _, topic := range topics {
		node.RepositoryTopics.Nodes = append(node.RepositoryTopics.Nodes,
			&normalize.TopicNode{Topic: &normalize.TopicRef{Name: ptr(topic)}})
	}
	return node
}

func payloadOf(nodes ...*normalize.RepositoryNode) *normalize.Payload {
	return &normalize.Payload{Viewer: &normalize.Viewer{
		Repositories: &normalize.RepositoryConnection{Nodes: nodes},
	}}
}
