package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/gateway"
	"github.com/naka-gawa/github-skills/internal/metrics"
	"github.com/naka-gawa/github-skills/internal/normalize"
	"github.com/naka-gawa/github-skills/internal/recommend"
	"github.com/naka-gawa/github-skills/internal/store"
	"github.com/naka-gawa/github-skills/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	payload *normalize.Payload
	err     error
}

func (f stubFetcher) FetchProfile(ctx context.Context) (*domain.Profile, error) {
	return &domain.Profile{GitHubID: 42, Login: "octo"}, f.err
}

func (f stubFetcher) FetchRepositories(ctx context.Context) (*normalize.Payload, error) {
	return f.payload, f.err
}

type stubRecommender struct{}

func (stubRecommender) GetRecommendations(ctx context.Context, user domain.User, repos []domain.RepositoryRecord) domain.RecommendationResponse {
	resp := domain.NewRecommendationResponse()
	resp.CareerPaths = []domain.CareerPath{{Title: "Backend Engineer", MatchedSkills: []string{}}}
	resp.SkillGaps = []domain.SkillGap{{Career: "Backend Engineer", MissingSkills: []string{"Kubernetes"}}}
	return resp
}

const payloadJSON = `{"data":{"viewer":{"repositories":{"nodes":[
  {"databaseId":1,"name":"api","nameWithOwner":"octo/api","stargazerCount":10,"forkCount":1,
   "pushedAt":"2024-01-02T03:04:05Z","primaryLanguage":{"name":"Go"},
   "languages":{"edges":[{"size":50000,"node":{"name":"Go"}}]},
   "repositoryTopics":{"nodes":[{"topic":{"name":"cli"}}]}}
]}}}}`

func newTestServer(t *testing.T, fetchErr error) (*httptest.Server, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	payload, err := normalize.Decode([]byte(payloadJSON))
	require.NoError(t, err)

	logger := zerolog.Nop()
	m := metrics.New()
	skills := usecase.NewSkillService(s, logger)
	factory := func(token string) (gateway.Fetcher, error) {
		return stubFetcher{payload: payload, err: fetchErr}, nil
	}

	srv := NewServer(Deps{
		Users:       s,
		Sync:        usecase.NewSyncService(s, s, skills, factory, logger, m),
		Skills:      skills,
		Aggregator:  usecase.NewRecommendationAggregator(s, stubRecommender{}, logger, usecase.WithAggregatorMetrics(m)),
		Portfolio:   usecase.NewPortfolioService(s, s),
		Health:      s,
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, s
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestServer_UserLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	base := ts.URL + "/api/v1/users/octo"

	resp, _ := do(t, http.MethodGet, base+"/recommendations", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := do(t, http.MethodPut, base, `{"accessToken":"gho_x"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, string(body), "gho_x")

	// Before sync the user has no repositories.
	resp, body = do(t, http.MethodGet, base+"/recommendations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(body, &empty))
	require.Len(t, empty.CareerPaths, 1)
	assert.Equal(t, usecase.DefaultEmptyMessage, empty.CareerPaths[0].Description)

	resp, body = do(t, http.MethodPost, base+"/sync", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result usecase.SyncResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 1, result.Repositories)
	assert.Equal(t, 2, result.Skills)

	resp, body = do(t, http.MethodGet, base+"/skills", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var skills []domain.SkillView
	require.NoError(t, json.Unmarshal(body, &skills))
	require.Len(t, skills, 2)
	assert.Equal(t, "Go", skills[0].Name)

	resp, body = do(t, http.MethodGet, base+"/recommendations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Backend Engineer")

	resp, body = do(t, http.MethodGet, base+"/recommendations/careers", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var careers domain.CareerAnalysis
	require.NoError(t, json.Unmarshal(body, &careers))
	assert.Len(t, careers.SkillGaps, 1)

	resp, _ = do(t, http.MethodGet, base+"/recommendations/skills", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, base+"/recommendations/refresh", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/v1/portfolio/octo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p usecase.Portfolio
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 2, p.Summary.Count)
}

func TestServer_SyncErrors(t *testing.T) {
	t.Run("fetch failure maps to 502", func(t *testing.T) {
		ts, _ := newTestServer(t, errors.New("boom"))
		do(t, http.MethodPut, ts.URL+"/api/v1/users/octo", `{"accessToken":"gho_x"}`)

		resp, _ := do(t, http.MethodPost, ts.URL+"/api/v1/users/octo/sync", "")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("missing token maps to 412", func(t *testing.T) {
		ts, s := newTestServer(t, nil)
		require.NoError(t, s.SaveUser(context.Background(), &domain.User{Username: "octo"}))

		resp, _ := do(t, http.MethodPost, ts.URL+"/api/v1/users/octo/sync", "")
		assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		ts, _ := newTestServer(t, nil)
		resp, _ := do(t, http.MethodPost, ts.URL+"/api/v1/users/ghost/sync", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_PutUserValidation(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	testCases := []struct {
		name string
		body string
	}{
		{name: "not JSON", body: "nope"},
		{name: "missing token", body: `{}`},
		{name: "bad email", body: `{"accessToken":"t","email":"not-an-email"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := do(t, http.MethodPut, ts.URL+"/api/v1/users/octo", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestServer_Ops(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	do(t, http.MethodGet, ts.URL+"/api/v1/portfolio/ghost", "")
	for _, path := range []string{"/random-a", "/random-b/c"} {
		resp, _ := do(t, http.MethodGet, ts.URL+path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "github_skills_http_requests_total")
	assert.Contains(t, string(body), `route="/api/v1/portfolio/{username}"`)
	assert.Contains(t, string(body), `route="unmatched"`)
	assert.NotContains(t, string(body), "random-a")
	assert.NotContains(t, string(body), "random-b")
}

func TestServer_RecommendationsFallBackWhenMLIsDown(t *testing.T) {
	ml := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ml.Close()

	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	user := &domain.User{Username: "octo"}
	require.NoError(t, s.SaveUser(ctx, user))
	require.NoError(t, s.SaveAll(ctx, user.ID, []domain.RepositoryRecord{{GitHubID: 1, FullName: "octo/api"}}))

	client := recommend.NewClient(recommend.Config{BaseURL: ml.URL}, zerolog.Nop())
	srv := NewServer(Deps{
		Users:      s,
		Aggregator: usecase.NewRecommendationAggregator(s, client, zerolog.Nop()),
		Logger:     zerolog.Nop(),
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := do(t, http.MethodGet, ts.URL+"/api/v1/users/octo/recommendations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.RecommendationResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, recommend.Fallback(), got)
}
