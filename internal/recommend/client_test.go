package recommend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUser  = domain.User{ID: "user-1", Username: "octo"}
	testRepos = []domain.RepositoryRecord{
		{FullName: "octo/cli", Description: "tool", Languages: map[string]float64{"Go": 50000}, Topics: []string{"cli"}, Stars: 10, Forks: 1},
		{FullName: "octo/empty"},
	}
)

func setupTestClient(t *testing.T, handler http.Handler, cfg Config) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	cfg.BaseURL = server.URL
	return NewClient(cfg, zerolog.Nop()), server
}

func TestClient_GetRecommendations_Success(t *testing.T) {
	var received Request
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recommend", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		fmt.Fprint(w, `{
			"career_paths": [
				{"title": "Backend Engineer", "score": 0.82, "confidence": "0.7", "matched_skills": ["Go", "SQL"], "salary_range": "$90k - $160k", "demand": "High"},
				{"title": "SRE", "confidence": 0.4}
			],
			"skill_gaps": [{"career": "Backend Engineer", "missing_skills": ["Kafka"], "completion_percentage": 75}],
			"profile_stats": {"total_repos": 2, "total_stars": "10", "avg_languages_per_repo": 0.5}
		}`)
	}
	client, server := setupTestClient(t, http.HandlerFunc(handler), Config{})
	defer server.Close()

	resp := client.GetRecommendations(context.Background(), testUser, testRepos)

	assert.Equal(t, "user-1", received.UserID)
	require.Len(t, received.Repos, 2)
	assert.Equal(t, RepoPayload{Name: "octo/empty", Description: "", Languages: map[string]float64{}, Topics: []string{}}, received.Repos[1])

	require.Len(t, resp.CareerPaths, 2)
	assert.Equal(t, "Backend Engineer", resp.CareerPaths[0].Title)
	assert.Equal(t, 0.82, resp.CareerPaths[0].Score)
	assert.Equal(t, 0.7, resp.CareerPaths[0].Confidence)
	assert.Equal(t, []string{"Go", "SQL"}, resp.CareerPaths[0].MatchedSkills)
	assert.Equal(t, 0.0, resp.CareerPaths[1].Score, "missing score decays to zero")
	assert.Equal(t, []string{}, resp.CareerPaths[1].MatchedSkills)
	assert.Equal(t, 75, resp.SkillGaps[0].CompletionPercentage)
	assert.Equal(t, 10, resp.ProfileStats.TotalStars)
	assert.NotNil(t, resp.ProjectIdeas)
	assert.NotNil(t, resp.SkillAnalysis.Strengths)
}

func TestClient_GetRecommendations_Fallback(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"detail": "boom"}`)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "null")
			},
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html>Bad Gateway</html>")
			},
		},
		{
			name: "JSON array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[1, 2, 3]`)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(500 * time.Millisecond):
				case <-r.Context().Done():
				}
				fmt.Fprint(w, `{}`)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, server := setupTestClient(t, tc.handler, Config{Timeout: 50 * time.Millisecond})
			defer server.Close()

			resp := client.GetRecommendations(context.Background(), testUser, testRepos)

			assert.Equal(t, Fallback(), resp)
			require.Len(t, resp.CareerPaths, 1)
			assert.Equal(t, "Full Stack Developer", resp.CareerPaths[0].Title)
		})
	}
}

func TestClient_GetRecommendations_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url, Timeout: time.Second}, zerolog.Nop())

	assert.Equal(t, Fallback(), client.GetRecommendations(context.Background(), testUser, nil))
}

func TestClient_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}
	client, server := setupTestClient(t, http.HandlerFunc(handler), Config{BreakerFailures: 2, BreakerTimeout: time.Hour})
	defer server.Close()

	for i := 0; i < 4; i++ {
		assert.Equal(t, Fallback(), client.GetRecommendations(context.Background(), testUser, testRepos))
	}
	assert.Equal(t, int32(2), hits.Load(), "open circuit must not reach the service")
}

func TestClient_CallerCancellationDoesNotOpenCircuit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"career_paths":[{"title":"Backend Engineer","score":0.9}]}`)
	}
	client, server := setupTestClient(t, http.HandlerFunc(handler), Config{BreakerFailures: 2, BreakerTimeout: time.Hour})
	defer server.Close()

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		assert.Equal(t, Fallback(), client.GetRecommendations(ctx, testUser, testRepos))
		cancel()
	}

	assert.Equal(t, gobreaker.StateClosed, client.breaker.State())
	resp := client.GetRecommendations(context.Background(), testUser, testRepos)
	require.Len(t, resp.CareerPaths, 1)
	assert.Equal(t, "Backend Engineer", resp.CareerPaths[0].Title)
}

func TestClient_ServiceTimeoutStillCountsAsFailure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}
	client, server := setupTestClient(t, http.HandlerFunc(handler), Config{Timeout: 10 * time.Millisecond, BreakerFailures: 2, BreakerTimeout: time.Hour})
	defer server.Close()

	for i := 0; i < 2; i++ {
		client.GetRecommendations(context.Background(), testUser, testRepos)
	}
	assert.Equal(t, gobreaker.StateOpen, client.breaker.State())
}

func TestEmpty(t *testing.T) {
	resp := Empty("No repositories found. Please sync your data.")

	require.Len(t, resp.CareerPaths, 1)
	assert.Equal(t, 0.0, resp.CareerPaths[0].Score)
	assert.Equal(t, 0.0, resp.CareerPaths[0].Confidence)
	assert.Equal(t, "No repositories found. Please sync your data.", resp.CareerPaths[0].Description)
	assert.Equal(t, []domain.SkillGap{}, resp.SkillGaps)
	assert.Equal(t, domain.NewSkillAnalysis(), resp.SkillAnalysis)
}

func TestFallback_SerializesEmptyArrays(t *testing.T) {
	data, err := json.Marshal(Fallback())
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"skillGaps":[]`)
	assert.Contains(t, body, `"strengths":[]`)
	assert.Contains(t, body, `"repoImprovements":[]`)
	assert.NotContains(t, body, "null")
}
