// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/normalize"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// defaultMaxPages caps repository pagination at 1000 repositories.
const defaultMaxPages = 10

// Fetcher defines the behavior of a gateway for fetching a viewer's data from GitHub.
// A Fetcher is bound to one access token.
type Fetcher interface {
	FetchProfile(ctx context.Context) (*domain.Profile, error)
	FetchRepositories(ctx context.Context) (*normalize.Payload, error)
}

// Snapshot is everything a sync needs from GitHub.
type Snapshot struct {
	Profile *domain.Profile
	Payload *normalize.Payload
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        zerolog.Logger
	maxPages      int
}

// Endpoints overrides the public GitHub API URLs, e.g. for GitHub Enterprise.
type Endpoints struct {
	GraphQLURL string
	RESTURL    string
}

// viewerRepositoriesQuery fetches one page of the viewer's repositories.
// The node shape is shared with the normalize package.
type viewerRepositoriesQuery struct {
	Viewer struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []normalize.RepositoryNode
		} `graphql:"repositories(first: 100, after: $cursor, orderBy: {field: PUSHED_AT, direction: DESC}, ownerAffiliations: [OWNER, COLLABORATOR, ORGANIZATION_MEMBER])"`
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, endpoints Endpoints, logger zerolog.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if endpoints.RESTURL != "" {
		baseURL, err := url.Parse(strings.TrimRight(endpoints.RESTURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse GitHub REST URL: %w", err)
		}
		restClient.BaseURL = baseURL
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if endpoints.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(endpoints.GraphQLURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
		maxPages:      defaultMaxPages,
	}, nil
}

// FetchProfile returns the account that owns the token.
func (g *GitHubGateway) FetchProfile(ctx context.Context) (*domain.Profile, error) {
	g.logger.Debug().Msg("fetching viewer profile using REST API")
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch viewer profile with REST API: %w", err)
	}
	return &domain.Profile{
		GitHubID:  user.GetID(),
		Login:     user.GetLogin(),
		Email:     user.GetEmail(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// FetchRepositories pages through the viewer's repositories and returns them as one payload.
func (g *GitHubGateway) FetchRepositories(ctx context.Context) (*normalize.Payload, error) {
	g.logger.Debug().Msg("fetching viewer repositories using GraphQL API")
	variables := map[string]interface{}{"cursor": (*githubv4.String)(nil)}

	var nodes []*normalize.RepositoryNode
	for page := 1; ; page++ {
		var q viewerRepositoriesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		for i := range q.Viewer.Repositories.Nodes {
			nodes = append(nodes, &q.Viewer.Repositories.Nodes[i])
		}
		if !q.Viewer.Repositories.PageInfo.HasNextPage {
			break
		}
		if page >= g.maxPages {
			g.logger.Warn().Int("pages", page).Int("repos", len(nodes)).Msg("repository page limit reached, truncating")
			break
		}
		variables["cursor"] = githubv4.NewString(q.Viewer.Repositories.PageInfo.EndCursor)
		g.logger.Debug().Int("page", page+1).Msg("fetching next page of repositories")
	}
	if nodes == nil {
		nodes = []*normalize.RepositoryNode{}
	}

	g.logger.Debug().Int("repos", len(nodes)).Msg("completed fetching repositories")
	return &normalize.Payload{Viewer: &normalize.Viewer{
		Repositories: &normalize.RepositoryConnection{Nodes: nodes},
	}}, nil
}

// FetchSnapshot loads the profile and the repositories concurrently.
// Either failure fails the whole snapshot.
func FetchSnapshot(ctx context.Context, f Fetcher) (*Snapshot, error) {
	var snap Snapshot
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		snap.Profile, err = f.FetchProfile(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Payload, err = f.FetchRepositories(egCtx)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
