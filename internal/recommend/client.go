// Package recommend calls the external recommendation service and normalizes
// its response. The client never returns an error: any failure yields Fallback().
package recommend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/metrics"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultTimeout         = 30 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = time.Minute
	maxResponseBytes       = 10 << 20
	breakerName            = "recommendation-service"
)

var (
	ErrEmptyBody = errors.New("empty response body")
	ErrNotObject = errors.New("response is not a JSON object")

	// errCallerGone wraps failures caused by the caller's context ending.
	// They are not held against the service.
	errCallerGone = errors.New("caller context ended")
)

// StatusError reports a non-2xx answer from the recommendation service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("recommendation service returned status %d", e.Code)
}

// Config configures the recommendation service client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the circuit.
	BreakerFailures uint32
	// BreakerTimeout is how long the circuit stays open before a trial request.
	BreakerTimeout time.Duration
}

// Client is the RecommendationClient.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[map[string]any]
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records request latency, outcomes and breaker state on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client for the service at cfg.BaseURL.
func NewClient(cfg Config, logger zerolog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaultBreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaultBreakerTimeout
	}

	c := &Client{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/recommend",
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[map[string]any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			c.metrics.BreakerStateChanged(name, stateValue(to))
		},
	})
	c.metrics.BreakerStateChanged(breakerName, stateValue(gobreaker.StateClosed))
	return c
}

// GetRecommendations asks the service for recommendations. Transport errors,
// timeouts, non-2xx statuses, empty or non-object bodies and an open circuit all
// produce Fallback().
func (c *Client) GetRecommendations(ctx context.Context, user domain.User, repos []domain.RepositoryRecord) domain.RecommendationResponse {
	c.logger.Info().Str("user", user.Username).Int("repos", len(repos)).Msg("calling recommendation service")

	raw, err := c.fetch(ctx, BuildRequest(user, repos))
	if err != nil {
		c.logger.Error().Err(err).Str("user", user.Username).Msg("recommendation service unavailable, using fallback")
		c.metrics.RecommendationServed(metrics.OutcomeFallback)
		return Fallback()
	}

	c.metrics.RecommendationServed(metrics.OutcomeSuccess)
	return Parse(raw)
}

func (c *Client) fetch(ctx context.Context, req Request) (map[string]any, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendation request: %w", err)
	}
	return c.breaker.Execute(func() (map[string]any, error) {
		start := time.Now()
		defer func() { c.metrics.MLRequestObserved(time.Since(start)) }()
		raw, err := c.post(ctx, body)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, err)
		}
		return raw, err
	})
}

func (c *Client) post(ctx context.Context, body []byte) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call recommendation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendation response: %w", err)
	}
	return decodeObject(data)
}

func decodeObject(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyBody
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation response: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
