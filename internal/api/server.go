// Package api exposes the sync, skill and recommendation use cases over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/naka-gawa/github-skills/internal/metrics"
	"github.com/naka-gawa/github-skills/internal/usecase"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Users       usecase.UserStore
	Sync        *usecase.SyncService
	Skills      *usecase.SkillService
	Aggregator  *usecase.RecommendationAggregator
	Portfolio   *usecase.PortfolioService
	Health      Pinger
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
	CORSOrigins []string
	// RateLimitRPM limits /api/v1 requests per client IP. Zero disables it.
	RateLimitRPM int
}

// unmatchedRoute labels requests that matched no route, keeping label values bounded.
const unmatchedRoute = "unmatched"

// Server holds the HTTP handlers.
type Server struct {
	deps     Deps
	validate *validator.Validate
}

// NewServer creates a Server routing to deps.
func NewServer(deps Deps) *Server {
	return &Server{deps: deps, validate: validator.New()}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	if len(s.deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.deps.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.deps.RateLimitRPM > 0 {
			r.Use(httprate.LimitByIP(s.deps.RateLimitRPM, time.Minute))
		}

		r.Route("/users/{username}", func(r chi.Router) {
			r.Put("/", s.putUser)
			r.Post("/sync", s.syncUser)
			r.Get("/skills", s.listSkills)

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", s.recommendations)
				r.Post("/refresh", s.recommendations)
				r.Get("/skills", s.skillAnalysis)
				r.Get("/careers", s.careerAnalysis)
			})
		})

		r.Get("/portfolio/{username}", s.portfolio)
	})

	return r
}

// requestLogger logs each request and counts it by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.deps.Metrics.HTTPRequest(route, strconv.Itoa(status))
		s.deps.Logger.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}
