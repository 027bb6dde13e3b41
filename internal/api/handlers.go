package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/naka-gawa/github-skills/internal/domain"
	"github.com/naka-gawa/github-skills/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

type putUserRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(r.Context()); err != nil {
			s.deps.Logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadUser writes the error response itself and returns nil when the user cannot be loaded.
func (s *Server) loadUser(w http.ResponseWriter, r *http.Request) *domain.User {
	username := chi.URLParam(r, "username")
	user, err := s.deps.Users.FindUserByUsername(r.Context(), username)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return nil
	}
	if err != nil {
		s.deps.Logger.Error().Err(err).Str("user", username).Msg("failed to load user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	return user
}

func (s *Server) putUser(w http.ResponseWriter, r *http.Request) {
	var req putUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := chi.URLParam(r, "username")
	user, err := s.deps.Users.FindUserByUsername(r.Context(), username)
	status := http.StatusOK
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{Username: username}
		status = http.StatusCreated
	case err != nil:
		s.deps.Logger.Error().Err(err).Str("user", username).Msg("failed to load user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user.AccessToken = req.AccessToken
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if err := s.deps.Users.SaveUser(r.Context(), user); err != nil {
		s.deps.Logger.Error().Err(err).Str("user", username).Msg("failed to save user")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, status, user)
}

func (s *Server) syncUser(w http.ResponseWriter, r *http.Request) {
	user := s.loadUser(w, r)
	if user == nil {
		return
	}

	result, err := s.deps.Sync.Sync(r.Context(), user)
	switch {
	case errors.Is(err, usecase.ErrNoAccessToken):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, usecase.ErrFetchFailed):
		s.deps.Logger.Warn().Err(err).Str("user", user.Username).Msg("sync failed")
		writeError(w, http.StatusBadGateway, usecase.ErrFetchFailed.Error())
	case err != nil:
		s.deps.Logger.Error().Err(err).Str("user", user.Username).Msg("sync failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) listSkills(w http.ResponseWriter, r *http.Request) {
	user := s.loadUser(w, r)
	if user == nil {
		return
	}
	skills, err := s.deps.Skills.List(r.Context(), user.ID)
	if err != nil {
		s.deps.Logger.Error().Err(err).Str("user", user.Username).Msg("failed to list skills")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	user := s.loadUser(w, r)
	if user == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Aggregator.GetRecommendations(r.Context(), *user))
}

func (s *Server) skillAnalysis(w http.ResponseWriter, r *http.Request) {
	user := s.loadUser(w, r)
	if user == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Aggregator.SkillAnalysis(r.Context(), *user))
}

func (s *Server) careerAnalysis(w http.ResponseWriter, r *http.Request) {
	user := s.loadUser(w, r)
	if user == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Aggregator.CareerAnalysis(r.Context(), *user))
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	p, err := s.deps.Portfolio.Get(r.Context(), username)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.deps.Logger.Error().Err(err).Str("user", username).Msg("failed to build portfolio")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
