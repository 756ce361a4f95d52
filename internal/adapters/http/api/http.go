// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/talentlab/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EvaluationDependencies
	InsightDependencies
	PlayerDependencies
	LeaderboardDependencies
	CatalogDependencies
	StatsProvider
}

const (
	defaultMaxLeaderboardLimit = 100
	corsMaxAge                 = 300
)

// Server wires HTTP routes for the business API.
type Server struct {
	evaluationsHandler *EvaluationsHandler
	insightsHandler    *InsightsHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	catalogHandler     *CatalogHandler
	statsHandler       *StatsHandler
	healthHandler      *HealthHandler

	maxLimit       int
	allowedOrigins []string
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps the limit accepted by GET /leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithAllowedOrigins sets the CORS origins allowed to call the API.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxLimit:       defaultMaxLeaderboardLimit,
		allowedOrigins: []string{"*"},
		logger:         logger.Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.evaluationsHandler = NewEvaluationsHandler(deps)
	s.insightsHandler = NewInsightsHandler(deps)
	s.playersHandler = NewPlayersHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.catalogHandler = NewCatalogHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.healthHandler = NewHealthHandler()
	return s
}

// Router builds the chi router with middleware and all API routes.
// Callers may mount further routes on the result.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(s.logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         corsMaxAge,
	}))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Post("/evaluations", s.evaluationsHandler.HandleSubmit)
	r.Post("/evaluations/preview", s.evaluationsHandler.HandlePreview)
	r.Post("/insights", s.insightsHandler.HandlePostInsight)

	r.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/metrics", s.playersHandler.HandleHistory)
		r.Get("/latest", s.playersHandler.HandleLatest)
		r.Get("/insights", s.playersHandler.HandleInsights)
		r.Get("/recommendations", s.playersHandler.HandleRecommendations)
		r.Get("/rank", s.playersHandler.HandleRank)
	})

	r.Get("/leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	r.Get("/catalog/question-sets/{set}", s.catalogHandler.HandleQuestionSet)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before any header is written, so a value that
// cannot be marshalled becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Named("http").Error(context.Background(), "encode response failed",
			logger.Int("status", status),
			logger.Error(err),
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	msg := http.StatusText(status)
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		msg = apiErr.message()
	case err != nil:
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseTimestamp accepts an empty string or an RFC3339 time.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.New("invalid ts; must be RFC3339")
	}
	return ts.UTC(), nil
}
