package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/recommend"
)

// PlayerDependencies defines the per-player read operations.
type PlayerDependencies interface {
	History(ctx context.Context, playerID string) ([]model.PlayerMetrics, error)
	Latest(ctx context.Context, playerID string) (model.PlayerMetrics, error)
	PlayerInsights(ctx context.Context, playerID string) ([]model.BenchmarkInsight, error)
	Recommendations(ctx context.Context, playerID, philosophy string) (recommend.Plan, error)
	Rank(ctx context.Context, playerID string) (Entry, error)
}

// PlayersHandler serves /players/{playerID}/... routes.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleHistory handles GET /players/{playerID}/metrics.
func (h *PlayersHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	history, err := h.deps.History(r.Context(), chi.URLParam(r, "playerID"))
	respond(w, op, history, err)
}

// HandleLatest handles GET /players/{playerID}/latest.
func (h *PlayersHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_latest"
	m, err := h.deps.Latest(r.Context(), chi.URLParam(r, "playerID"))
	respond(w, op, m, err)
}

// HandleInsights handles GET /players/{playerID}/insights.
func (h *PlayersHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player_insights"
	insights, err := h.deps.PlayerInsights(r.Context(), chi.URLParam(r, "playerID"))
	if insights == nil && err == nil {
		insights = []model.BenchmarkInsight{}
	}
	respond(w, op, insights, err)
}

// HandleRecommendations handles GET /players/{playerID}/recommendations.
func (h *PlayersHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	plan, err := h.deps.Recommendations(r.Context(), chi.URLParam(r, "playerID"), r.URL.Query().Get("philosophy"))
	respond(w, op, plan, err)
}

// HandleRank handles GET /players/{playerID}/rank.
func (h *PlayersHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	entry, err := h.deps.Rank(r.Context(), chi.URLParam(r, "playerID"))
	respond(w, op, entry, err)
}

func respond(w http.ResponseWriter, op string, v any, err error) {
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}
