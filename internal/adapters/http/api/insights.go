package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/talentlab/internal/app"
	"github.com/okian/talentlab/internal/domain/model"
)

// InsightDependencies defines the interface for single benchmark comparisons.
type InsightDependencies interface {
	Insight(ctx context.Context, req service.InsightRequest) (model.BenchmarkInsight, error)
}

// InsightsHandler handles POST /insights.
type InsightsHandler struct {
	deps InsightDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandlePostInsight compares one raw value with its benchmark midpoint.
// Tests without a benchmark answer 404.
func (h *InsightsHandler) HandlePostInsight(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_insight"
	var req service.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	req.TestID = strings.TrimSpace(req.TestID)
	req.Position = model.Position(strings.ToUpper(strings.TrimSpace(string(req.Position))))
	req.AgeGroup = model.AgeGroup(strings.ToUpper(strings.TrimSpace(string(req.AgeGroup))))
	if req.TestID == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing test_id")))
		return
	}
	if req.AgeGroup == "" && req.Age <= 0 {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing age or age_group")))
		return
	}

	in, err := h.deps.Insight(r.Context(), req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, in)
}
