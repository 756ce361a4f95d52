package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	service "github.com/okian/talentlab/internal/app"
	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/scoring"
)

// EvaluationDependencies defines the interface for evaluation intake.
type EvaluationDependencies interface {
	Submit(ctx context.Context, ev model.Evaluation) (service.SubmitResult, error)
	Preview(ctx context.Context, ev model.Evaluation) (scoring.Result, error)
}

// evaluationRequest mirrors the OpenAPI schema for POST /evaluations.
type evaluationRequest struct {
	EvaluationID string             `json:"evaluation_id"`
	PlayerID     string             `json:"player_id"`
	Age          int                `json:"age"`
	Position     string             `json:"position"`
	AgeGroup     string             `json:"age_group"`
	Answers      map[string]float64 `json:"answers"`
	TS           string             `json:"ts"`
}

func (e *evaluationRequest) toModel() (model.Evaluation, error) {
	ts, err := parseTimestamp(strings.TrimSpace(e.TS))
	if err != nil {
		return model.Evaluation{}, err
	}
	return model.Evaluation{
		EvaluationID: strings.TrimSpace(e.EvaluationID),
		PlayerID:     strings.TrimSpace(e.PlayerID),
		Age:          e.Age,
		Position:     model.Position(strings.ToUpper(strings.TrimSpace(e.Position))),
		AgeGroup:     model.AgeGroup(strings.ToUpper(strings.TrimSpace(e.AgeGroup))),
		Answers:      e.Answers,
		TS:           ts,
	}, nil
}

type ackResponse struct {
	Status       string `json:"status"`
	EvaluationID string `json:"evaluation_id"`
	Duplicate    bool   `json:"duplicate"`
}

// EvaluationsHandler handles evaluation requests.
type EvaluationsHandler struct {
	deps EvaluationDependencies
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps EvaluationDependencies) *EvaluationsHandler {
	return &EvaluationsHandler{deps: deps}
}

// HandleSubmit handles POST /evaluations. Accepted evaluations answer 202,
// replays of a known evaluation id answer 200.
func (h *EvaluationsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_evaluation"
	ev, err := decodeEvaluation(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), ev)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EvaluationID: res.EvaluationID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EvaluationID: res.EvaluationID})
}

// HandlePreview handles POST /evaluations/preview.
func (h *EvaluationsHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	const op = "api.preview_evaluation"
	ev, err := decodeEvaluation(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Preview(r.Context(), ev)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeEvaluation(r *http.Request) (model.Evaluation, error) {
	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.Evaluation{}, err
	}
	return req.toModel()
}
