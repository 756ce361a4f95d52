package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/talentlab/internal/domain/model"
)

// CatalogDependencies exposes the question sets of the reference catalog.
type CatalogDependencies interface {
	QuestionSet(ctx context.Context, name string) ([]model.TestDefinition, error)
}

// CatalogHandler serves catalog reads for the evaluation wizard.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleQuestionSet handles GET /catalog/question-sets/{set}.
func (h *CatalogHandler) HandleQuestionSet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_question_set"
	tests, err := h.deps.QuestionSet(r.Context(), chi.URLParam(r, "set"))
	respond(w, op, tests, err)
}
