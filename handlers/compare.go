package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	comparisonsvc "github.com/luda9/cinevault-backend/services/comparison"

	"github.com/luda9/cinevault-backend/models"
)

type comparisonService interface {
	Compare(ctx context.Context, rawIDs json.RawMessage) (*models.ComparisonResult, error)
	Recent(ctx context.Context) ([]models.RecentComparison, error)
}

var _ comparisonService = (*comparisonsvc.Service)(nil)

// CompareHandler exposes the comparison engine.
type CompareHandler struct {
	Service comparisonService
}

func NewCompareHandler(s comparisonService) *CompareHandler {
	return &CompareHandler{Service: s}
}

// Compare handles POST /compare with body {"ids": [...]}. The raw ids
// value goes to the engine untouched so the validation ordering (missing,
// type, size, duplicates, grammar) stays observable in responses.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs json.RawMessage `json:"ids"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		writeError(w, &models.ValidationError{
			Code:    models.CodeTypeError,
			Message: "body must be an object with an ids array",
		})
		return
	}

	result, err := h.Service.Compare(r.Context(), body.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Recent handles GET /comparisons/recent: the last comparisons, each
// re-enriched; records with fewer than two resolvable movies are omitted.
func (h *CompareHandler) Recent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.Service.Recent(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comparisons": recent})
}
