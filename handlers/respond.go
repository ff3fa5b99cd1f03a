package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/luda9/cinevault-backend/models"
)

// errorBody is the error envelope all endpoints share. Code is machine
// readable; detail fields depend on the error kind.
type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	IDs     []string           `json:"ids,omitempty"`
	Items   []models.ItemError `json:"items,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: validation 400,
// conflict 409, not found 404, external service 502, storage 500. Storage
// failures are logged with full detail but surfaced generically.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var bulkErr *models.BulkValidationError
	var conflictErr *models.ConflictError
	var notFoundErr *models.MoviesNotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{errorBody{
			Code:    string(validationErr.Code),
			Message: validationErr.Message,
			IDs:     validationErr.IDs,
		}})
	case errors.As(err, &bulkErr):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{errorBody{
			Code:    "validation_failed",
			Message: bulkErr.Error(),
			Items:   bulkErr.Items,
		}})
	case errors.Is(err, models.ErrImmutableField):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{errorBody{
			Code:    "immutable_field",
			Message: models.ErrImmutableField.Error(),
		}})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorEnvelope{errorBody{
			Code:    "duplicate_entries",
			Message: conflictErr.Error(),
			IDs:     conflictErr.IDs,
		}})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorEnvelope{errorBody{
			Code:    "movies_not_found",
			Message: notFoundErr.Error(),
			IDs:     notFoundErr.IDs,
		}})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorEnvelope{errorBody{
			Code:    "not_found",
			Message: err.Error(),
		}})
	case errors.Is(err, models.ErrExternalService):
		slog.Error("http.external_service_error", "error", err)
		writeJSON(w, http.StatusBadGateway, errorEnvelope{errorBody{
			Code:    "external_service_error",
			Message: "the metadata provider is unavailable",
		}})
	default:
		slog.Error("http.internal_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{errorBody{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}
