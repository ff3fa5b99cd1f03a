package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luda9/cinevault-backend/models"
	watchlistsvc "github.com/luda9/cinevault-backend/services/watchlist"
)

const maxBodySize = 1 << 20 // 1MB

type watchlistService interface {
	Add(ctx context.Context, candidates []models.WatchlistCandidate) ([]models.WatchlistEntry, error)
	List(ctx context.Context, opts watchlistsvc.ListOptions) ([]models.EnrichedEntry, error)
	Get(ctx context.Context, imdbID string) (*models.EnrichedEntry, error)
	Update(ctx context.Context, imdbID string, patch models.WatchlistPatch) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, imdbID string) error
}

var _ watchlistService = (*watchlistsvc.Service)(nil)

// WatchlistHandler exposes the watchlist CRUD surface.
type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(s watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: s}
}

// Add handles POST /watchlist with an array of candidates. 201 with the
// inserted rows, 400 with the per-index failure list, 409 on any collision.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var candidates []models.WatchlistCandidate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&candidates); err != nil {
		writeError(w, &models.ValidationError{
			Code:    models.CodeTypeError,
			Message: "body must be an array of {id, rating?, watched?}",
		})
		return
	}

	inserted, err := h.Service.Add(r.Context(), candidates)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"items": inserted})
}

// List handles GET /watchlist?sort=&order=&filter=&watched=.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := watchlistsvc.ListOptions{
		SortField:  r.URL.Query().Get("sort"),
		SortOrder:  r.URL.Query().Get("order"),
		TypeFilter: r.URL.Query().Get("filter"),
	}
	switch r.URL.Query().Get("watched") {
	case "true":
		t := true
		opts.Watched = &t
	case "false":
		f := false
		opts.Watched = &f
	}

	entries, err := h.Service.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.EnrichedEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

// Get handles GET /watchlist/{id}.
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// patchBody separates the mutable patch fields from identifier fields,
// which callers may not change.
type patchBody struct {
	ID      *string `json:"id"`
	IMDBID  *string `json:"imdbId"`
	Rating  *int    `json:"rating"`
	Watched *bool   `json:"watched"`
}

// Update handles PATCH /watchlist/{id}. Omitted fields are left unchanged;
// any attempt to change the identifier fails with immutable_field.
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body patchBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		writeError(w, &models.ValidationError{
			Code:    models.CodeTypeError,
			Message: "body must be an object with optional rating and watched fields",
		})
		return
	}
	if body.ID != nil || body.IMDBID != nil {
		writeError(w, models.ErrImmutableField)
		return
	}

	entry, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], models.WatchlistPatch{
		Rating:  body.Rating,
		Watched: body.Watched,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Remove handles DELETE /watchlist/{id}; 204 on success.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
