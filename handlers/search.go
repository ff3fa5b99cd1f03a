package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/luda9/cinevault-backend/models"
	"github.com/luda9/cinevault-backend/services/omdb"
	watchlistsvc "github.com/luda9/cinevault-backend/services/watchlist"
	"github.com/luda9/cinevault-backend/utils/validate"
)

type movieSearcher interface {
	Search(ctx context.Context, query string, filters omdb.SearchFilters) (*models.SearchResult, error)
	GetByID(ctx context.Context, imdbID string) (*models.Movie, bool, error)
}

var _ movieSearcher = (*omdb.Client)(nil)

type membershipMarker interface {
	MarkMembership(ctx context.Context, items []models.SearchItem) error
}

var _ membershipMarker = (*watchlistsvc.Service)(nil)

// SearchHandler proxies OMDb search and single-title lookups.
type SearchHandler struct {
	Client    movieSearcher
	Watchlist membershipMarker
}

func NewSearchHandler(client movieSearcher, watchlist membershipMarker) *SearchHandler {
	return &SearchHandler{Client: client, Watchlist: watchlist}
}

// Search handles GET /search?s=&type=&y=&page= and marks each result with
// local watchlist membership.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("s")
	if query == "" {
		writeError(w, &models.ValidationError{
			Code:    models.CodeMissingField,
			Message: "query parameter s is required",
		})
		return
	}

	mediaType := r.URL.Query().Get("type")
	switch mediaType {
	case "", "movie", "series", "episode":
	default:
		writeError(w, &models.ValidationError{
			Code:    models.CodeTypeError,
			Message: "type must be one of movie, series, episode",
		})
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, &models.ValidationError{
				Code:    models.CodeTypeError,
				Message: "page must be a positive integer",
			})
			return
		}
		page = parsed
	}

	result, err := h.Client.Search(r.Context(), query, omdb.SearchFilters{
		Type: mediaType,
		Year: r.URL.Query().Get("y"),
		Page: page,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Watchlist.MarkMembership(r.Context(), result.Items); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetMovie handles GET /movie/{id}. The id must match the IMDb identifier
// grammar before any external call is made.
func (h *SearchHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !validate.IsWellFormedID(id) {
		writeError(w, &models.ValidationError{
			Code:    models.CodeMalformedID,
			Message: "id does not match the IMDb identifier format",
		})
		return
	}

	movie, found, err := h.Client.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorEnvelope{errorBody{
			Code:    "not_found",
			Message: "movie " + id + " not found",
		}})
		return
	}

	writeJSON(w, http.StatusOK, movie)
}
