package watchlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/luda9/cinevault-backend/internal/database"
	"github.com/luda9/cinevault-backend/models"
	"github.com/luda9/cinevault-backend/services/omdb"
	"github.com/luda9/cinevault-backend/utils/validate"
)

type metadataClient interface {
	GetByID(ctx context.Context, imdbID string) (*models.Movie, bool, error)
}

var _ metadataClient = (*omdb.Client)(nil)

type watchlistStore interface {
	BulkAdd(ctx context.Context, candidates []models.WatchlistCandidate) ([]models.WatchlistEntry, error)
	GetByIMDBID(ctx context.Context, imdbID string) (*models.WatchlistEntry, error)
	List(ctx context.Context, watched *bool) ([]models.WatchlistEntry, error)
	Update(ctx context.Context, imdbID string, patch models.WatchlistPatch) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, imdbID string) error
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

var _ watchlistStore = (*database.WatchlistRepository)(nil)

// Service maintains the watchlist and joins stored rows with freshly
// fetched provider metadata for display.
type Service struct {
	client metadataClient
	store  watchlistStore
}

func NewService(client metadataClient, store watchlistStore) *Service {
	return &Service{client: client, store: store}
}

// ListOptions controls filtering and ordering of the enriched list.
type ListOptions struct {
	SortField  string
	SortOrder  string
	TypeFilter string // exact match on provider type, empty for any
	Watched    *bool
}

// Add validates the batch and inserts it all-or-nothing. Validation
// collects every per-item failure before rejecting; collisions with
// existing entries reject the whole batch too.
func (s *Service) Add(ctx context.Context, candidates []models.WatchlistCandidate) ([]models.WatchlistEntry, error) {
	if err := validate.BulkAdd(candidates); err != nil {
		return nil, err
	}

	inserted, err := s.store.BulkAdd(ctx, candidates)
	if err != nil {
		return nil, err
	}
	slog.Info("watchlist.bulk_add", "count", len(inserted))
	return inserted, nil
}

// List returns the enriched, filtered, sorted watchlist. Every row is
// enriched with a fresh provider lookup; the list view is all-or-nothing,
// so the first fetch failure fails the whole request.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.EnrichedEntry, error) {
	entries, err := s.store.List(ctx, opts.Watched)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrichAll(ctx, entries)
	if err != nil {
		return nil, err
	}

	if opts.TypeFilter != "" {
		filtered := enriched[:0]
		for _, e := range enriched {
			if e.Movie != nil && e.Movie.Type == opts.TypeFilter {
				filtered = append(filtered, e)
			}
		}
		enriched = filtered
	}

	sortEntries(enriched, opts.SortField, opts.SortOrder)
	return enriched, nil
}

// Get returns a single enriched entry. An entry whose ID the provider no
// longer resolves is reported as not found.
func (s *Service) Get(ctx context.Context, imdbID string) (*models.EnrichedEntry, error) {
	if err := checkID(imdbID); err != nil {
		return nil, err
	}

	entry, err := s.store.GetByIMDBID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	movie, found, err := s.client.GetByID(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("metadata for %s: %w", imdbID, models.ErrNotFound)
	}

	return &models.EnrichedEntry{WatchlistEntry: *entry, Movie: movie}, nil
}

// Update applies a partial patch to rating and watched state. The IMDb ID
// itself is immutable; handlers reject attempts to change it before
// reaching this point.
func (s *Service) Update(ctx context.Context, imdbID string, patch models.WatchlistPatch) (*models.WatchlistEntry, error) {
	if err := checkID(imdbID); err != nil {
		return nil, err
	}
	if !validate.IsValidRating(patch.Rating) {
		return nil, &models.ValidationError{
			Code:    models.CodeInvalidRating,
			Message: fmt.Sprintf("rating must be between %d and %d", validate.MinRating, validate.MaxRating),
		}
	}
	return s.store.Update(ctx, imdbID, patch)
}

// Remove deletes an entry by IMDb ID.
func (s *Service) Remove(ctx context.Context, imdbID string) error {
	if err := checkID(imdbID); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, imdbID); err != nil {
		return err
	}
	slog.Info("watchlist.removed", "imdbId", imdbID)
	return nil
}

// MarkMembership flags search results already present in the watchlist.
func (s *Service) MarkMembership(ctx context.Context, items []models.SearchItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.IMDBID
	}
	present, err := s.store.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].InWatchlist = present[items[i].IMDBID]
	}
	return nil
}

// enrichAll fans out one provider lookup per row and joins before
// returning. Each goroutine fills its own slot so row order survives. A
// row whose ID no longer resolves is reported as not found and fails
// the whole list.
func (s *Service) enrichAll(ctx context.Context, entries []models.WatchlistEntry) ([]models.EnrichedEntry, error) {
	enriched := make([]models.EnrichedEntry, len(entries))
	p := pool.New().WithContext(ctx)
	for i, entry := range entries {
		i, entry := i, entry
		p.Go(func(ctx context.Context) error {
			movie, found, err := s.client.GetByID(ctx, entry.IMDBID)
			if err != nil {
				return fmt.Errorf("enrich %s: %w", entry.IMDBID, err)
			}
			if !found {
				return fmt.Errorf("metadata for %s: %w", entry.IMDBID, models.ErrNotFound)
			}
			enriched[i] = models.EnrichedEntry{WatchlistEntry: entry, Movie: movie}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

func checkID(imdbID string) error {
	if !validate.IsWellFormedID(imdbID) {
		return &models.ValidationError{
			Code:    models.CodeMalformedID,
			Message: fmt.Sprintf("%q does not match the IMDb identifier format", imdbID),
		}
	}
	return nil
}
