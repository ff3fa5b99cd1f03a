package comparison

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

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

type comparisonStore interface {
	Append(ctx context.Context, imdbIDs []string) (*models.ComparisonRecord, error)
	Recent(ctx context.Context, n int) ([]models.ComparisonRecord, error)
}

var _ comparisonStore = (*database.ComparisonRepository)(nil)

// Service orchestrates comparisons: validate, fetch, aggregate, persist.
type Service struct {
	client metadataClient
	store  comparisonStore
}

func NewService(client metadataClient, store comparisonStore) *Service {
	return &Service{client: client, store: store}
}

// Compare validates the raw ID list, fetches every movie concurrently,
// computes the aggregate and durably records the ID set. Recording the set
// is the only durable side effect of this path and happens strictly after
// every fetch has succeeded; any failure leaves the log untouched.
func (s *Service) Compare(ctx context.Context, rawIDs json.RawMessage) (*models.ComparisonResult, error) {
	ids, err := validate.ComparisonIDs(rawIDs)
	if err != nil {
		return nil, err
	}

	movies, missing, err := s.fetchAll(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &models.MoviesNotFoundError{IDs: missing}
	}

	result := buildResult(movies)

	if _, err := s.store.Append(ctx, ids); err != nil {
		return nil, fmt.Errorf("record comparison: %w", err)
	}
	result.ComparedAt = time.Now().UTC()

	slog.Info("comparison.completed", "ids", ids, "movies", len(movies))
	return result, nil
}

// Recent returns the last comparisons re-enriched for display. IDs the
// provider no longer resolves are dropped; a record left with fewer than
// two resolvable movies is omitted entirely. A transport failure aborts
// the whole request.
func (s *Service) Recent(ctx context.Context) ([]models.RecentComparison, error) {
	records, err := s.store.Recent(ctx, database.DefaultRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent comparisons: %w", err)
	}

	recent := make([]models.RecentComparison, 0, len(records))
	for _, record := range records {
		movies, _, err := s.fetchAll(ctx, record.IMDBIDs)
		if err != nil {
			return nil, err
		}
		if len(movies) < validate.MinCompareIDs {
			slog.Warn("comparison.recent.under_resolved",
				"recordId", record.ID, "resolved", len(movies), "requested", len(record.IMDBIDs))
			continue
		}
		recent = append(recent, models.RecentComparison{
			ID:        record.ID,
			Movies:    movies,
			CreatedAt: record.CreatedAt,
		})
	}
	return recent, nil
}

type fetchOutcome struct {
	id    string
	movie *models.Movie
	found bool
}

// fetchAll resolves every ID concurrently and joins before returning.
// Each goroutine writes its own slot so results stay in request order;
// IDs the provider does not know are collected into missing. A transport
// or service failure cancels the remaining fetches and fails the whole
// call.
func (s *Service) fetchAll(ctx context.Context, ids []string) ([]models.Movie, []string, error) {
	outcomes := make([]fetchOutcome, len(ids))
	p := pool.New().WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		p.Go(func(ctx context.Context) error {
			movie, found, err := s.client.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", id, err)
			}
			outcomes[i] = fetchOutcome{id: id, movie: movie, found: found}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	movies := make([]models.Movie, 0, len(outcomes))
	var missing []string
	for _, outcome := range outcomes {
		if !outcome.found {
			missing = append(missing, outcome.id)
			continue
		}
		movies = append(movies, *outcome.movie)
	}
	return movies, missing, nil
}
