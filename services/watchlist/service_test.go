package watchlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/luda9/cinevault-backend/models"
)

type fakeClient struct {
	mu      sync.Mutex
	movies  map[string]models.Movie
	failing map[string]bool
	calls   int
}

func newFakeClient(movies ...models.Movie) *fakeClient {
	c := &fakeClient{movies: make(map[string]models.Movie), failing: make(map[string]bool)}
	for _, m := range movies {
		c.movies[m.IMDBID] = m
	}
	return c
}

func (c *fakeClient) GetByID(_ context.Context, imdbID string) (*models.Movie, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failing[imdbID] {
		return nil, false, fmt.Errorf("%w: timeout", models.ErrExternalService)
	}
	movie, ok := c.movies[imdbID]
	if !ok {
		return nil, false, nil
	}
	return &movie, true, nil
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeStore mirrors the repository contract in memory, including the
// all-or-nothing collision check.
type fakeStore struct {
	mu      sync.Mutex
	entries []models.WatchlistEntry
	nextID  int64
}

func (s *fakeStore) BulkAdd(_ context.Context, candidates []models.WatchlistCandidate) ([]models.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var colliding []string
	for _, c := range candidates {
		for _, e := range s.entries {
			if e.IMDBID == c.IMDBID {
				colliding = append(colliding, c.IMDBID)
			}
		}
	}
	if len(colliding) > 0 {
		return nil, &models.ConflictError{IDs: colliding}
	}

	var inserted []models.WatchlistEntry
	for _, c := range candidates {
		s.nextID++
		watched := c.Watched != nil && *c.Watched
		entry := models.WatchlistEntry{
			ID: s.nextID, IMDBID: c.IMDBID, Rating: c.Rating, Watched: watched, CreatedAt: time.Now().UTC(),
		}
		s.entries = append(s.entries, entry)
		inserted = append(inserted, entry)
	}
	return inserted, nil
}

func (s *fakeStore) GetByIMDBID(_ context.Context, imdbID string) (*models.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.IMDBID == imdbID {
			entry := e
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("watchlist entry %s: %w", imdbID, models.ErrNotFound)
}

func (s *fakeStore) List(_ context.Context, watched *bool) ([]models.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WatchlistEntry
	for _, e := range s.entries {
		if watched != nil && e.Watched != *watched {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, imdbID string, patch models.WatchlistPatch) (*models.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].IMDBID == imdbID {
			if patch.Rating != nil {
				s.entries[i].Rating = patch.Rating
			}
			if patch.Watched != nil {
				s.entries[i].Watched = *patch.Watched
			}
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("watchlist entry %s: %w", imdbID, models.ErrNotFound)
}

func (s *fakeStore) Remove(_ context.Context, imdbID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].IMDBID == imdbID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("watchlist entry %s: %w", imdbID, models.ErrNotFound)
}

func (s *fakeStore) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	present := make(map[string]bool)
	for _, id := range ids {
		for _, e := range s.entries {
			if e.IMDBID == id {
				present[id] = true
			}
		}
	}
	return present, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestAddRejectsInvalidBatchBeforeStore(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(newFakeClient(), store)

	_, err := svc.Add(context.Background(), []models.WatchlistCandidate{
		{IMDBID: "tt0000001"},
		{IMDBID: "bogus"},
	})
	var bulkErr *models.BulkValidationError
	if !errors.As(err, &bulkErr) {
		t.Fatalf("expected BulkValidationError, got %v", err)
	}
	if store.count() != 0 {
		t.Fatalf("invalid batch must not touch the store, got %d entries", store.count())
	}
}

// All-or-nothing: one collision in a batch of three inserts zero items and
// the conflict lists exactly the colliding id.
func TestAddConflictIsAllOrNothing(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(newFakeClient(), store)

	if _, err := svc.Add(context.Background(), []models.WatchlistCandidate{{IMDBID: "tt0000002"}}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	_, err := svc.Add(context.Background(), []models.WatchlistCandidate{
		{IMDBID: "tt0000001"},
		{IMDBID: "tt0000002"},
		{IMDBID: "tt0000003"},
	})
	var conflict *models.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.IDs) != 1 || conflict.IDs[0] != "tt0000002" {
		t.Fatalf("expected conflict on tt0000002 only, got %v", conflict.IDs)
	}
	if store.count() != 1 {
		t.Fatalf("no new items may be inserted on conflict, got %d entries", store.count())
	}
}

func TestListEnrichesEveryRow(t *testing.T) {
	client := newFakeClient(
		models.Movie{IMDBID: "tt0000001", Title: "A", Type: "movie"},
		models.Movie{IMDBID: "tt0000002", Title: "B", Type: "series"},
	)
	store := &fakeStore{}
	svc := NewService(client, store)

	if _, err := svc.Add(context.Background(), []models.WatchlistCandidate{
		{IMDBID: "tt0000001"}, {IMDBID: "tt0000002"},
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	entries, err := svc.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Movie == nil {
			t.Fatalf("entry %s missing enrichment", e.IMDBID)
		}
	}
	if client.callCount() != 2 {
		t.Fatalf("expected one fetch per row, got %d", client.callCount())
	}
}

// The list view is all-or-nothing: a single fetch failure fails the
// whole request.
func TestListFailsWholeRequestOnFetchFailure(t *testing.T) {
	client := newFakeClient(models.Movie{IMDBID: "tt0000001", Title: "A"})
	client.failing["tt0000002"] = true
	store := &fakeStore{}
	svc := NewService(client, store)

	if _, err := svc.Add(context.Background(), []models.WatchlistCandidate{
		{IMDBID: "tt0000001"}, {IMDBID: "tt0000002"},
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err := svc.List(context.Background(), ListOptions{})
	if !errors.Is(err, models.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestListTypeFilter(t *testing.T) {
	client := newFakeClient(
		models.Movie{IMDBID: "tt0000001", Type: "movie"},
		models.Movie{IMDBID: "tt0000002", Type: "series"},
	)
	store := &fakeStore{}
	svc := NewService(client, store)

	if _, err := svc.Add(context.Background(), []models.WatchlistCandidate{
		{IMDBID: "tt0000001"}, {IMDBID: "tt0000002"},
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	entries, err := svc.List(context.Background(), ListOptions{TypeFilter: "series"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 || entries[0].IMDBID != "tt0000002" {
		t.Fatalf("expected only the series entry, got %v", entries)
	}
}

func TestUpdateValidatesBeforeStore(t *testing.T) {
	svc := NewService(newFakeClient(), &fakeStore{})

	bad := 12
	_, err := svc.Update(context.Background(), "tt0000001", models.WatchlistPatch{Rating: &bad})
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Code != models.CodeInvalidRating {
		t.Fatalf("expected invalid_rating, got %v", err)
	}

	_, err = svc.Update(context.Background(), "bogus", models.WatchlistPatch{})
	if !errors.As(err, &validationErr) || validationErr.Code != models.CodeMalformedID {
		t.Fatalf("expected malformed_id, got %v", err)
	}
}

func TestRemoveUnknownEntry(t *testing.T) {
	svc := NewService(newFakeClient(), &fakeStore{})
	err := svc.Remove(context.Background(), "tt0000001")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkMembership(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(newFakeClient(), store)

	if _, err := svc.Add(context.Background(), []models.WatchlistCandidate{{IMDBID: "tt0000001"}}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	items := []models.SearchItem{
		{IMDBID: "tt0000001"},
		{IMDBID: "tt0000002"},
	}
	if err := svc.MarkMembership(context.Background(), items); err != nil {
		t.Fatalf("mark membership failed: %v", err)
	}
	if !items[0].InWatchlist || items[1].InWatchlist {
		t.Fatalf("unexpected membership flags: %+v", items)
	}
}
