package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luda9/cinevault-backend/models"
)

// WatchlistRepository provides CRUD over persisted watchlist entries,
// keyed by IMDb ID. Uniqueness is enforced both by a pre-check inside the
// insert transaction and by the UNIQUE constraint on the column, so
// concurrent duplicate inserts lose at the storage engine.
type WatchlistRepository struct {
	db *sql.DB
}

func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// BulkAdd inserts every pre-validated candidate or nothing at all. If any
// candidate collides with an existing entry the whole batch is rejected
// with a ConflictError listing every colliding ID in request order.
func (r *WatchlistRepository) BulkAdd(ctx context.Context, candidates []models.WatchlistCandidate) ([]models.WatchlistEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bulk add: %w", err)
	}
	defer tx.Rollback()

	placeholders := make([]string, len(candidates))
	args := make([]any, len(candidates))
	for i, c := range candidates {
		placeholders[i] = "?"
		args[i] = c.IMDBID
	}

	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf("SELECT imdb_id FROM watchlist WHERE imdb_id IN (%s)", strings.Join(placeholders, ",")),
		args...)
	if err != nil {
		return nil, fmt.Errorf("check collisions: %w", err)
	}

	existing := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan collision: %w", err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read collisions: %w", err)
	}

	var colliding []string
	for _, c := range candidates {
		if existing[c.IMDBID] {
			colliding = append(colliding, c.IMDBID)
		}
	}
	if len(colliding) > 0 {
		return nil, &models.ConflictError{IDs: colliding}
	}

	now := time.Now().UTC()
	inserted := make([]models.WatchlistEntry, 0, len(candidates))
	for _, c := range candidates {
		watched := c.Watched != nil && *c.Watched
		res, err := tx.ExecContext(ctx,
			"INSERT INTO watchlist (imdb_id, rating, watched, created_at) VALUES (?, ?, ?, ?)",
			c.IMDBID, c.Rating, watched, now)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", c.IMDBID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", c.IMDBID, err)
		}
		inserted = append(inserted, models.WatchlistEntry{
			ID:        id,
			IMDBID:    c.IMDBID,
			Rating:    c.Rating,
			Watched:   watched,
			CreatedAt: now,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk add: %w", err)
	}
	return inserted, nil
}

// GetByIMDBID returns a single entry or models.ErrNotFound.
func (r *WatchlistRepository) GetByIMDBID(ctx context.Context, imdbID string) (*models.WatchlistEntry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, imdb_id, rating, watched, created_at FROM watchlist WHERE imdb_id = ?", imdbID)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("watchlist entry %s: %w", imdbID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", imdbID, err)
	}
	return entry, nil
}

// List returns entries newest-first, optionally filtered by watched state.
func (r *WatchlistRepository) List(ctx context.Context, watched *bool) ([]models.WatchlistEntry, error) {
	query := "SELECT id, imdb_id, rating, watched, created_at FROM watchlist"
	var args []any
	if watched != nil {
		query += " WHERE watched = ?"
		args = append(args, *watched)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	return entries, nil
}

// Update applies a partial patch: nil fields keep their stored value via a
// COALESCE-on-null merge. Returns models.ErrNotFound for unknown IDs.
func (r *WatchlistRepository) Update(ctx context.Context, imdbID string, patch models.WatchlistPatch) (*models.WatchlistEntry, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE watchlist SET rating = COALESCE(?, rating), watched = COALESCE(?, watched) WHERE imdb_id = ?",
		patch.Rating, patch.Watched, imdbID)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", imdbID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", imdbID, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("watchlist entry %s: %w", imdbID, models.ErrNotFound)
	}
	return r.GetByIMDBID(ctx, imdbID)
}

// Remove deletes an entry or returns models.ErrNotFound.
func (r *WatchlistRepository) Remove(ctx context.Context, imdbID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM watchlist WHERE imdb_id = ?", imdbID)
	if err != nil {
		return fmt.Errorf("remove %s: %w", imdbID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove %s: %w", imdbID, err)
	}
	if affected == 0 {
		return fmt.Errorf("watchlist entry %s: %w", imdbID, models.ErrNotFound)
	}
	return nil
}

// ExistingIDs reports which of the supplied IMDb IDs are present in the
// watchlist. Used to mark search results with local membership.
func (r *WatchlistRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT imdb_id FROM watchlist WHERE imdb_id IN (%s)", strings.Join(placeholders, ",")),
		args...)
	if err != nil {
		return nil, fmt.Errorf("existing ids: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		present[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}
	return present, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.WatchlistEntry, error) {
	var entry models.WatchlistEntry
	var rating sql.NullInt64
	if err := row.Scan(&entry.ID, &entry.IMDBID, &rating, &entry.Watched, &entry.CreatedAt); err != nil {
		return nil, err
	}
	if rating.Valid {
		v := int(rating.Int64)
		entry.Rating = &v
	}
	return &entry, nil
}
