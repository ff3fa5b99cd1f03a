package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luda9/cinevault-backend/models"
)

// DefaultRecentLimit bounds how many comparison records Recent returns.
const DefaultRecentLimit = 10

// ComparisonRepository is an append-only log of comparison requests. The
// ordered ID list is serialized as a JSON array at this boundary only;
// nothing above this layer sees the serialized form.
type ComparisonRepository struct {
	db *sql.DB
}

func NewComparisonRepository(db *sql.DB) *ComparisonRepository {
	return &ComparisonRepository{db: db}
}

// Append records a new comparison and returns the stored record.
func (r *ComparisonRepository) Append(ctx context.Context, imdbIDs []string) (*models.ComparisonRecord, error) {
	return r.appendAt(ctx, imdbIDs, time.Now().UTC())
}

func (r *ComparisonRepository) appendAt(ctx context.Context, imdbIDs []string, at time.Time) (*models.ComparisonRecord, error) {
	encoded, err := json.Marshal(imdbIDs)
	if err != nil {
		return nil, fmt.Errorf("encode id list: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO comparisons (imdb_ids, created_at) VALUES (?, ?)",
		string(encoded), at)
	if err != nil {
		return nil, fmt.Errorf("append comparison: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("append comparison: %w", err)
	}

	return &models.ComparisonRecord{
		ID:        id,
		IMDBIDs:   imdbIDs,
		CreatedAt: at,
	}, nil
}

// Recent returns the n most recent records newest-first. Records sharing a
// timestamp are ordered by descending sequence ID, so newest-inserted-first
// holds even within the same timestamp granularity.
func (r *ComparisonRepository) Recent(ctx context.Context, n int) ([]models.ComparisonRecord, error) {
	if n <= 0 || n > DefaultRecentLimit {
		n = DefaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, imdb_ids, created_at FROM comparisons ORDER BY created_at DESC, id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("recent comparisons: %w", err)
	}
	defer rows.Close()

	var records []models.ComparisonRecord
	for rows.Next() {
		var record models.ComparisonRecord
		var encoded string
		if err := rows.Scan(&record.ID, &encoded, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &record.IMDBIDs); err != nil {
			return nil, fmt.Errorf("decode id list for record %d: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read comparisons: %w", err)
	}
	return records, nil
}
