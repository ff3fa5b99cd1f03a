package models

import "time"

// WatchlistEntry is a locally persisted user annotation keyed by IMDb ID.
// The IMDb ID is unique and immutable once created.
type WatchlistEntry struct {
	ID        int64     `json:"id"`
	IMDBID    string    `json:"imdbId"`
	Rating    *int      `json:"rating,omitempty"` // 1-10, nil when unrated
	Watched   bool      `json:"watched"`
	CreatedAt time.Time `json:"createdAt"`
}

// WatchlistCandidate captures data required to insert a watchlist entry.
type WatchlistCandidate struct {
	IMDBID  string `json:"id"`
	Rating  *int   `json:"rating,omitempty"`
	Watched *bool  `json:"watched,omitempty"`
}

// WatchlistPatch is a partial update; nil fields are left unchanged.
type WatchlistPatch struct {
	Rating  *int  `json:"rating,omitempty"`
	Watched *bool `json:"watched,omitempty"`
}

// EnrichedEntry merges a watchlist entry with freshly fetched provider
// metadata. Never persisted; built per request.
type EnrichedEntry struct {
	WatchlistEntry
	Movie *Movie `json:"movie,omitempty"`
}
