package models

import "time"

// ComparisonRecord is one persisted comparison request: an ordered set of
// 2-5 distinct IMDb IDs. Records are append-only and never mutated.
type ComparisonRecord struct {
	ID        int64     `json:"id"`
	IMDBIDs   []string  `json:"imdbIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingStats aggregates the IMDb ratings of a compared set. Highest and
// Lowest carry the full record achieving the extreme; on ties the first
// occurrence in request order wins.
type RatingStats struct {
	Average float64 `json:"average"` // rounded to 2 decimal places
	Range   float64 `json:"range"`   // max-min, rounded to 1 decimal place
	Highest *Movie  `json:"highest,omitempty"`
	Lowest  *Movie  `json:"lowest,omitempty"`
}

// YearStats aggregates release years of a compared set.
type YearStats struct {
	Oldest int    `json:"oldest"`
	Newest int    `json:"newest"`
	Span   string `json:"span"` // e.g. "11 years"
}

// ComparisonResult is the derived aggregate over a fetched movie set.
// Computed fresh per request; only the input ID set is persisted.
type ComparisonResult struct {
	Movies         []Movie      `json:"movies"`
	Ratings        *RatingStats `json:"ratings,omitempty"`
	Years          *YearStats   `json:"years,omitempty"`
	RuntimeAverage string       `json:"runtimeAverage,omitempty"` // e.g. "129 min", absent when nothing parses
	BoxOfficeTotal string       `json:"boxOfficeTotal,omitempty"` // e.g. "$512,345,678"
	ComparedAt     time.Time    `json:"comparedAt"`
}

// RecentComparison is a persisted comparison re-enriched for display.
type RecentComparison struct {
	ID        int64     `json:"id"`
	Movies    []Movie   `json:"movies"`
	CreatedAt time.Time `json:"createdAt"`
}
