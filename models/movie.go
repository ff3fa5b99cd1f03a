package models

// Movie is a single OMDb record normalized for API responses. Raw provider
// fields stay strings ("142 min", "N/A"); parsing into numbers happens where
// the value is actually consumed.
type Movie struct {
	IMDBID     string `json:"imdbId"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Rated      string `json:"rated,omitempty"`
	Released   string `json:"released,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Director   string `json:"director,omitempty"`
	Actors     string `json:"actors,omitempty"`
	Plot       string `json:"plot,omitempty"`
	PosterURL  string `json:"posterUrl,omitempty"`
	IMDBRating string `json:"imdbRating,omitempty"`
	IMDBVotes  string `json:"imdbVotes,omitempty"`
	Type       string `json:"type"` // movie | series | episode
	BoxOffice  string `json:"boxOffice,omitempty"`
}

// SearchItem is one row of an OMDb search page, marked with local
// watchlist membership.
type SearchItem struct {
	IMDBID      string `json:"imdbId"`
	Title       string `json:"title"`
	Year        string `json:"year"`
	Type        string `json:"type"`
	PosterURL   string `json:"posterUrl,omitempty"`
	InWatchlist bool   `json:"inWatchlist"`
}

// SearchResult is a single page of search results.
type SearchResult struct {
	Items        []SearchItem `json:"items"`
	TotalResults int          `json:"totalResults"`
	Page         int          `json:"page"`
}
