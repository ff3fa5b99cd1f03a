package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/luda9/cinevault-backend/models"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

const (
	requestTimeout = 10 * time.Second
	retryAttempts  = 3
	retryDelay     = 300 * time.Millisecond
)

// Client handles OMDb API lookups. "Not found" is reported as a distinct
// outcome from transport or service failure: OMDb answers HTTP 200 with
// Response:"False" when a title does not exist. Transient transport errors
// and 5xx responses are retried a couple of times inside the client; the
// callers above never retry.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// SearchFilters narrows a title search.
type SearchFilters struct {
	Type string // movie | series | episode, empty for any
	Year string
	Page int
}

// NewClient returns a client against the given base URL. An empty baseURL
// selects the public OMDb endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// apiMovie is the OMDb detail payload. Every field arrives as a string;
// "N/A" marks absent values.
type apiMovie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	IMDBVotes  string `json:"imdbVotes"`
	IMDBID     string `json:"imdbID"`
	Type       string `json:"Type"`
	BoxOffice  string `json:"BoxOffice"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

type apiSearchPage struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDBID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

// GetByID looks up a single title. The second return value is false when
// OMDb reports the ID as unknown; an error is returned only for transport
// or service failures.
func (c *Client) GetByID(ctx context.Context, imdbID string) (*models.Movie, bool, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "short")

	var payload apiMovie
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, false, err
	}

	if payload.Response != "True" {
		slog.Debug("omdb.lookup_miss", "imdbId", imdbID, "reason", payload.Error)
		return nil, false, nil
	}

	return &models.Movie{
		IMDBID:     payload.IMDBID,
		Title:      payload.Title,
		Year:       payload.Year,
		Rated:      payload.Rated,
		Released:   payload.Released,
		Runtime:    payload.Runtime,
		Genre:      payload.Genre,
		Director:   payload.Director,
		Actors:     payload.Actors,
		Plot:       payload.Plot,
		PosterURL:  payload.Poster,
		IMDBRating: payload.IMDBRating,
		IMDBVotes:  payload.IMDBVotes,
		Type:       payload.Type,
		BoxOffice:  payload.BoxOffice,
	}, true, nil
}

// Search runs a paged title search. A query with no matches yields an empty
// result, not an error.
func (c *Client) Search(ctx context.Context, query string, filters SearchFilters) (*models.SearchResult, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("s", query)
	params.Set("page", strconv.Itoa(page))
	if filters.Type != "" {
		params.Set("type", filters.Type)
	}
	if filters.Year != "" {
		params.Set("y", filters.Year)
	}

	var payload apiSearchPage
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	result := &models.SearchResult{Items: []models.SearchItem{}, Page: page}
	if payload.Response != "True" {
		slog.Debug("omdb.search_miss", "query", query, "reason", payload.Error)
		return result, nil
	}

	total, _ := strconv.Atoi(payload.TotalResults)
	result.TotalResults = total
	for _, item := range payload.Search {
		result.Items = append(result.Items, models.SearchItem{
			IMDBID:    item.IMDBID,
			Title:     item.Title,
			Year:      item.Year,
			Type:      item.Type,
			PosterURL: item.Poster,
		})
	}
	return result, nil
}

// get performs one API call with retries on transient failures and decodes
// the body into out. All failures surface as models.ErrExternalService.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)
	requestURL := c.baseURL + "?" + params.Encode()

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			return c.fetch(ctx, requestURL)
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrExternalService, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrExternalService, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		// 4xx means a bad key or request; retrying will not help.
		return nil, retry.Unrecoverable(fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	return readBody(resp)
}

// maxResponseSize bounds an OMDb response body; real payloads are a few KB.
const maxResponseSize = 1 << 20

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
