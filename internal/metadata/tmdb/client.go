package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vadimtrunov/mediabrowser/internal/core"
	"github.com/vadimtrunov/mediabrowser/internal/httpclient"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/"
	defaultSort    = "popularity.desc"
)

// ErrNotFound is returned when the API answers 404 for a title or season.
var ErrNotFound = errors.New("tmdb: not found")

// Client is a TMDb API v3 client. Every call goes to the API; nothing is cached.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *slog.Logger
}

var _ core.MetadataProvider = (*Client)(nil)

// New creates a new TMDb client. An empty baseURL selects the public API.
func New(apiKey, baseURL string, cfg httpclient.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpclient.New(cfg, logger),
		logger:  logger,
	}
}

// NewForTest creates a TMDb client with a custom base URL for testing.
// Exported because it is used by cross-package tests (e.g. internal/web).
func NewForTest(baseURL string, logger *slog.Logger) *Client {
	return New("test-key", baseURL, httpclient.DefaultConfig(), logger)
}

// Countries lists the countries known to the API.
func (c *Client) Countries(ctx context.Context) ([]core.Country, error) {
	var countries []core.Country
	if err := c.get(ctx, "/configuration/countries", nil, &countries); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

// Genres lists the genres of the movie or TV catalog.
func (c *Client) Genres(ctx context.Context, kind core.Kind) ([]core.Genre, error) {
	var resp genreListResponse
	path := fmt.Sprintf("/genre/%s/list", kind.MediaType())
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s genres: %w", kind.MediaType(), err)
	}
	return resp.Genres, nil
}

// SearchMulti searches movies, shows and people. Results keep their media_type.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*core.ResultPage, error) {
	params := url.Values{
		"query":         {query},
		"include_adult": {"false"},
		"page":          {strconv.Itoa(max(page, 1))},
	}

	var resp pageResponse
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, fmt.Errorf("search multi: %w", err)
	}
	return resp.toCore(), nil
}

// Search searches one catalog by title.
func (c *Client) Search(ctx context.Context, kind core.Kind, query string, page int) (*core.ResultPage, error) {
	params := url.Values{
		"query":         {query},
		"include_adult": {"false"},
		"page":          {strconv.Itoa(max(page, 1))},
	}

	var resp pageResponse
	path := "/search/" + kind.MediaType()
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("search %s: %w", kind.MediaType(), err)
	}
	return resp.toCore(), nil
}

// Discover lists a catalog filtered by sort, year, genre, cast and origin country.
func (c *Client) Discover(ctx context.Context, kind core.Kind, filter core.DiscoverFilter) (*core.ResultPage, error) {
	var resp pageResponse
	path := "/discover/" + kind.MediaType()
	if err := c.get(ctx, path, discoverParams(kind, filter), &resp); err != nil {
		return nil, fmt.Errorf("discover %s: %w", kind.MediaType(), err)
	}
	return resp.toCore(), nil
}

// Details retrieves the full record of a movie or show.
func (c *Client) Details(ctx context.Context, kind core.Kind, id int) (*core.ContentDetail, error) {
	var resp details
	path := fmt.Sprintf("/%s/%d", kind.MediaType(), id)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind.MediaType(), id, err)
	}
	return resp.toCore(), nil
}

// Credits retrieves cast and crew of a movie or show.
func (c *Client) Credits(ctx context.Context, kind core.Kind, id int) (*core.Credits, error) {
	var resp creditsResponse
	path := fmt.Sprintf("/%s/%d/credits", kind.MediaType(), id)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get credits for %s %d: %w", kind.MediaType(), id, err)
	}
	return resp.toCore(), nil
}

// ShowRaw returns the untouched /tv/{id} document.
func (c *Client) ShowRaw(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/tv/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, fmt.Errorf("get show %s: %w", id, err)
	}
	return raw, nil
}

// SeasonRaw returns the untouched /tv/{id}/season/{n} document.
func (c *Client) SeasonRaw(ctx context.Context, showID, season string) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/tv/%s/season/%s", url.PathEscape(showID), url.PathEscape(season))
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("get season %s of show %s: %w", season, showID, err)
	}
	return raw, nil
}

// PosterURL returns the full URL for a poster path.
func PosterURL(posterPath, size string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + size + posterPath
}

// discoverParams translates filters into discover query parameters.
// A year becomes a Jan 1..Dec 31 range on release_date (movies) or first_air_date (shows).
func discoverParams(kind core.Kind, f core.DiscoverFilter) url.Values {
	sort := f.Sort
	if sort == "" {
		sort = defaultSort
	}
	params := url.Values{
		"sort_by": {sort},
		"page":    {strconv.Itoa(max(f.Page, 1))},
	}
	if f.Cast != "" {
		params.Set("with_cast", f.Cast)
	}
	if f.Year > 0 {
		field := "release_date"
		if kind == core.KindShows {
			field = "first_air_date"
		}
		params.Set(field+".gte", fmt.Sprintf("%04d-01-01", f.Year))
		params.Set(field+".lte", fmt.Sprintf("%04d-12-31", f.Year))
	}
	if f.Genre != "" {
		params.Set("with_genres", f.Genre)
	}
	if f.Country != "" {
		params.Set("with_origin_country", f.Country)
	}
	return params
}

// get performs an authenticated GET request to the TMDb API and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tmdb API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
