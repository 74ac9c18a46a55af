// TMDB API implementation of [Provider]
//
// Response shapes follow https://developer.themoviedb.org/reference
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
	"golang.org/x/oauth2"
)

const (
	tmdbBaseURL     = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
)

// TMDBService implements [Provider] against the TMDB v3 API.
//
// It authenticates with either a v3 API key (sent as the api_key query parameter) or a v4 read access token (sent as a
// bearer token through an [oauth2.Transport]). The access token wins when both are configured.
type TMDBService struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

var _ Provider = (*TMDBService)(nil)

// NewTMDBService creates a TMDB client from cfg. A nil client uses [http.DefaultClient] as the base transport.
func NewTMDBService(cfg shared.TMDBConfig, client *http.Client) (*TMDBService, error) {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: tmdb api_key or access_token is required", shared.ErrMissingCredentials)
	}
	if client == nil {
		client = http.DefaultClient
	}

	s := &TMDBService{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		httpClient: client,
	}
	if s.baseURL == "" {
		s.baseURL = tmdbBaseURL
	}
	if s.language == "" {
		s.language = defaultLanguage
	}

	if cfg.AccessToken != "" {
		s.apiKey = ""
		s.httpClient = &http.Client{
			Timeout: client.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}),
				Base:   client.Transport,
			},
		}
	}

	return s, nil
}

func (s *TMDBService) Name() string {
	return "TMDB"
}

// doRequest performs an authenticated GET against endpoint and decodes the JSON body into result.
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("language", s.language)
	if s.apiKey != "" {
		query.Set("api_key", s.apiKey)
	}

	apiURL := s.baseURL + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tmdb request failed: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return upstreamError(resp.StatusCode, "tmdb "+endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode tmdb response: %v", shared.ErrNetwork, err)
	}
	return nil
}

// upstreamError maps a non-2xx TMDB status. Anything but 404 is an [shared.ErrNetwork], including a rejected API key.
func upstreamError(status int, what string) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: status %d", shared.ErrNetwork, what, status)
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

// Trending calls /trending/movie/{window}.
func (s *TMDBService) Trending(ctx context.Context, window string, page int) (*models.Page, error) {
	var result models.Page
	if err := s.doRequest(ctx, "/trending/movie/"+url.PathEscape(window), pageQuery(page), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search calls /search/movie with adult titles excluded.
func (s *TMDBService) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query parameter is required", shared.ErrValidation)
	}

	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", "false")

	var result models.Page
	if err := s.doRequest(ctx, "/search/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover calls /discover/movie, defaulting the order to [DefaultSortBy].
func (s *TMDBService) Discover(ctx context.Context, params models.DiscoverParams, page int) (*models.Page, error) {
	q := pageQuery(page)
	if params.Genre > 0 {
		q.Set("with_genres", strconv.Itoa(params.Genre))
	}
	if params.Year > 0 {
		q.Set("primary_release_year", strconv.Itoa(params.Year))
	}
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	q.Set("sort_by", sortBy)

	var result models.Page
	if err := s.doRequest(ctx, "/discover/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetail calls /movie/{id}.
func (s *TMDBService) MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	var result models.MovieDetail
	if err := s.doRequest(ctx, fmt.Sprintf("/movie/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Credits calls /movie/{id}/credits.
func (s *TMDBService) Credits(ctx context.Context, id int) (*models.Credits, error) {
	var result models.Credits
	if err := s.doRequest(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Videos calls /movie/{id}/videos.
func (s *TMDBService) Videos(ctx context.Context, id int) (*models.VideoList, error) {
	var result models.VideoList
	if err := s.doRequest(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Similar calls /movie/{id}/similar for the first page only.
func (s *TMDBService) Similar(ctx context.Context, id int) (*models.Page, error) {
	var result models.Page
	if err := s.doRequest(ctx, fmt.Sprintf("/movie/%d/similar", id), pageQuery(1), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres calls /genre/movie/list.
func (s *TMDBService) Genres(ctx context.Context) ([]models.Genre, error) {
	var result models.GenreList
	if err := s.doRequest(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}
