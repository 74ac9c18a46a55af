package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
)

// ProxyService implements [Provider] through the cinex server's /api routes.
//
// Requests carry the session cookie held by the underlying [APIService]; without one the server answers 401 and calls
// fail with [shared.ErrNotAuthenticated].
type ProxyService struct {
	api *APIService
}

var _ Provider = (*ProxyService)(nil)

// NewProxyService creates a [ProxyService] over api.
func NewProxyService(api *APIService) *ProxyService {
	return &ProxyService{api: api}
}

func (p *ProxyService) Name() string {
	return "Proxy"
}

func (p *ProxyService) Trending(ctx context.Context, window string, page int) (*models.Page, error) {
	var result models.Page
	path := fmt.Sprintf("/api/movies/trending/%s?page=%d", url.PathEscape(window), max(page, 1))
	if err := p.api.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query parameter is required", shared.ErrValidation)
	}

	q := url.Values{"query": {query}, "page": {strconv.Itoa(max(page, 1))}}
	var result models.Page
	if err := p.api.getJSON(ctx, "/api/movies/search?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) Discover(ctx context.Context, params models.DiscoverParams, page int) (*models.Page, error) {
	q := url.Values{"page": {strconv.Itoa(max(page, 1))}}
	if params.Genre > 0 {
		q.Set("genre", strconv.Itoa(params.Genre))
	}
	if params.Year > 0 {
		q.Set("year", strconv.Itoa(params.Year))
	}
	if params.SortBy != "" {
		q.Set("sort_by", params.SortBy)
	}

	var result models.Page
	if err := p.api.getJSON(ctx, "/api/movies/discover?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	var result models.MovieDetail
	if err := p.api.getJSON(ctx, fmt.Sprintf("/api/movies/%d", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) Credits(ctx context.Context, id int) (*models.Credits, error) {
	var result models.Credits
	if err := p.api.getJSON(ctx, fmt.Sprintf("/api/movies/%d/credits", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) Videos(ctx context.Context, id int) (*models.VideoList, error) {
	var result models.VideoList
	if err := p.api.getJSON(ctx, fmt.Sprintf("/api/movies/%d/videos", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) Similar(ctx context.Context, id int) (*models.Page, error) {
	var result models.Page
	if err := p.api.getJSON(ctx, fmt.Sprintf("/api/movies/%d/similar", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (p *ProxyService) Genres(ctx context.Context) ([]models.Genre, error) {
	var result models.GenreList
	if err := p.api.getJSON(ctx, "/api/genres", &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}
