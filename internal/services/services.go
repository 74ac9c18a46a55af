// package services defines the movie data [Provider] and its HTTP implementations
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
)

// Provider is a source of movie data.
//
// Pages are 1-based. Implementations return errors wrapping [shared.ErrNetwork], [shared.ErrNotFound],
// [shared.ErrNotAuthenticated] or [shared.ErrValidation] so callers can branch with [errors.Is].
type Provider interface {
	// Trending lists movies trending over window ("day" or "week").
	Trending(ctx context.Context, window string, page int) (*models.Page, error)

	// Search lists movies whose title matches query.
	Search(ctx context.Context, query string, page int) (*models.Page, error)

	// Discover lists movies filtered by genre and/or release year.
	Discover(ctx context.Context, params models.DiscoverParams, page int) (*models.Page, error)

	MovieDetail(ctx context.Context, id int) (*models.MovieDetail, error)
	Credits(ctx context.Context, id int) (*models.Credits, error)
	Videos(ctx context.Context, id int) (*models.VideoList, error)

	// Similar returns the first page of movies similar to id.
	Similar(ctx context.Context, id int) (*models.Page, error)

	Genres(ctx context.Context) ([]models.Genre, error)

	// Name returns the name of the provider (e.g., "TMDB", "Proxy")
	Name() string
}

// DefaultSortBy is applied to discover requests without an explicit order.
const DefaultSortBy = "popularity.desc"

// statusError maps a non-2xx upstream status to the error taxonomy in [shared].
func statusError(status int, what string) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, what)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, what)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", shared.ErrValidation, what)
	default:
		return fmt.Errorf("%w: %s: status %d", shared.ErrNetwork, what, status)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
