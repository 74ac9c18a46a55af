package discovery

import (
	"fmt"
	"strings"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
)

// Kind selects the upstream listing a filter pages through.
type Kind int

const (
	KindTrending Kind = iota
	KindSearch
	KindDiscover
)

func (k Kind) String() string {
	switch k {
	case KindTrending:
		return "trending"
	case KindSearch:
		return "search"
	case KindDiscover:
		return "discover"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Trending time windows.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

// MinSearchLength is the shortest search text, after trimming, that triggers a search.
const MinSearchLength = 3

// QueryFilter identifies one paginated listing. Two filters are equivalent iff every field matches.
type QueryFilter struct {
	Kind       Kind
	Text       string
	Genre      int
	TimeWindow string
	SortBy     string
	Year       int
}

// Trending returns a trending filter over window.
func Trending(window string) QueryFilter {
	return QueryFilter{Kind: KindTrending, TimeWindow: window}
}

// Search returns a title search filter. Whitespace in text is normalized.
func Search(text string) QueryFilter {
	return QueryFilter{Kind: KindSearch, Text: shared.NormalizeQuery(text)}
}

// Discover returns a discover filter. Zero genre or year leaves that dimension open.
func Discover(genre, year int, sortBy string) QueryFilter {
	return QueryFilter{Kind: KindDiscover, Genre: genre, Year: year, SortBy: sortBy}
}

// Equal reports whether f and o select the same listing.
func (f QueryFilter) Equal(o QueryFilter) bool {
	return f == o
}

// Validate rejects filters that must not reach the network.
func (f QueryFilter) Validate() error {
	switch f.Kind {
	case KindTrending:
		if f.TimeWindow != WindowDay && f.TimeWindow != WindowWeek {
			return fmt.Errorf("%w: time window must be %q or %q", shared.ErrValidation, WindowDay, WindowWeek)
		}
	case KindSearch:
		if len([]rune(strings.TrimSpace(f.Text))) < MinSearchLength {
			return fmt.Errorf("%w: search text must be longer than %d characters", shared.ErrValidation, MinSearchLength-1)
		}
	case KindDiscover:
		if f.Genre <= 0 && f.Year <= 0 {
			return fmt.Errorf("%w: discover needs a genre or a year", shared.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown filter kind %d", shared.ErrValidation, int(f.Kind))
	}
	return nil
}

// DiscoverParams returns the provider parameters for a discover filter.
func (f QueryFilter) DiscoverParams() models.DiscoverParams {
	return models.DiscoverParams{Genre: f.Genre, Year: f.Year, SortBy: f.SortBy}
}

func (f QueryFilter) String() string {
	switch f.Kind {
	case KindTrending:
		return "trending/" + f.TimeWindow
	case KindSearch:
		return fmt.Sprintf("search %q", f.Text)
	case KindDiscover:
		parts := []string{"discover"}
		if f.Genre > 0 {
			parts = append(parts, fmt.Sprintf("genre=%d", f.Genre))
		}
		if f.Year > 0 {
			parts = append(parts, fmt.Sprintf("year=%d", f.Year))
		}
		if f.SortBy != "" {
			parts = append(parts, "sort="+f.SortBy)
		}
		return strings.Join(parts, " ")
	default:
		return f.Kind.String()
	}
}
