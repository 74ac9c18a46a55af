package discovery

import (
	"slices"

	"github.com/desertthunder/cinex/internal/models"
)

// State is the pagination state of a [Cursor].
type State int

const (
	Idle State = iota
	Loading
	HasMore
	Exhausted
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case HasMore:
		return "has-more"
	case Exhausted:
		return "exhausted"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Cursor is the pagination progress of one filter.
//
// NextPage is the page being loaded (Loading), the page to load next (HasMore), the page that failed (Error), or 0
// once exhausted. Accumulated only grows, by movies whose id has not been seen.
type Cursor struct {
	Filter      QueryFilter
	NextPage    int
	TotalPages  int
	Accumulated []models.Movie
	State       State
	Err         error

	generation uint64
	seen       map[int]struct{}
}

func newCursor(filter QueryFilter, generation uint64) *Cursor {
	return &Cursor{
		Filter:      filter,
		NextPage:    1,
		Accumulated: []models.Movie{},
		State:       Idle,
		generation:  generation,
		seen:        make(map[int]struct{}),
	}
}

// begin moves the cursor into Loading for NextPage.
func (c *Cursor) begin() PageRequest {
	c.State = Loading
	c.Err = nil
	return PageRequest{Filter: c.Filter, Page: c.NextPage, Generation: c.generation}
}

// merge appends unseen movies in order and returns how many were added.
func (c *Cursor) merge(results []models.Movie) int {
	added := 0
	for _, m := range results {
		if _, ok := c.seen[m.ID]; ok {
			continue
		}
		c.seen[m.ID] = struct{}{}
		c.Accumulated = append(c.Accumulated, m)
		added++
	}
	return added
}

// complete applies a successful response for page.
func (c *Cursor) complete(page int, resp *models.Page) int {
	added := c.merge(resp.Results)
	c.TotalPages = resp.TotalPages
	if page < resp.TotalPages {
		c.State = HasMore
		c.NextPage = page + 1
	} else {
		c.State = Exhausted
		c.NextPage = 0
	}
	return added
}

func (c *Cursor) fail(err error) {
	c.State = Error
	c.Err = err
}

// HasNextPage reports whether another page can be requested.
func (c *Cursor) HasNextPage() bool {
	return c.State == HasMore
}

// clone returns a copy safe to hand out of the aggregator's lock.
func (c *Cursor) clone() Cursor {
	cp := *c
	cp.Accumulated = slices.Clone(c.Accumulated)
	cp.seen = nil
	return cp
}
