package discovery

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
)

// PageRequest identifies one page fetch for one cursor generation.
type PageRequest struct {
	Filter     QueryFilter
	Page       int
	Generation uint64
}

// Aggregator owns the cursor of the active filter.
//
// All state changes happen under one lock; fetches run outside it. A cursor has at most one outstanding request
// because Begin* refuses to start while the cursor is Loading.
type Aggregator struct {
	mu         sync.Mutex
	provider   services.Provider
	cursor     *Cursor
	generation uint64
	logger     *log.Logger
}

// NewAggregator creates an [Aggregator] fetching through provider.
func NewAggregator(provider services.Provider, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Aggregator{provider: provider, logger: logger}
}

// Begin activates filter.
//
// An equal filter reuses the current cursor and returns false. Otherwise the cursor is replaced by a fresh one in
// Loading at page 1 and the request for it is returned. Invalid filters fail with [shared.ErrValidation] and leave the
// current cursor untouched.
func (a *Aggregator) Begin(filter QueryFilter) (PageRequest, bool, error) {
	if err := filter.Validate(); err != nil {
		return PageRequest{}, false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cursor != nil && a.cursor.Filter.Equal(filter) {
		return PageRequest{}, false, nil
	}

	a.generation++
	a.cursor = newCursor(filter, a.generation)
	a.logger.Debug("activate", "filter", filter.String(), "generation", a.generation)
	return a.cursor.begin(), true, nil
}

// BeginMore starts loading the next page. It returns false unless the cursor is HasMore.
func (a *Aggregator) BeginMore() (PageRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cursor == nil || a.cursor.State != HasMore {
		return PageRequest{}, false
	}
	return a.cursor.begin(), true
}

// BeginRetry restarts the page that failed. It returns false unless the cursor is Error.
func (a *Aggregator) BeginRetry() (PageRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cursor == nil || a.cursor.State != Error {
		return PageRequest{}, false
	}
	return a.cursor.begin(), true
}

// Complete applies the outcome of req. It returns false when req belongs to a discarded cursor or is not the
// outstanding request; such outcomes are dropped.
func (a *Aggregator) Complete(req PageRequest, page *models.Page, err error) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.cursor
	if c == nil || c.generation != req.Generation || c.State != Loading || c.NextPage != req.Page {
		a.logger.Debug("dropping stale page", "filter", req.Filter.String(), "page", req.Page)
		return false
	}

	if err == nil && page == nil {
		err = fmt.Errorf("%w: empty response", shared.ErrNetwork)
	}
	if err != nil {
		c.fail(err)
		a.logger.Warn("page failed", "filter", req.Filter.String(), "page", req.Page, "error", err)
		return true
	}

	added := c.complete(req.Page, page)
	a.logger.Debug("page merged", "filter", req.Filter.String(), "page", req.Page, "added", added, "state", c.State)
	return true
}

// Fetch performs req against the provider without touching aggregator state.
func (a *Aggregator) Fetch(ctx context.Context, req PageRequest) (*models.Page, error) {
	f := req.Filter
	switch f.Kind {
	case KindTrending:
		return a.provider.Trending(ctx, f.TimeWindow, req.Page)
	case KindSearch:
		return a.provider.Search(ctx, f.Text, req.Page)
	case KindDiscover:
		return a.provider.Discover(ctx, f.DiscoverParams(), req.Page)
	default:
		return nil, fmt.Errorf("%w: unknown filter kind %d", shared.ErrValidation, int(f.Kind))
	}
}

func (a *Aggregator) run(ctx context.Context, req PageRequest) error {
	page, err := a.Fetch(ctx, req)
	a.Complete(req, page, err)
	return err
}

// Activate switches to filter and loads its first page. Reusing an equal filter fetches nothing.
func (a *Aggregator) Activate(ctx context.Context, filter QueryFilter) error {
	req, ok, err := a.Begin(filter)
	if err != nil || !ok {
		return err
	}
	return a.run(ctx, req)
}

// LoadMore loads the next page. It reports false without fetching unless the cursor is HasMore, which includes any
// call made while another page is loading.
func (a *Aggregator) LoadMore(ctx context.Context) (bool, error) {
	req, ok := a.BeginMore()
	if !ok {
		return false, nil
	}
	return true, a.run(ctx, req)
}

// Retry refetches the page that failed. It reports false without fetching unless the cursor is Error.
func (a *Aggregator) Retry(ctx context.Context) (bool, error) {
	req, ok := a.BeginRetry()
	if !ok {
		return false, nil
	}
	return true, a.run(ctx, req)
}

// Snapshot returns a copy of the current cursor, or an Idle cursor when no filter is active.
func (a *Aggregator) Snapshot() Cursor {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cursor == nil {
		return Cursor{State: Idle, Accumulated: []models.Movie{}}
	}
	return a.cursor.clone()
}

// State returns the current cursor state.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cursor == nil {
		return Idle
	}
	return a.cursor.State
}

// HasNextPage reports whether the active cursor can load another page.
func (a *Aggregator) HasNextPage() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor != nil && a.cursor.HasNextPage()
}

// Results returns a copy of the accumulated movies.
func (a *Aggregator) Results() []models.Movie {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cursor == nil {
		return []models.Movie{}
	}
	return slices.Clone(a.cursor.Accumulated)
}

// View returns the accumulated movies tagged with genre, or all of them when genre is 0.
//
// The view never changes pagination: HasNextPage still follows the unfiltered upstream pages, so a filtered view may
// show fewer movies than a page holds.
func (a *Aggregator) View(genre int) []models.Movie {
	movies := a.Results()
	if genre <= 0 {
		return movies
	}
	return slices.DeleteFunc(movies, func(m models.Movie) bool { return !m.HasGenre(genre) })
}
