package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
	tu "github.com/desertthunder/cinex/internal/testing"
)

var _ services.Provider = (*tu.MockProvider)(nil)

func newAggregator(p *tu.MockProvider) *Aggregator {
	return NewAggregator(p, shared.NewLogger(io.Discard))
}

// pagedSearch serves pages of ids for any query with the given total page count.
func pagedSearch(total int, pages map[int][]int) func(string, int) (*models.Page, error) {
	return func(_ string, page int) (*models.Page, error) {
		return tu.NewPage(page, total, pages[page]...), nil
	}
}

func TestQueryFilter(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name    string
			filter  QueryFilter
			wantErr bool
		}{
			{"trending week", Trending(WindowWeek), false},
			{"trending day", Trending(WindowDay), false},
			{"trending month", Trending("month"), true},
			{"search three chars", Search("abc"), false},
			{"search two chars", Search("ab"), true},
			{"search padded two chars", Search("  ab  "), true},
			{"search empty", Search(""), true},
			{"discover genre", Discover(28, 0, ""), false},
			{"discover year", Discover(0, 1999, ""), false},
			{"discover nothing", Discover(0, 0, "popularity.desc"), true},
			{"unknown kind", QueryFilter{Kind: Kind(9)}, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.filter.Validate()
				if (err != nil) != tt.wantErr {
					t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
				if err != nil && !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			})
		}
	})

	t.Run("Equal", func(t *testing.T) {
		if !Search("the  matrix").Equal(Search(" the matrix ")) {
			t.Error("normalized search text should be equal")
		}
		if Discover(28, 0, "").Equal(Discover(28, 0, "vote_average.desc")) {
			t.Error("filters differing in sort should not be equal")
		}
		if Trending(WindowDay).Equal(Trending(WindowWeek)) {
			t.Error("filters differing in window should not be equal")
		}
	})

	t.Run("String", func(t *testing.T) {
		tests := map[string]QueryFilter{
			"trending/week":                      Trending(WindowWeek),
			`search "alien"`:                     Search("alien"),
			"discover genre=28 year=1999 sort=x": Discover(28, 1999, "x"),
		}
		for want, f := range tests {
			if got := f.String(); got != want {
				t.Errorf("String() = %q, want %q", got, want)
			}
		}
	})
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	t.Run("Dedup Across Pages", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(2, map[int][]int{1: {1, 2, 3}, 2: {3, 4}})}
		agg := newAggregator(p)

		if err := agg.Activate(ctx, Search("alien")); err != nil {
			t.Fatalf("Activate failed: %v", err)
		}
		if _, err := agg.LoadMore(ctx); err != nil {
			t.Fatalf("LoadMore failed: %v", err)
		}

		if got := tu.MovieIDs(agg.Results()); !slices.Equal(got, []int{1, 2, 3, 4}) {
			t.Errorf("expected [1 2 3 4], got %v", got)
		}
	})

	t.Run("Duplicates Within A Page", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(1, map[int][]int{1: {5, 5, 6}})}
		agg := newAggregator(p)

		agg.Activate(ctx, Search("alien"))
		if got := tu.MovieIDs(agg.Results()); !slices.Equal(got, []int{5, 6}) {
			t.Errorf("expected [5 6], got %v", got)
		}
	})

	t.Run("Arrival Order Is Kept", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(2, map[int][]int{1: {9, 2, 7}, 2: {1, 8}})}
		agg := newAggregator(p)

		agg.Activate(ctx, Search("alien"))
		agg.LoadMore(ctx)
		if got := tu.MovieIDs(agg.Results()); !slices.Equal(got, []int{9, 2, 7, 1, 8}) {
			t.Errorf("expected arrival order, got %v", got)
		}
	})

	t.Run("Pagination Terminates", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(3, map[int][]int{1: {1}, 2: {2}, 3: {3}})}
		agg := newAggregator(p)

		agg.Activate(ctx, Search("alien"))
		for range 2 {
			if ok, err := agg.LoadMore(ctx); !ok || err != nil {
				t.Fatalf("expected load more to fetch, got %v %v", ok, err)
			}
		}

		if agg.HasNextPage() {
			t.Error("expected no next page after the last page")
		}
		if agg.State() != Exhausted {
			t.Errorf("expected Exhausted, got %s", agg.State())
		}
		if ok, _ := agg.LoadMore(ctx); ok {
			t.Error("expected fourth trigger to be ignored")
		}
		if n := p.CallCount("Search"); n != 3 {
			t.Errorf("expected 3 fetches, got %d", n)
		}
		if snap := agg.Snapshot(); snap.NextPage != 0 || snap.TotalPages != 3 {
			t.Errorf("unexpected cursor %+v", snap)
		}
	})

	t.Run("Empty Listing Is Exhausted", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(0, nil)}
		agg := newAggregator(p)

		agg.Activate(ctx, Search("zzzzzz"))
		if agg.State() != Exhausted || len(agg.Results()) != 0 {
			t.Errorf("expected empty Exhausted cursor, got %s with %d results", agg.State(), len(agg.Results()))
		}
	})

	t.Run("Batman Scenario", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		p := &tu.MockProvider{SearchFunc: func(q string, page int) (*models.Page, error) {
			if page == 2 {
				started <- struct{}{}
				<-release
			}
			return tu.NewPage(page, 5, page), nil
		}}
		agg := newAggregator(p)

		if err := agg.Activate(ctx, Search("batman")); err != nil {
			t.Fatalf("Activate failed: %v", err)
		}
		if agg.State() != HasMore || len(agg.Results()) != 1 {
			t.Fatalf("expected HasMore with 1 result, got %s with %d", agg.State(), len(agg.Results()))
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.LoadMore(ctx)
		}()
		<-started

		if ok, _ := agg.LoadMore(ctx); ok {
			t.Error("second trigger while loading must not fetch")
		}
		close(release)
		wg.Wait()

		pageTwo := 0
		for _, c := range p.Calls() {
			if c.Page == 2 {
				pageTwo++
			}
		}
		if pageTwo != 1 {
			t.Errorf("expected exactly one fetch for page 2, got %d", pageTwo)
		}
		if got := tu.MovieIDs(agg.Results()); !slices.Equal(got, []int{1, 2}) {
			t.Errorf("expected [1 2], got %v", got)
		}
	})

	t.Run("Filter Switch Discards Stale Results", func(t *testing.T) {
		agg := newAggregator(&tu.MockProvider{})

		stale, ok, err := agg.Begin(Search("alien"))
		if !ok || err != nil {
			t.Fatalf("expected first filter to begin, got %v %v", ok, err)
		}
		fresh, ok, _ := agg.Begin(Search("aliens"))
		if !ok {
			t.Fatal("expected switch to begin a new cursor")
		}

		if agg.Complete(stale, tu.NewPage(1, 3, 1, 2), nil) {
			t.Error("stale response must be dropped")
		}
		if agg.State() != Loading || len(agg.Results()) != 0 {
			t.Errorf("stale response must not touch the new cursor, got %s with %d", agg.State(), len(agg.Results()))
		}

		if !agg.Complete(fresh, tu.NewPage(1, 1, 7, 8), nil) {
			t.Error("fresh response must apply")
		}
		if got := tu.MovieIDs(agg.Results()); !slices.Equal(got, []int{7, 8}) {
			t.Errorf("expected only the new filter's results, got %v", got)
		}
	})

	t.Run("Filter Switch While Fetching", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		p := &tu.MockProvider{
			TrendingFunc: func(string, int) (*models.Page, error) {
				started <- struct{}{}
				<-release
				return tu.NewPage(1, 2, 1, 2, 3), nil
			},
			SearchFunc: pagedSearch(1, map[int][]int{1: {40, 41}}),
		}
		agg := newAggregator(p)

		done := make(chan struct{})
		go func() {
			defer close(done)
			agg.Activate(ctx, Trending(WindowWeek))
		}()
		<-started

		if err := agg.Activate(ctx, Search("heat")); err != nil {
			t.Fatalf("Activate failed: %v", err)
		}
		close(release)
		<-done

		snap := agg.Snapshot()
		if !snap.Filter.Equal(Search("heat")) {
			t.Errorf("expected search cursor, got %s", snap.Filter)
		}
		if got := tu.MovieIDs(snap.Accumulated); !slices.Equal(got, []int{40, 41}) {
			t.Errorf("expected [40 41], got %v", got)
		}
	})

	t.Run("Equal Filter Is Reused", func(t *testing.T) {
		p := &tu.MockProvider{TrendingFunc: func(w string, page int) (*models.Page, error) {
			return tu.NewPage(page, 2, 1), nil
		}}
		agg := newAggregator(p)

		agg.Activate(ctx, Trending(WindowWeek))
		agg.Activate(ctx, Trending(WindowWeek))

		if n := p.CallCount("Trending"); n != 1 {
			t.Errorf("expected 1 fetch, got %d", n)
		}
		if _, ok, _ := agg.Begin(Trending(WindowWeek)); ok {
			t.Error("Begin with an equal filter should report reuse")
		}
	})

	t.Run("Error And Retry At Failed Page", func(t *testing.T) {
		fail := true
		p := &tu.MockProvider{SearchFunc: func(q string, page int) (*models.Page, error) {
			if page == 2 && fail {
				return nil, fmt.Errorf("%w: status 502", shared.ErrNetwork)
			}
			return tu.NewPage(page, 3, page*10), nil
		}}
		agg := newAggregator(p)

		agg.Activate(ctx, Search("alien"))
		ok, err := agg.LoadMore(ctx)
		if !ok || !errors.Is(err, shared.ErrNetwork) {
			t.Fatalf("expected network error, got %v %v", ok, err)
		}

		snap := agg.Snapshot()
		if snap.State != Error || snap.NextPage != 2 || !errors.Is(snap.Err, shared.ErrNetwork) {
			t.Fatalf("expected Error at page 2, got %+v", snap)
		}
		if ok, _ := agg.LoadMore(ctx); ok {
			t.Error("load more must not run from Error")
		}

		fail = false
		if ok, err := agg.Retry(ctx); !ok || err != nil {
			t.Fatalf("expected retry to succeed, got %v %v", ok, err)
		}

		calls := p.Calls()
		if last := calls[len(calls)-1]; last.Page != 2 {
			t.Errorf("expected retry at page 2, got %d", last.Page)
		}
		if agg.State() != HasMore {
			t.Errorf("expected HasMore after retry, got %s", agg.State())
		}
		if got := tu.MovieIDs(agg.Results()); !slices.Equal(got, []int{10, 20}) {
			t.Errorf("expected [10 20], got %v", got)
		}
		if ok, _ := agg.Retry(ctx); ok {
			t.Error("retry must not run outside Error")
		}
	})

	t.Run("First Page Failure Retries Page One", func(t *testing.T) {
		calls := 0
		p := &tu.MockProvider{TrendingFunc: func(string, int) (*models.Page, error) {
			calls++
			if calls == 1 {
				return nil, shared.ErrNetwork
			}
			return tu.NewPage(1, 1, 1), nil
		}}
		agg := newAggregator(p)

		if err := agg.Activate(ctx, Trending(WindowDay)); !errors.Is(err, shared.ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
		agg.Retry(ctx)
		if got := p.Calls(); got[1].Page != 1 {
			t.Errorf("expected retry of page 1, got %d", got[1].Page)
		}
		if agg.State() != Exhausted {
			t.Errorf("expected Exhausted, got %s", agg.State())
		}
	})

	t.Run("Validation Precedes Network", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(2, map[int][]int{1: {1}})}
		agg := newAggregator(p)
		agg.Activate(ctx, Search("alien"))

		err := agg.Activate(ctx, Search("al"))
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if n := len(p.Calls()); n != 1 {
			t.Errorf("expected no fetch for invalid filter, got %d calls", n)
		}
		if !agg.Snapshot().Filter.Equal(Search("alien")) {
			t.Error("invalid filter must leave the current cursor in place")
		}
	})

	t.Run("Discover Passes Params", func(t *testing.T) {
		p := &tu.MockProvider{}
		agg := newAggregator(p)

		agg.Activate(ctx, Discover(878, 1982, "vote_average.desc"))
		if got := p.Calls()[0]; got.Arg != "878/1982/vote_average.desc" || got.Page != 1 {
			t.Errorf("unexpected call %+v", got)
		}
	})

	t.Run("Genre View Does Not Affect Pagination", func(t *testing.T) {
		p := &tu.MockProvider{TrendingFunc: func(string, int) (*models.Page, error) {
			return &models.Page{Page: 1, TotalPages: 4, Results: []models.Movie{
				tu.NewMovie(1, 28), tu.NewMovie(2, 35), tu.NewMovie(3, 28, 35),
			}}, nil
		}}
		agg := newAggregator(p)
		agg.Activate(ctx, Trending(WindowWeek))

		if got := tu.MovieIDs(agg.View(28)); !slices.Equal(got, []int{1, 3}) {
			t.Errorf("expected [1 3], got %v", got)
		}
		if got := tu.MovieIDs(agg.View(0)); !slices.Equal(got, []int{1, 2, 3}) {
			t.Errorf("expected all movies, got %v", got)
		}
		if len(agg.View(99)) != 0 {
			t.Error("expected empty view for an absent genre")
		}
		if !agg.HasNextPage() {
			t.Error("filtered view must not change pagination")
		}
		if len(agg.Results()) != 3 {
			t.Error("view must not modify accumulated results")
		}
	})

	t.Run("Nil Page Is A Failure", func(t *testing.T) {
		agg := newAggregator(&tu.MockProvider{})
		req, _, _ := agg.Begin(Trending(WindowDay))
		agg.Complete(req, nil, nil)

		if agg.State() != Error {
			t.Errorf("expected Error, got %s", agg.State())
		}
	})

	t.Run("Snapshot Is A Copy", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(1, map[int][]int{1: {1}})}
		agg := newAggregator(p)
		agg.Activate(ctx, Search("alien"))

		snap := agg.Snapshot()
		snap.Accumulated[0].Title = "changed"
		if agg.Results()[0].Title == "changed" {
			t.Error("snapshot must not alias aggregator state")
		}
	})
}

func TestNearEnd(t *testing.T) {
	tests := []struct {
		index, length, threshold int
		want                     bool
	}{
		{0, 0, 3, true},
		{0, 10, 3, false},
		{5, 10, 3, false},
		{6, 10, 3, true},
		{9, 10, 3, true},
		{0, 1, 0, true},
		{8, 10, 0, false},
		{9, 10, -1, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d within %d", tt.index, tt.length, tt.threshold), func(t *testing.T) {
			if got := NearEnd(tt.index, tt.length, tt.threshold); got != tt.want {
				t.Errorf("NearEnd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScrollCoordinator(t *testing.T) {
	ctx := context.Background()

	t.Run("Fires Once Per Approach", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(5, map[int][]int{1: {1}, 2: {2}, 3: {3}})}
		agg := newAggregator(p)
		agg.Activate(ctx, Search("batman"))
		sc := NewScrollCoordinator(agg)

		req, ok := sc.Signal(true)
		if !ok || req.Page != 2 {
			t.Fatalf("expected request for page 2, got %+v %v", req, ok)
		}
		if _, ok := sc.Signal(true); ok {
			t.Error("repeated near signal must not fire")
		}

		agg.Complete(req, tu.NewPage(2, 5, 2), nil)
		if _, ok := sc.Signal(true); ok {
			t.Error("still near without leaving the end must not fire")
		}

		sc.Signal(false)
		if req, ok := sc.Signal(true); !ok || req.Page != 3 {
			t.Errorf("expected request for page 3 after re-approach, got %+v %v", req, ok)
		}
	})

	t.Run("Ignored While Loading", func(t *testing.T) {
		agg := newAggregator(&tu.MockProvider{})
		agg.Begin(Trending(WindowWeek))
		sc := NewScrollCoordinator(agg)

		for range 5 {
			if _, ok := sc.Signal(true); ok {
				t.Fatal("must not fire while the first page is loading")
			}
			sc.Signal(false)
		}
	})

	t.Run("Rearm After Page Lands", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(5, map[int][]int{1: {1}, 2: {2}})}
		agg := newAggregator(p)
		agg.Activate(ctx, Search("batman"))
		sc := NewScrollCoordinator(agg)

		req, ok := sc.Signal(true)
		if !ok {
			t.Fatal("expected first signal to fire")
		}
		page, err := agg.Fetch(ctx, req)
		if !agg.Complete(req, page, err) {
			t.Fatal("expected page 2 to merge")
		}
		if _, ok := sc.Signal(true); ok {
			t.Fatal("must not fire again before rearm")
		}

		sc.Rearm()
		if req, ok := sc.Signal(true); !ok || req.Page != 3 {
			t.Errorf("expected rearmed coordinator to begin page 3, got %+v %v", req, ok)
		}
		if n := p.CallCount("Search"); n != 2 {
			t.Errorf("expected 2 fetches, got %d", n)
		}
	})

	t.Run("Rapid Signals Issue One Request", func(t *testing.T) {
		p := &tu.MockProvider{SearchFunc: pagedSearch(5, map[int][]int{1: {1}})}
		agg := newAggregator(p)
		agg.Activate(ctx, Search("batman"))
		sc := NewScrollCoordinator(agg)

		var wg sync.WaitGroup
		fired := make(chan bool, 20)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok := sc.Signal(true)
				fired <- ok
				sc.Signal(false)
			}()
		}
		wg.Wait()
		close(fired)

		n := 0
		for ok := range fired {
			if ok {
				n++
			}
		}
		if n != 1 {
			t.Errorf("expected exactly one request, got %d", n)
		}
		if agg.State() != Loading {
			t.Errorf("expected the begun page to be outstanding, got %s", agg.State())
		}
	})
}
