package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
)

// Limits applied when assembling screens.
const (
	MaxCast     = 10
	MaxWriters  = 3
	MaxSimilar  = 8
	MaxHomeTop  = 10
	MaxHomeGens = 8
)

// PartError records a secondary request that failed without failing the whole load.
type PartError struct {
	Phase Phase
	Err   error
}

func (p PartError) Error() string {
	return fmt.Sprintf("%s: %v", p.Phase, p.Err)
}

// DetailResult is everything the detail screen shows for one movie.
type DetailResult struct {
	Detail   *models.MovieDetail
	Trailer  *models.Video       // nil when no YouTube video exists
	Director string              // empty when unknown
	Writers  []string            // at most [MaxWriters]
	Cast     []models.CastMember // at most [MaxCast], billing order
	Similar  []models.Movie      // at most [MaxSimilar]
	Errors   []PartError         // failed secondary requests
}

// HomeResult is the data of the home screen.
type HomeResult struct {
	Trending []models.Movie // at most [MaxHomeTop] of this week's trending movies
	Genres   []models.Genre // at most [MaxHomeGens]
	Errors   []PartError
}

// Engine defines the screen loads.
type Engine interface {
	// Detail loads detail, credits, videos and similar movies for id. Only a failed detail request fails the load.
	Detail(ctx context.Context, id int, progress chan<- ProgressUpdate) (*DetailResult, error)

	// Home loads this week's top trending movies and the genre list. It fails only when both requests fail.
	Home(ctx context.Context, progress chan<- ProgressUpdate) (*HomeResult, error)
}

var _ Engine = (*MovieEngine)(nil)

// MovieEngine implements [Engine] over a [services.Provider].
type MovieEngine struct {
	provider services.Provider
	logger   *log.Logger
}

// NewMovieEngine creates a new MovieEngine with the provided provider.
func NewMovieEngine(provider services.Provider, logger *log.Logger) *MovieEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MovieEngine{provider: provider, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// tracker counts finished parts of a concurrent load and reports each one.
type tracker struct {
	mu       sync.Mutex
	done     int
	total    int
	errs     []PartError
	progress chan<- ProgressUpdate
}

func (t *tracker) finish(phase Phase, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	if err != nil {
		t.errs = append(t.errs, PartError{Phase: phase, Err: err})
		sendProgress(t.progress, phaseFailedUpdate(phase, t.done, t.total, err))
		return
	}
	sendProgress(t.progress, phaseDoneUpdate(phase, t.done, t.total))
}

func (t *tracker) errors() []PartError {
	t.mu.Lock()
	defer t.mu.Unlock()
	slices.SortFunc(t.errs, func(a, b PartError) int { return int(a.Phase) - int(b.Phase) })
	return t.errs
}

// Detail loads the four parts of the detail screen concurrently.
func (e *MovieEngine) Detail(ctx context.Context, id int, progress chan<- ProgressUpdate) (*DetailResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: movie provider not initialized", shared.ErrServiceUnavailable)
	}

	var (
		detail  *models.MovieDetail
		credits *models.Credits
		videos  *models.VideoList
		similar *models.Page
	)
	t := &tracker{total: 4, progress: progress}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		detail, err = e.provider.MovieDetail(ctx, id)
		t.finish(FetchDetail, err)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = e.provider.Credits(ctx, id)
		t.finish(FetchCredits, err)
		return nil
	})
	g.Go(func() error {
		var err error
		videos, err = e.provider.Videos(ctx, id)
		t.finish(FetchVideos, err)
		return nil
	})
	g.Go(func() error {
		var err error
		similar, err = e.provider.Similar(ctx, id)
		t.finish(FetchSimilar, err)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load movie %d: %w", id, err)
	}

	result := &DetailResult{Detail: detail, Errors: t.errors()}
	if credits != nil {
		result.Director = Director(credits.Crew)
		result.Writers = Writers(credits.Crew, MaxWriters)
		result.Cast = TopN(credits.Cast, MaxCast)
	}
	if videos != nil {
		result.Trailer = PickTrailer(videos.Results)
	}
	if similar != nil {
		result.Similar = TopN(similar.Results, MaxSimilar)
	}

	for _, pe := range result.Errors {
		e.logger.Warn("partial movie detail", "id", id, "phase", pe.Phase, "error", pe.Err)
	}
	return result, nil
}

// Home loads the home screen sections concurrently.
func (e *MovieEngine) Home(ctx context.Context, progress chan<- ProgressUpdate) (*HomeResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: movie provider not initialized", shared.ErrServiceUnavailable)
	}

	var (
		trending *models.Page
		genres   []models.Genre
	)
	t := &tracker{total: 2, progress: progress}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		trending, err = e.provider.Trending(ctx, "week", 1)
		t.finish(FetchTrending, err)
		return nil
	})
	g.Go(func() error {
		var err error
		genres, err = e.provider.Genres(ctx)
		t.finish(FetchGenres, err)
		return nil
	})
	g.Wait()

	result := &HomeResult{Trending: []models.Movie{}, Genres: []models.Genre{}, Errors: t.errors()}
	if len(result.Errors) == 2 {
		return nil, fmt.Errorf("failed to load home screen: %w", result.Errors[0].Err)
	}
	if trending != nil {
		result.Trending = TopN(trending.Results, MaxHomeTop)
	}
	if genres != nil {
		result.Genres = TopN(genres, MaxHomeGens)
	}
	return result, nil
}

// PickTrailer returns the first YouTube trailer, else the first YouTube teaser, else the first YouTube video.
func PickTrailer(videos []models.Video) *models.Video {
	for _, typ := range []string{"Trailer", "Teaser", ""} {
		i := slices.IndexFunc(videos, func(v models.Video) bool {
			return v.Site == "YouTube" && (typ == "" || v.Type == typ)
		})
		if i >= 0 {
			v := videos[i]
			return &v
		}
	}
	return nil
}

// Director returns the name of the first crew member credited as Director.
func Director(crew []models.CrewMember) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// Writers returns up to n distinct names credited for Screenplay or Writer, in credit order.
func Writers(crew []models.CrewMember, n int) []string {
	names := []string{}
	for _, c := range crew {
		if len(names) == n {
			break
		}
		if (c.Job == "Screenplay" || c.Job == "Writer") && !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}
	return names
}

// TopN returns a copy of the first n items.
func TopN[T any](items []T, n int) []T {
	return slices.Clone(items[:min(n, len(items))])
}
