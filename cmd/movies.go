package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/cinex/internal/discovery"
	"github.com/desertthunder/cinex/internal/formatter"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/desertthunder/cinex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// listing is the JSON shape of a paginated movie listing.
type listing struct {
	Filter     string         `json:"filter"`
	Pages      int            `json:"pages_loaded"`
	TotalPages int            `json:"total_pages"`
	HasMore    bool           `json:"has_more"`
	Movies     []models.Movie `json:"movies"`
}

// MoviesTrending lists trending movies, optionally narrowed to one genre.
func (r *Runner) MoviesTrending(ctx context.Context, cmd *cli.Command) error {
	filter := discovery.Trending(cmd.String("window"))
	return r.browse(ctx, cmd, filter, int(cmd.Int("genre")))
}

// MoviesSearch searches by title and records the query in recent searches.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	filter := discovery.Search(query)
	if err := filter.Validate(); err != nil {
		return err
	}

	r.prefs.SubmitSearch(query)
	return r.browse(ctx, cmd, filter, 0)
}

// MoviesDiscover lists movies by genre and/or year.
func (r *Runner) MoviesDiscover(ctx context.Context, cmd *cli.Command) error {
	filter := discovery.Discover(int(cmd.Int("genre")), int(cmd.Int("year")), cmd.String("sort-by"))
	return r.browse(ctx, cmd, filter, 0)
}

// browse loads up to --pages pages of filter and prints the accumulated movies.
func (r *Runner) browse(ctx context.Context, cmd *cli.Command, filter discovery.QueryFilter, genre int) error {
	agg := discovery.NewAggregator(r.provider, r.logger)
	if err := loadPages(ctx, agg, filter, int(cmd.Int("pages"))); err != nil {
		return err
	}

	snap := agg.Snapshot()
	movies := agg.View(genre)
	loaded := snap.TotalPages
	if snap.HasNextPage() {
		loaded = snap.NextPage - 1
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(listing{
			Filter:     filter.String(),
			Pages:      loaded,
			TotalPages: snap.TotalPages,
			HasMore:    snap.HasNextPage(),
			Movies:     movies,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(filter.String())
	r.writeMovies(movies)
	if snap.HasNextPage() {
		return r.writePlainln("Page %d of %d (use --pages to load more)", loaded, snap.TotalPages)
	}
	return r.writePlainln("End of results (%d movies)", len(snap.Accumulated))
}

// loadPages activates filter and loads pages until n pages are in or the listing is exhausted.
func loadPages(ctx context.Context, agg *discovery.Aggregator, filter discovery.QueryFilter, n int) error {
	if err := agg.Activate(ctx, filter); err != nil {
		return err
	}
	for range max(n, 1) - 1 {
		if !agg.HasNextPage() {
			break
		}
		if _, err := agg.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeMovies(movies []models.Movie) {
	if len(movies) == 0 {
		r.writePlain("No movies found\n")
		return
	}
	for i, m := range movies {
		mark := ""
		if r.favorites.IsFavorite(m.ID) {
			mark = "♥ "
		}
		r.writePlain("%3d. %s%s%s  ★ %s  [%d]\n", i+1, mark, m.Title, yearSuffix(m.ReleaseDate),
			formatter.VoteAverage(m.VoteAverage), m.ID)
	}
}

func yearSuffix(date string) string {
	if y := formatter.ReleaseYear(date); y != "" {
		return " (" + y + ")"
	}
	return ""
}

func movieIDArg(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id %q must be a positive number", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// MoviesDetail loads one movie with its credits, videos and similar titles.
func (r *Runner) MoviesDetail(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	result, err := r.engine.Detail(ctx, id, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("open-trailer") {
		if result.Trailer == nil {
			r.logger.Warn("no trailer available", "movie", id)
		} else if err := shared.OpenBrowser(formatter.YouTubeWatchURL(result.Trailer.Key)); err != nil {
			r.logger.Warn("failed to open trailer", "error", err)
		}
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}
	r.writeDetail(result)
	return nil
}

func (r *Runner) writeDetail(d *tasks.DetailResult) {
	movie := d.Detail
	title := movie.Title + yearSuffix(movie.ReleaseDate)
	if r.favorites.IsFavorite(movie.ID) {
		title = "♥ " + title
	}
	r.writePlainHeader(title)

	if movie.Tagline != "" {
		r.writePlain("%s\n", movie.Tagline)
	}
	r.writePlain("★ %s • %s", formatter.VoteAverage(movie.VoteAverage), formatter.Runtime(movie.Runtime))
	if len(movie.Genres) > 0 {
		names := make([]string, len(movie.Genres))
		for i, g := range movie.Genres {
			names[i] = g.Name
		}
		r.writePlain(" • %s", strings.Join(names, ", "))
	}
	r.writePlain("\n")
	if movie.Overview != "" {
		r.writePlain("\n%s\n", movie.Overview)
	}
	if poster := formatter.PosterURL(movie.PosterPath); poster != "" {
		r.writePlain("\nPoster: %s\n", poster)
	}

	director, writers := d.Director, strings.Join(d.Writers, ", ")
	if director == "" {
		director = "Unknown"
	}
	if writers == "" {
		writers = "Unknown"
	}
	r.writePlain("\nDirector: %s\nWriters:  %s\n", director, writers)

	if len(d.Cast) > 0 {
		r.writePlain("\nCast:\n")
		for _, c := range d.Cast {
			if c.Character != "" {
				r.writePlain("  %s as %s\n", c.Name, c.Character)
			} else {
				r.writePlain("  %s\n", c.Name)
			}
		}
	}

	if d.Trailer != nil {
		r.writePlain("\nTrailer: %s\n  %s\n", d.Trailer.Name, formatter.YouTubeWatchURL(d.Trailer.Key))
	} else {
		r.writePlain("\nNo trailer available\n")
	}

	if len(d.Similar) > 0 {
		r.writePlain("\nSimilar:\n")
		for _, s := range d.Similar {
			r.writePlain("  %s%s [%d]\n", s.Title, yearSuffix(s.ReleaseDate), s.ID)
		}
	}

	for _, pe := range d.Errors {
		r.writePlain("\n✗ Could not load %s: %v\n", pe.Phase.Label(), pe.Err)
	}
}

// MoviesGenres lists the genre catalogue.
func (r *Runner) MoviesGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.provider.Genres(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}
	for _, g := range genres {
		r.writePlain("%6d  %s\n", g.ID, g.Name)
	}
	return nil
}

// MoviesRecent prints recent searches, most recent first.
func (r *Runner) MoviesRecent(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("clear") {
		r.prefs.ClearRecentSearches()
		return r.writePlain("✓ Recent searches cleared\n")
	}

	recent := r.prefs.RecentSearches()
	if len(recent) == 0 {
		return r.writePlain("No recent searches\n")
	}
	for i, q := range recent {
		r.writePlain("%d. %s\n", i+1, q)
	}
	return nil
}
