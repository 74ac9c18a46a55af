package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinex/internal/formatter"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the favorites in insertion order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	movies := r.favorites.List()
	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlain("No favorites yet. Add one with 'cinex favorites add <id>'.\n")
	}
	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(movies)))
	r.writeMovies(movies)
	return nil
}

// FavoritesAdd looks the movie up on the server and adds it.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}
	if r.favorites.IsFavorite(id) {
		return r.writePlain("Already a favorite\n")
	}

	detail, err := r.provider.MovieDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up movie %d: %w", id, err)
	}
	r.favorites.Add(detail.Movie)
	return nil
}

// FavoritesRemove removes a movie by id. Removing a movie that is not a favorite is not an error.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}
	if !r.favorites.Remove(id) {
		return r.writePlain("Not a favorite\n")
	}
	return nil
}

// FavoritesClear empties the list once confirmed with --yes.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: clearing %d favorites needs --yes", shared.ErrMissingArgument, r.favorites.Len())
	}
	r.favorites.Clear()
	return nil
}

// FavoritesExport writes the favorites to a file.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	movies := r.favorites.List()
	path, err := formatter.WriteExport(movies, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported favorites", "count", len(movies), "format", format, "path", path)
	return r.writePlain("✓ Exported %d favorites to %s\n", len(movies), path)
}
