// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/cinex/internal/discovery"
	"github.com/urfave/cli/v3"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func pageFlags() []cli.Flag {
	return append(outputFlags(), &cli.IntFlag{
		Name:  "pages",
		Usage: "Number of result pages to load",
		Value: 1,
	})
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configuration and database setup",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if needed, initialize the server database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent server database migration",
				Action: r.RollbackDatabase,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the session-authenticated TMDB proxy server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overriding server.host and server.port",
			},
			&cli.DurationFlag{
				Name:  "sweep",
				Usage: "Interval between expired session cleanups",
				Value: time.Hour,
			},
		},
		Action: r.Serve,
	}
}

func authCommand(r *Runner) *cli.Command {
	credentials := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (or CINEX_PASSWORD)",
				Sources: cli.EnvVars("CINEX_PASSWORD"),
			},
		}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the session with the cinex server",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: append(credentials(), &cli.StringFlag{
					Name:  "confirm",
					Usage: "Password confirmation, defaults to --password",
				}),
				Action: r.AuthRegister,
			},
			{
				Name:   "login",
				Usage:  "Log in and save the session",
				Flags:  credentials(),
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session",
				Action: r.AuthLogout,
			},
			{
				Name:    "whoami",
				Aliases: []string{"status"},
				Usage:   "Show the logged in user",
				Action:  r.AuthStatus,
			},
		},
	}
}

// apiCommand handles direct (proxy) API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the cinex server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET with the saved session, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse, search and inspect movies",
		Commands: []*cli.Command{
			{
				Name:  "trending",
				Usage: "List trending movies",
				Flags: append(pageFlags(),
					&cli.StringFlag{
						Name:    "window",
						Aliases: []string{"w"},
						Usage:   "Trending window: day or week",
						Value:   discovery.WindowWeek,
					},
					&cli.IntFlag{
						Name:  "genre",
						Usage: "Only show movies tagged with this genre id",
					},
				),
				Action: r.MoviesTrending,
			},
			{
				Name:  "search",
				Usage: "Search movies by title",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags:  pageFlags(),
				Action: r.MoviesSearch,
			},
			{
				Name:  "discover",
				Usage: "List movies by genre and/or release year",
				Flags: append(pageFlags(),
					&cli.IntFlag{
						Name:  "genre",
						Usage: "Genre id",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Primary release year",
					},
					&cli.StringFlag{
						Name:  "sort-by",
						Usage: "Sort order",
						Value: "popularity.desc",
					},
				),
				Action: r.MoviesDiscover,
			},
			{
				Name:  "detail",
				Usage: "Show details, credits, trailer and similar movies",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: append(outputFlags(), &cli.BoolFlag{
					Name:  "open-trailer",
					Usage: "Open the trailer in the browser",
				}),
				Action: r.MoviesDetail,
			},
			{
				Name:   "genres",
				Usage:  "List movie genres",
				Flags:  outputFlags(),
				Action: r.MoviesGenres,
			},
			{
				Name:   "recent",
				Usage:  "List recent searches",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "clear", Usage: "Forget recent searches"}},
				Action: r.MoviesRecent,
			},
		},
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	idArg := func() []cli.Argument {
		return []cli.Argument{&cli.StringArg{Name: "id"}}
	}

	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage the local favorites list",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites in the order they were added",
				Flags:  outputFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie by id",
				Arguments: idArg(),
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie by id",
				Arguments: idArg(),
				Action:    r.FavoritesRemove,
			},
			{
				Name:  "clear",
				Usage: "Remove every favorite",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm clearing all favorites",
					},
				},
				Action: r.FavoritesClear,
			},
			{
				Name:  "export",
				Usage: "Export favorites to csv, markdown, text or json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, text or json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path, defaults to favorites.<ext>",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.TUI,
	}
}
