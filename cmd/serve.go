package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/desertthunder/cinex/internal/server"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/urfave/cli/v3"
)

// upstreamTimeout bounds a single TMDB request made by the proxy.
const upstreamTimeout = 15 * time.Second

// Serve runs the proxy until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	if addr := cmd.String("addr"); addr != "" {
		host, port, err := splitAddr(addr)
		if err != nil {
			return err
		}
		config.Server.Host, config.Server.Port = host, port
	}

	if err := config.ValidateServer(); err != nil {
		return err
	}

	tmdb, err := services.NewTMDBService(config.TMDB, &http.Client{Timeout: upstreamTimeout})
	if err != nil {
		return err
	}

	db, err := r.openServerDatabase(&config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shared.WithLogger(r.logger, "component", "server")
	srv := server.New(config.Server, db, tmdb, logger)
	return srv.Run(ctx, cmd.Duration("sweep"))
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: addr %q: %v", shared.ErrInvalidArgument, addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: port %q is not a number", shared.ErrInvalidArgument, portStr)
	}
	return host, port, nil
}
