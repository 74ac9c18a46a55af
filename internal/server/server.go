// package server contains middleware & handlers for the cinex proxy service
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/auth"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the proxy service.
// Implementations handle a group of endpoints (auth, movies) and dispatch on the matched pattern.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                                       // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler, mw ...Middleware) // Handle registers a handler for the specified method and path
	Handler(handler Handler, mw ...Middleware)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request)                   // ServeHTTP implements http.Handler for the entire router
}

// Server is the cinex proxy: session auth in front of a movie data [services.Provider].
type Server struct {
	cfg      shared.ServerConfig
	router   *BasicRouter
	sessions *repositories.SessionRepository
	limiter  *auth.KeyedLimiter
	logger   *log.Logger
}

// New wires the routes over db and provider.
func New(cfg shared.ServerConfig, db *sql.DB, provider services.Provider, logger *log.Logger) *Server {
	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)

	var limiter *auth.KeyedLimiter
	if cfg.LoginRate > 0 {
		limiter = auth.NewKeyedLimiter(cfg.LoginRate, cfg.LoginBurst)
	}

	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))

	router.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": provider.Name()})
	}))
	router.Handler(NewAuthHandler(users, sessions, limiter, cfg, logger))
	router.Handler(NewMovieHandler(provider, logger), RequireSession(sessions, users, logger))

	return &Server{
		cfg:      cfg,
		router:   router,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
	}
}

// Handler returns the root [http.Handler].
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is canceled, then shuts down gracefully.
//
// Expired sessions and idle limiter keys are pruned every sweep interval while running.
func (s *Server) Run(ctx context.Context, sweep time.Duration) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if sweep <= 0 {
		sweep = time.Hour
	}
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			s.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return nil
		}
	}
}

// Sweep prunes expired sessions and idle login limiter entries.
func (s *Server) Sweep() {
	n, err := s.sessions.DeleteExpired(time.Now())
	if err != nil {
		s.logger.Warn("failed to prune sessions", "error", err)
	} else if n > 0 {
		s.logger.Debug("pruned sessions", "count", n)
	}
	if s.limiter != nil {
		s.limiter.Prune()
	}
}
