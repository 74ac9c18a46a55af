package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

// UserFromContext returns the user attached by [RequireSession].
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// SessionFromContext returns the session attached by [RequireSession].
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*models.Session)
	return s, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs method, path, status and duration of every request.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("handler panic", "path", r.URL.Path, "panic", v)
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sessionUser resolves the request's session cookie to a live session and its user.
func sessionUser(r *http.Request, sessions *repositories.SessionRepository, users *repositories.UserRepository) (*models.Session, *models.User, error) {
	cookie, err := r.Cookie(shared.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil, shared.ErrNotAuthenticated
	}

	session, err := sessions.Get(cookie.Value)
	if err != nil {
		return nil, nil, err
	}

	user, err := users.Get(session.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// RequireSession rejects requests without a live session with 401 and attaches the session and user otherwise.
func RequireSession(sessions *repositories.SessionRepository, users *repositories.UserRepository, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, user, err := sessionUser(r, sessions, users)
			switch {
			case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrSessionExpired):
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			case err != nil:
				logger.Error("session lookup failed", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
