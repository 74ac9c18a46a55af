package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/auth"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
)

// AuthHandler serves registration, login, logout and the current user.
type AuthHandler struct {
	users     *repositories.UserRepository
	sessions  *repositories.SessionRepository
	validator *auth.Validator
	limiter   *auth.KeyedLimiter
	ttl       time.Duration
	secure    bool
	logger    *log.Logger
}

// NewAuthHandler creates an [AuthHandler]. A nil limiter disables login throttling.
func NewAuthHandler(users *repositories.UserRepository, sessions *repositories.SessionRepository, limiter *auth.KeyedLimiter, cfg shared.ServerConfig, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		sessions:  sessions,
		validator: auth.NewValidator(),
		limiter:   limiter,
		ttl:       cfg.TTL(),
		secure:    cfg.SecureCookies,
		logger:    logger,
	}
}

func (h *AuthHandler) Routes() []string {
	return []string{
		"POST /api/register",
		"POST /api/login",
		"POST /api/logout",
		"GET /api/user",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "POST /api/register":
		h.register(w, r)
	case "POST /api/login":
		h.login(w, r)
	case "POST /api/logout":
		h.logout(w, r)
	case "GET /api/user":
		h.user(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request) (models.Credentials, bool) {
	var creds models.Credentials
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return creds, false
	}
	creds.Username = shared.NormalizeQuery(creds.Username)
	return creds, true
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.validator.Validate(creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := models.NewUser(0, creds.Username, hash)
	switch err := h.users.Create(user); {
	case errors.Is(err, shared.ErrUserExists):
		writeError(w, http.StatusConflict, "Username already exists")
		return
	case errors.Is(err, shared.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	if !h.startSession(w, user) {
		return
	}
	h.logger.Info("user registered", "username", user.Username())
	writeJSON(w, http.StatusCreated, user.View())
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByUsername(creds.Username)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("failed to look up user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	hash := auth.DummyHash()
	if user != nil {
		hash = user.PasswordHash()
	}
	if !auth.VerifyPassword(hash, creds.Password) || user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !h.startSession(w, user) {
		return
	}
	writeJSON(w, http.StatusOK, user.View())
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User) bool {
	session, err := h.sessions.Create(user.ID(), h.ttl)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(shared.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to log out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) user(w http.ResponseWriter, r *http.Request) {
	_, user, err := sessionUser(r, h.sessions, h.users)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrSessionExpired):
		w.WriteHeader(http.StatusUnauthorized)
		return
	case err != nil:
		h.logger.Error("session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.View())
}

// clientIP returns the host part of the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
