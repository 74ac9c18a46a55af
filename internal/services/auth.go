package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
)

// Session is a logged-in client session.
type Session struct {
	Token string
	User  models.UserView
}

// AuthService manages the client's session with the cinex server.
//
// The token is persisted under [repositories.KeySession] so a later process resumes the session.
type AuthService struct {
	api    *APIService
	store  repositories.KeyValueStore
	logger *log.Logger
}

// NewAuthService restores any persisted session token into api.
func NewAuthService(api *APIService, store repositories.KeyValueStore, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &AuthService{api: api, store: store, logger: logger}

	token, ok, err := store.Get(repositories.KeySession)
	switch {
	case err != nil:
		logger.Warn("failed to read saved session", "error", err)
	case ok:
		api.SetSession(token)
	}
	return s
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (*Session, error) {
	return s.authenticate(ctx, "/api/register", creds)
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*Session, error) {
	return s.authenticate(ctx, "/api/login", creds)
}

func (s *AuthService) authenticate(ctx context.Context, path string, creds models.Credentials) (*Session, error) {
	resp, err := s.api.PostJSON(ctx, path, creds)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, resp.Message())
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", shared.ErrUserExists, creds.Username)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, shared.ErrRateLimited
	case !isSuccess(resp.StatusCode):
		return nil, statusError(resp.StatusCode, resp.Message())
	}

	cookie := resp.Cookie(shared.SessionCookie)
	if cookie == nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: server did not issue a session", shared.ErrNotAuthenticated)
	}

	var user models.UserView
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user: %v", shared.ErrNetwork, err)
	}

	s.api.SetSession(cookie.Value)
	if err := s.store.Set(repositories.KeySession, cookie.Value); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}

	return &Session{Token: cookie.Value, User: user}, nil
}

// Logout ends the server session. The local token is discarded even when the server call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	defer s.forget()

	if s.api.Session() == "" {
		return nil
	}

	resp, err := s.api.Post(ctx, "/api/logout", nil)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) && resp.StatusCode != http.StatusUnauthorized {
		return statusError(resp.StatusCode, resp.Message())
	}
	return nil
}

// CurrentUser returns the logged-in user, or nil when there is no valid session.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.UserView, error) {
	if s.api.Session() == "" {
		return nil, nil
	}

	var user models.UserView
	err := s.api.getJSON(ctx, "/api/user", &user)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		s.forget()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) forget() {
	s.api.SetSession("")
	if err := s.store.Delete(repositories.KeySession); err != nil {
		s.logger.Warn("failed to clear saved session", "error", err)
	}
}
