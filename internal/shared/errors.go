package shared

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authentication errors
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserExists         = errors.New("username already taken")
	ErrRateLimited        = errors.New("too many attempts")

	// Movie data errors. ErrNetwork covers transport failures and non-2xx upstream responses.
	ErrNetwork            = errors.New("network error")
	ErrNotFound           = errors.New("not found")
	ErrServiceUnavailable = errors.New("service unavailable")

	// Input validation errors. Validation runs before any network call.
	ErrValidation      = errors.New("validation failed")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")

	// Local storage errors
	ErrStorage = errors.New("storage error")
)
