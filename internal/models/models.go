// package models defines the data model for the movie discovery service
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Model defines the base interface for persistent models owned by the server.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

var (
	_ Model = (*User)(nil)
	_ Model = (*Session)(nil)
)

// User is an account on the proxy server.
type User struct {
	id           string
	sequence     int
	username     string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewUser creates a user with the given username and encoded password hash.
func NewUser(sequence int, username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		sequence:     sequence,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (u *User) ID() string                { return u.id }
func (u *User) Sequence() int             { return u.sequence }
func (u *User) Username() string          { return u.username }
func (u *User) PasswordHash() string      { return u.passwordHash }
func (u *User) CreatedAt() time.Time      { return u.createdAt }
func (u *User) UpdatedAt() time.Time      { return u.updatedAt }
func (u *User) DeletedAt() *time.Time     { return u.deletedAt }
func (u *User) SetID(id string)           { u.id = id }
func (u *User) SetSequence(seq int)       { u.sequence = seq }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }

// SetPasswordHash replaces the stored hash and bumps updatedAt.
func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
}

// Validate checks the username shape and that a hash is present.
func (u *User) Validate() error {
	if len(u.username) < 3 || len(u.username) > 64 {
		return fmt.Errorf("username must be between 3 and 64 characters")
	}
	if strings.IndexFunc(u.username, unicode.IsSpace) >= 0 {
		return fmt.Errorf("username must not contain whitespace")
	}
	if u.passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}

// UserView is the public JSON shape of a user; it never carries the hash.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// View returns the public representation of the user.
func (u *User) View() UserView {
	return UserView{ID: u.id, Username: u.username}
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Created   time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) ID() string           { return s.Token }
func (s *Session) CreatedAt() time.Time { return s.Created }

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Validate checks that the session references a user and expires after creation.
func (s *Session) Validate() error {
	if s.Token == "" || s.UserID == "" {
		return fmt.Errorf("session token and user id are required")
	}
	if !s.ExpiresAt.After(s.Created) {
		return fmt.Errorf("session must expire after it is created")
	}
	return nil
}

// Credentials is a username/password pair submitted to login or register.
type Credentials struct {
	Username        string `json:"username" validate:"required,min=3,max=64"`
	Password        string `json:"password" validate:"required,min=6,max=1024"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"omitempty,eqfield=Password"`
}
