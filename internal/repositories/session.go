package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
)

// SessionRepository persists login sessions.
//
// Timestamps are stored in UTC truncated to the second so that SQL comparisons on the text representation order
// correctly.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create starts a session for userID that expires after ttl.
func (r *SessionRepository) Create(userID string, ttl time.Duration) (*models.Session, error) {
	now := time.Now().UTC().Truncate(time.Second)
	session := &models.Session{
		Token:     shared.GenerateID(),
		UserID:    userID,
		Created:   now,
		ExpiresAt: now.Add(ttl),
	}

	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID, session.Created, session.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

// Get returns the live session for token.
//
// Unknown tokens yield [shared.ErrNotAuthenticated]; expired ones are removed and yield [shared.ErrSessionExpired].
func (r *SessionRepository) Get(token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`, token,
	).Scan(&s.Token, &s.UserID, &s.Created, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if s.Expired(time.Now().UTC()) {
		if err := r.Delete(token); err != nil {
			return nil, err
		}
		return nil, shared.ErrSessionExpired
	}
	return &s, nil
}

// Delete removes the session. Deleting an unknown token is not an error.
func (r *SessionRepository) Delete(token string) error {
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes sessions that expired at or before now and returns how many were removed.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}
