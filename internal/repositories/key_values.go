package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cinex/internal/shared"
)

// Keys of the client-local store.
const (
	KeyFavorites      = "favorites"      // JSON array of movies
	KeyRecentSearches = "recentSearches" // JSON array of strings, most recent first
	KeyLastSearch     = "lastSearch"
	KeyDarkMode       = "darkMode" // "true" or "false"
	KeySession        = "session"  // server session token
)

// KeyValueStore is the client-local string store.
//
// Implementations must make each Set visible atomically: a reader sees either the previous value or the new one.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

var _ KeyValueStore = (*KeyValueRepository)(nil)

// KeyValueRepository is the sqlite-backed [KeyValueStore].
type KeyValueRepository struct {
	db *sql.DB
}

// NewKeyValueRepository creates a new [KeyValueRepository] with the given database connection
func NewKeyValueRepository(db *sql.DB) *KeyValueRepository {
	return &KeyValueRepository{db: db}
}

// Get returns the value stored under key and whether it was present.
func (r *KeyValueRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM key_values WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s: %v", shared.ErrStorage, key, err)
	}
	return value, true, nil
}

// Set replaces the value stored under key.
func (r *KeyValueRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO key_values (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (r *KeyValueRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM key_values WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}
