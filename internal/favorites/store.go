// Package favorites owns the user's favorite movies: an insertion-ordered set unique by movie id, persisted to the
// client-local key/value store after every mutation.
package favorites

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
)

// Encode serializes movies in order.
func Encode(movies []models.Movie) (string, error) {
	if movies == nil {
		movies = []models.Movie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		return "", fmt.Errorf("failed to encode favorites: %w", err)
	}
	return string(data), nil
}

// Decode parses a serialized set, dropping later duplicates of an id.
func Decode(data string) ([]models.Movie, error) {
	var movies []models.Movie
	if err := json.Unmarshal([]byte(data), &movies); err != nil {
		return nil, fmt.Errorf("%w: corrupt favorites: %v", shared.ErrStorage, err)
	}

	seen := make(map[int]struct{}, len(movies))
	out := movies[:0]
	for _, m := range movies {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

// Load reads the persisted set. A missing key yields an empty set; unreadable or corrupt data is logged and also
// yields an empty set.
func Load(store repositories.KeyValueStore, logger *log.Logger) []models.Movie {
	data, ok, err := store.Get(repositories.KeyFavorites)
	if err != nil {
		logger.Warn("failed to read favorites", "error", err)
		return []models.Movie{}
	}
	if !ok {
		return []models.Movie{}
	}

	movies, err := Decode(data)
	if err != nil {
		logger.Warn("ignoring stored favorites", "error", err)
		return []models.Movie{}
	}
	return movies
}

// Save rewrites the persisted set in one write.
func Save(store repositories.KeyValueStore, movies []models.Movie) error {
	data, err := Encode(movies)
	if err != nil {
		return err
	}
	return store.Set(repositories.KeyFavorites, data)
}
