package favorites

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
)

// Kind is the type of a favorites change.
type Kind int

const (
	Added Kind = iota
	Removed
	Cleared
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event describes a change for user-visible notification. Title and MovieID are empty for [Cleared].
type Event struct {
	Kind    Kind
	MovieID int
	Title   string
}

// Message renders the event as a short notification line.
func (e Event) Message() string {
	switch e.Kind {
	case Added:
		return e.Title + " added to favorites"
	case Removed:
		return e.Title + " removed from favorites"
	case Cleared:
		return "All favorites cleared"
	default:
		return ""
	}
}

// Notifier receives change events. It is called after the manager's lock is released, so it may read the manager.
type Notifier func(Event)

// Manager is the sole mutator of the favorite set.
//
// Every mutation persists the whole set before returning. Persistence failures are logged and the in-memory set stays
// authoritative for the rest of the session.
type Manager struct {
	mu     sync.RWMutex
	movies []models.Movie
	ids    map[int]struct{}

	store  repositories.KeyValueStore
	notify Notifier
	logger *log.Logger
}

// NewManager loads the persisted set from store. A nil notify discards events.
func NewManager(store repositories.KeyValueStore, notify Notifier, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if notify == nil {
		notify = func(Event) {}
	}

	movies := Load(store, logger)
	ids := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		ids[m.ID] = struct{}{}
	}

	return &Manager{
		movies: movies,
		ids:    ids,
		store:  store,
		notify: notify,
		logger: logger,
	}
}

// persist must be called with mu held.
func (m *Manager) persist() {
	if err := Save(m.store, m.movies); err != nil {
		m.logger.Error("failed to persist favorites", "error", err, "count", len(m.movies))
	}
}

// Add appends movie unless its id is already present. It reports whether the set changed.
func (m *Manager) Add(movie models.Movie) bool {
	m.mu.Lock()
	if _, ok := m.ids[movie.ID]; ok {
		m.mu.Unlock()
		return false
	}
	m.movies = append(m.movies, movie)
	m.ids[movie.ID] = struct{}{}
	m.persist()
	m.mu.Unlock()

	m.notify(Event{Kind: Added, MovieID: movie.ID, Title: movie.Title})
	return true
}

// Remove deletes the movie with id if present. It reports whether the set changed; no event is emitted otherwise.
func (m *Manager) Remove(id int) bool {
	m.mu.Lock()
	if _, ok := m.ids[id]; !ok {
		m.mu.Unlock()
		return false
	}

	idx := slices.IndexFunc(m.movies, func(mv models.Movie) bool { return mv.ID == id })
	removed := m.movies[idx]
	m.movies = slices.Delete(m.movies, idx, idx+1)
	delete(m.ids, id)
	m.persist()
	m.mu.Unlock()

	m.notify(Event{Kind: Removed, MovieID: id, Title: removed.Title})
	return true
}

// Clear empties the set. It always persists and emits [Cleared].
func (m *Manager) Clear() {
	m.mu.Lock()
	m.movies = []models.Movie{}
	m.ids = make(map[int]struct{})
	m.persist()
	m.mu.Unlock()

	m.notify(Event{Kind: Cleared})
}

// Toggle removes movie if it is a favorite and adds it otherwise. It reports whether movie is a favorite afterwards.
func (m *Manager) Toggle(movie models.Movie) bool {
	if m.IsFavorite(movie.ID) {
		m.Remove(movie.ID)
		return false
	}
	m.Add(movie)
	return true
}

// IsFavorite reports whether id is in the set.
func (m *Manager) IsFavorite(id int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[id]
	return ok
}

// List returns a copy of the set in insertion order.
func (m *Manager) List() []models.Movie {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.movies)
}

// Len returns the number of favorites.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.movies)
}
