// Package preferences stores the small per-device settings of the client: recent searches, the last submitted search
// and the dark mode toggle.
package preferences

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/discovery"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
)

// MaxRecentSearches bounds the recent search list.
const MaxRecentSearches = 5

// Preferences reads and writes settings through a key/value store.
//
// Reads of missing or corrupt values fall back to defaults and write failures are logged; a preference never blocks
// browsing.
type Preferences struct {
	mu     sync.Mutex
	store  repositories.KeyValueStore
	logger *log.Logger
}

// New creates [Preferences] over store.
func New(store repositories.KeyValueStore, logger *log.Logger) *Preferences {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Preferences{store: store, logger: logger}
}

// RecentSearches returns up to [MaxRecentSearches] queries, most recent first.
func (p *Preferences) RecentSearches() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recent()
}

func (p *Preferences) recent() []string {
	data, ok, err := p.store.Get(repositories.KeyRecentSearches)
	if err != nil {
		p.logger.Warn("failed to read recent searches", "error", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var searches []string
	if err := json.Unmarshal([]byte(data), &searches); err != nil {
		p.logger.Warn("ignoring stored recent searches", "error", err)
		return []string{}
	}
	if len(searches) > MaxRecentSearches {
		searches = searches[:MaxRecentSearches]
	}
	return searches
}

// AddRecentSearch moves query to the front of the recent list, dropping an earlier copy and anything past the limit.
// Blank queries are ignored.
func (p *Preferences) AddRecentSearch(query string) []string {
	query = shared.NormalizeQuery(query)
	if query == "" {
		return p.RecentSearches()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	updated := []string{query}
	for _, q := range p.recent() {
		if q != query && len(updated) < MaxRecentSearches {
			updated = append(updated, q)
		}
	}

	data, err := json.Marshal(updated)
	if err == nil {
		err = p.store.Set(repositories.KeyRecentSearches, string(data))
	}
	if err != nil {
		p.logger.Warn("failed to save recent searches", "error", err)
	}
	return updated
}

// ClearRecentSearches forgets every recent search.
func (p *Preferences) ClearRecentSearches() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Delete(repositories.KeyRecentSearches); err != nil {
		p.logger.Warn("failed to clear recent searches", "error", err)
	}
}

// LastSearch returns the last submitted search text, or "" when none was stored.
func (p *Preferences) LastSearch() string {
	data, ok, err := p.store.Get(repositories.KeyLastSearch)
	if err != nil {
		p.logger.Warn("failed to read last search", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return data
}

// SubmitSearch records text as the last search and as the most recent search when it is long enough to run.
// It reports whether text was accepted.
func (p *Preferences) SubmitSearch(text string) bool {
	if len([]rune(strings.TrimSpace(text))) < discovery.MinSearchLength {
		return false
	}
	if err := p.store.Set(repositories.KeyLastSearch, text); err != nil {
		p.logger.Warn("failed to save last search", "error", err)
	}
	p.AddRecentSearch(text)
	return true
}

// DarkMode returns the stored theme, or fallback when none is stored.
func (p *Preferences) DarkMode(fallback bool) bool {
	data, ok, err := p.store.Get(repositories.KeyDarkMode)
	if err != nil {
		p.logger.Warn("failed to read dark mode", "error", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	return data == "true"
}

// SetDarkMode stores the theme.
func (p *Preferences) SetDarkMode(dark bool) {
	if err := p.store.Set(repositories.KeyDarkMode, strconv.FormatBool(dark)); err != nil {
		p.logger.Warn("failed to save dark mode", "error", err)
	}
}

// ToggleDarkMode flips the stored theme, starting from fallback when none is stored, and returns the new value.
func (p *Preferences) ToggleDarkMode(fallback bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	dark := !p.DarkMode(fallback)
	p.SetDarkMode(dark)
	return dark
}
