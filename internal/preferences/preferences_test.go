package preferences

import (
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/shared"
	tu "github.com/desertthunder/cinex/internal/testing"
)

func newPreferences() (*Preferences, *repositories.MemoryStore) {
	store := repositories.NewMemoryStore()
	return New(store, shared.NewLogger(io.Discard)), store
}

func TestRecentSearches(t *testing.T) {
	t.Run("Empty By Default", func(t *testing.T) {
		p, _ := newPreferences()
		if got := p.RecentSearches(); len(got) != 0 {
			t.Errorf("expected no recent searches, got %v", got)
		}
	})

	t.Run("Most Recent First", func(t *testing.T) {
		p, _ := newPreferences()
		p.AddRecentSearch("alien")
		p.AddRecentSearch("heat")

		if got := p.RecentSearches(); !slices.Equal(got, []string{"heat", "alien"}) {
			t.Errorf("unexpected order %v", got)
		}
	})

	t.Run("Dedup Moves To Front", func(t *testing.T) {
		p, _ := newPreferences()
		for _, q := range []string{"alien", "heat", "ran", "alien"} {
			p.AddRecentSearch(q)
		}

		if got := p.RecentSearches(); !slices.Equal(got, []string{"alien", "ran", "heat"}) {
			t.Errorf("unexpected list %v", got)
		}
	})

	t.Run("Bounded", func(t *testing.T) {
		p, _ := newPreferences()
		for _, q := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
			p.AddRecentSearch(q)
		}

		got := p.RecentSearches()
		if !slices.Equal(got, []string{"a7", "a6", "a5", "a4", "a3"}) {
			t.Errorf("unexpected list %v", got)
		}
	})

	t.Run("Blank Ignored", func(t *testing.T) {
		p, _ := newPreferences()
		p.AddRecentSearch("alien")
		p.AddRecentSearch("   ")

		if got := p.RecentSearches(); !slices.Equal(got, []string{"alien"}) {
			t.Errorf("unexpected list %v", got)
		}
	})

	t.Run("Stored As JSON", func(t *testing.T) {
		p, store := newPreferences()
		p.AddRecentSearch("alien")
		p.AddRecentSearch("heat")

		data, ok, _ := store.Get(repositories.KeyRecentSearches)
		if !ok || data != `["heat","alien"]` {
			t.Errorf("unexpected stored value %q", data)
		}
	})

	t.Run("Corrupt Value", func(t *testing.T) {
		p, store := newPreferences()
		store.Set(repositories.KeyRecentSearches, "{not json")

		if got := p.RecentSearches(); len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
		if got := p.AddRecentSearch("alien"); !slices.Equal(got, []string{"alien"}) {
			t.Errorf("expected corrupt value to be replaced, got %v", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		p, _ := newPreferences()
		p.AddRecentSearch("alien")
		p.ClearRecentSearches()

		if got := p.RecentSearches(); len(got) != 0 {
			t.Errorf("expected cleared list, got %v", got)
		}
	})
}

func TestSubmitSearch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		accepted bool
	}{
		{"long enough", "alien", true},
		{"three chars", "ran", true},
		{"too short", "up", false},
		{"padded too short", "  up  ", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newPreferences()
			if got := p.SubmitSearch(tt.text); got != tt.accepted {
				t.Fatalf("SubmitSearch(%q) = %v, want %v", tt.text, got, tt.accepted)
			}

			last := p.LastSearch()
			if tt.accepted && last != tt.text {
				t.Errorf("expected last search %q, got %q", tt.text, last)
			}
			if !tt.accepted && last != "" {
				t.Errorf("expected no last search, got %q", last)
			}
			if tt.accepted && len(p.RecentSearches()) != 1 {
				t.Error("expected accepted search in recent searches")
			}
		})
	}
}

func TestDarkMode(t *testing.T) {
	t.Run("Fallback When Unset", func(t *testing.T) {
		p, _ := newPreferences()
		if !p.DarkMode(true) || p.DarkMode(false) {
			t.Error("expected fallback when no theme is stored")
		}
	})

	t.Run("Stored Value Wins", func(t *testing.T) {
		p, store := newPreferences()
		p.SetDarkMode(false)

		if p.DarkMode(true) {
			t.Error("expected stored light theme")
		}
		if data, _, _ := store.Get(repositories.KeyDarkMode); data != "false" {
			t.Errorf("expected \"false\", got %q", data)
		}
	})

	t.Run("Toggle", func(t *testing.T) {
		p, _ := newPreferences()
		if !p.ToggleDarkMode(false) {
			t.Error("expected toggle from light to dark")
		}
		if p.ToggleDarkMode(false) {
			t.Error("expected toggle back to light")
		}
	})
}

func TestStoreFailures(t *testing.T) {
	p := New(&tu.FailingStore{Err: errors.New("disk full")}, shared.NewLogger(io.Discard))

	if got := p.AddRecentSearch("alien"); !slices.Equal(got, []string{"alien"}) {
		t.Errorf("expected in-memory result despite failure, got %v", got)
	}
	if len(p.RecentSearches()) != 0 {
		t.Error("expected empty list from failing store")
	}
	if p.LastSearch() != "" {
		t.Error("expected empty last search from failing store")
	}
	if !p.SubmitSearch("alien") {
		t.Error("submit should succeed even when the store fails")
	}
	if !p.DarkMode(true) {
		t.Error("expected fallback from failing store")
	}
}
