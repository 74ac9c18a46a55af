package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()
	user := models.NewUser(0, username, "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "users")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := createUser(t, repo, "ripley")

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence())
		}
	})

	t.Run("Create rejects duplicate username ignoring case", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		createUser(t, repo, "ripley")

		err := repo.Create(models.NewUser(0, "Ripley", "hash"))
		if !errors.Is(err, shared.ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("Create validates", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		err := repo.Create(models.NewUser(0, "ab", "hash"))
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := createUser(t, repo, "ripley")

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Username() != "ripley" {
			t.Errorf("expected username ripley, got %s", got.Username())
		}
		if got.PasswordHash() != user.PasswordHash() {
			t.Error("password hash should round trip")
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetByUsername", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := createUser(t, repo, "ripley")

		got, err := repo.GetByUsername("RIPLEY")
		if err != nil {
			t.Fatalf("failed to get user by username: %v", err)
		}
		if got.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), got.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := createUser(t, repo, "ripley")

		user.SetPasswordHash("new-hash")
		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.PasswordHash() != "new-hash" {
			t.Errorf("expected updated hash, got %s", got.PasswordHash())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := createUser(t, repo, "ripley")

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if _, err := repo.Get(user.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("deleted user should not be found, got %v", err)
		}
		if err := repo.Delete(user.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("second delete should report ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		for i := range 3 {
			createUser(t, repo, fmt.Sprintf("user%d", i))
		}

		users, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("expected 3 users, got %d", len(users))
		}
		for i, u := range users {
			if u.Sequence() != i+1 {
				t.Errorf("expected users ordered by sequence, got %d at %d", u.Sequence(), i)
			}
		}

		filtered, err := repo.List(map[string]any{"username": "user1"})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(filtered) != 1 || filtered[0].Username() != "user1" {
			t.Errorf("expected only user1, got %d users", len(filtered))
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, NewUserRepository(db), "ripley")
		repo := NewSessionRepository(db)

		session, err := repo.Create(user.ID(), time.Hour)
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := repo.Get(session.Token)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.UserID != user.ID() {
			t.Errorf("expected user %s, got %s", user.ID(), got.UserID)
		}
		if !got.ExpiresAt.Equal(session.ExpiresAt) {
			t.Errorf("expected expiry %v, got %v", session.ExpiresAt, got.ExpiresAt)
		}
	})

	t.Run("Get unknown token", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Get expired removes the session", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, NewUserRepository(db), "ripley")
		repo := NewSessionRepository(db)

		past := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
		if _, err := db.Exec(
			`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
			"old", user.ID(), past, past.Add(time.Hour),
		); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		if _, err := repo.Get("old"); !errors.Is(err, shared.ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
		if _, err := repo.Get("old"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expired session should be gone, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, NewUserRepository(db), "ripley")
		repo := NewSessionRepository(db)

		session, err := repo.Create(user.ID(), time.Hour)
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if err := repo.Delete(session.Token); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}
		if _, err := repo.Get(session.Token); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after delete, got %v", err)
		}
		if err := repo.Delete(session.Token); err != nil {
			t.Errorf("deleting an unknown token should succeed, got %v", err)
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db := setupTestDB(t)
		user := createUser(t, NewUserRepository(db), "ripley")
		repo := NewSessionRepository(db)

		if _, err := repo.Create(user.ID(), time.Hour); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if _, err := repo.Create(user.ID(), 48*time.Hour); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		n, err := repo.DeleteExpired(time.Now().Add(2 * time.Hour))
		if err != nil {
			t.Fatalf("DeleteExpired failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 pruned session, got %d", n)
		}
	})
}

func TestKeyValueStores(t *testing.T) {
	stores := map[string]func(t *testing.T) KeyValueStore{
		"sqlite": func(t *testing.T) KeyValueStore { return NewKeyValueRepository(setupTestDB(t)) },
		"memory": func(t *testing.T) KeyValueStore { return NewMemoryStore() },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key", func(t *testing.T) {
				store := newStore(t)
				v, ok, err := store.Get("favorites")
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				if ok || v != "" {
					t.Errorf("expected missing key, got %q (present=%v)", v, ok)
				}
			})

			t.Run("set overwrites", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set("darkMode", "true"); err != nil {
					t.Fatalf("Set failed: %v", err)
				}
				if err := store.Set("darkMode", "false"); err != nil {
					t.Fatalf("Set failed: %v", err)
				}

				v, ok, err := store.Get("darkMode")
				if err != nil || !ok {
					t.Fatalf("Get failed: %v (present=%v)", err, ok)
				}
				if v != "false" {
					t.Errorf("expected false, got %q", v)
				}
			})

			t.Run("delete", func(t *testing.T) {
				store := newStore(t)
				_ = store.Set("session", "token")
				if err := store.Delete("session"); err != nil {
					t.Fatalf("Delete failed: %v", err)
				}
				if _, ok, _ := store.Get("session"); ok {
					t.Error("key should be gone after delete")
				}
				if err := store.Delete("session"); err != nil {
					t.Errorf("deleting a missing key should succeed, got %v", err)
				}
			})
		})
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("lastSearch", fmt.Sprintf("query-%d", i))
			_, _, _ = store.Get("lastSearch")
		}(i)
	}
	wg.Wait()

	if _, ok, _ := store.Get("lastSearch"); !ok {
		t.Error("expected lastSearch to be set")
	}
}
