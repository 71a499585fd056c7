package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	webstorage "github.com/louisbranch/teamdesk/internal/services/web/storage"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "web.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	_, path := openTestStore(t)

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	assertTableExists(t, sqlDB, "web_sessions")
	assertTableExists(t, sqlDB, "form_submissions")
	assertTableExists(t, sqlDB, "schema_migrations")
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open pass %d: %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close pass %d: %v", i, err)
		}
	}
}

func TestSessionPersistenceRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	expiresAt := time.Now().UTC().Add(time.Hour)
	created, err := store.CreateSession(ctx, webstorage.Session{
		Token:     "token-1",
		UserID:    "u1",
		Nickname:  "Alice",
		Email:     "alice@example.com",
		ExpiresAt: expiresAt,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}

	loaded, found, err := store.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !found {
		t.Fatal("expected session row")
	}
	if loaded.Token != "token-1" || loaded.UserID != "u1" || loaded.Nickname != "Alice" || loaded.Email != "alice@example.com" {
		t.Fatalf("loaded session = %+v", loaded)
	}
	if !loaded.ExpiresAt.Equal(expiresAt.Truncate(time.Millisecond)) {
		t.Fatalf("expires at = %v, want %v", loaded.ExpiresAt, expiresAt.Truncate(time.Millisecond))
	}

	if err := store.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, found, err := store.GetSession(ctx, created.ID); err != nil || found {
		t.Fatalf("after delete found = %v err = %v", found, err)
	}
}

func TestCreateSessionValidatesInput(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		session webstorage.Session
	}{
		{name: "missing token", session: webstorage.Session{UserID: "u1", ExpiresAt: expiresAt}},
		{name: "missing user", session: webstorage.Session{Token: "t", ExpiresAt: expiresAt}},
		{name: "missing expiry", session: webstorage.Session{Token: "t", UserID: "u1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.CreateSession(ctx, tc.session); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestGetSessionHidesExpiredRows(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	created, err := store.CreateSession(ctx, webstorage.Session{Token: "t", UserID: "u1", ExpiresAt: now.Add(time.Minute)})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, found, err := store.GetSession(ctx, created.ID); err != nil || found {
		t.Fatalf("expired session found = %v err = %v", found, err)
	}

	removed, err := store.DeleteExpiredSessions(ctx, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}

func TestConsumeSubmissionIsSingleUse(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	first, err := store.ConsumeSubmission(ctx, "jti-1", expiresAt)
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if !first {
		t.Fatal("expected first consume to succeed")
	}
	second, err := store.ConsumeSubmission(ctx, "jti-1", expiresAt)
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if second {
		t.Fatal("expected replay to be rejected")
	}
	other, err := store.ConsumeSubmission(ctx, "jti-2", expiresAt)
	if err != nil || !other {
		t.Fatalf("other consume = %v err = %v", other, err)
	}
	if _, err := store.ConsumeSubmission(ctx, "", expiresAt); err == nil {
		t.Fatal("expected empty id error")
	}
}

func TestConsumeSubmissionConcurrentReplaysHaveOneWinner(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.ConsumeSubmission(ctx, "jti-race", expiresAt)
			if err != nil {
				t.Errorf("consume: %v", err)
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for ok := range results {
		if ok {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want 1", winners)
	}
}

func TestNilStoreReportsNotConfigured(t *testing.T) {
	var store *Store
	if _, _, err := store.GetSession(context.Background(), "x"); err == nil {
		t.Fatal("expected not configured error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func assertTableExists(t *testing.T, sqlDB *sql.DB, tableName string) {
	t.Helper()
	var name string
	if err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName).Scan(&name); err != nil {
		t.Fatalf("table %s missing: %v", tableName, err)
	}
}
