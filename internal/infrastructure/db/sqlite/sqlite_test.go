package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/infrastructure/db/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func record(id, email string, createdAt time.Time) *domain.UserRecord {
	return &domain.UserRecord{
		User: domain.User{
			ID:        id,
			Email:     email,
			FullName:  "User " + id,
			UserType:  domain.UserTypeWriter,
			IsActive:  true,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		PasswordHash: "hash-" + id,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := db.SQL.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 applied migrations, got %d", n)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestUserStore_InsertAndFind(t *testing.T) {
	store := sqlite.NewUserStore(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 123456789, time.UTC)

	rec := record("u1", "a@x.com", now)
	rec.Skills = []string{"seo", "editing"}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.FindByEmail(ctx, "a@x.com", true)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != "u1" || got.PasswordHash != "hash-u1" || !got.CreatedAt.Equal(now) || len(got.Skills) != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStore_Insert_DuplicateEmail(t *testing.T) {
	store := sqlite.NewUserStore(newTestDB(t))
	ctx := context.Background()

	if err := store.Insert(ctx, record("u1", "dup@x.com", time.Now())); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, record("u2", "dup@x.com", time.Now())); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserStore_ConcurrentInsertSameEmail(t *testing.T) {
	store := sqlite.NewUserStore(newTestDB(t))
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dups      int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Insert(ctx, record(string(rune('a'+i)), "race@x.com", time.Now()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateEmail):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 || dups != n-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d/%d", n-1, successes, dups)
	}
}

func TestUserStore_ActiveOnly(t *testing.T) {
	store := sqlite.NewUserStore(newTestDB(t))
	ctx := context.Background()

	rec := record("u1", "off@x.com", time.Now())
	rec.IsActive = false
	_ = store.Insert(ctx, rec)

	if _, err := store.FindByEmail(ctx, "off@x.com", true); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("inactive row must be hidden, got %v", err)
	}
	if _, err := store.FindByEmail(ctx, "off@x.com", false); err != nil {
		t.Fatalf("inactive row must be visible without filter, got %v", err)
	}
}

func TestUserStore_ListNewestFirst(t *testing.T) {
	store := sqlite.NewUserStore(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = store.Insert(ctx, record("old", "old@x.com", base))
	_ = store.Insert(ctx, record("new", "new@x.com", base.Add(time.Nanosecond)))
	_ = store.Insert(ctx, record("mid", "mid@x.com", base.Add(time.Millisecond/2)))

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0].ID != "mid" || got[1].ID != "new" || got[2].ID != "old" {
		ids := []string{}
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestUserStore_UpdateAndSetPasswordHash(t *testing.T) {
	store := sqlite.NewUserStore(newTestDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = store.Insert(ctx, record("u1", "a@x.com", t0))

	bio := "long-form writer"
	skills := []string{"fiction"}
	t1 := t0.Add(time.Hour)
	got, err := store.Update(ctx, "u1", domain.ProfileUpdate{Bio: &bio, Skills: &skills}, t1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Bio != bio || got.FullName != "User u1" || len(got.Skills) != 1 || !got.UpdatedAt.Equal(t1) || !got.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected record: %+v", got)
	}

	if err := store.SetPasswordHash(ctx, "u1", "new-hash", t1); err != nil {
		t.Fatalf("SetPasswordHash: %v", err)
	}
	rec, _ := store.FindByID(ctx, "u1")
	if rec.PasswordHash != "new-hash" {
		t.Fatalf("hash not replaced")
	}

	if _, err := store.Update(ctx, "ghost", domain.ProfileUpdate{Bio: &bio}, t1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := store.SetPasswordHash(ctx, "ghost", "h", t1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFAQStore(t *testing.T) {
	store := sqlite.NewFAQStore(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_ = store.Create(ctx, &domain.FAQ{ID: "b", Question: "Q2", Answer: "A2", DisplayOrder: 2, CreatedAt: now, UpdatedAt: now})
	_ = store.Create(ctx, &domain.FAQ{ID: "a", Question: "Q1", Answer: "A1", DisplayOrder: 1, CreatedAt: now, UpdatedAt: now})

	got, err := store.List(ctx)
	if err != nil || len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected list: %+v (%v)", got, err)
	}

	if err := store.Update(ctx, &domain.FAQ{ID: "b", Question: "Q2!", Answer: "A2", DisplayOrder: 0, UpdatedAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = store.List(ctx)
	if got[0].ID != "b" || got[0].Question != "Q2!" || !got[0].CreatedAt.Equal(now) {
		t.Fatalf("unexpected after update: %+v", got[0])
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "a"); !errors.Is(err, domain.ErrFAQNotFound) {
		t.Fatalf("expected ErrFAQNotFound, got %v", err)
	}
	if err := store.Update(ctx, &domain.FAQ{ID: "a"}); !errors.Is(err, domain.ErrFAQNotFound) {
		t.Fatalf("expected ErrFAQNotFound, got %v", err)
	}
}

func TestSettingStore_Upsert(t *testing.T) {
	store := sqlite.NewSettingStore(newTestDB(t))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	if _, err := store.Get(ctx, "job_posting_fee"); !errors.Is(err, domain.ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
	_ = store.Upsert(ctx, &domain.Setting{Key: "job_posting_fee", Value: "100", CreatedAt: t0, UpdatedAt: t0})
	_ = store.Upsert(ctx, &domain.Setting{Key: "job_posting_fee", Value: "150", CreatedAt: t1, UpdatedAt: t1})

	st, err := store.Get(ctx, "job_posting_fee")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.Value != "150" || !st.CreatedAt.Equal(t0) || !st.UpdatedAt.Equal(t1) {
		t.Fatalf("unexpected setting: %+v", st)
	}

	all, err := store.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("unexpected list: %+v (%v)", all, err)
	}
}
