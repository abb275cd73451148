//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortunecookie/fortunecookie/internal/store"
	"github.com/fortunecookie/fortunecookie/internal/testutil"
)

// ============================================================================
// Fortune Repository Integration Tests
// ============================================================================

func TestIntegrationFortuneRepository_UnknownUser(t *testing.T) {
	ctx, repo, _ := newFortuneTestEnv(t)

	ok, err := repo.CanUserGetFortune(ctx, "nobody")
	if err != nil {
		t.Fatalf("CanUserGetFortune failed: %v", err)
	}
	if !ok {
		t.Error("unknown user should be eligible")
	}

	if _, err := repo.GetUser(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetUserFortune(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserFortune error = %v, want ErrNotFound", err)
	}
}

func TestIntegrationFortuneRepository_CooldownWindow(t *testing.T) {
	ctx, repo, now := newFortuneTestEnv(t)

	if _, err := repo.CreateUserFortune(ctx, "alice", "x"); err != nil {
		t.Fatalf("CreateUserFortune failed: %v", err)
	}

	*now = now.Add(23*time.Hour + 54*time.Minute)
	if ok, _ := repo.CanUserGetFortune(ctx, "alice"); ok {
		t.Error("cooldown should be active at 23.9h")
	}

	*now = now.Add(12 * time.Minute)
	if ok, _ := repo.CanUserGetFortune(ctx, "alice"); !ok {
		t.Error("cooldown should be over at 24.1h")
	}
}

func TestIntegrationFortuneRepository_OverwritesFortune(t *testing.T) {
	ctx, repo, now := newFortuneTestEnv(t)

	_, _ = repo.CreateUserFortune(ctx, "alice", "first")
	*now = now.Add(25 * time.Hour)
	_, _ = repo.CreateUserFortune(ctx, "alice", "second")

	f, err := repo.GetUserFortune(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserFortune failed: %v", err)
	}
	if f.FortuneText != "second" {
		t.Errorf("FortuneText = %q, want second", f.FortuneText)
	}

	u, err := repo.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.LastFortuneAt == nil || !u.LastFortuneAt.Equal(f.CreatedAt) {
		t.Errorf("LastFortuneAt = %v, want %v", u.LastFortuneAt, f.CreatedAt)
	}
}

func TestIntegrationFortuneRepository_GrantFortune(t *testing.T) {
	ctx, repo, now := newFortuneTestEnv(t)

	if _, granted, err := repo.GrantFortune(ctx, "alice", "first"); err != nil || !granted {
		t.Fatalf("first grant: granted=%v err=%v", granted, err)
	}

	*now = now.Add(time.Hour)
	if _, granted, err := repo.GrantFortune(ctx, "alice", "second"); err != nil || granted {
		t.Fatalf("second grant: granted=%v err=%v", granted, err)
	}

	*now = now.Add(24 * time.Hour)
	if _, granted, err := repo.GrantFortune(ctx, "alice", "third"); err != nil || !granted {
		t.Fatalf("third grant: granted=%v err=%v", granted, err)
	}
}

func TestIntegrationFortuneRepository_GrantFortuneConcurrent(t *testing.T) {
	ctx, repo, _ := newFortuneTestEnv(t)

	var granted int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.GrantFortune(ctx, "alice", "x")
			if err != nil {
				t.Errorf("GrantFortune: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&granted, 1)
			}
		}()
	}
	wg.Wait()

	if granted != 1 {
		t.Errorf("granted = %d, want 1", granted)
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newFortuneTestEnv(t *testing.T) (context.Context, *FortuneRepository, *time.Time) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetFortuneSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	fr := NewFortuneRepository(repo, 24*time.Hour)
	fr.SetClock(func() time.Time { return now })

	return ctx, fr, &now
}
