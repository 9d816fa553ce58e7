// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zsqnb999/ldc-shop/internal/cache"
	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/settings"
	"github.com/zsqnb999/ldc-shop/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNew(t *testing.T) {
	logger := testLogger()

	s := New(WarmFunc(func(context.Context) (int, error) { return 0, nil }), "@every 1m", logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(WarmFunc(func(context.Context) (int, error) { return 0, nil }), "@every 1h", testLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
	s.Stop()
}

func TestScheduler_StartInvalidSpec(t *testing.T) {
	s := New(WarmFunc(func(context.Context) (int, error) { return 0, nil }), "not a schedule", testLogger())

	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("Start() should reject an invalid schedule")
	}
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	var calls atomic.Int32
	s := New(WarmFunc(func(context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	}), "@every 1s", testLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Error("refresh job never ran")
	}
}

func TestScheduler_RunOnceFailure(t *testing.T) {
	s := New(WarmFunc(func(context.Context) (int, error) {
		return 0, errors.New("database is locked")
	}), "@every 1h", testLogger())

	s.RunOnce(context.Background())

	if s.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", s.Runs())
	}
}

func TestScheduler_RunOnceSkipsOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	s := New(WarmFunc(func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return 0, nil
	}), "@every 1h", testLogger())

	done := make(chan struct{})
	go func() {
		s.RunOnce(context.Background())
		close(done)
	}()
	<-started

	s.RunOnce(context.Background())
	close(release)
	<-done

	if got := calls.Load(); got != 1 {
		t.Errorf("warm calls = %d, want 1", got)
	}
}

func TestScheduler_WarmsCachedSource(t *testing.T) {
	db, err := store.NewDB(filepath.Join(t.TempDir(), "scheduler.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.Seed(context.Background(), db, true); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mem.Close() })

	src := settings.NewStoreSource(store.New(db))
	cached := settings.NewCachedSource(src, mem, time.Hour, nil)

	s := New(WarmFunc(func(ctx context.Context) (int, error) {
		return cached.Warm(ctx, src.All, model.ShellSettingKeys...)
	}), "@every 1h", testLogger())
	s.RunOnce(context.Background())

	// With the database gone, every shell key is still answered from cache.
	_ = db.Close()
	for _, key := range model.ShellSettingKeys {
		if _, _, err := cached.Lookup(context.Background(), key); err != nil {
			t.Errorf("Lookup(%s) after warm: %v", key, err)
		}
	}
	if v, ok, _ := cached.Lookup(context.Background(), model.SettingThemeColor); !ok || v != "purple" {
		t.Errorf("theme_color = %q, %v; want seeded purple", v, ok)
	}
}
