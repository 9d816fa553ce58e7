// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/zsqnb999/ldc-shop/internal/store"
)

// testHandlerSetup creates a migrated temp-file database.
func testHandlerSetup(t *testing.T) (*sql.DB, *store.Queries) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "handler.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db, store.New(db)
}

// closedDB returns a database handle whose every query fails.
func closedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _ := testHandlerSetup(t)
	_ = db.Close()
	return db
}

func putSetting(t *testing.T, q *store.Queries, key, value string) {
	t.Helper()
	if _, err := q.UpsertSetting(context.Background(), store.UpsertSettingParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("UpsertSetting(%s): %v", key, err)
	}
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func testQueries(db *sql.DB) *store.Queries {
	return store.New(db)
}
