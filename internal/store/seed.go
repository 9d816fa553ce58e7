// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/zsqnb999/ldc-shop/internal/model"
)

// DefaultSettings are inserted by Seed when the corresponding key is missing.
var DefaultSettings = []UpsertSettingParams{
	{Key: model.SettingShopName, Value: "LDC Virtual Goods Shop"},
	{Key: model.SettingShopDescription, Value: "High-quality virtual goods, instant delivery"},
	{Key: model.SettingNoIndexEnabled, Value: "false"},
	{Key: model.SettingThemeColor, Value: "purple"},
}

// Seed creates initial settings in the database.
// Existing values are never overwritten. When doSeed is false, Seed is a no-op.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		slog.Debug("seeding disabled, skipping")
		return nil
	}

	queries := New(db)
	now := time.Now().UTC()

	inserted := 0
	for _, s := range DefaultSettings {
		s.UpdatedAt = now
		ok, err := queries.InsertSettingIfMissing(ctx, s)
		if err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.Key, err)
		}
		if ok {
			inserted++
		}
	}

	slog.Info("default settings seeded", "inserted", inserted, "total", len(DefaultSettings))
	return nil
}
