// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zsqnb999/ldc-shop/internal/cache"
	"github.com/zsqnb999/ldc-shop/internal/store"
)

// StoreSource reads settings from the SQLite settings table.
type StoreSource struct {
	queries *store.Queries
}

// NewStoreSource creates a Source backed by queries.
func NewStoreSource(queries *store.Queries) *StoreSource {
	return &StoreSource{queries: queries}
}

// Lookup implements Source. A missing row is reported as not found, not as an error.
func (s *StoreSource) Lookup(ctx context.Context, key string) (string, bool, error) {
	row, err := s.queries.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: reading %s: %w", ErrUnavailable, key, err)
	}
	return row.Value, true, nil
}

// All returns every stored setting as a map.
func (s *StoreSource) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.queries.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing settings: %w", ErrUnavailable, err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Cache entry encoding: a one-byte marker followed by the value.
const (
	markerFound  byte = '1'
	markerAbsent byte = '0'
)

const cacheKeyPrefix = "setting:"

// CachedSource is a read-through cache in front of another Source.
// Found and absent answers are both cached; errors are not.
// Failures of the cache backend fall through to the inner source.
//
// Every Invalidate starts a new generation. A lookup or warm that read the
// inner source in an earlier generation does not write its answer back, so
// an in-flight read cannot restore a value an admin write just replaced.
type CachedSource struct {
	inner  Source
	cache  cache.Cacher
	ttl    time.Duration
	logger *slog.Logger

	mu  sync.RWMutex
	gen uint64
}

// NewCachedSource wraps inner with c. ttl of 0 uses the cache default.
func NewCachedSource(inner Source, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedSource{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Lookup implements Source.
func (c *CachedSource) Lookup(ctx context.Context, key string) (string, bool, error) {
	raw, err := c.cache.Get(ctx, cacheKeyPrefix+key)
	switch {
	case err == nil && len(raw) > 0:
		if raw[0] == markerFound {
			return string(raw[1:]), true, nil
		}
		return "", false, nil
	case err != nil && !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Debug("settings cache read failed", "category", "cache", "key", key, "error", err)
	}

	gen := c.generation()
	value, found, err := c.inner.Lookup(ctx, key)
	if err != nil {
		return "", false, err
	}

	c.storeIfCurrent(ctx, gen, map[string]entry{key: {value, found}})
	return value, found, nil
}

type entry struct {
	value string
	found bool
}

func (c *CachedSource) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// storeIfCurrent writes entries unless an Invalidate ran since gen was read.
// Holding the read lock keeps Invalidate from interleaving with the writes.
func (c *CachedSource) storeIfCurrent(ctx context.Context, gen uint64, entries map[string]entry) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.gen != gen {
		c.logger.Debug("settings cache write skipped after invalidation", "category", "cache")
		return
	}
	for key, e := range entries {
		c.store(ctx, key, e.value, e.found)
	}
}

func (c *CachedSource) store(ctx context.Context, key, value string, found bool) {
	raw := []byte{markerAbsent}
	if found {
		raw = append([]byte{markerFound}, value...)
	}
	if err := c.cache.Set(ctx, cacheKeyPrefix+key, raw, c.ttl); err != nil {
		c.logger.Debug("settings cache write failed", "category", "cache", "key", key, "error", err)
	}
}

// Invalidate drops cached entries for the given keys, or every setting when none are given.
func (c *CachedSource) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++

	if len(keys) == 0 {
		if p, ok := c.cache.(interface {
			DeleteByPrefix(ctx context.Context, prefix string) error
		}); ok {
			return p.DeleteByPrefix(ctx, cacheKeyPrefix)
		}
		return c.cache.Clear(ctx)
	}

	var errs []error
	for _, key := range keys {
		if err := c.cache.Delete(ctx, cacheKeyPrefix+key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Warm caches keys from one read of all: stored values as found, the rest
// as absent. Rows outside keys are not cached. It returns the number of
// keys that had a stored value.
func (c *CachedSource) Warm(ctx context.Context, all func(context.Context) (map[string]string, error), keys ...string) (int, error) {
	gen := c.generation()
	values, err := all(ctx)
	if err != nil {
		return 0, err
	}

	entries := make(map[string]entry, len(keys))
	n := 0
	for _, k := range keys {
		v, ok := values[k]
		if ok {
			n++
		}
		entries[k] = entry{v, ok}
	}
	c.storeIfCurrent(ctx, gen, entries)
	return n, nil
}
