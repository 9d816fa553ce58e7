// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrUnavailable marks a failure to reach the settings store or read a key.
var ErrUnavailable = errors.New("settings unavailable")

// Source looks up a single setting. found is false when the key has no stored
// value. A non-nil error means the store could not answer; implementations
// should wrap ErrUnavailable.
type Source interface {
	Lookup(ctx context.Context, key string) (value string, found bool, err error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, key string) (string, bool, error)

// Lookup implements Source.
func (f SourceFunc) Lookup(ctx context.Context, key string) (string, bool, error) {
	return f(ctx, key)
}

// DefaultTimeout bounds a single lookup when the reader has no explicit timeout.
const DefaultTimeout = 2 * time.Second

// Reader resolves settings from a Source and never fails past its boundary.
type Reader struct {
	src     Source
	logger  *slog.Logger
	timeout time.Duration
}

// NewReader creates a Reader. A nil logger discards failure logs; a zero
// timeout uses DefaultTimeout.
func NewReader(src Source, logger *slog.Logger, timeout time.Duration) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reader{src: src, logger: logger, timeout: timeout}
}

// Get reads one setting. Any failure, including a panicking source,
// is logged and yields Defaulted.
func (r *Reader) Get(ctx context.Context, key string) Result {
	if r == nil || r.src == nil {
		return Defaulted()
	}

	value, found, err := r.lookup(ctx, key)
	if err != nil {
		r.logger.Warn("settings lookup failed, using default",
			"category", "settings",
			"key", key,
			"error", err,
		)
		return Defaulted()
	}
	if !found {
		return Defaulted()
	}
	return Resolved(value)
}

func (r *Reader) lookup(ctx context.Context, key string) (value string, found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			value, found = "", false
			err = fmt.Errorf("%w: source panicked: %v", ErrUnavailable, p)
		}
	}()

	return r.src.Lookup(ctx, key)
}

// Snapshot reads every key concurrently and joins the results. Lookups are
// independent; their completion order does not matter.
func (r *Reader) Snapshot(ctx context.Context, keys ...string) Snapshot {
	s := Snapshot{values: make(map[string]Result, len(keys))}
	if r == nil || r.src == nil || len(keys) == 0 {
		return s
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, key := range keys {
		g.Go(func() error {
			res := r.Get(ctx, key)
			mu.Lock()
			s.values[key] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return s
}
