// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler re-warms the settings cache on a cron schedule so page
// renders rarely reach the database.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// warmTimeout bounds a single refresh run.
const warmTimeout = 30 * time.Second

// Warmer preloads cached settings and reports how many were loaded.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// WarmFunc adapts a function to Warmer.
type WarmFunc func(ctx context.Context) (int, error)

// Warm implements Warmer.
func (f WarmFunc) Warm(ctx context.Context) (int, error) {
	return f(ctx)
}

// Scheduler runs the settings cache refresh job.
type Scheduler struct {
	cron    *cron.Cron
	warmer  Warmer
	spec    string
	logger  *slog.Logger
	running atomic.Bool
	runs    atomic.Int64
}

// New creates a new scheduler instance. spec is a standard cron expression
// or descriptor such as "@every 5m".
func New(warmer Warmer, spec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		warmer: warmer,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("scheduling settings refresh %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "schedule", s.spec)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce warms the cache now. Overlapping runs are skipped. Failures are
// logged; the cache keeps serving what it has and reads fall through to
// the store.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("settings cache refresh already running, skipping")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.warmer.Warm(ctx)
	s.runs.Add(1)
	if err != nil {
		s.logger.Warn("settings cache refresh failed", "category", "cache", "error", err)
		return
	}
	s.logger.Debug("settings cache refreshed", "settings", n, "duration", time.Since(start))
}

// Runs returns the number of completed refresh runs.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}
