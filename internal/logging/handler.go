// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the events table, so degraded settings reads and cache fallbacks
// leave a trace an operator can query.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/store"
)

// Event log writer defaults.
const (
	DefaultBufferSize   = 256
	DefaultWriteTimeout = time.Second
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the event log.
//
// Records are queued for a background writer and Handle never waits on the
// database. When the queue is full the record is dropped from the event log;
// the inner handler still sees it.
type EventLogHandler struct {
	inner  slog.Handler
	writer *eventWriter
	level  slog.Level
	attrs  []slog.Attr
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates an EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		writer: newEventWriter(store.New(db), DefaultBufferSize, DefaultWriteTimeout),
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || level >= h.level
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.writer.enqueue(h.event(r))
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		writer: h.writer,
		level:  h.level,
		attrs:  merged,
	}
}

// WithGroup implements slog.Handler. Groups only affect the inner handler;
// event metadata stays flat.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		writer: h.writer,
		level:  h.level,
		attrs:  h.attrs,
	}
}

// Close stops accepting events and waits until queued events are written.
// It is safe to call more than once.
func (h *EventLogHandler) Close() {
	h.writer.close()
}

// Dropped reports how many events were discarded because the queue was full.
func (h *EventLogHandler) Dropped() int64 {
	return h.writer.dropped.Load()
}

func (h *EventLogHandler) event(r slog.Record) store.CreateEventParams {
	attrs := h.collectAttrs(r)
	return store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		Metadata:  metadata(attrs),
		CreatedAt: r.Time.UTC(),
	}
}

// eventWriter owns the queue shared by a handler and its WithAttrs/WithGroup copies.
type eventWriter struct {
	queries *store.Queries
	timeout time.Duration
	queue   chan store.CreateEventParams
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

func newEventWriter(queries *store.Queries, size int, timeout time.Duration) *eventWriter {
	w := &eventWriter{
		queries: queries,
		timeout: timeout,
		queue:   make(chan store.CreateEventParams, size),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *eventWriter) enqueue(e store.CreateEventParams) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.dropped.Add(1)
		return
	}
	select {
	case w.queue <- e:
	default:
		w.dropped.Add(1)
	}
}

// run writes with a background context so an event survives the request that
// logged it. Each insert is bounded by timeout.
func (w *eventWriter) run() {
	defer close(w.done)
	for e := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		_, _ = w.queries.CreateEvent(ctx, e)
		cancel()
	}
}

func (w *eventWriter) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}

func (h *EventLogHandler) collectAttrs(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// category prefers an explicit "category" attribute and otherwise infers one
// from the message.
func category(msg string, attrs []slog.Attr) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == "category" {
			if c := attrs[i].Value.String(); c != "" {
				return c
			}
		}
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "setting"):
		return model.EventCategorySettings
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return model.EventCategoryCache
	case strings.Contains(msg, "http") || strings.Contains(msg, "request"):
		return model.EventCategoryHTTP
	default:
		return model.EventCategorySystem
	}
}

// metadata encodes attributes other than category as a flat JSON object.
func metadata(attrs []slog.Attr) string {
	fields := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" || a.Key == "" {
			continue
		}
		fields[a.Key] = a.Value.Resolve().String()
	}
	if len(fields) == 0 {
		return "{}"
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(data)
}
