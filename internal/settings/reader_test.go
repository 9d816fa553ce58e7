// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// mapSource serves settings from a map.
type mapSource map[string]string

func (m mapSource) Lookup(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

// failingSource fails every lookup.
var failingSource = SourceFunc(func(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
})

func TestResult(t *testing.T) {
	r := Resolved("blue")
	if v, ok := r.Value(); !ok || v != "blue" {
		t.Errorf("Resolved.Value() = %q, %v; want %q, true", v, ok, "blue")
	}
	if got := r.Or("purple"); got != "blue" {
		t.Errorf("Resolved.Or = %q, want %q", got, "blue")
	}

	d := Defaulted()
	if d.IsResolved() {
		t.Error("Defaulted().IsResolved() = true")
	}
	if got := d.Or("purple"); got != "purple" {
		t.Errorf("Defaulted.Or = %q, want %q", got, "purple")
	}

	if got := Resolved("").Or("purple"); got != "" {
		t.Errorf("Resolved(\"\").Or = %q, want empty", got)
	}
}

func TestSnapshot(t *testing.T) {
	s := NewSnapshot(map[string]string{"shop_name": "Shop"})

	if v, ok := s.Lookup("shop_name"); !ok || v != "Shop" {
		t.Errorf("Lookup(shop_name) = %q, %v", v, ok)
	}
	if _, ok := s.Lookup("theme_color"); ok {
		t.Error("Lookup(theme_color) should be defaulted")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	empty := EmptySnapshot()
	if empty.Get("shop_name").IsResolved() {
		t.Error("EmptySnapshot should default every key")
	}
}

func TestReader_Get(t *testing.T) {
	r := NewReader(mapSource{"shop_name": "Shop"}, nil, 0)
	ctx := context.Background()

	if got := r.Get(ctx, "shop_name"); got != Resolved("Shop") {
		t.Errorf("Get(shop_name) = %v, want Resolved(Shop)", got)
	}
	if got := r.Get(ctx, "theme_color"); got.IsResolved() {
		t.Errorf("Get(theme_color) = %v, want Defaulted", got)
	}
}

func TestReader_GetFailureDefaults(t *testing.T) {
	r := NewReader(failingSource, nil, 0)

	if got := r.Get(context.Background(), "shop_name"); got.IsResolved() {
		t.Errorf("Get on failing source = %v, want Defaulted", got)
	}
}

func TestReader_GetRecoversPanic(t *testing.T) {
	src := SourceFunc(func(context.Context, string) (string, bool, error) {
		panic("driver exploded")
	})
	r := NewReader(src, nil, 0)

	if got := r.Get(context.Background(), "shop_name"); got.IsResolved() {
		t.Errorf("Get on panicking source = %v, want Defaulted", got)
	}
}

func TestReader_GetTimeout(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, _ string) (string, bool, error) {
		<-ctx.Done()
		return "", false, errors.Join(ErrUnavailable, ctx.Err())
	})
	r := NewReader(src, nil, 20*time.Millisecond)

	start := time.Now()
	if got := r.Get(context.Background(), "shop_name"); got.IsResolved() {
		t.Errorf("Get on hanging source = %v, want Defaulted", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Get took %v, want bounded by timeout", elapsed)
	}
}

func TestReader_NilSafe(t *testing.T) {
	var r *Reader
	if got := r.Get(context.Background(), "shop_name"); got.IsResolved() {
		t.Error("nil reader should default")
	}
	if s := r.Snapshot(context.Background(), "shop_name"); s.Len() != 0 {
		t.Error("nil reader snapshot should be empty")
	}
}

func TestReader_SnapshotConcurrent(t *testing.T) {
	var inFlight, peak atomic.Int32
	release := make(chan struct{})

	src := SourceFunc(func(_ context.Context, key string) (string, bool, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		inFlight.Add(-1)
		return "v-" + key, true, nil
	})
	r := NewReader(src, nil, time.Second)

	keys := []string{"shop_name", "shop_description", "noindex_enabled"}
	done := make(chan Snapshot)
	go func() { done <- r.Snapshot(context.Background(), keys...) }()

	deadline := time.After(time.Second)
	for inFlight.Load() < int32(len(keys)) {
		select {
		case <-deadline:
			t.Fatalf("lookups were not dispatched concurrently (in flight: %d)", inFlight.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
	close(release)

	s := <-done
	for _, k := range keys {
		if v, ok := s.Lookup(k); !ok || v != "v-"+k {
			t.Errorf("Lookup(%s) = %q, %v", k, v, ok)
		}
	}
	if peak.Load() != int32(len(keys)) {
		t.Errorf("peak concurrency = %d, want %d", peak.Load(), len(keys))
	}
}

func TestReader_SnapshotPartialFailure(t *testing.T) {
	src := SourceFunc(func(_ context.Context, key string) (string, bool, error) {
		if key == "theme_color" {
			return "", false, ErrUnavailable
		}
		return "ok", true, nil
	})
	r := NewReader(src, nil, 0)

	s := r.Snapshot(context.Background(), "shop_name", "theme_color")
	if !s.Get("shop_name").IsResolved() {
		t.Error("shop_name should resolve")
	}
	if s.Get("theme_color").IsResolved() {
		t.Error("theme_color should default after failure")
	}
}

func TestReader_SnapshotTotalFailure(t *testing.T) {
	r := NewReader(failingSource, nil, 0)

	s := r.Snapshot(context.Background(), "shop_name", "shop_description", "theme_color")
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 on total failure", s.Len())
	}
}
