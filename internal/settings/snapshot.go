// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

// Snapshot is a read-once view of a set of settings taken at render time.
// It is immutable once built and safe for concurrent use.
type Snapshot struct {
	values map[string]Result
}

// NewSnapshot builds a snapshot from resolved values. Keys not present in
// values read as Defaulted. The map is copied.
func NewSnapshot(values map[string]string) Snapshot {
	s := Snapshot{values: make(map[string]Result, len(values))}
	for k, v := range values {
		s.values[k] = Resolved(v)
	}
	return s
}

// EmptySnapshot returns a snapshot in which every key is Defaulted.
func EmptySnapshot() Snapshot {
	return Snapshot{}
}

// Get returns the result for key.
func (s Snapshot) Get(key string) Result {
	if r, ok := s.values[key]; ok {
		return r
	}
	return Defaulted()
}

// Lookup returns the stored value for key and whether it was resolved.
func (s Snapshot) Lookup(key string) (string, bool) {
	return s.Get(key).Value()
}

// Len returns the number of resolved keys.
func (s Snapshot) Len() int {
	n := 0
	for _, r := range s.values {
		if r.resolved {
			n++
		}
	}
	return n
}
