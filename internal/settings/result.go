// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package settings reads site-wide display settings for page rendering.
//
// Lookups never fail from the caller's point of view: an unreachable store,
// a missing row and a cancelled context all collapse to a Defaulted result,
// and callers substitute their own defaults.
package settings

// Result is the outcome of reading one setting: either Resolved with the stored
// value or Defaulted when no value could be obtained.
type Result struct {
	value    string
	resolved bool
}

// Resolved returns a Result carrying a stored value.
func Resolved(value string) Result {
	return Result{value: value, resolved: true}
}

// Defaulted returns a Result carrying no value.
func Defaulted() Result {
	return Result{}
}

// Value returns the stored value and whether one was resolved.
func (r Result) Value() (string, bool) {
	return r.value, r.resolved
}

// IsResolved reports whether the setting had a stored value.
func (r Result) IsResolved() bool {
	return r.resolved
}

// Or returns the stored value, or def when the result is Defaulted.
// A resolved empty string is returned as is.
func (r Result) Or(def string) string {
	if !r.resolved {
		return def
	}
	return r.value
}

// String implements fmt.Stringer for log output.
func (r Result) String() string {
	if !r.resolved {
		return "<defaulted>"
	}
	return r.value
}
