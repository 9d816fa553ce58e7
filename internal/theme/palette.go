// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import "sort"

// DefaultColor is the theme identifier used when none is configured.
const DefaultColor = "purple"

// Global defaults for identifiers without an explicit override.
const (
	DefaultHue                  = 270.0
	DefaultChroma               = 1.0
	DefaultPrimaryLightness     = 0.45
	DefaultPrimaryDarkLightness = 0.7
)

// hues maps every known theme identifier to its hue in degrees.
var hues = map[string]float64{
	"purple": 270,
	"indigo": 255,
	"blue":   240,
	"cyan":   200,
	"teal":   170,
	"green":  150,
	"lime":   120,
	"amber":  85,
	"orange": 45,
	"red":    25,
	"rose":   345,
	"pink":   330,
	"black":  0,
}

// Sparse overrides. Identifiers missing here use the global defaults.
var (
	chromaOverrides = map[string]float64{
		"black": 0,
	}
	primaryLightnessOverrides = map[string]float64{
		"black": 0.2,
	}
	primaryDarkLightnessOverrides = map[string]float64{
		"black": 0.8,
	}
)

// Colors returns the known theme identifiers in sorted order.
func Colors() []string {
	out := make([]string, 0, len(hues))
	for id := range hues {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsKnown reports whether id is a known theme identifier.
func IsKnown(id string) bool {
	_, ok := hues[id]
	return ok
}
