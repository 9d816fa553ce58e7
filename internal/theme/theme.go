// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme resolves the accent color setting into the numeric parameters
// the stylesheet derives every themed color from.
package theme

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/settings"
)

// Parameters are the four values emitted as CSS custom properties on the
// document root. All fields are always populated.
type Parameters struct {
	Hue                  float64 `json:"hue"`
	Chroma               float64 `json:"chroma"`
	PrimaryLightness     float64 `json:"primary_lightness"`
	PrimaryDarkLightness float64 `json:"primary_dark_lightness"`
}

// StyleVar is a single CSS custom property.
type StyleVar struct {
	Name  string
	Value string
}

// CSS custom property names consumed by the stylesheet.
const (
	VarHue                  = "--theme-hue"
	VarChroma               = "--theme-chroma"
	VarPrimaryLightness     = "--theme-primary-l"
	VarPrimaryDarkLightness = "--theme-primary-dark-l"
)

// Identifier maps an empty theme_color value to DefaultColor. Other values
// are matched as stored, so " black " is an unknown identifier.
func Identifier(raw string) string {
	if raw == "" {
		return DefaultColor
	}
	return raw
}

// Resolve maps a theme identifier to its parameters. Unknown identifiers
// resolve to DefaultColor.
func Resolve(id string) Parameters {
	id = Identifier(id)
	if !IsKnown(id) {
		id = DefaultColor
	}

	hue, ok := hues[id]
	if !ok {
		hue, ok = hues[DefaultColor]
		if !ok {
			hue = DefaultHue
		}
	}

	return Parameters{
		Hue:                  hue,
		Chroma:               lookup(chromaOverrides, id, DefaultChroma),
		PrimaryLightness:     lookup(primaryLightnessOverrides, id, DefaultPrimaryLightness),
		PrimaryDarkLightness: lookup(primaryDarkLightnessOverrides, id, DefaultPrimaryDarkLightness),
	}
}

func lookup(table map[string]float64, id string, def float64) float64 {
	if v, ok := table[id]; ok {
		return v
	}
	return def
}

// ResolveTheme reads theme_color from snap and resolves it.
// A defaulted read resolves to DefaultColor.
func ResolveTheme(snap settings.Snapshot) Parameters {
	return Resolve(ColorFrom(snap))
}

// ColorFrom returns the effective theme identifier for snap. Unknown
// identifiers are returned as stored; Resolve handles the fallback.
func ColorFrom(snap settings.Snapshot) string {
	return Identifier(snap.Get(model.SettingThemeColor).Or(DefaultColor))
}

// StyleVars returns the custom properties in a stable order.
func (p Parameters) StyleVars() []StyleVar {
	return []StyleVar{
		{Name: VarHue, Value: formatNumber(p.Hue)},
		{Name: VarChroma, Value: formatNumber(p.Chroma)},
		{Name: VarPrimaryLightness, Value: formatNumber(p.PrimaryLightness)},
		{Name: VarPrimaryDarkLightness, Value: formatNumber(p.PrimaryDarkLightness)},
	}
}

// Style renders the custom properties as an inline style declaration list.
// The output contains only property names and numbers, so it is safe to mark as CSS.
func (p Parameters) Style() template.CSS {
	vars := p.StyleVars()
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.Name + ":" + v.Value
	}
	return template.CSS(strings.Join(parts, ";"))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
