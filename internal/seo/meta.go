// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo resolves shop settings into document metadata, the web app
// manifest and robots.txt.
package seo

import (
	"strings"

	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/settings"
)

// Defaults used when the corresponding setting is absent or blank.
const (
	DefaultTitle       = "LDC Virtual Goods Shop"
	DefaultDescription = "High-quality virtual goods, instant delivery"
)

// Static paths referenced from the document head.
const (
	ManifestPath = "/manifest.json"
	IconPath     = "/favicon"
)

// Robots is the indexing directive for the page.
type Robots string

// Robots directives.
const (
	RobotsIndexable Robots = "indexable"
	RobotsNoIndex   Robots = "noindex"
)

// Content returns the robots meta tag content, or "" when no tag should be emitted.
func (r Robots) Content() string {
	if r == RobotsNoIndex {
		return "noindex, nofollow"
	}
	return ""
}

// Icons holds the three icon references. They always share one cache-busting value.
type Icons struct {
	Icon     string `json:"icon"`
	Shortcut string `json:"shortcut"`
	Apple    string `json:"apple"`
}

// AppleWebApp holds the iOS home screen capability flags.
type AppleWebApp struct {
	Capable        bool   `json:"capable"`
	StatusBarStyle string `json:"status_bar_style"`
	Title          string `json:"title"`
}

// FormatDetection controls automatic format detection on mobile browsers.
type FormatDetection struct {
	Telephone bool `json:"telephone"`
}

// Metadata is the document metadata for a page render. It is built fresh for
// every render and never mutated afterwards.
type Metadata struct {
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Robots              Robots          `json:"robots"`
	Manifest            string          `json:"manifest"`
	Icons               Icons           `json:"icons"`
	AppleWebApp         AppleWebApp     `json:"apple_web_app"`
	FormatDetection     FormatDetection `json:"format_detection"`
	MobileWebAppCapable string          `json:"mobile_web_app_capable"`
}

// ResolveMetadata builds page metadata from a settings snapshot.
// Defaulted keys use the package defaults, so an empty snapshot yields the
// full-default record.
func ResolveMetadata(snap settings.Snapshot) Metadata {
	title := trimmedOr(snap.Get(model.SettingShopName), DefaultTitle)
	icon := IconURL(snap.Get(model.SettingShopLogoUpdatedAt))

	return Metadata{
		Title:       title,
		Description: trimmedOr(snap.Get(model.SettingShopDescription), DefaultDescription),
		Robots:      robotsFrom(snap.Get(model.SettingNoIndexEnabled)),
		Manifest:    ManifestPath,
		Icons: Icons{
			Icon:     icon,
			Shortcut: icon,
			Apple:    icon,
		},
		AppleWebApp: AppleWebApp{
			Capable:        true,
			StatusBarStyle: "black-translucent",
			Title:          title,
		},
		FormatDetection:     FormatDetection{Telephone: false},
		MobileWebAppCapable: "yes",
	}
}

// robotsFrom matches the stored value against exactly "true". Other encodings
// ("TRUE", "1", "yes") are treated as indexable.
func robotsFrom(r settings.Result) Robots {
	if v, ok := r.Value(); ok && v == "true" {
		return RobotsNoIndex
	}
	return RobotsIndexable
}

// IconURL returns the icon path, versioned with the logo update marker when one is stored.
// The marker is appended verbatim so every icon reference carries the same value.
func IconURL(logoUpdatedAt settings.Result) string {
	if v, ok := logoUpdatedAt.Value(); ok && v != "" {
		return IconPath + "?v=" + v
	}
	return IconPath
}

func trimmedOr(r settings.Result, def string) string {
	if v := strings.TrimSpace(r.Or("")); v != "" {
		return v
	}
	return def
}
