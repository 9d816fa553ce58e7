// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import "encoding/json"

// Manifest is the web app manifest served at ManifestPath.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Icons           []ManifestIcon `json:"icons"`
}

// ManifestIcon is one entry of Manifest.Icons.
type ManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Purpose string `json:"purpose,omitempty"`
}

// shortNameMax is the length home screens reliably show without truncation.
const shortNameMax = 12

// BuildManifest derives the web app manifest from resolved metadata.
func BuildManifest(m Metadata) Manifest {
	return Manifest{
		Name:        m.Title,
		ShortName:   shortName(m.Title),
		Description: m.Description,
		StartURL:    "/",
		Display:     "standalone",
		Icons: []ManifestIcon{
			{Src: m.Icons.Icon, Sizes: "any", Purpose: "any"},
		},
	}
}

// MarshalManifest encodes the manifest for the response body.
func MarshalManifest(m Metadata) ([]byte, error) {
	return json.MarshalIndent(BuildManifest(m), "", "  ")
}

func shortName(title string) string {
	r := []rune(title)
	if len(r) <= shortNameMax {
		return title
	}
	return string(r[:shortNameMax])
}
