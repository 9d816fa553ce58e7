// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"testing"

	"github.com/zsqnb999/ldc-shop/internal/settings"
)

func TestBuildManifest(t *testing.T) {
	meta := ResolveMetadata(settings.NewSnapshot(map[string]string{
		"shop_name":            "Pixel Mart",
		"shop_logo_updated_at": "1700000000",
	}))

	m := BuildManifest(meta)

	if m.Name != "Pixel Mart" {
		t.Errorf("Name = %q, want %q", m.Name, "Pixel Mart")
	}
	if m.ShortName != "Pixel Mart" {
		t.Errorf("ShortName = %q, want %q", m.ShortName, "Pixel Mart")
	}
	if m.StartURL != "/" || m.Display != "standalone" {
		t.Errorf("StartURL/Display = %q/%q", m.StartURL, m.Display)
	}
	if len(m.Icons) != 1 || m.Icons[0].Src != "/favicon?v=1700000000" {
		t.Errorf("Icons = %+v", m.Icons)
	}
}

func TestBuildManifest_ShortNameTruncated(t *testing.T) {
	m := BuildManifest(ResolveMetadata(settings.EmptySnapshot()))

	if m.Name != DefaultTitle {
		t.Errorf("Name = %q, want %q", m.Name, DefaultTitle)
	}
	if got := []rune(m.ShortName); len(got) != shortNameMax {
		t.Errorf("ShortName = %q, want %d runes", m.ShortName, shortNameMax)
	}
}

func TestMarshalManifest(t *testing.T) {
	data, err := MarshalManifest(ResolveMetadata(settings.EmptySnapshot()))
	if err != nil {
		t.Fatalf("MarshalManifest: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["description"] != DefaultDescription {
		t.Errorf("description = %v", decoded["description"])
	}
}
