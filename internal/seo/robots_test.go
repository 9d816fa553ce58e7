// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"

	"github.com/zsqnb999/ldc-shop/internal/settings"
)

func TestRobotsBuilderBuildDefault(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{}).Build()

	if !strings.HasPrefix(content, "User-agent: *\n") {
		t.Error("Build() should start with 'User-agent: *'")
	}
	for _, path := range []string{"/admin", "/api"} {
		if !strings.Contains(content, "Disallow: "+path+"\n") {
			t.Errorf("Build() should disallow %q", path)
		}
	}
	if !strings.Contains(content, "Allow: /\n") {
		t.Error("Build() should contain 'Allow: /'")
	}
	if strings.Contains(content, "Disallow: /\n") {
		t.Error("Build() should not block everything by default")
	}
}

func TestRobotsBuilderBuildExtraPaths(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/checkout"}}).Build()

	if !strings.Contains(content, "Disallow: /checkout\n") {
		t.Error("Build() should include custom disallow paths")
	}
}

func TestBuildRobots(t *testing.T) {
	indexable := BuildRobots(ResolveMetadata(settings.EmptySnapshot()))
	if strings.Contains(indexable, "Disallow: /\n") {
		t.Errorf("indexable shop blocks crawlers:\n%s", indexable)
	}

	noindex := BuildRobots(ResolveMetadata(settings.NewSnapshot(map[string]string{"noindex_enabled": "true"})))
	want := "User-agent: *\nDisallow: /\n"
	if noindex != want {
		t.Errorf("BuildRobots(noindex) = %q, want %q", noindex, want)
	}
}
