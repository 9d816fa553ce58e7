// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package shell

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/zsqnb999/ldc-shop/internal/settings"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func render(t *testing.T, c *Composer, page string, data PageData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(&buf, page, data); err != nil {
		t.Fatalf("Render(%s): %v", page, err)
	}
	return buf.String()
}

func TestNew_ParsesPages(t *testing.T) {
	c := newComposer(t)
	for _, page := range []string{PageHome, PageNotFound} {
		if !c.Has(page) {
			t.Errorf("page %q not parsed", page)
		}
	}
	if c.Has("missing") {
		t.Error("Has(missing) should be false")
	}
}

func TestRender_Defaults(t *testing.T) {
	c := newComposer(t)
	out := render(t, c, PageHome, NewPageData(settings.EmptySnapshot()))

	checks := []string{
		`<html lang="en" style="--theme-hue:270;--theme-chroma:1;--theme-primary-l:0.45;--theme-primary-dark-l:0.7">`,
		"<title>LDC Virtual Goods Shop</title>",
		`<meta name="description" content="High-quality virtual goods, instant delivery">`,
		`<link rel="manifest" href="/manifest.json">`,
		`<link rel="icon" href="/favicon">`,
		`<link rel="apple-touch-icon" href="/favicon">`,
		`<meta name="format-detection" content="telephone=no">`,
		`<div id="providers">`,
		`class="site-header"`,
		`class="site-footer"`,
		`aria-label="Mobile navigation"`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `name="robots"`) {
		t.Error("indexable page should not carry a robots meta tag")
	}
}

func TestRender_ConfiguredShop(t *testing.T) {
	c := newComposer(t)
	snap := settings.NewSnapshot(map[string]string{
		"shop_name":            "Pixel Mart",
		"noindex_enabled":      "true",
		"shop_logo_updated_at": "2024-01-01T00:00:00Z",
		"theme_color":          "black",
	})
	out := render(t, c, PageHome, NewPageData(snap))

	checks := []string{
		`style="--theme-hue:0;--theme-chroma:0;--theme-primary-l:0.2;--theme-primary-dark-l:0.8"`,
		"<title>Pixel Mart</title>",
		`<meta name="robots" content="noindex, nofollow">`,
		`<link rel="icon" href="/favicon?v=2024-01-01T00:00:00Z">`,
		`data-theme-color="black"`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_ProvidersGetStoredThemeColor(t *testing.T) {
	c := newComposer(t)

	tests := []struct {
		name   string
		stored string
		want   string
		style  string
	}{
		{"unknown passes through", "neon", `data-theme-color="neon"`, "--theme-hue:270;"},
		{"padded passes through", " black ", `data-theme-color=" black "`, "--theme-hue:270;"},
		{"known", "teal", `data-theme-color="teal"`, "--theme-hue:170;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := NewPageData(settings.NewSnapshot(map[string]string{"theme_color": tt.stored}))
			if data.ThemeColor != tt.stored {
				t.Errorf("ThemeColor = %q, want %q", data.ThemeColor, tt.stored)
			}
			out := render(t, c, PageHome, data)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
			if !strings.Contains(out, tt.style) {
				t.Errorf("output missing %q", tt.style)
			}
		})
	}
}

func TestRender_EscapesShopName(t *testing.T) {
	c := newComposer(t)
	snap := settings.NewSnapshot(map[string]string{"shop_name": "<script>alert(1)</script>"})
	out := render(t, c, PageHome, NewPageData(snap))

	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("shop name rendered unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("shop name should be HTML-escaped")
	}
}

func TestRender_NotFoundPage(t *testing.T) {
	c := newComposer(t)
	out := render(t, c, PageNotFound, NewPageData(settings.EmptySnapshot()))

	if !strings.Contains(out, "Page not found") {
		t.Error("404 page content missing")
	}
	if !strings.Contains(out, "<title>LDC Virtual Goods Shop</title>") {
		t.Error("404 page should use the shared layout")
	}
}

func TestRender_UnknownPage(t *testing.T) {
	c := newComposer(t)
	var buf bytes.Buffer
	if err := c.Render(&buf, "missing", PageData{}); err == nil {
		t.Error("expected error for unknown page")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestRender_YearDefaulted(t *testing.T) {
	c := newComposer(t)
	data := NewPageData(settings.EmptySnapshot())
	data.Year = 0
	out := render(t, c, PageHome, data)

	if strings.Contains(out, "&copy; 0 ") {
		t.Error("zero year should be replaced with the current year")
	}
}

func TestNewFromFS_CustomPage(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/layouts/base.html":    {Data: []byte(`{{define "base"}}[{{template "header" .}}|{{template "content" .}}]{{end}}`)},
		"tpl/partials/header.html": {Data: []byte(`{{define "header"}}{{.Metadata.Title}}{{end}}`)},
		"tpl/pages/about.html":     {Data: []byte(`{{define "content"}}about{{end}}`)},
	}
	c, err := NewFromFS(fsys, "tpl")
	if err != nil {
		t.Fatalf("NewFromFS: %v", err)
	}

	out := render(t, c, "about", NewPageData(settings.EmptySnapshot()))
	if out != "[LDC Virtual Goods Shop|about]" {
		t.Errorf("output = %q", out)
	}
}
