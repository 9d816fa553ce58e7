// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zsqnb999/ldc-shop/internal/settings"
	"github.com/zsqnb999/ldc-shop/internal/shell"
	"github.com/zsqnb999/ldc-shop/internal/store"
)

func newFrontendHandler(t *testing.T, db *sql.DB) *FrontendHandler {
	t.Helper()
	composer, err := shell.New()
	if err != nil {
		t.Fatalf("shell.New: %v", err)
	}
	reader := settings.NewReader(settings.NewStoreSource(store.New(db)), nil, 0)
	return NewFrontendHandler(reader, composer, nil)
}

func serve(h http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(method, target, nil))
	return w
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestFrontendHandler_Home_Defaults(t *testing.T) {
	db, _ := testHandlerSetup(t)
	h := newFrontendHandler(t, db)

	w := serve(h.Home, http.MethodGet, "/")

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	assertContains(t, w.Body.String(),
		"<title>LDC Virtual Goods Shop</title>",
		"High-quality virtual goods, instant delivery",
		"--theme-hue:270;--theme-chroma:1;--theme-primary-l:0.45;--theme-primary-dark-l:0.7",
		`href="/favicon"`,
	)
}

func TestFrontendHandler_Home_ConfiguredShop(t *testing.T) {
	db, q := testHandlerSetup(t)
	putSetting(t, q, "shop_name", "Pixel Mart")
	putSetting(t, q, "noindex_enabled", "true")
	putSetting(t, q, "shop_logo_updated_at", "2024-01-01T00:00:00Z")
	putSetting(t, q, "theme_color", "teal")

	h := newFrontendHandler(t, db)
	w := serve(h.Home, http.MethodGet, "/")

	assertStatus(t, w.Code, http.StatusOK)
	assertContains(t, w.Body.String(),
		"<title>Pixel Mart</title>",
		`<meta name="robots" content="noindex, nofollow">`,
		`href="/favicon?v=2024-01-01T00:00:00Z"`,
		"--theme-hue:170;--theme-chroma:1;",
		`data-theme-color="teal"`,
	)
}

func TestFrontendHandler_Home_StoreUnreachable(t *testing.T) {
	h := newFrontendHandler(t, closedDB(t))

	w := serve(h.Home, http.MethodGet, "/")

	assertStatus(t, w.Code, http.StatusOK)
	assertContains(t, w.Body.String(),
		"<title>LDC Virtual Goods Shop</title>",
		"--theme-hue:270;",
		`<div id="providers">`,
	)
	if strings.Contains(w.Body.String(), `name="robots"`) {
		t.Error("unreachable store should resolve to indexable")
	}
}

func TestFrontendHandler_NotFound(t *testing.T) {
	db, q := testHandlerSetup(t)
	putSetting(t, q, "shop_name", "Pixel Mart")
	h := newFrontendHandler(t, db)

	w := serve(h.NotFound, http.MethodGet, "/missing")

	assertStatus(t, w.Code, http.StatusNotFound)
	assertContains(t, w.Body.String(), "Page not found", "<title>Pixel Mart</title>")
}

func TestFrontendHandler_Manifest(t *testing.T) {
	db, q := testHandlerSetup(t)
	putSetting(t, q, "shop_name", "Pixel Mart")
	putSetting(t, q, "shop_logo_updated_at", "42")
	h := newFrontendHandler(t, db)

	w := serve(h.Manifest, http.MethodGet, "/manifest.json")

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/manifest+json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var m struct {
		Name  string `json:"name"`
		Icons []struct {
			Src string `json:"src"`
		} `json:"icons"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Name != "Pixel Mart" {
		t.Errorf("name = %q", m.Name)
	}
	if len(m.Icons) == 0 || m.Icons[0].Src != "/favicon?v=42" {
		t.Errorf("icons = %+v", m.Icons)
	}
}

func TestFrontendHandler_Robots(t *testing.T) {
	db, q := testHandlerSetup(t)
	h := newFrontendHandler(t, db)

	w := serve(h.Robots, http.MethodGet, "/robots.txt")
	assertStatus(t, w.Code, http.StatusOK)
	assertContains(t, w.Body.String(), "Disallow: /admin\n", "Allow: /\n")

	putSetting(t, q, "noindex_enabled", "true")
	w = serve(h.Robots, http.MethodGet, "/robots.txt")
	if w.Body.String() != "User-agent: *\nDisallow: /\n" {
		t.Errorf("noindex robots.txt = %q", w.Body.String())
	}
}
