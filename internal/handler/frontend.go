// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/seo"
	"github.com/zsqnb999/ldc-shop/internal/settings"
	"github.com/zsqnb999/ldc-shop/internal/shell"
)

// FrontendHandler serves the storefront pages and the documents derived
// from shop metadata.
type FrontendHandler struct {
	reader   *settings.Reader
	composer *shell.Composer
	logger   *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(reader *settings.Reader, composer *shell.Composer, logger *slog.Logger) *FrontendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{
		reader:   reader,
		composer: composer,
		logger:   logger,
	}
}

// snapshot reads every shell setting once for the current request. It never
// fails; unreachable settings come back defaulted.
func (h *FrontendHandler) snapshot(r *http.Request) settings.Snapshot {
	return h.reader.Snapshot(r.Context(), model.ShellSettingKeys...)
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, shell.PageHome)
}

// NotFound renders the 404 page inside the shell.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, shell.PageNotFound)
}

func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, page string) {
	data := shell.NewPageData(h.snapshot(r))

	var buf bytes.Buffer
	if err := h.composer.Render(&buf, page, data); err != nil {
		h.logger.Error("rendering page failed", "category", model.EventCategoryHTTP, "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Manifest handles GET /manifest.json.
func (h *FrontendHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	data, err := seo.MarshalManifest(seo.ResolveMetadata(h.snapshot(r)))
	if err != nil {
		h.logger.Error("encoding manifest failed", "category", model.EventCategoryHTTP, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/manifest+json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.ResolveMetadata(h.snapshot(r)))))
}
