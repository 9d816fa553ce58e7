// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/store"
)

// Cache-Control values for /favicon. A versioned URL changes whenever the
// logo does, so it can be cached for good.
const (
	faviconCacheVersioned = "public, max-age=31536000, immutable"
	faviconCacheBare      = "public, max-age=300"
)

// FaviconHandler serves the uploaded shop logo, or a built-in icon when no
// logo is stored or the store cannot be read.
type FaviconHandler struct {
	queries     *store.Queries
	defaultIcon []byte
	defaultType string
	logger      *slog.Logger
}

// NewFaviconHandler creates a new FaviconHandler.
func NewFaviconHandler(db *sql.DB, defaultIcon []byte, defaultType string, logger *slog.Logger) *FaviconHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FaviconHandler{
		queries:     store.New(db),
		defaultIcon: defaultIcon,
		defaultType: defaultType,
		logger:      logger,
	}
}

// Favicon handles GET /favicon.
func (h *FaviconHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	data, contentType := h.logo(r.Context())
	if data == nil {
		data, contentType = h.defaultIcon, h.defaultType
	}

	cacheControl := faviconCacheBare
	if r.URL.Query().Get("v") != "" {
		cacheControl = faviconCacheVersioned
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

// logo returns the stored logo, or nil when none is usable.
func (h *FaviconHandler) logo(ctx context.Context) ([]byte, string) {
	encoded, err := h.queries.GetSetting(ctx, model.SettingShopLogo)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn("reading shop logo setting failed", "category", model.EventCategorySettings, "error", err)
		}
		return nil, ""
	}

	data, err := base64.StdEncoding.DecodeString(encoded.Value)
	if err != nil || len(data) == 0 {
		h.logger.Warn("stored shop logo is not valid base64", "category", model.EventCategorySettings)
		return nil, ""
	}

	contentType := http.DetectContentType(data)
	if t, err := h.queries.GetSetting(ctx, model.SettingShopLogoType); err == nil && t.Value != "" {
		contentType = t.Value
	}
	return data, contentType
}
