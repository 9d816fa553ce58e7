// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zsqnb999/ldc-shop/internal/middleware"
	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/store"
	"github.com/zsqnb999/ldc-shop/internal/theme"
)

// Request body limits.
const (
	MaxSettingBodySize = 64 << 10
	MaxLogoSize        = 1 << 20
)

// Invalidator drops cached settings after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// SettingsAPIHandler serves the admin settings API. Every write gets a
// change id that is returned to the caller and recorded in the event log.
type SettingsAPIHandler struct {
	db      *sql.DB
	queries *store.Queries
	cache   Invalidator
	logger  *slog.Logger
	now     func() time.Time
}

// NewSettingsAPIHandler creates a new SettingsAPIHandler. cache may be nil.
func NewSettingsAPIHandler(db *sql.DB, cache Invalidator, logger *slog.Logger) *SettingsAPIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsAPIHandler{
		db:      db,
		queries: store.New(db),
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// SettingInput is the body of PUT /api/settings/{key}.
type SettingInput struct {
	Value *string `json:"value"`
}

// ChangeResponse acknowledges a write.
type ChangeResponse struct {
	ChangeID string         `json:"change_id"`
	Setting  *model.Setting `json:"setting,omitempty"`
}

func toModelSetting(s store.Setting) model.Setting {
	return model.Setting{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}

// Register mounts the admin API routes on r.
func (h *SettingsAPIHandler) Register(r chi.Router) {
	r.Get(RouteSettings, h.List)
	r.Put(RouteSettingsKey, h.Update)
	r.Delete(RouteSettingsKey, h.Delete)
	r.Put(RouteLogo, h.UploadLogo)
	r.Delete(RouteLogo, h.DeleteLogo)
	r.Get(RouteEvents, h.Events)
}

// List handles GET /api/settings. The raw logo payload is omitted.
func (h *SettingsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListSettings(r.Context())
	if err != nil {
		h.logger.Error("listing settings failed", "category", model.EventCategorySettings, "error", err)
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "settings_unavailable", "Settings store is unavailable", nil)
		return
	}

	out := make([]model.Setting, 0, len(rows))
	for _, s := range rows {
		if s.Key == model.SettingShopLogo {
			continue
		}
		out = append(out, toModelSetting(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": out})
}

// Update handles PUT /api/settings/{key}.
func (h *SettingsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !model.IsEditableSettingKey(key) {
		middleware.WriteAPIError(w, http.StatusNotFound, "unknown_setting", "Unknown or read-only setting", map[string]string{"key": key})
		return
	}

	var input SettingInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxSettingBodySize)).Decode(&input); err != nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, "invalid_json", "Request body must be JSON: {\"value\": \"...\"}", nil)
		return
	}
	if input.Value == nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, "validation_failed", "Missing value", map[string]string{"value": "required"})
		return
	}

	value, err := normalizeSettingValue(key, *input.Value)
	if err != nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, "validation_failed", err.Error(), map[string]string{"value": *input.Value})
		return
	}

	changeID := uuid.NewString()
	saved, err := h.queries.UpsertSetting(r.Context(), store.UpsertSettingParams{
		Key:       key,
		Value:     value,
		UpdatedAt: h.now().UTC(),
	})
	if err != nil {
		h.logger.Error("saving setting failed", "category", model.EventCategorySettings, "key", key, "error", err)
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "settings_unavailable", "Settings store is unavailable", nil)
		return
	}

	h.afterWrite(r.Context(), changeID, "setting updated", []string{key})

	resp := toModelSetting(saved)
	writeJSON(w, http.StatusOK, ChangeResponse{ChangeID: changeID, Setting: &resp})
}

// Delete handles DELETE /api/settings/{key}. The key reverts to its default.
func (h *SettingsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !model.IsEditableSettingKey(key) {
		middleware.WriteAPIError(w, http.StatusNotFound, "unknown_setting", "Unknown or read-only setting", map[string]string{"key": key})
		return
	}

	changeID := uuid.NewString()
	if err := h.queries.DeleteSetting(r.Context(), key); err != nil {
		h.logger.Error("deleting setting failed", "category", model.EventCategorySettings, "key", key, "error", err)
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "settings_unavailable", "Settings store is unavailable", nil)
		return
	}

	h.afterWrite(r.Context(), changeID, "setting deleted", []string{key})
	writeJSON(w, http.StatusOK, ChangeResponse{ChangeID: changeID})
}

// UploadLogo handles PUT /api/logo. The body is the raw image.
func (h *SettingsAPIHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxLogoSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.WriteAPIError(w, http.StatusRequestEntityTooLarge, "logo_too_large",
				"Logo must not exceed "+strconv.Itoa(MaxLogoSize)+" bytes", nil)
			return
		}
		middleware.WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Could not read request body", nil)
		return
	}
	if len(data) == 0 {
		middleware.WriteAPIError(w, http.StatusBadRequest, "validation_failed", "Logo body is empty", nil)
		return
	}

	contentType, ok := imageContentType(r.Header.Get("Content-Type"), data)
	if !ok {
		middleware.WriteAPIError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Logo must be an image", nil)
		return
	}

	changeID := uuid.NewString()
	now := h.now().UTC()
	var version string

	err = h.inTx(r.Context(), func(q *store.Queries) error {
		var prev string
		if cur, err := q.GetSetting(r.Context(), model.SettingShopLogoUpdatedAt); err == nil {
			prev = cur.Value
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reading %s: %w", model.SettingShopLogoUpdatedAt, err)
		}
		version = nextLogoVersion(prev, now)

		for _, p := range []store.UpsertSettingParams{
			{Key: model.SettingShopLogo, Value: base64.StdEncoding.EncodeToString(data), UpdatedAt: now},
			{Key: model.SettingShopLogoType, Value: contentType, UpdatedAt: now},
			{Key: model.SettingShopLogoUpdatedAt, Value: version, UpdatedAt: now},
		} {
			if _, err := q.UpsertSetting(r.Context(), p); err != nil {
				return fmt.Errorf("saving %s: %w", p.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("saving logo failed", "category", model.EventCategorySettings, "error", err)
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "settings_unavailable", "Settings store is unavailable", nil)
		return
	}

	h.afterWrite(r.Context(), changeID, "shop logo updated", []string{model.SettingShopLogoUpdatedAt})
	writeJSON(w, http.StatusOK, map[string]string{
		"change_id":            changeID,
		"content_type":         contentType,
		"shop_logo_updated_at": version,
	})
}

// nextLogoVersion formats now with nanosecond precision. It never repeats or
// goes behind prev, since /favicon?v= responses are cached as immutable.
func nextLogoVersion(prev string, now time.Time) string {
	if last, err := time.Parse(time.RFC3339Nano, prev); err == nil && !now.After(last) {
		now = last.Add(time.Nanosecond)
	}
	return now.UTC().Format(time.RFC3339Nano)
}

// DeleteLogo handles DELETE /api/logo. The built-in icon is served again.
func (h *SettingsAPIHandler) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	changeID := uuid.NewString()

	err := h.inTx(r.Context(), func(q *store.Queries) error {
		for _, key := range []string{model.SettingShopLogo, model.SettingShopLogoType, model.SettingShopLogoUpdatedAt} {
			if err := q.DeleteSetting(r.Context(), key); err != nil {
				return fmt.Errorf("deleting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("deleting logo failed", "category", model.EventCategorySettings, "error", err)
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "settings_unavailable", "Settings store is unavailable", nil)
		return
	}

	h.afterWrite(r.Context(), changeID, "shop logo removed", []string{model.SettingShopLogoUpdatedAt})
	writeJSON(w, http.StatusOK, ChangeResponse{ChangeID: changeID})
}

// Events handles GET /api/events?limit=N.
func (h *SettingsAPIHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			middleware.WriteAPIError(w, http.StatusBadRequest, "validation_failed", "limit must be between 1 and 500", nil)
			return
		}
		limit = n
	}

	events, err := h.queries.ListRecentEvents(r.Context(), int64(limit))
	if err != nil {
		middleware.WriteAPIError(w, http.StatusServiceUnavailable, "events_unavailable", "Event log is unavailable", nil)
		return
	}

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, model.Event{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (h *SettingsAPIHandler) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(h.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// afterWrite invalidates cached values and records the change. Neither step
// fails the request; the write itself already succeeded.
func (h *SettingsAPIHandler) afterWrite(ctx context.Context, changeID, message string, keys []string) {
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, keys...); err != nil {
			h.logger.Warn("settings cache invalidation failed", "category", model.EventCategoryCache,
				"change_id", changeID, "keys", strings.Join(keys, ","), "error", err)
		}
	}

	meta, _ := json.Marshal(map[string]string{"change_id": changeID, "keys": strings.Join(keys, ",")})
	if _, err := h.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySettings,
		Message:   message,
		Metadata:  string(meta),
		CreatedAt: h.now().UTC(),
	}); err != nil {
		h.logger.Warn("recording settings change failed", "category", model.EventCategorySettings, "change_id", changeID, "error", err)
	}

	h.logger.Info(message, "category", model.EventCategorySettings, "change_id", changeID, "keys", strings.Join(keys, ","))
}

// normalizeSettingValue validates a value for key and returns the form to store.
func normalizeSettingValue(key, value string) (string, error) {
	switch key {
	case model.SettingThemeColor:
		id := strings.TrimSpace(value)
		if id != "" && !theme.IsKnown(id) {
			return "", fmt.Errorf("unknown theme color %q; valid colors: %s", id, strings.Join(theme.Colors(), ", "))
		}
		return id, nil
	case model.SettingNoIndexEnabled:
		if value != "true" && value != "false" {
			return "", errors.New(`noindex_enabled must be "true" or "false"`)
		}
		return value, nil
	default:
		return value, nil
	}
}

// imageContentType picks the logo content type from the request header,
// falling back to sniffing. Only image types are accepted.
func imageContentType(header string, data []byte) (string, bool) {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
			return mt, true
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	if strings.HasPrefix(mt, "image/") {
		return mt, true
	}
	return "", false
}
