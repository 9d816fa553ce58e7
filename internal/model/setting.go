// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting keys read by the storefront shell.
const (
	SettingShopName          = "shop_name"
	SettingShopDescription   = "shop_description"
	SettingNoIndexEnabled    = "noindex_enabled"
	SettingShopLogoUpdatedAt = "shop_logo_updated_at"
	SettingThemeColor        = "theme_color"
)

// Setting keys written by the admin API but never read during page rendering.
const (
	SettingShopLogo     = "shop_logo"
	SettingShopLogoType = "shop_logo_type"
)

// ShellSettingKeys is the fixed set of keys resolved on every page render.
var ShellSettingKeys = []string{
	SettingShopName,
	SettingShopDescription,
	SettingNoIndexEnabled,
	SettingShopLogoUpdatedAt,
	SettingThemeColor,
}

// EditableSettingKeys lists keys the admin API accepts through the generic
// settings endpoint. Logo data goes through its own endpoint.
var EditableSettingKeys = []string{
	SettingShopName,
	SettingShopDescription,
	SettingNoIndexEnabled,
	SettingThemeColor,
}

// IsEditableSettingKey checks if a key may be written through the settings API.
func IsEditableSettingKey(key string) bool {
	for _, k := range EditableSettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Setting represents a stored site setting.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
