// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the storefront and its admin API.
package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot     = "/"
	RouteFavicon  = "/favicon"
	RouteManifest = "/manifest.json"
	RouteRobots   = "/robots.txt"

	RouteHealth     = "/health"
	RouteHealthLive = "/health/live"

	RouteAPI         = "/api"
	RouteSettings    = "/settings"
	RouteSettingsKey = "/settings/{key}"
	RouteLogo        = "/logo"
	RouteEvents      = "/events"
)
