// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web holds static assets compiled into the binary.
package web

import _ "embed"

// DefaultFavicon is served at /favicon until a shop logo is uploaded.
//
//go:embed static/favicon.svg
var DefaultFavicon []byte

// DefaultFaviconType is the content type of DefaultFavicon.
const DefaultFaviconType = "image/svg+xml"
