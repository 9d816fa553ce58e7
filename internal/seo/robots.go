// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	DisallowAll   bool     // Block all crawlers
	DisallowPaths []string // Paths to disallow in addition to the defaults
}

// defaultDisallow are never meant for crawlers.
var defaultDisallow = []string{
	"/admin",
	"/api",
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if b.config.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	paths := append([]string{}, defaultDisallow...)
	paths = append(paths, b.config.DisallowPaths...)
	for _, path := range paths {
		sb.WriteString("Disallow: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: /\n")

	return sb.String()
}

// BuildRobots generates robots.txt for the resolved metadata. A noindex
// shop blocks all crawlers.
func BuildRobots(m Metadata) string {
	return NewRobotsBuilder(RobotsConfig{
		DisallowAll: m.Robots == RobotsNoIndex,
	}).Build()
}
