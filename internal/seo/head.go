// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

// Tag is a single <meta> or <link> element for the document head.
// Meta tags set Name, link tags set Rel.
type Tag struct {
	Element string // "meta" or "link"
	Name    string // meta name
	Rel     string // link rel
	Content string // meta content
	Href    string // link href
}

// HeadTags returns the head elements for m in document order. The <title>
// element is rendered separately from m.Title.
func (m Metadata) HeadTags() []Tag {
	tags := []Tag{
		{Element: "meta", Name: "description", Content: m.Description},
	}

	if content := m.Robots.Content(); content != "" {
		tags = append(tags, Tag{Element: "meta", Name: "robots", Content: content})
	}

	tags = append(tags,
		Tag{Element: "link", Rel: "manifest", Href: m.Manifest},
		Tag{Element: "link", Rel: "icon", Href: m.Icons.Icon},
		Tag{Element: "link", Rel: "shortcut icon", Href: m.Icons.Shortcut},
		Tag{Element: "link", Rel: "apple-touch-icon", Href: m.Icons.Apple},
	)

	if m.AppleWebApp.Capable {
		tags = append(tags,
			Tag{Element: "meta", Name: "apple-mobile-web-app-capable", Content: "yes"},
			Tag{Element: "meta", Name: "apple-mobile-web-app-title", Content: m.AppleWebApp.Title},
			Tag{Element: "meta", Name: "apple-mobile-web-app-status-bar-style", Content: m.AppleWebApp.StatusBarStyle},
		)
	}

	if !m.FormatDetection.Telephone {
		tags = append(tags, Tag{Element: "meta", Name: "format-detection", Content: "telephone=no"})
	}

	if m.MobileWebAppCapable != "" {
		tags = append(tags, Tag{Element: "meta", Name: "mobile-web-app-capable", Content: m.MobileWebAppCapable})
	}

	return tags
}
