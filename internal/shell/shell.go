// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shell composes the storefront document: root element with theme
// variables, head metadata, and the shared header, footer and mobile
// navigation around page content.
package shell

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/seo"
	"github.com/zsqnb999/ldc-shop/internal/settings"
	"github.com/zsqnb999/ldc-shop/internal/theme"
)

//go:embed all:templates
var templatesFS embed.FS

// Page names.
const (
	PageHome     = "home"
	PageNotFound = "404"
)

const baseLayout = "layouts/base.html"

// PageData is everything a page template can see.
type PageData struct {
	Metadata   seo.Metadata
	Theme      theme.Parameters
	ThemeColor string // stored theme_color as read; empty when absent or unreadable
	Year       int
	Content    any
}

// NewPageData resolves metadata and theme from a settings snapshot.
func NewPageData(snap settings.Snapshot) PageData {
	return PageData{
		Metadata:   seo.ResolveMetadata(snap),
		Theme:      theme.ResolveTheme(snap),
		ThemeColor: snap.Get(model.SettingThemeColor).Or(""),
		Year:       time.Now().Year(),
	}
}

// Composer renders pages inside the shared layout.
type Composer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Composer, error) {
	return NewFromFS(templatesFS, "templates")
}

// NewFromFS parses templates rooted at dir in fsys. Every file under pages/
// becomes a page named after its base name.
func NewFromFS(fsys fs.FS, dir string) (*Composer, error) {
	root, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("opening templates: %w", err)
	}

	partials, err := htmlFiles(root, "partials")
	if err != nil {
		return nil, fmt.Errorf("getting partials: %w", err)
	}
	pageFiles, err := htmlFiles(root, "pages")
	if err != nil {
		return nil, fmt.Errorf("getting pages: %w", err)
	}

	c := &Composer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")

		files := append([]string{baseLayout}, partials...)
		files = append(files, file)

		tmpl, err := template.New(name).ParseFS(root, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		c.pages[name] = tmpl
	}

	return c, nil
}

func htmlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page with the given name exists.
func (c *Composer) Has(page string) bool {
	_, ok := c.pages[page]
	return ok
}

// Render writes the named page wrapped in the layout. Output is buffered so a
// template error never leaves a half-written document.
func (c *Composer) Render(w io.Writer, page string, data PageData) error {
	tmpl, ok := c.pages[page]
	if !ok {
		return fmt.Errorf("template %s not found", page)
	}

	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
