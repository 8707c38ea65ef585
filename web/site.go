// Package web embeds the site pages and serves them with the navigation
// bar and role badge filled in for the requesting device.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/mechanics-site/internal/domain"
	"github.com/ashureev/mechanics-site/internal/identity"
	"github.com/ashureev/mechanics-site/internal/nav"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed pages/*.md templates/layout.html static
var siteFS embed.FS

// RoleSource reports the role of a device.
type RoleSource interface {
	CurrentRole(ctx context.Context, deviceID string) domain.Role
}

type page struct {
	title string
	body  template.HTML
}

type layoutData struct {
	Title string
	Nav   []nav.Link
	Role  domain.Role
	Body  template.HTML
}

// Site serves the rendered pages.
type Site struct {
	layout *template.Template
	links  []nav.Link
	pages  map[string]page
	roles  RoleSource
}

// NewSite renders every embedded page once. Navigation follows corpus
// order; each corpus URL must have a matching pages/<name>.md.
func NewSite(corpus []domain.PageRecord, roles RoleSource) (*Site, error) {
	layout, err := template.ParseFS(siteFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	s := &Site{
		layout: layout,
		pages:  make(map[string]page, len(corpus)),
		roles:  roles,
	}
	for _, rec := range corpus {
		src, err := fs.ReadFile(siteFS, "pages/"+strings.TrimSuffix(rec.URL, ".html")+".md")
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", rec.URL, err)
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rec.URL, err)
		}
		//nolint:gosec // page sources are embedded at build time.
		s.pages[rec.URL] = page{title: rec.Title, body: template.HTML(buf.String())}
		s.links = append(s.links, nav.Link{Label: rec.Title, Href: rec.URL})
	}
	return s, nil
}

// StaticHandler serves the embedded stylesheet and script.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(siteFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.FileServer(http.FS(sub))
}

// ServeHTTP renders the page named by the request path.
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := nav.CurrentPage(r.URL.Path)
	if name == "" {
		name = nav.HomePage
	}
	p, ok := s.pages[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	deviceID := identity.DeviceIDFromContext(r.Context())
	data := layoutData{
		Title: p.title,
		Nav:   nav.Highlight(r.URL.Path, s.links),
		Role:  s.roles.CurrentRole(r.Context(), deviceID),
		Body:  p.body,
	}

	var buf bytes.Buffer
	if err := s.layout.Execute(&buf, data); err != nil {
		slog.Error("Failed to render page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("web: failed to write page", "page", name, "error", err)
	}
}
