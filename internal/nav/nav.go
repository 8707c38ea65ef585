// Package nav marks the navigation link for the page being viewed.
package nav

import "strings"

// HomePage is the page treated as current at the site root.
const HomePage = "index.html"

// Link is one entry of the top navigation bar.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// CurrentPage returns the last path segment of urlPath.
func CurrentPage(urlPath string) string {
	if i := strings.LastIndex(urlPath, "/"); i >= 0 {
		return urlPath[i+1:]
	}
	return urlPath
}

// Highlight returns a copy of links with Active set on every link whose
// href ends with the current page. At the site root only the home link
// is active.
func Highlight(urlPath string, links []Link) []Link {
	page := CurrentPage(urlPath)
	if page == "" {
		page = HomePage
	}
	out := make([]Link, len(links))
	for i, l := range links {
		l.Active = l.Href != "" && strings.HasSuffix(l.Href, page)
		out[i] = l
	}
	return out
}
