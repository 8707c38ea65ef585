// Package domain contains core domain types for the mechanics site.
package domain

// PageRecord is one searchable page of the site. URL is its identity.
type PageRecord struct {
	Title string `json:"title" koanf:"title"`
	URL   string `json:"url" koanf:"url"`
	Tags  string `json:"tags" koanf:"tags"`
}

// MatchText returns the text a search query is matched against.
func (p PageRecord) MatchText() string {
	return p.Title + " " + p.Tags
}
