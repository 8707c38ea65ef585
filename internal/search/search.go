// Package search implements keyword search over the fixed page corpus.
package search

import (
	"strings"

	"github.com/ashureev/mechanics-site/internal/domain"
)

// NoResultsNotice is shown when a search ran and matched nothing.
const NoResultsNotice = "No results. Try broader terms."

// Match returns the records whose title and tags contain query,
// ignoring case, in corpus order. An empty query matches nothing.
func Match(query string, corpus []domain.PageRecord) []domain.PageRecord {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var matches []domain.PageRecord
	for _, p := range corpus {
		if strings.Contains(strings.ToLower(p.MatchText()), needle) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Result is the outcome of one query against an Index.
type Result struct {
	Query    string
	Searched bool
	Pages    []domain.PageRecord
}

// NoResults reports whether a search ran and found nothing.
func (r Result) NoResults() bool {
	return r.Searched && len(r.Pages) == 0
}

// Index is an immutable set of searchable pages.
type Index struct {
	pages []domain.PageRecord
}

// NewIndex creates an index over a copy of pages.
func NewIndex(pages []domain.PageRecord) *Index {
	cp := make([]domain.PageRecord, len(pages))
	copy(cp, pages)
	return &Index{pages: cp}
}

// Pages returns a copy of the indexed corpus.
func (ix *Index) Pages() []domain.PageRecord {
	cp := make([]domain.PageRecord, len(ix.pages))
	copy(cp, ix.pages)
	return cp
}

// Search runs query against the index.
func (ix *Index) Search(query string) Result {
	return Result{
		Query:    query,
		Searched: query != "",
		Pages:    Match(query, ix.pages),
	}
}
