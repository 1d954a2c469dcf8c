// Package feed fetches raw items from syndicated sources.
package feed

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawItem is one entry as obtained from a source, before classification.
// PublishedAt carries the source's own timestamp string; it is
// best-effort and never guaranteed well-formed.
type RawItem struct {
	Title       string
	Description string
	Link        string
	PublishedAt string
}

// Fetcher pulls the most recent items for one source URL. A fetcher
// returns an error on network or parse failure and must never panic
// past this boundary; the caller contains failures per feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]RawItem, error)
}

// StripHTML reduces markup to its visible text with whitespace
// collapsed. Input without markup passes through unchanged.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
