// Package monitor is the classification-and-indexing core: it owns the
// feed registry, runs refresh cycles through the classifier, and
// publishes immutable index snapshots for the query surface.
package monitor

import (
	"errors"
	"time"
)

var (
	// ErrUnknownFeed is returned for operations on a feed id that is
	// not registered.
	ErrUnknownFeed = errors.New("unknown feed")

	// ErrInvalidRegistration is returned when a registration is missing
	// required fields or reuses an existing id.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Item is a single classified entry. Items are immutable once produced
// by the classifier.
type Item struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	PublishedAt string   `json:"published_at"`
	FeedID      string   `json:"feed_id"`
	Situations  []string `json:"situations"`
	Places      []string `json:"places"`
}

func (it Item) text() string { return it.Title + " " + it.Description }

// Feed is one registered source. Items holds the most recent successful
// fetch, bounded by the fetcher's page size.
type Feed struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	Kind            string     `json:"kind"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
	Items           []Item     `json:"items"`
}

func (f *Feed) clone() Feed {
	out := *f
	if f.LastRefreshedAt != nil {
		at := *f.LastRefreshedAt
		out.LastRefreshedAt = &at
	}
	out.Items = append([]Item(nil), f.Items...)
	return out
}
