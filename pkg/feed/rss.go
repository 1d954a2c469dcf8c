package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "conflictradar/1.0"

// RSS fetches items from RSS/Atom feeds. One instance is shared across
// all registered feeds; the limiter paces requests across them.
type RSS struct {
	client    *http.Client
	parser    *gofeed.Parser
	limiter   *rate.Limiter
	pageSize  int
	userAgent string
}

// NewRSS creates an RSS fetcher. pageSize bounds how many entries one
// fetch returns; perSecond bounds the request rate across feeds
// (<= 0 disables pacing).
func NewRSS(pageSize int, perSecond float64) *RSS {
	if pageSize <= 0 {
		pageSize = 15
	}
	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &RSS{
		client:    &http.Client{Timeout: 30 * time.Second},
		parser:    gofeed.NewParser(),
		limiter:   limiter,
		pageSize:  pageSize,
		userAgent: defaultUserAgent,
	}
}

// Fetch pulls the feed at url and returns up to pageSize raw items in
// source order, with descriptions stripped of markup.
func (r *RSS) Fetch(ctx context.Context, url string) ([]RawItem, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create rss request %s: %w", url, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss %s status %d", url, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", url, err)
	}

	var items []RawItem
	for _, entry := range parsed.Items {
		if len(items) >= r.pageSize {
			break
		}

		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}

		published := entry.Published
		if published == "" {
			published = entry.Updated
		}

		items = append(items, RawItem{
			Title:       StripHTML(entry.Title),
			Description: StripHTML(entry.Description),
			Link:        link,
			PublishedAt: published,
		})
	}

	return items, nil
}
