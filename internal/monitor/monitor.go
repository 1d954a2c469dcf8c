package monitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/osintlab/conflictradar/internal/catalog"
	"github.com/osintlab/conflictradar/pkg/classify"
	"github.com/osintlab/conflictradar/pkg/feed"
)

// Options tunes a Monitor. Zero values select the defaults.
type Options struct {
	// DescriptionLimit bounds item descriptions in characters (default 300).
	DescriptionLimit int
	// FetchTimeout bounds each per-feed fetch (default 30s).
	FetchTimeout time.Duration
	// CycleBudget bounds a whole refresh cycle; feeds not fetched when
	// it expires contribute nothing and the cycle publishes what it has
	// (default 90s).
	CycleBudget time.Duration
	// Parallelism bounds concurrent per-feed fetches (default 4).
	Parallelism int
	// CriticalThreshold is the distinct critical phrases needed for red
	// (default 1).
	CriticalThreshold int
	// CriticalPhrases and ElevatedPhrases override the default threat
	// phrase lists when non-nil.
	CriticalPhrases []string
	ElevatedPhrases []string
	// Strategy overrides the keyword match strategy (default substring).
	Strategy classify.MatchStrategy
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Monitor ties the feed registry, the classifier, the threat assessor
// and the published index together. It is the single writer of the
// snapshot; any number of readers query it concurrently.
type Monitor struct {
	cat        *catalog.Catalog
	classifier *classify.Classifier
	assessor   *classify.Assessor
	fetcher    feed.Fetcher
	reg        *registry
	log        *logrus.Logger
	now        func() time.Time

	descLimit    int
	fetchTimeout time.Duration
	cycleBudget  time.Duration
	parallelism  int

	// pubMu serializes snapshot publishes; reads go through the atomic
	// pointer and never block.
	pubMu   sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates a monitor over the given catalog and fetcher.
func New(cat *catalog.Catalog, fetcher feed.Fetcher, log *logrus.Logger, opts Options) *Monitor {
	if log == nil {
		log = logrus.New()
	}
	if opts.DescriptionLimit <= 0 {
		opts.DescriptionLimit = 300
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.CycleBudget <= 0 {
		opts.CycleBudget = 90 * time.Second
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Monitor{
		cat:          cat,
		classifier:   classify.NewClassifier(cat, opts.Strategy),
		assessor:     classify.NewAssessor(opts.CriticalPhrases, opts.ElevatedPhrases, opts.CriticalThreshold),
		fetcher:      fetcher,
		reg:          newRegistry(),
		log:          log,
		now:          opts.Now,
		descLimit:    opts.DescriptionLimit,
		fetchTimeout: opts.FetchTimeout,
		cycleBudget:  opts.CycleBudget,
		parallelism:  opts.Parallelism,
	}
	m.current.Store(buildSnapshot(cat, m.assessor, nil, opts.Now()))
	return m
}

// RegisterFeed validates and registers a feed, generating an id when
// none is supplied, then performs one synchronous fetch-classify pass
// so the feed's items are immediately visible in the published
// snapshot. A failing first fetch leaves the feed registered with no
// items; the next cycle retries it.
func (m *Monitor) RegisterFeed(ctx context.Context, name, url, kind, id string) (Feed, error) {
	if name == "" || url == "" {
		return Feed{}, fmt.Errorf("%w: name and url are required", ErrInvalidRegistration)
	}
	if id == "" {
		id = uuid.NewString()
	}

	f := Feed{ID: id, Name: name, URL: url, Kind: kind}
	if !m.reg.add(f) {
		return Feed{}, fmt.Errorf("%w: feed id %q already registered", ErrInvalidRegistration, id)
	}

	items, err := m.fetchFeed(ctx, f)
	if err != nil {
		m.log.WithFields(logrus.Fields{"feed": name, "url": url}).
			WithError(err).Warn("initial fetch failed, feed registered empty")
	} else {
		at := m.now()
		m.reg.setItems(id, items, at)
		f.Items = items
		f.LastRefreshedAt = &at

		// Copy-on-write append: readers keep seeing a consistent
		// snapshot, old or new, never a partial one.
		m.pubMu.Lock()
		m.current.Store(m.current.Load().withAppended(m.assessor, items, at))
		m.pubMu.Unlock()
	}

	return f, nil
}

// RemoveFeed deletes a feed. Its items remain in the published buckets
// until the next full rebuild.
func (m *Monitor) RemoveFeed(id string) error {
	if !m.reg.remove(id) {
		return fmt.Errorf("%w: %s", ErrUnknownFeed, id)
	}
	return nil
}

// ListFeeds returns all feeds in registration order.
func (m *Monitor) ListFeeds() []Feed { return m.reg.list() }

// Counts reports the number of registered feeds and the total items
// across their last fetches, for health reporting.
func (m *Monitor) Counts() (feeds, items int) { return m.reg.counts() }

// LastBuiltAt reports when the current snapshot was published.
func (m *Monitor) LastBuiltAt() time.Time { return m.current.Load().BuiltAt() }

// RefreshAll runs one full cycle: fetch every registered feed, classify
// the results and atomically publish a rebuilt snapshot. Per-feed
// failures are logged and contribute zero items for this cycle; the
// failing feed's previous items stay on the feed record but not in the
// rebuilt buckets. A cycle that exhausts its budget still publishes the
// feeds it fetched in time. Returns the cycle's classified items.
func (m *Monitor) RefreshAll(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cycleBudget)
	defer cancel()

	feeds := m.reg.list()

	type result struct {
		items []Item
		err   error
	}
	results := make([]result, len(feeds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.parallelism)
	for i := range feeds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			items, err := m.fetchFeed(ctx, feeds[i])
			results[i] = result{items: items, err: err}
		}(i)
	}
	wg.Wait()

	// Merge in registration order so bucket membership and ordering do
	// not depend on which fetch finished first.
	at := m.now()
	var collected []Item
	for i, f := range feeds {
		if results[i].err != nil {
			m.log.WithFields(logrus.Fields{"feed": f.Name, "url": f.URL}).
				WithError(results[i].err).Warn("fetch failed, feed skipped this cycle")
			continue
		}
		// Feeds removed mid-cycle drop out of the rebuild.
		if !m.reg.setItems(f.ID, results[i].items, at) {
			continue
		}
		collected = append(collected, results[i].items...)
	}

	m.pubMu.Lock()
	m.current.Store(buildSnapshot(m.cat, m.assessor, collected, at))
	m.pubMu.Unlock()

	if ctx.Err() != nil {
		m.log.WithField("budget", m.cycleBudget).
			Warn("cycle budget expired, published with fetched feeds only")
	}
	m.log.WithFields(logrus.Fields{"feeds": len(feeds), "items": len(collected)}).
		Info("published snapshot")
	return collected, nil
}

func (m *Monitor) fetchFeed(ctx context.Context, f Feed) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	defer cancel()

	raw, err := m.fetcher.Fetch(ctx, f.URL)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		situations, places := m.classifier.Classify(r.Title, r.Description)
		items = append(items, Item{
			Title:       r.Title,
			Description: truncate(r.Description, m.descLimit),
			Link:        r.Link,
			PublishedAt: r.PublishedAt,
			FeedID:      f.ID,
			Situations:  situations,
			Places:      places,
		})
	}
	return items, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
