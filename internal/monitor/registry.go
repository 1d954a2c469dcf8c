package monitor

import (
	"sync"
	"time"
)

// registry owns the mutable feed table. Mutations come from
// registration, removal and the refresh cycle's bookkeeping; all of
// them serialize on the mutex. Callers only ever receive copies.
type registry struct {
	mu    sync.Mutex
	feeds map[string]*Feed
	order []string
}

func newRegistry() *registry {
	return &registry{feeds: make(map[string]*Feed)}
}

// add inserts a feed. Returns false if the id is already taken.
func (r *registry) add(f Feed) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.feeds[f.ID]; exists {
		return false
	}
	r.feeds[f.ID] = &f
	r.order = append(r.order, f.ID)
	return true
}

// remove deletes a feed and reports whether it existed.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.feeds[id]; !exists {
		return false
	}
	delete(r.feeds, id)
	for i, fid := range r.order {
		if fid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns feed copies in registration order.
func (r *registry) list() []Feed {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Feed, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.feeds[id].clone())
	}
	return out
}

// setItems records a successful fetch for a feed. Returns false when
// the feed was removed in the meantime.
func (r *registry) setItems(id string, items []Item, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, exists := r.feeds[id]
	if !exists {
		return false
	}
	f.Items = append([]Item(nil), items...)
	f.LastRefreshedAt = &at
	return true
}

// counts returns the number of feeds and the total item count across
// their last fetches.
func (r *registry) counts() (feeds, items int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.feeds {
		items += len(f.Items)
	}
	return len(r.feeds), items
}
