package monitor

import (
	"time"

	"github.com/osintlab/conflictradar/internal/catalog"
	"github.com/osintlab/conflictradar/pkg/classify"
)

// Bucket is the set of items currently classified under one catalog
// key, plus the threat level derived from them.
type Bucket struct {
	Items  []Item
	Threat classify.Level
}

// Snapshot is a fully built index produced by one refresh cycle. It is
// immutable after publish: readers share it freely without locking, and
// updates replace the whole snapshot through one pointer swap.
type Snapshot struct {
	builtAt    time.Time
	situations map[string]Bucket
	places     map[string]Bucket
}

// BuiltAt reports when the snapshot was published.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// buildSnapshot derives a complete index from one cycle's classified
// items. Every situation key (plus uncategorized) and every place key
// gets a bucket, empty ones included, so the published key set is
// always the closed catalog.
func buildSnapshot(cat *catalog.Catalog, assessor *classify.Assessor, items []Item, at time.Time) *Snapshot {
	s := &Snapshot{
		builtAt:    at,
		situations: make(map[string]Bucket, len(cat.Situations())+1),
		places:     make(map[string]Bucket, len(cat.Places())),
	}

	for _, sit := range cat.Situations() {
		s.situations[sit.Key] = Bucket{Threat: classify.LevelGreen}
	}
	s.situations[catalog.Uncategorized] = Bucket{Threat: classify.LevelGreen}
	for _, p := range cat.Places() {
		s.places[p.Key] = Bucket{Threat: classify.LevelGreen}
	}

	for _, it := range items {
		for _, key := range it.Situations {
			b := s.situations[key]
			b.Items = append(b.Items, it)
			s.situations[key] = b
		}
		for _, key := range it.Places {
			b := s.places[key]
			b.Items = append(b.Items, it)
			s.places[key] = b
		}
	}

	assessAll(assessor, s.situations)
	assessAll(assessor, s.places)
	return s
}

// withAppended returns a new snapshot equal to s plus the given items.
// Untouched buckets are shared with the old snapshot; touched buckets
// are copied, extended and re-assessed. Used by the registration fast
// path so new feeds become visible without waiting for the next cycle.
func (s *Snapshot) withAppended(assessor *classify.Assessor, items []Item, at time.Time) *Snapshot {
	next := &Snapshot{
		builtAt:    at,
		situations: make(map[string]Bucket, len(s.situations)),
		places:     make(map[string]Bucket, len(s.places)),
	}
	for k, b := range s.situations {
		next.situations[k] = b
	}
	for k, b := range s.places {
		next.places[k] = b
	}

	touchedSit := make(map[string]bool)
	touchedPlace := make(map[string]bool)

	for _, it := range items {
		for _, key := range it.Situations {
			b := next.situations[key]
			if !touchedSit[key] {
				b.Items = append([]Item(nil), b.Items...)
				touchedSit[key] = true
			}
			b.Items = append(b.Items, it)
			next.situations[key] = b
		}
		for _, key := range it.Places {
			b := next.places[key]
			if !touchedPlace[key] {
				b.Items = append([]Item(nil), b.Items...)
				touchedPlace[key] = true
			}
			b.Items = append(b.Items, it)
			next.places[key] = b
		}
	}

	for key := range touchedSit {
		b := next.situations[key]
		b.Threat = assessBucket(assessor, b)
		next.situations[key] = b
	}
	for key := range touchedPlace {
		b := next.places[key]
		b.Threat = assessBucket(assessor, b)
		next.places[key] = b
	}

	return next
}

func assessAll(assessor *classify.Assessor, buckets map[string]Bucket) {
	for key, b := range buckets {
		b.Threat = assessBucket(assessor, b)
		buckets[key] = b
	}
}

func assessBucket(assessor *classify.Assessor, b Bucket) classify.Level {
	texts := make([]string, len(b.Items))
	for i, it := range b.Items {
		texts[i] = it.text()
	}
	return assessor.Assess(texts)
}
