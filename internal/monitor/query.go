package monitor

import (
	"github.com/osintlab/conflictradar/internal/catalog"
	"github.com/osintlab/conflictradar/pkg/classify"
)

// SituationView is the query-surface shape of one situation bucket.
// Count is the full bucket size even when Items is capped.
type SituationView struct {
	Name   string         `json:"name"`
	Threat classify.Level `json:"threat_level"`
	Count  int            `json:"count"`
	Items  []Item         `json:"items"`
	Places []string       `json:"places,omitempty"`
}

// PlaceView is the query-surface shape of one place bucket.
type PlaceView struct {
	Name    string         `json:"name"`
	Country string         `json:"country,omitempty"`
	Lat     float64        `json:"lat"`
	Lon     float64        `json:"lon"`
	Threat  classify.Level `json:"threat_level"`
	Count   int            `json:"count"`
	Items   []Item         `json:"items"`
}

// ThreatState pairs a bucket's display name with its current level and
// size.
type ThreatState struct {
	Name  string
	Level classify.Level
	Count int
}

// SituationSnapshot returns every situation bucket (uncategorized
// included) from the current snapshot. maxItems caps the items per
// bucket; <= 0 returns all.
func (m *Monitor) SituationSnapshot(maxItems int) map[string]SituationView {
	snap := m.current.Load()
	out := make(map[string]SituationView, len(snap.situations))
	for key, b := range snap.situations {
		out[key] = m.situationView(key, b, maxItems)
	}
	return out
}

// SituationBucket returns one situation bucket by key.
func (m *Monitor) SituationBucket(key string, maxItems int) (SituationView, bool) {
	b, ok := m.current.Load().situations[key]
	if !ok {
		return SituationView{}, false
	}
	return m.situationView(key, b, maxItems), true
}

// PlaceSnapshot returns every place bucket from the current snapshot.
func (m *Monitor) PlaceSnapshot(maxItems int) map[string]PlaceView {
	snap := m.current.Load()
	out := make(map[string]PlaceView, len(snap.places))
	for key, b := range snap.places {
		out[key] = m.placeView(key, b, maxItems)
	}
	return out
}

// PlaceBucket returns one place bucket by key.
func (m *Monitor) PlaceBucket(key string, maxItems int) (PlaceView, bool) {
	b, ok := m.current.Load().places[key]
	if !ok {
		return PlaceView{}, false
	}
	return m.placeView(key, b, maxItems), true
}

// SituationThreats returns the current threat level per situation key.
// The scheduler diffs consecutive results to detect escalations.
func (m *Monitor) SituationThreats() map[string]ThreatState {
	snap := m.current.Load()
	out := make(map[string]ThreatState, len(snap.situations))
	for key, b := range snap.situations {
		out[key] = ThreatState{Name: m.situationName(key), Level: b.Threat, Count: len(b.Items)}
	}
	return out
}

func (m *Monitor) situationView(key string, b Bucket, maxItems int) SituationView {
	v := SituationView{
		Name:   m.situationName(key),
		Threat: b.Threat,
		Count:  len(b.Items),
		Items:  capItems(b.Items, maxItems),
	}
	if sit, ok := m.cat.Situation(key); ok {
		v.Places = sit.Places
	}
	return v
}

func (m *Monitor) placeView(key string, b Bucket, maxItems int) PlaceView {
	v := PlaceView{
		Threat: b.Threat,
		Count:  len(b.Items),
		Items:  capItems(b.Items, maxItems),
	}
	if p, ok := m.cat.Place(key); ok {
		v.Name = p.Name
		v.Country = p.Country
		v.Lat = p.Lat
		v.Lon = p.Lon
	}
	return v
}

func (m *Monitor) situationName(key string) string {
	if key == catalog.Uncategorized {
		return catalog.UncategorizedName
	}
	if sit, ok := m.cat.Situation(key); ok {
		return sit.Name
	}
	return key
}

func capItems(items []Item, max int) []Item {
	if max <= 0 || len(items) <= max {
		return items
	}
	return items[:max]
}
