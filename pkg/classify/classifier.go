// Package classify maps item text to catalog labels and derives threat
// levels from keyword presence.
package classify

import (
	"strings"

	"github.com/osintlab/conflictradar/internal/catalog"
)

// MatchStrategy decides whether a phrase occurs in normalized text.
// The default is plain substring matching: "iran" matches inside
// "iranian" and inside unrelated words that happen to contain it. That
// is a known source of false positives and is kept deliberately; swap
// the strategy if precision work is ever needed.
type MatchStrategy interface {
	Match(text, phrase string) bool
}

// SubstringMatch is the default case-insensitive substring strategy.
// Callers pass text that is already lowercased; phrases are lowercased
// at catalog load.
type SubstringMatch struct{}

func (SubstringMatch) Match(text, phrase string) bool {
	return strings.Contains(text, phrase)
}

// Classifier assigns situation and place labels to item text.
type Classifier struct {
	cat      *catalog.Catalog
	strategy MatchStrategy
}

// NewClassifier creates a classifier over the given catalog. A nil
// strategy selects SubstringMatch.
func NewClassifier(cat *catalog.Catalog, strategy MatchStrategy) *Classifier {
	if strategy == nil {
		strategy = SubstringMatch{}
	}
	return &Classifier{cat: cat, strategy: strategy}
}

// Classify returns the situation keys and place keys matching the given
// title and description. A situation matches when any of its keywords
// occurs in the text; multiple situations may match at once. The
// situation set is never empty: when nothing matches it is exactly
// {uncategorized}. The place set may be empty. Results follow catalog
// definition order.
func (c *Classifier) Classify(title, description string) (situations, places []string) {
	text := strings.ToLower(title + " " + description)

	for _, s := range c.cat.Situations() {
		if c.anyMatch(text, s.Keywords) {
			situations = append(situations, s.Key)
		}
	}
	if len(situations) == 0 {
		situations = []string{catalog.Uncategorized}
	}

	for _, p := range c.cat.Places() {
		if c.anyMatch(text, p.Keywords) {
			places = append(places, p.Key)
		}
	}

	return situations, places
}

func (c *Classifier) anyMatch(text string, phrases []string) bool {
	for _, p := range phrases {
		if c.strategy.Match(text, p) {
			return true
		}
	}
	return false
}
