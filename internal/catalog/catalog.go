// Package catalog holds the static situation and place definitions used
// for classification. A catalog is loaded once at startup and never
// mutated afterwards.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Uncategorized is the fallback situation key assigned to items that
// match no situation in the catalog.
const Uncategorized = "uncategorized"

// UncategorizedName is the display name used for the fallback bucket.
const UncategorizedName = "Other News"

// Situation is a named conflict or political topic with the keyword
// sets used for classification.
type Situation struct {
	Key                string   `yaml:"key"`
	Name               string   `yaml:"name"`
	Keywords           []string `yaml:"keywords"`
	EscalationKeywords []string `yaml:"escalation_keywords"`
	Places             []string `yaml:"places"`
}

// Place is a named city with coordinates and a keyword set.
type Place struct {
	Key      string   `yaml:"key"`
	Name     string   `yaml:"name"`
	Lat      float64  `yaml:"lat"`
	Lon      float64  `yaml:"lon"`
	Country  string   `yaml:"country"`
	Keywords []string `yaml:"keywords"`
}

// Catalog is an immutable set of situations and places. Iteration order
// is the definition order, which keeps classification output stable.
type Catalog struct {
	situations   []Situation
	places       []Place
	situationIdx map[string]int
	placeIdx     map[string]int
}

// New builds and validates a catalog. Keys must be unique, keyword sets
// non-empty; all keywords are lowercased.
func New(situations []Situation, places []Place) (*Catalog, error) {
	c := &Catalog{
		situations:   make([]Situation, len(situations)),
		places:       make([]Place, len(places)),
		situationIdx: make(map[string]int, len(situations)),
		placeIdx:     make(map[string]int, len(places)),
	}

	for i, s := range situations {
		if s.Key == "" {
			return nil, fmt.Errorf("situation %d: missing key", i)
		}
		if s.Key == Uncategorized {
			return nil, fmt.Errorf("situation key %q is reserved", Uncategorized)
		}
		if _, dup := c.situationIdx[s.Key]; dup {
			return nil, fmt.Errorf("duplicate situation key %q", s.Key)
		}
		if len(s.Keywords) == 0 {
			return nil, fmt.Errorf("situation %q: empty keyword set", s.Key)
		}
		s.Keywords = lowerAll(s.Keywords)
		s.EscalationKeywords = lowerAll(s.EscalationKeywords)
		c.situations[i] = s
		c.situationIdx[s.Key] = i
	}

	for i, p := range places {
		if p.Key == "" {
			return nil, fmt.Errorf("place %d: missing key", i)
		}
		if _, dup := c.placeIdx[p.Key]; dup {
			return nil, fmt.Errorf("duplicate place key %q", p.Key)
		}
		if len(p.Keywords) == 0 {
			return nil, fmt.Errorf("place %q: empty keyword set", p.Key)
		}
		p.Keywords = lowerAll(p.Keywords)
		c.places[i] = p
		c.placeIdx[p.Key] = i
	}

	for _, s := range c.situations {
		for _, pk := range s.Places {
			if _, ok := c.placeIdx[pk]; !ok {
				return nil, fmt.Errorf("situation %q references unknown place %q", s.Key, pk)
			}
		}
	}

	return c, nil
}

// catalogFile is the YAML shape accepted by LoadFile.
type catalogFile struct {
	Situations []Situation `yaml:"situations"`
	Places     []Place     `yaml:"places"`
}

// LoadFile reads a catalog definition from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c, err := New(file.Situations, file.Places)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Situations returns all situations in definition order.
func (c *Catalog) Situations() []Situation { return c.situations }

// Places returns all places in definition order.
func (c *Catalog) Places() []Place { return c.places }

// Situation looks up one situation by key.
func (c *Catalog) Situation(key string) (Situation, bool) {
	i, ok := c.situationIdx[key]
	if !ok {
		return Situation{}, false
	}
	return c.situations[i], true
}

// Place looks up one place by key.
func (c *Catalog) Place(key string) (Place, bool) {
	i, ok := c.placeIdx[key]
	if !ok {
		return Place{}, false
	}
	return c.places[i], true
}

func lowerAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return out
}
