package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintlab/conflictradar/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]catalog.Situation{
			{Key: "us_iran", Name: "US-Iran Tensions", Keywords: []string{"iran", "strait of hormuz"}},
			{Key: "israel_gaza", Name: "Israel-Gaza War", Keywords: []string{"gaza", "israel"}},
			{Key: "taiwan_strait", Name: "Taiwan Strait", Keywords: []string{"taiwan", "strait"}},
		},
		[]catalog.Place{
			{Key: "tehran", Name: "Tehran", Lat: 35.6892, Lon: 51.389, Keywords: []string{"tehran"}},
			{Key: "tel_aviv", Name: "Tel Aviv", Lat: 32.0853, Lon: 34.7818, Keywords: []string{"tel aviv"}},
		},
	)
	require.NoError(t, err)
	return c
}

func TestClassifyMultiLabel(t *testing.T) {
	c := NewClassifier(testCatalog(t), nil)

	situations, places := c.Classify("Gaza talks stall as Iran weighs in", "")
	assert.Equal(t, []string{"us_iran", "israel_gaza"}, situations)
	assert.Empty(t, places)
}

func TestClassifyUncategorizedFallback(t *testing.T) {
	c := NewClassifier(testCatalog(t), nil)

	situations, places := c.Classify("Local bake sale raises funds", "community news")
	assert.Equal(t, []string{catalog.Uncategorized}, situations)
	assert.Empty(t, places)
}

func TestClassifySubstringInsideWord(t *testing.T) {
	c := NewClassifier(testCatalog(t), nil)

	// "iran" matches inside "Tehran": substring matching ignores word
	// boundaries on purpose.
	situations, places := c.Classify("Tensions rise near Tehran", "troops deployed to the gulf")
	assert.Equal(t, []string{"us_iran"}, situations)
	assert.Equal(t, []string{"tehran"}, places)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewClassifier(testCatalog(t), nil)

	situations, _ := c.Classify("GAZA UPDATE", "")
	assert.Equal(t, []string{"israel_gaza"}, situations)
}

func TestClassifyTitleOnly(t *testing.T) {
	c := NewClassifier(testCatalog(t), nil)

	situations, _ := c.Classify("Strait of Hormuz shipping resumes", "")
	// "strait of hormuz" hits us_iran and "strait" hits taiwan_strait:
	// overlapping keyword sets keep both labels.
	assert.Equal(t, []string{"us_iran", "taiwan_strait"}, situations)
}

func TestClassifyDescriptionMatch(t *testing.T) {
	c := NewClassifier(testCatalog(t), nil)

	situations, places := c.Classify("Morning briefing", "protests reported in Tel Aviv, Israel")
	assert.Equal(t, []string{"israel_gaza"}, situations)
	assert.Equal(t, []string{"tel_aviv"}, places)
}

type neverMatch struct{}

func (neverMatch) Match(text, phrase string) bool { return false }

func TestClassifyCustomStrategy(t *testing.T) {
	c := NewClassifier(testCatalog(t), neverMatch{})

	situations, places := c.Classify("Gaza and Iran and Taiwan", "")
	assert.Equal(t, []string{catalog.Uncategorized}, situations)
	assert.Empty(t, places)
}
