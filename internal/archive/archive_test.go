package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintlab/conflictradar/internal/monitor"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveCycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	items := []monitor.Item{
		{
			Title:       "Iran dispatch",
			Description: "tensions rising",
			Link:        "http://example.com/1",
			PublishedAt: "Mon, 02 Jan 2006 15:04:05 GMT",
			FeedID:      "feed-1",
			Situations:  []string{"us_iran"},
			Places:      []string{"tehran"},
		},
		{
			Title:      "Gaza dispatch",
			FeedID:     "feed-2",
			Situations: []string{"israel_gaza"},
		},
	}

	require.NoError(t, s.SaveCycle(ctx, time.Now(), items))

	n, err := s.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A second cycle appends rather than replaces.
	require.NoError(t, s.SaveCycle(ctx, time.Now(), items[:1]))
	n, err = s.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSaveCycleEmpty(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCycle(ctx, time.Now(), nil))

	n, err := s.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
