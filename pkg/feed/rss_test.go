package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Wire</title>
<link>http://example.com</link>
<item>
  <title>First headline</title>
  <description><![CDATA[<p>Tensions <b>rising</b> in the region</p>]]></description>
  <link>http://example.com/1</link>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Second headline</title>
  <description>plain text body</description>
  <link>http://example.com/2</link>
</item>
<item>
  <title>Third headline</title>
  <description>dropped by page size</description>
  <link>http://example.com/3</link>
</item>
</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	r := NewRSS(2, 0)
	items, err := r.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	// Page size bounds the result.
	require.Len(t, items, 2)

	assert.Equal(t, "First headline", items[0].Title)
	assert.Equal(t, "Tensions rising in the region", items[0].Description)
	assert.Equal(t, "http://example.com/1", items[0].Link)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", items[0].PublishedAt)

	assert.Equal(t, "plain text body", items[1].Description)
	assert.Empty(t, items[1].PublishedAt)
}

func TestRSSFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewRSS(15, 0)
	_, err := r.Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 503")
}

func TestRSSFetchParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	r := NewRSS(15, 0)
	_, err := r.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<p>hello <b>world</b></p>", "hello world"},
		{"<p>a</p> <p>b</p>", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripHTML(tt.in))
	}
}
