package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintlab/conflictradar/internal/catalog"
	"github.com/osintlab/conflictradar/internal/monitor"
	"github.com/osintlab/conflictradar/internal/scheduler"
	"github.com/osintlab/conflictradar/pkg/feed"
)

type stubFetcher struct {
	items map[string][]feed.RawItem
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]feed.RawItem, error) {
	return s.items[url], nil
}

func testServer(t *testing.T) (*httptest.Server, *monitor.Monitor) {
	t.Helper()

	cat, err := catalog.New(
		[]catalog.Situation{
			{Key: "us_iran", Name: "US-Iran Tensions", Keywords: []string{"iran"}},
		},
		[]catalog.Place{
			{Key: "tehran", Name: "Tehran", Lat: 35.6892, Lon: 51.389, Keywords: []string{"tehran"}},
		},
	)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	fetcher := &stubFetcher{items: map[string][]feed.RawItem{
		"http://wire": {{Title: "Tensions rise near Tehran", Description: "troops deployed"}},
	}}

	m := monitor.New(cat, fetcher, log, monitor.Options{})
	sched := scheduler.New(m, nil, nil, 0, log)

	srv := httptest.NewServer(New(m, sched, log, 0, 50).Handler())
	t.Cleanup(srv.Close)
	return srv, m
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	var body map[string]any
	status := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterAndQueryConflicts(t *testing.T) {
	srv, _ := testServer(t)

	payload := bytes.NewBufferString(`{"name":"wire","url":"http://wire","kind":"rss"}`)
	resp, err := http.Post(srv.URL+"/api/v1/feeds", "application/json", payload)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created monitor.Feed
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.Items, 1)

	// The registration fast path makes the item immediately queryable.
	var conflicts map[string]monitor.SituationView
	status := getJSON(t, srv.URL+"/api/v1/conflicts", &conflicts)
	require.Equal(t, http.StatusOK, status)

	v := conflicts["us_iran"]
	assert.Equal(t, 1, v.Count)
	assert.Equal(t, "yellow", string(v.Threat))
	assert.Contains(t, conflicts, "uncategorized")
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/feeds", "application/json",
		bytes.NewBufferString(`{"name":"","url":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCities(t *testing.T) {
	srv, m := testServer(t)
	_, err := m.RegisterFeed(context.Background(), "wire", "http://wire", "rss", "")
	require.NoError(t, err)

	var cities map[string]monitor.PlaceView
	status := getJSON(t, srv.URL+"/api/v1/cities", &cities)
	require.Equal(t, http.StatusOK, status)

	tehran := cities["tehran"]
	assert.Equal(t, 1, tehran.Count)
	assert.InDelta(t, 35.6892, tehran.Lat, 0.001)
}

func TestListAndRemoveFeed(t *testing.T) {
	srv, m := testServer(t)
	_, err := m.RegisterFeed(context.Background(), "wire", "http://wire", "rss", "feed-1")
	require.NoError(t, err)

	var listed struct {
		Data  []monitor.Feed `json:"data"`
		Count int            `json:"count"`
	}
	getJSON(t, srv.URL+"/api/v1/feeds", &listed)
	require.Equal(t, 1, listed.Count)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/feeds/feed-1", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/feeds/feed-1", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestManualRefresh(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["triggered_at"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/conflicts", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
