package alert

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEscalation() *Escalation {
	return &Escalation{
		Situation: "us_iran",
		Name:      "US-Iran Tensions",
		Level:     "red",
		Previous:  "yellow",
		Count:     3,
		At:        time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

type captured struct {
	header http.Header
	body   []byte
}

func captureServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		c.header = r.Header.Clone()
		c.body = body
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestSlackSend(t *testing.T) {
	srv, c := captureServer(t, http.StatusOK)

	s := NewSlack(srv.URL)
	require.NoError(t, s.Send(context.Background(), testEscalation()))

	assert.Equal(t, "application/json", c.header.Get("Content-Type"))

	var payload struct {
		Blocks []struct {
			Type string `json:"type"`
			Text struct {
				Text string `json:"text"`
			} `json:"text"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(c.body, &payload))
	require.Len(t, payload.Blocks, 2)
	assert.Equal(t, "header", payload.Blocks[0].Type)
	assert.Contains(t, payload.Blocks[0].Text.Text, "US-Iran Tensions")
	assert.Contains(t, payload.Blocks[1].Text.Text, "yellow")
	assert.Contains(t, payload.Blocks[1].Text.Text, "red")
}

func TestSlackSendNon200(t *testing.T) {
	srv, _ := captureServer(t, http.StatusInternalServerError)

	s := NewSlack(srv.URL)
	err := s.Send(context.Background(), testEscalation())
	assert.ErrorContains(t, err, "status 500")
}

func TestDiscordSend(t *testing.T) {
	srv, c := captureServer(t, http.StatusNoContent)

	d := NewDiscord(srv.URL)
	require.NoError(t, d.Send(context.Background(), testEscalation()))

	var payload struct {
		Embeds []struct {
			Title     string `json:"title"`
			Color     int    `json:"color"`
			Timestamp string `json:"timestamp"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(c.body, &payload))
	require.Len(t, payload.Embeds, 1)
	assert.Contains(t, payload.Embeds[0].Title, "US-Iran Tensions")
	assert.Equal(t, levelColor("red"), payload.Embeds[0].Color)
	assert.Equal(t, "2026-08-28T12:00:00Z", payload.Embeds[0].Timestamp)
}

func TestWebhookSendSignsPayload(t *testing.T) {
	srv, c := captureServer(t, http.StatusOK)

	w := NewWebhook(srv.URL, "s3cret")
	require.NoError(t, w.Send(context.Background(), testEscalation()))

	assert.Equal(t, "conflictradar/1.0", c.header.Get("User-Agent"))

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(c.body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	assert.Equal(t, want, c.header.Get("X-Signature-256"))

	var e Escalation
	require.NoError(t, json.Unmarshal(c.body, &e))
	assert.Equal(t, "us_iran", e.Situation)
	assert.Equal(t, 3, e.Count)
}

func TestWebhookSendNoSecret(t *testing.T) {
	srv, c := captureServer(t, http.StatusOK)

	w := NewWebhook(srv.URL, "")
	require.NoError(t, w.Send(context.Background(), testEscalation()))
	assert.Empty(t, c.header.Get("X-Signature-256"))
}

func TestBroadcastAggregatesFailures(t *testing.T) {
	okSrv, okCap := captureServer(t, http.StatusOK)
	badSrv, _ := captureServer(t, http.StatusBadGateway)

	m := NewManager([]Notifier{
		NewSlack(badSrv.URL),
		NewWebhook(okSrv.URL, ""),
	})

	err := m.Broadcast(context.Background(), testEscalation())

	// One failing destination does not suppress delivery to the others,
	// and its error is attributed by notifier name.
	require.Error(t, err)
	assert.ErrorContains(t, err, "slack")
	assert.NotEmpty(t, okCap.body)
}

func TestBroadcastEmpty(t *testing.T) {
	m := NewManager(nil)
	assert.False(t, m.HasNotifiers())
	assert.NoError(t, m.Broadcast(context.Background(), testEscalation()))
}
