// Package server exposes the query surface over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/osintlab/conflictradar/internal/monitor"
	"github.com/osintlab/conflictradar/internal/scheduler"
)

// Server provides the HTTP API. All snapshot reads go against the
// monitor's current published snapshot and never block on a refresh.
type Server struct {
	monitor   *monitor.Monitor
	sched     *scheduler.Scheduler
	log       *logrus.Logger
	port      int
	itemLimit int
}

// New creates a new HTTP server. itemLimit caps items per bucket in
// responses (default 50).
func New(m *monitor.Monitor, sched *scheduler.Scheduler, log *logrus.Logger, port, itemLimit int) *Server {
	if port == 0 {
		port = 8080
	}
	if itemLimit <= 0 {
		itemLimit = 50
	}
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		monitor:   m,
		sched:     sched,
		log:       log,
		port:      port,
		itemLimit: itemLimit,
	}
}

// Handler returns the route table. Split out for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/conflicts", s.handleConflicts)
	mux.HandleFunc("/api/v1/cities", s.handleCities)
	mux.HandleFunc("/api/v1/feeds", s.handleFeeds)
	mux.HandleFunc("/api/v1/feeds/", s.handleFeedByID)
	mux.HandleFunc("/api/v1/refresh", s.handleRefresh)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.WithField("addr", addr).Info("http server listening")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	feeds, items := s.monitor.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"feeds":     feeds,
		"items":     items,
		"built_at":  s.monitor.LastBuiltAt().UTC().Format(time.RFC3339),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, s.monitor.SituationSnapshot(s.limit(r)))
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, s.monitor.PlaceSnapshot(s.limit(r)))
}

func (s *Server) handleFeeds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		feeds := s.monitor.ListFeeds()
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  feeds,
			"count": len(feeds),
		})

	case http.MethodPost:
		var req struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}

		f, err := s.monitor.RegisterFeed(r.Context(), req.Name, req.URL, req.Kind, req.ID)
		if errors.Is(err, monitor.ErrInvalidRegistration) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, f)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (s *Server) handleFeedByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/feeds/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := s.monitor.RemoveFeed(id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": id})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	at := s.sched.Trigger()
	writeJSON(w, http.StatusAccepted, map[string]string{
		"triggered_at": at.UTC().Format(time.RFC3339),
	})
}

func (s *Server) limit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return s.itemLimit
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
