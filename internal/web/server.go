// Package web provides the HTTP status page and the schedule CRUD API
// for the bell controller daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/tmcnab/schoolbell/internal/schedule"
	"github.com/tmcnab/schoolbell/internal/status"
)

// Schedule is the mutation surface the API drives. Implemented by the
// control loop, which persists after each successful change.
type Schedule interface {
	AddPreset(name string) error
	DeletePreset(i int) error
	AddBell(preset, hour, minute int) error
	DeleteBell(preset, bell int) error
	SetActive(i int) error
	SetBellDuration(ms int) error
	RingNow()
	Snapshot() schedule.Snapshot
}

// Server serves the status page and the schedule API.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	sched      Schedule
}

// New creates a Server that reads state from the given tracker and
// applies mutations through sched.
func New(addr string, tracker *status.Tracker, sched Schedule) *Server {
	s := &Server{tracker: tracker, sched: sched}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/api/presets", s.handlePresets)
	mux.HandleFunc("/api/presets/", s.handlePresetSub)
	mux.HandleFunc("/api/active", s.handleActive)
	mux.HandleFunc("/api/duration", s.handleDuration)
	mux.HandleFunc("/api/ring", s.handleRing)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the root handler. Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut
// down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	sched := s.sched.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, sched)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
