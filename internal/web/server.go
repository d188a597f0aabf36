// Package web provides the configuration and status HTTP server. Handlers
// never mutate core state directly; settings changes and test sends are
// enqueued on the deferred task queue and run on the tick loop.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/logbuf"
	"github.com/sweeney/pinwatch/internal/notify"
	"github.com/sweeney/pinwatch/internal/status"
	"github.com/sweeney/pinwatch/internal/tasks"
)

// Deps are the collaborators the handlers read from and defer work to.
type Deps struct {
	Tracker *status.Tracker
	Log     *logbuf.Buffer
	Tasks   *tasks.Queue

	// Settings returns a copy of the current settings for display and as
	// the base for edits.
	Settings func() config.Settings

	// Apply persists and applies new settings. Runs on the tick loop via
	// the task queue.
	Apply func(config.Settings)

	// TestSend delivers a test message on one channel. Runs on the tick
	// loop via the task queue.
	TestSend func(notify.Service)
}

// Server serves the settings form and status endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
}

// New creates a Server over the given collaborators.
func New(addr string, deps Deps) *Server {
	s := &Server{deps: deps}

	r := chi.NewRouter()
	r.Use(s.requireAuth)
	r.Get("/", s.handleIndex)
	r.Post("/save", s.handleSave)
	r.Get("/status.json", s.handleStatus)
	r.Get("/log.json", s.handleLog)
	r.Post("/test/{service}", s.handleTest)

	s.httpServer = &http.Server{Addr: addr, Handler: r}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
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

// requireAuth guards every route with the admin password. An empty
// password leaves the server open, which is the first-boot state before
// the user has set one.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pass := s.deps.Settings().AdminPass
		if pass == "" {
			next.ServeHTTP(w, r)
			return
		}
		_, got, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="pinwatch"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderSettings(w, s.deps.Settings(), r.URL.Query().Get("saved") == "1")
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	next := parseSettings(r.Form, s.deps.Settings())
	if err := validate(&next); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The response does not wait for the save; the tick loop persists and
	// applies the settings on its next pass.
	s.deps.Tasks.Defer("apply-settings", func() { s.deps.Apply(next) })
	http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(s.deps.Tracker.Snapshot()))
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	data, _ := json.MarshalIndent(struct {
		Entries []logbuf.Entry `json:"entries"`
	}{Entries: s.deps.Log.Entries()}, "", "  ")
	w.Write(data)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	svc, ok := notify.ParseService(chi.URLParam(r, "service"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.deps.Tasks.Defer("test-"+svc.String(), func() { s.deps.TestSend(svc) })
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("test queued\n"))
}
