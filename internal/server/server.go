// Package server hosts the verse finder page: a single form that takes a
// topic and renders the verses returned for it.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/etherlabsio/healthcheck/v2"
	"github.com/gorilla/handlers"
	"github.com/justinas/alice"

	"derrclan.com/verse-finder/internal/versefinder"
)

// Finder looks up verses for a topic. *versefinder.Client implements it.
type Finder interface {
	FindVerses(ctx context.Context, topic, apiKey string) versefinder.QueryResult
}

type Server struct {
	finder Finder
	apiKey string
	tmpl   *template.Template
}

// New parses the embedded templates and returns the routed, middleware-wrapped
// handler. Access logs in combined format go to accessLog.
func New(finder Finder, apiKey string, accessLog io.Writer) (http.Handler, error) {
	tmpl, err := template.New("").ParseFS(web, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		finder: finder,
		apiKey: apiKey,
		tmpl:   tmpl,
	}
	return s.routes(accessLog), nil
}

func (s *Server) routes(accessLog io.Writer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/healthz", s.healthcheck())

	webFS, err := fs.Sub(web, "web")
	if err != nil {
		slog.Error("failed to create web subdirectory filesystem", "error", err)
	} else {
		mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.FS(webFS))))
	}

	recoveryLog := slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLog),
		handlers.PrintRecoveryStack(true),
	)
	logging := func(h http.Handler) http.Handler {
		return handlers.LoggingHandler(accessLog, h)
	}

	return alice.New(logging, recovery).Then(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.render(w, pageData{})
	case http.MethodPost:
		s.handleSearch(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSearch binds the topic form field and looks it up. Blank topics
// re-render the form without calling the finder.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("failed to parse search form", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	topic := r.PostForm.Get("topic")
	data := pageData{Topic: topic}
	if strings.TrimSpace(topic) == "" {
		s.render(w, data)
		return
	}

	// Failures are logged by the finder.
	result := s.finder.FindVerses(r.Context(), topic, s.apiKey)

	data.LastTopic = topic
	data.Searched = true
	data.Verses = result.Verses
	data.Encouragement = result.Encouragement
	data.Failed = result.Failed()

	s.render(w, data)
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		slog.Error("failed to execute template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// healthcheck reports unhealthy while no API key is configured, since every
// lookup would fail at the remote API.
func (s *Server) healthcheck() http.Handler {
	return healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker(
			"openai", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					if s.apiKey == "" {
						return errors.New("OpenAI API key not configured")
					}
					return nil
				},
			),
		),
	)
}
