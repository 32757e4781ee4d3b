// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server renders the browser form flow that drives the pipeline:
// topic entry, research summary, editable content plan, and the generated
// article. One session owns one run; state lives in memory only.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meshintel/blogsmith/internal/pipeline"
	"github.com/meshintel/blogsmith/pkg/types"
)

const (
	sessionCookie = "blogsmith_session"

	// stageTimeout bounds one pipeline stage; research and generation
	// calls can be slow.
	stageTimeout = 3 * time.Minute

	// sessionTTL is how long an idle session survives before the store
	// evicts it and its run state.
	sessionTTL = 2 * time.Hour
)

// NewWriterFunc builds a fresh pipeline Writer for a new session.
type NewWriterFunc func() *pipeline.Writer

// Server serves the form flow and holds the per-session runs.
type Server struct {
	cfg       types.PipelineConfig
	newWriter NewWriterFunc
	store     *sessionStore
}

// session pairs one run with its display state. The mutex serializes
// handlers for the same session: one stage active at a time.
type session struct {
	mu      sync.Mutex
	writer  *pipeline.Writer
	lastErr string

	// lastSeen is guarded by the store mutex, not the session mutex.
	lastSeen time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// getOrCreate resolves the session for id, evicting sessions idle longer
// than sessionTTL so a long-running serve process does not accumulate
// abandoned runs.
func (s *sessionStore) getOrCreate(id string, newWriter NewWriterFunc) *session {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sess := range s.sessions {
		if key != id && now.Sub(sess.lastSeen) > sessionTTL {
			delete(s.sessions, key)
		}
	}

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{writer: newWriter()}
		s.sessions[id] = sess
	}
	sess.lastSeen = now
	return sess
}

// New builds a Server. newWriter is called once per browser session.
func New(cfg types.PipelineConfig, newWriter NewWriterFunc) *Server {
	return &Server{cfg: cfg, newWriter: newWriter, store: newStore()}
}

// Routes returns the HTTP handler for the form flow.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/topic", s.handleTopic)
	mux.HandleFunc("/research", s.handleResearch)
	mux.HandleFunc("/plan", s.handlePlan)
	mux.HandleFunc("/write", s.handleWrite)
	mux.HandleFunc("/restart", s.handleRestart)
	mux.HandleFunc("/download", s.handleDownload)
	return mux
}

// sessionFor resolves the browser's session, creating one (and setting
// the cookie) on first visit.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return s.store.getOrCreate(id, s.newWriter)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess := s.sessionFor(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.render(w, sess)
}

// runStage executes fn under the session lock with a stage timeout, records
// a failure for display, and redirects back to the wizard.
func (s *Server) runStage(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sess *session) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.sessionFor(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), stageTimeout)
	defer cancel()

	sess.lastErr = ""
	if err := fn(ctx, sess); err != nil {
		sess.lastErr = err.Error()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	s.runStage(w, r, func(ctx context.Context, sess *session) error {
		return sess.writer.ProcessTopic(ctx, r.FormValue("topic"))
	})
}

// handleResearch performs the research stage and proceeds straight into
// content analysis; the plan review form is the next user stop.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	s.runStage(w, r, func(ctx context.Context, sess *session) error {
		if err := sess.writer.Research(ctx); err != nil {
			return err
		}
		return sess.writer.Analyze(ctx)
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	s.runStage(w, r, func(_ context.Context, sess *session) error {
		edits := types.ContentPlan{
			PrimaryKeyword:    strings.TrimSpace(r.FormValue("primary_keyword")),
			SecondaryKeywords: splitLines(r.FormValue("secondary_keywords")),
			Title:             strings.TrimSpace(r.FormValue("title")),
			Outline:           splitLines(r.FormValue("outline")),
		}
		return sess.writer.UpdatePlan(edits)
	})
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	s.runStage(w, r, func(ctx context.Context, sess *session) error {
		words, _ := strconv.Atoi(r.FormValue("words"))
		return sess.writer.WriteWithTarget(ctx, words)
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.runStage(w, r, func(_ context.Context, sess *session) error {
		sess.writer.Reset()
		return nil
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	article, ok := sess.writer.Article()
	if !ok {
		http.Error(w, "no article generated yet", http.StatusNotFound)
		return
	}

	name := strings.ReplaceAll(sess.writer.Topic(), " ", "_") + "_blog.md"
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	fmt.Fprintf(w, "# %s\n\n%s\n", article.Title, article.Body)
}

// splitLines turns a textarea value into trimmed, non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
