// Package http exposes the catalog and managed playthroughs over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/senacirak/DEU-DevClubGames/internal/dto"
	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/internal/presentation/graph"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/session"
)

// Catalog is the read side of the story catalog.
type Catalog interface {
	Get(id string) (*domain.Story, error)
	List() []*domain.Story
}

// Sessions is the subset of session.Manager used by the API.
type Sessions interface {
	Start(ctx context.Context, storyID string) (string, *player.Session, error)
	Load(ctx context.Context, sessionID string) (*player.Session, error)
	Apply(ctx context.Context, sessionID string, fn func(*player.Session) error) (*player.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

var _ Sessions = (*session.Manager)(nil)

var (
	errPaused  = errors.New("game is paused")
	errRefused = errors.New("move not available")
)

// Server holds the HTTP handlers.
type Server struct {
	Catalog  Catalog
	Sessions Sessions
	Streams  *StreamManager

	logger      *slog.Logger
	version     string
	middlewares []func(http.Handler) http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithMiddleware adds router middleware (metrics, request logging).
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mw...)
	}
}

// NewServer wires the handlers to a catalog and a session manager.
func NewServer(cat Catalog, sessions Sessions, opts ...Option) *Server {
	s := &Server{
		Catalog:  cat,
		Sessions: sessions,
		logger:   logging.NewNop(),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for the API.
func NewHandler(cat Catalog, sessions Sessions, opts ...Option) http.Handler {
	return NewServer(cat, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, enableCORS)
	r.Use(s.middlewares...)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/stories", func(r chi.Router) {
		r.Get("/", s.ListStories)
		r.Get("/{storyID}", s.GetStory)
		r.Get("/{storyID}/graph", s.GetStoryGraph)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.StartSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/graph", s.GetSessionGraph)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/choices", s.Choose)
			r.Post("/back", s.action(goBack))
			r.Post("/restart", s.action(restart))
			r.Post("/pause", s.action(pause))
			r.Post("/resume", s.action(resume))
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "devclub-http",
		"version": s.version,
		"stories": len(s.Catalog.List()),
	})
}

// ListStories handles GET /stories.
func (s *Server) ListStories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, dto.NewStorySummaries(s.Catalog.List()))
}

// GetStory handles GET /stories/{storyID}.
func (s *Server) GetStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.Catalog.Get(chi.URLParam(r, "storyID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewStorySummary(story))
}

// GetStoryGraph handles GET /stories/{storyID}/graph.
func (s *Server) GetStoryGraph(w http.ResponseWriter, r *http.Request) {
	story, err := s.Catalog.Get(chi.URLParam(r, "storyID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeMermaid(w, graph.GenerateMermaid(story, nil))
}

type startRequest struct {
	StoryID string `json:"story_id"`
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.StoryID == "" {
		http.Error(w, "Invalid request body: story_id is required", http.StatusBadRequest)
		s.logger.Warn("StartSession: invalid request body", "err", err)
		return
	}

	id, sess, err := s.Sessions.Start(r.Context(), body.StoryID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, dto.NewSceneView(id, sess))
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.NewSceneView(id, sess))
}

// GetSessionGraph handles GET /sessions/{sessionID}/graph: the story graph
// with the visited path and current scene highlighted.
func (s *Server) GetSessionGraph(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeMermaid(w, graph.GenerateMermaid(sess.Story(), graph.OverlayFromHistory(sess.History())))
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type chooseRequest struct {
	Index *int `json:"index"`
}

// Choose handles POST /sessions/{sessionID}/choices. Index is 0-based.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	var body chooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Index == nil {
		http.Error(w, "Invalid request body: index is required", http.StatusBadRequest)
		s.logger.Warn("Choose: invalid request body", "err", err)
		return
	}
	index := *body.Index
	s.apply(w, r, func(p *player.Session) error {
		if p.GameState() == domain.StatePaused {
			return errPaused
		}
		if !p.Choose(index) {
			return fmt.Errorf("%w: choice %d", errRefused, index)
		}
		return nil
	})
}

func goBack(p *player.Session) error {
	if p.GameState() == domain.StatePaused {
		return errPaused
	}
	if !p.GoBack() {
		return fmt.Errorf("%w: already at the first scene", errRefused)
	}
	return nil
}

func restart(p *player.Session) error {
	if !p.RestartStory() {
		return fmt.Errorf("%w: story cannot be restarted", errRefused)
	}
	return nil
}

func pause(p *player.Session) error {
	if p.GameState() != domain.StatePlaying {
		return fmt.Errorf("%w: only a playing game can be paused", errRefused)
	}
	p.PauseGame()
	return nil
}

func resume(p *player.Session) error {
	if p.GameState() != domain.StatePaused {
		return fmt.Errorf("%w: game is not paused", errRefused)
	}
	p.ResumeGame()
	return nil
}

func (s *Server) action(fn func(*player.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apply(w, r, fn)
	}
}

// apply runs fn on the session, broadcasts the resulting diff and writes the new view.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(*player.Session) error) {
	id := chi.URLParam(r, "sessionID")

	var before domain.Snapshot
	sess, err := s.Sessions.Apply(r.Context(), id, func(p *player.Session) error {
		before = p.Snapshot()
		return fn(p)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if diff := domain.Diff(before, sess.Snapshot()); diff != nil {
		if payload, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	s.writeJSON(w, http.StatusOK, dto.NewSceneView(id, sess))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case session.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, errPaused):
		status = http.StatusConflict
	case errors.Is(err, errRefused):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidSnapshot):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeMermaid(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, text)
}
