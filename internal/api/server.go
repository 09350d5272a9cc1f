package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/sixdegrees/internal/imagecache"
	"github.com/ajitpratap0/sixdegrees/internal/models"
	"github.com/ajitpratap0/sixdegrees/internal/pathfinder"
)

const (
	defaultRandomLimit = 10
	maxRandomLimit     = 100
)

// Graph is the read side of the entity store exposed over HTTP.
type Graph interface {
	Get(name string) (*models.Entity, bool)
	RandomPersonNames() []string
	Stats() models.GraphStats
}

// Server is an HTTP API server exposing read-only graph queries.
type Server struct {
	graph     Graph
	finder    *pathfinder.Finder
	images    *imagecache.Cache
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server. images may be nil, in which case the photo
// endpoint answers 404.
func NewServer(graph Graph, finder *pathfinder.Finder, images *imagecache.Cache, logger *slog.Logger, authToken string) *Server {
	return &Server{
		graph:     graph,
		finder:    finder,
		images:    images,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check, no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /v1/entities/{name}", s.auth(s.handleGetEntity))
	mux.HandleFunc("GET /v1/entities/{name}/photo", s.auth(s.handlePhoto))
	mux.HandleFunc("GET /v1/path/{name}", s.auth(s.handlePath))
	mux.HandleFunc("GET /v1/people/random", s.auth(s.handleRandomPeople))
	mux.HandleFunc("GET /v1/stats", s.auth(s.handleStats))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	entity, ok := s.graph.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "entity not found")
		return
	}
	s.writeJSON(w, http.StatusOK, entity)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	path, err := s.finder.FindPath(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "no connection found")
			return
		}
		s.logger.Error("failed to find path", "name", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to find path")
		return
	}
	s.writeJSON(w, http.StatusOK, path.Summary())
}

// randomPeopleResponse is returned by GET /v1/people/random.
type randomPeopleResponse struct {
	Names []string `json:"names"`
}

func (s *Server) handleRandomPeople(w http.ResponseWriter, r *http.Request) {
	limit := defaultRandomLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRandomLimit)
	}

	names := s.graph.RandomPersonNames()
	if len(names) > limit {
		names = names[:limit]
	}
	s.writeJSON(w, http.StatusOK, randomPeopleResponse{Names: names})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.graph.Stats())
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	entity, ok := s.graph.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "entity not found")
		return
	}
	if s.images == nil || !entity.HasEvidence() {
		s.writeError(w, http.StatusNotFound, "no photo for entity")
		return
	}

	img, err := s.images.Get(r.Context(), entity)
	if err != nil {
		if errors.Is(err, imagecache.ErrNoEvidence) {
			s.writeError(w, http.StatusNotFound, "no photo for entity")
			return
		}
		s.logger.Warn("failed to fetch photo", "name", name, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to fetch photo")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(img))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		s.logger.Error("failed to write photo", "error", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
