// Package pathfinder answers shortest-connection queries over the entity graph.
//
// A query walks breadth-first from the named start until it reaches the
// nearest person carrying photo evidence. The returned path ends at that
// person; the target is one implicit hop further and is not included.
package pathfinder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ajitpratap0/sixdegrees/internal/metrics"
	"github.com/ajitpratap0/sixdegrees/internal/models"
)

// Graph is the read side of the entity store used by the finder.
type Graph interface {
	Get(name string) (*models.Entity, bool)
}

// Path is an ordered start-to-evidence sequence of entities.
type Path []models.Entity

// Names returns the display names along the path.
func (p Path) Names() []string {
	names := make([]string, len(p))
	for i := range p {
		names[i] = p[i].DisplayName
	}
	return names
}

// Hops returns the number of edges in the path.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Evidence returns the photo evidence of the final entity, or nil for an empty path.
func (p Path) Evidence() *models.PhotoEvidence {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1].Evidence
}

// Summary is the wire form of a Path used by the CLI, HTTP and MCP surfaces.
type Summary struct {
	Start    string                `json:"start"`
	Path     []string              `json:"path"`
	Hops     int                   `json:"hops"`
	Evidence *models.PhotoEvidence `json:"evidence,omitempty"`
}

// Summary flattens p into display names plus the closing photo evidence.
func (p Path) Summary() Summary {
	s := Summary{Path: p.Names(), Hops: p.Hops(), Evidence: p.Evidence()}
	if len(p) > 0 {
		s.Start = p[0].DisplayName
	}
	return s
}

// Session holds the visited set and parent links of one search.
// A Session must not be shared between concurrent searches.
type Session struct {
	visited map[string]bool
	parent  map[string]string
}

// NewSession creates an empty search session.
func NewSession() *Session {
	return &Session{
		visited: make(map[string]bool),
		parent:  make(map[string]string),
	}
}

// Reset clears all visited marks and parent links.
func (s *Session) Reset() {
	clear(s.visited)
	clear(s.parent)
}

// Visited reports whether key was reached in the current search.
func (s *Session) Visited(key string) bool {
	return s.visited[key]
}

// Parent returns the key key was discovered from.
func (s *Session) Parent(key string) (string, bool) {
	p, ok := s.parent[key]
	return p, ok
}

func (s *Session) visit(key, parent string) {
	s.visited[key] = true
	if parent != "" {
		s.parent[key] = parent
	}
}

// Finder runs path queries against a Graph.
type Finder struct {
	graph  Graph
	logger *slog.Logger
}

// New creates a Finder. A nil logger falls back to slog.Default().
func New(graph Graph, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{graph: graph, logger: logger}
}

// FindPath returns the shortest path from startName to the nearest entity with
// photo evidence. It returns models.ErrNotFound when startName is unknown or
// no such entity is reachable. Each call uses a fresh Session.
func (f *Finder) FindPath(ctx context.Context, startName string) (Path, error) {
	return f.FindPathWithSession(ctx, startName, NewSession())
}

// FindPathWithSession is FindPath using a caller-owned session, which is
// reset before the search starts.
func (f *Finder) FindPathWithSession(ctx context.Context, startName string, sess *Session) (Path, error) {
	metrics.Inc(metrics.PathQueries)

	start, ok := f.graph.Get(startName)
	if !ok {
		metrics.Inc(metrics.PathNotFound)
		return nil, fmt.Errorf("path from %q: %w", startName, models.ErrNotFound)
	}

	sess.Reset()
	sess.visit(start.Key, "")
	queue := []*models.Entity{start}
	found := map[string]*models.Entity{start.Key: start}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("path from %q: %w", startName, err)
		}
		current := queue[0]
		queue = queue[1:]

		if current.HasEvidence() {
			path := reconstruct(sess, found, current.Key)
			f.logger.Debug("path found", "start", start.Key, "end", current.Key, "hops", path.Hops())
			return path, nil
		}

		for _, key := range current.Neighbors {
			if sess.Visited(key) {
				continue
			}
			next, ok := f.graph.Get(key)
			if !ok {
				continue
			}
			sess.visit(key, current.Key)
			found[key] = next
			queue = append(queue, next)
		}
	}

	metrics.Inc(metrics.PathNotFound)
	f.logger.Debug("no path to evidence", "start", start.Key, "visited", len(found))
	return nil, fmt.Errorf("path from %q: %w", startName, models.ErrNotFound)
}

// reconstruct follows parent links from end back to the start and reverses them.
func reconstruct(sess *Session, found map[string]*models.Entity, end string) Path {
	var path Path
	for key, ok := end, true; ok; key, ok = sess.Parent(key) {
		path = append(path, *found[key])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
