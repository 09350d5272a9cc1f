// Package mcp implements the Model Context Protocol server for sixdegrees.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/sixdegrees/internal/models"
	"github.com/ajitpratap0/sixdegrees/internal/pathfinder"
)

const (
	// defaultRandomLimit is the default number of names returned by random_people.
	defaultRandomLimit = 10

	// maxRandomLimit caps random_people regardless of the requested limit.
	maxRandomLimit = 100
)

// Graph is the read side of the entity store used by the tools.
type Graph interface {
	Get(name string) (*models.Entity, bool)
	RandomPersonNames() []string
	Stats() models.GraphStats
}

// Server wraps an MCPServer with sixdegrees dependencies.
type Server struct {
	mcp    *mcpserver.MCPServer
	graph  Graph
	finder *pathfinder.Finder
	logger *slog.Logger
}

// NewServer creates a new MCP server. If graph is nil, tool calls return an
// error response instead of panicking.
func NewServer(graph Graph, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		graph:  graph,
		logger: logger,
	}
	if graph != nil {
		s.finder = pathfinder.New(graph, logger)
	}

	mcpSrv := mcpserver.NewMCPServer(
		"sixdegrees",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildLookupTool(), s.handleLookup)
	mcpSrv.AddTool(buildFindPathTool(), s.handleFindPath)
	mcpSrv.AddTool(buildRandomPeopleTool(), s.handleRandomPeople)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleLookup is the exported handler for the "lookup" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleLookup(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleLookup(ctx, req)
}

// HandleFindPath is the exported handler for the "find_path" tool.
func (s *Server) HandleFindPath(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleFindPath(ctx, req)
}

// HandleRandomPeople is the exported handler for the "random_people" tool.
func (s *Server) HandleRandomPeople(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRandomPeople(ctx, req)
}

// HandleStats is the exported handler for the "stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// --- tool definitions ---

func buildLookupTool() mcpgo.Tool {
	return mcpgo.NewTool("lookup",
		mcpgo.WithDescription("Look up a person or movie by name. Matching ignores case and whitespace."),
		mcpgo.WithString("name",
			mcpgo.Required(),
			mcpgo.Description("Name of the person or movie"),
		),
	)
}

func buildFindPathTool() mcpgo.Tool {
	return mcpgo.NewTool("find_path",
		mcpgo.WithDescription("Find the shortest chain of movies and co-stars from a person to someone photographed with the target."),
		mcpgo.WithString("name",
			mcpgo.Required(),
			mcpgo.Description("Name to start the search from"),
		),
	)
}

func buildRandomPeopleTool() mcpgo.Tool {
	return mcpgo.NewTool("random_people",
		mcpgo.WithDescription("Return a random sample of person names from the graph."),
		mcpgo.WithNumber("limit",
			mcpgo.Description("Number of names to return (default: 10, max: 100)"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("stats",
		mcpgo.WithDescription("Get graph statistics: people, movies, edges and photo evidence links."),
	)
}

// --- tool handlers ---

// handleLookup returns the named entity with its neighbor keys.
func (s *Server) handleLookup(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.graph == nil {
		return mcpgo.NewToolResultError("graph is unavailable"), nil
	}

	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		return mcpgo.NewToolResultError("name is required and must not be empty"), nil
	}

	entity, ok := s.graph.Get(name)
	if !ok {
		return mcpgo.NewToolResultErrorf("no entity named %q", name), nil
	}
	return toolResultJSON(entity)
}

// handleFindPath runs a breadth-first path query from name.
func (s *Server) handleFindPath(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.graph == nil {
		return mcpgo.NewToolResultError("graph is unavailable"), nil
	}

	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		return mcpgo.NewToolResultError("name is required and must not be empty"), nil
	}

	path, err := s.finder.FindPath(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return mcpgo.NewToolResultErrorf("no connection found for %q", name), nil
		}
		return mcpgo.NewToolResultErrorf("path search failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: find_path", "start", name, "hops", path.Hops())
	return toolResultJSON(path.Summary())
}

// handleRandomPeople returns up to limit shuffled person names.
func (s *Server) handleRandomPeople(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.graph == nil {
		return mcpgo.NewToolResultError("graph is unavailable"), nil
	}

	limit := req.GetInt("limit", defaultRandomLimit)
	if limit <= 0 {
		limit = defaultRandomLimit
	}
	limit = min(limit, maxRandomLimit)

	names := s.graph.RandomPersonNames()
	if len(names) > limit {
		names = names[:limit]
	}
	result := map[string]any{
		"names": names,
	}
	return toolResultJSON(result)
}

// handleStats returns graph statistics.
func (s *Server) handleStats(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.graph == nil {
		return mcpgo.NewToolResultError("graph is unavailable"), nil
	}
	return toolResultJSON(s.graph.Stats())
}
