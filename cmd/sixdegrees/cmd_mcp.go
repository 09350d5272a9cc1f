package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	sdmcp "github.com/ajitpratap0/sixdegrees/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Builds the graph, then starts an MCP JSON-RPC 2.0 server that reads from stdin and
writes to stdout. All diagnostic logs go to stderr so that stdout remains exclusively
MCP protocol traffic.

Tools exposed:
  lookup         find a person or movie by name
  find_path      shortest chain to someone photographed with the target
  random_people  random sample of person names
  stats          graph statistics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			st, _, err := buildGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}

			srv := sdmcp.NewServer(st, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: sixdegrees MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
