// ABOUTME: MCP server setup for the health readings store.
// ABOUTME: Exposes query tools, pipeline entry points, and store resources.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/simon-de-jose/health-clawkit/internal/storage"
	"github.com/simon-de-jose/health-clawkit/internal/validate"
)

// Server wraps the MCP server with storage access. Imports triggered
// through it go through the same single-writer orchestrator as the CLI.
type Server struct {
	mcpServer  *mcp.Server
	db         *storage.DB
	thresholds validate.Thresholds
}

// NewServer creates an MCP server over the given store.
func NewServer(db *storage.DB, thresholds validate.Thresholds) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "health",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer:  mcpServer,
		db:         db,
		thresholds: thresholds,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
