package control

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName identifies this process to MCP clients.
	ServerName = "godot-mcp-index"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server exposes a Surface over the MCP stdio transport.
type Server struct {
	mcp     *server.MCPServer
	surface *Surface
}

// NewServer wraps surface with an MCP tool registry.
func NewServer(surface *Surface) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		surface: surface,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(healthTool(), s.handleHealth)
	s.mcp.AddTool(scanTool(), s.handleScan)
	s.mcp.AddTool(reconcileTool(), s.handleReconcile)
	s.mcp.AddTool(queryTool(), s.handleQuery)
	s.mcp.AddTool(queryAdvancedTool(), s.handleQueryAdvanced)
	s.mcp.AddTool(bundleTool(), s.handleBundle)
	s.mcp.AddTool(watchStartTool(), s.handleWatchStart)
	s.mcp.AddTool(watchStopTool(), s.handleWatchStop)
	s.mcp.AddTool(indexHealthTool(), s.handleIndexHealth)
}
