package control

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCP error codes, following the JSON-RPC reserved range plus an
// application-specific band, mirroring the teacher's tool error taxonomy.
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
	ErrorCodeQueryInvalid  = -32001
	ErrorCodePathIgnored   = -32002
)

// MCPError represents a Control Surface error surfaced over MCP.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

func (s *Server) handleHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.surface.Health(ctx))), nil
}

func (s *Server) handleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(req)
	result, err := s.surface.Scan(ctx, getStringDefault(args, "path", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) handleReconcile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(req)
	result, err := s.surface.Reconcile(ctx, getStringDefault(args, "path", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "reconcile failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(req)
	query := getStringDefault(args, "query", "")
	if query == "" {
		return nil, newMCPError(ErrorCodeQueryInvalid, "query parameter is required", nil)
	}
	result, err := s.surface.Query(ctx, query, getIntPtr(args, "limit"))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "query failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) handleQueryAdvanced(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(req)
	query := getStringDefault(args, "query", "")
	if query == "" {
		return nil, newMCPError(ErrorCodeQueryInvalid, "query parameter is required", nil)
	}
	hits, err := s.surface.QueryAdvanced(ctx, QueryAdvancedRequest{
		Query:   query,
		Kind:    getStringDefault(args, "kind", ""),
		Limit:   getIntPtr(args, "limit"),
		Snippet: getBoolDefault(args, "snippet", false),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "query_advanced failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"hits": hits})), nil
}

func (s *Server) handleBundle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(req)
	query := getStringDefault(args, "query", "")
	if query == "" {
		return nil, newMCPError(ErrorCodeQueryInvalid, "query parameter is required", nil)
	}
	result, err := s.surface.Bundle(ctx, BundleRequest{
		Query:    query,
		Kind:     getStringDefault(args, "kind", ""),
		Limit:    getIntPtr(args, "limit"),
		CapBytes: getInt64Ptr(args, "cap_bytes"),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "bundle failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) handleWatchStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.surface.WatchStart(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "watch_start failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"status": status})), nil
}

func (s *Server) handleWatchStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.surface.WatchStop()
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"status": status})), nil
}

func (s *Server) handleIndexHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.surface.IndexHealth(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "index_health failed", map[string]interface{}{"error": err.Error()})
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// Helpers

func argsOf(req mcp.CallToolRequest) map[string]interface{} {
	args, _ := req.Params.Arguments.(map[string]interface{})
	return args
}

func formatJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func getBoolDefault(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// getIntPtr returns nil when key is absent, distinguishing "omitted" from
// an explicit zero (which several operations must honor literally).
func getIntPtr(args map[string]interface{}, key string) *int {
	switch v := args[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

func getInt64Ptr(args map[string]interface{}, key string) *int64 {
	switch v := args[key].(type) {
	case float64:
		n := int64(v)
		return &n
	case int:
		n := int64(v)
		return &n
	default:
		return nil
	}
}

func getStringDefault(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}
