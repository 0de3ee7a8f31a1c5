package control

import "github.com/mark3labs/mcp-go/mcp"

func healthTool() mcp.Tool {
	return mcp.Tool{
		Name:        "health",
		Description: "Report that the control surface is reachable",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func scanTool() mcp.Tool {
	return mcp.Tool{
		Name:        "scan",
		Description: "Run a one-shot additive scan of the project tree, indexing new and changed files",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Directory to scan; defaults to the configured scan root",
				},
			},
		},
	}
}

func reconcileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reconcile",
		Description: "Run a full sweep: index every live file and delete index entries for files no longer on disk",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Directory to reconcile; defaults to the configured scan root",
				},
			},
		},
	}
}

func queryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query",
		Description: "Free-text search over the index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of hits to return",
					"default":     DefaultQueryLimit,
				},
			},
			Required: []string{"query"},
		},
	}
}

func queryAdvancedTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_advanced",
		Description: "Kind-filtered search, optionally returning a matched-text snippet per hit",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to this document kind",
					"enum":        []string{"md", "code", "scene", "config", "asset", "other"},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of hits to return; 0 returns no hits",
				},
				"snippet": map[string]interface{}{
					"type":        "boolean",
					"description": "Include a matched-text snippet per hit",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}
}

func bundleTool() mcp.Tool {
	return mcp.Tool{
		Name:        "bundle",
		Description: "Assemble a ranked, deduplicated, byte-capped context bundle for a query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Restrict candidates to this document kind",
					"enum":        []string{"md", "code", "scene", "config", "asset", "other"},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Underlying hit count considered before dedup/cap; omitted selects the default, 0 considers no hits",
				},
				"cap_bytes": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum total size in bytes of returned content; 0 returns an empty bundle",
				},
			},
			Required: []string{"query"},
		},
	}
}

func watchStartTool() mcp.Tool {
	return mcp.Tool{
		Name:        "watch_start",
		Description: "Start the filesystem Change Monitor; a no-op if already running",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func watchStopTool() mcp.Tool {
	return mcp.Tool{
		Name:        "watch_stop",
		Description: "Stop the filesystem Change Monitor; a no-op if not running",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func indexHealthTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_health",
		Description: "Report index document and segment counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
