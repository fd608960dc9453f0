package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchBookmarksTool returns the tool definition for search_bookmarks
func searchBookmarksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_bookmarks",
		Description: "Search saved bookmarks with natural language, tags, and filters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query; omit to browse by filters only",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Tag names the bookmark must carry at least one of (case-insensitive)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"types": map[string]interface{}{
					"type":        "array",
					"description": "Restrict to bookmark content types",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"ARTICLE", "PAGE", "YOUTUBE", "TWEET", "VIDEO", "IMAGE", "PDF", "PRODUCT", "OTHER"},
					},
				},
				"filters": map[string]interface{}{
					"type":        "array",
					"description": "Status filters: READ, UNREAD, STAR",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"READ", "UNREAD", "STAR"},
					},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-20)",
					"default":     10,
					"minimum":     1,
					"maximum":     20,
				},
				"cursor": map[string]interface{}{
					"type":        "string",
					"description": "Opaque pagination token from a previous response",
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report bookmark collection statistics and search readiness",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
