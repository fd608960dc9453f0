package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/linkstash/linkstash/internal/query"
	"github.com/linkstash/linkstash/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeInvalidCursor = -32001 // Pagination token is malformed
	ErrorCodeSearchFailed  = -32002 // Search pipeline failed
	ErrorCodeOwnerNotSetUp = -32003 // No owner configured for this server
	ErrorCodeStatusFailed  = -32004 // Status lookup failed
)

// handleSearchBookmarks handles the search_bookmarks tool invocation
func (s *Server) handleSearchBookmarks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	raw := query.Raw{
		Text:           getStringDefault(args, "query", ""),
		Tags:           getStringList(args, "tags"),
		Types:          getStringList(args, "types"),
		SpecialFilters: getStringList(args, "filters"),
		Cursor:         getStringDefault(args, "cursor", ""),
		Limit:          getIntDefault(args, "limit", 0),
	}

	q, err := query.Normalize(query.ContextAssistant, s.ownerID, raw)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidCursor):
			return nil, newMCPError(ErrorCodeInvalidCursor, "invalid cursor", map[string]interface{}{
				"param": "cursor",
			})
		case errors.Is(err, types.ErrMissingOwner):
			return nil, newMCPError(ErrorCodeOwnerNotSetUp, "no owner configured", nil)
		default:
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid search parameters", map[string]interface{}{
				"reason": err.Error(),
			})
		}
	}

	page, err := s.engine.Search(ctx, q)
	if err != nil {
		return nil, newMCPError(ErrorCodeSearchFailed, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(page.Results))
	for _, r := range page.Results {
		entry := map[string]interface{}{
			"id":    r.Bookmark.ID,
			"url":   r.Bookmark.URL,
			"type":  string(r.Bookmark.Type),
			"score": fmt.Sprintf("%.3f", r.Score),
		}
		if r.Bookmark.Title != nil {
			entry["title"] = *r.Bookmark.Title
		}
		if r.Bookmark.Summary != nil {
			entry["summary"] = *r.Bookmark.Summary
		}
		if r.MatchType != "" {
			entry["match_type"] = string(r.MatchType)
		}
		if len(r.MatchedTags) > 0 {
			entry["matched_tags"] = r.MatchedTags
		}
		results = append(results, entry)
	}

	response := map[string]interface{}{
		"results":  results,
		"has_more": page.HasMore,
	}
	if page.NextCursor != "" {
		response["next_cursor"] = page.NextCursor
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx, s.ownerID)
	if err != nil {
		return nil, newMCPError(ErrorCodeStatusFailed, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"bookmarks_total": status.BookmarksTotal,
			"bookmarks_ready": status.BookmarksReady,
			"bookmark_errors": status.BookmarksErrors,
			"tags_total":      status.TagsTotal,
			"with_embeddings": status.WithEmbeddings,
			"store_size_mb":   fmt.Sprintf("%.2f", status.StoreSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": true,
			"semantic_available":  status.WithEmbeddings > 0,
		},
	}
	if !status.LastCreatedAt.IsZero() {
		response["last_saved_at"] = status.LastCreatedAt.Format(time.RFC3339)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringList extracts a string array parameter, tolerating mixed input
func getStringList(args map[string]interface{}, key string) []string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		return []string{v}
	default:
		return nil
	}
}
