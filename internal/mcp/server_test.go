package mcp

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/linkstash/linkstash/internal/embedder"
	"github.com/linkstash/linkstash/internal/searcher"
	"github.com/linkstash/linkstash/internal/storage"
	"github.com/linkstash/linkstash/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)

	return &Server{
		storage: store,
		engine:  searcher.New(store, emb, searcher.Config{}, log.New(io.Discard, "", 0)),
		ownerID: "alice",
	}
}

func callRequest(args map[string]interface{}) mcpproto.CallToolRequest {
	req := mcpproto.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestNewServer(t *testing.T) {
	t.Setenv("LINKSTASH_EMBEDDING_PROVIDER", "local")

	server, err := NewServer(t.TempDir(), "alice")
	require.NoError(t, err)
	defer server.storage.Close()

	assert.NotNil(t, server.mcp)
	assert.NotNil(t, server.storage)
	assert.NotNil(t, server.engine)
	assert.Equal(t, "alice", server.ownerID)
}

func TestNewServerRequiresOwner(t *testing.T) {
	t.Setenv(EnvOwnerID, "")

	_, err := NewServer(t.TempDir(), "")
	assert.Error(t, err)
}

func TestHandleSearchBookmarks(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	title := "Go Concurrency Patterns"
	bm := &types.Bookmark{OwnerID: "alice", URL: "https://example.com/go", Title: &title, Status: types.StatusReady}
	require.NoError(t, server.storage.CreateBookmark(ctx, bm))

	result, err := server.handleSearchBookmarks(ctx, callRequest(map[string]interface{}{
		"query": "concurrency",
	}))
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestHandleSearchBookmarksInvalidCursor(t *testing.T) {
	server := newTestServer(t)

	_, err := server.handleSearchBookmarks(context.Background(), callRequest(map[string]interface{}{
		"query":  "golang",
		"cursor": "not a cursor!!",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr))
	assert.Equal(t, ErrorCodeInvalidCursor, mcpErr.Code)
}

func TestHandleGetStatus(t *testing.T) {
	server := newTestServer(t)

	result, err := server.handleGetStatus(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestGetStringList(t *testing.T) {
	args := map[string]interface{}{
		"mixed":  []interface{}{"a", 3, "b"},
		"single": "solo",
		"typed":  []string{"x"},
	}

	assert.Equal(t, []string{"a", "b"}, getStringList(args, "mixed"))
	assert.Equal(t, []string{"solo"}, getStringList(args, "single"))
	assert.Equal(t, []string{"x"}, getStringList(args, "typed"))
	assert.Nil(t, getStringList(args, "absent"))
}

func TestGetIntDefault(t *testing.T) {
	args := map[string]interface{}{"n": float64(7)}
	assert.Equal(t, 7, getIntDefault(args, "n", 1))
	assert.Equal(t, 1, getIntDefault(args, "missing", 1))
}

func TestMCPErrorFormat(t *testing.T) {
	err := newMCPError(ErrorCodeInvalidParams, "bad input", nil)
	assert.Contains(t, err.Error(), "-32602")
	assert.Contains(t, err.Error(), "bad input")
}

func TestToolSchemas(t *testing.T) {
	search := searchBookmarksTool()
	assert.Equal(t, "search_bookmarks", search.Name)
	assert.Contains(t, search.InputSchema.Properties, "query")
	assert.Contains(t, search.InputSchema.Properties, "tags")
	assert.Empty(t, search.InputSchema.Required)

	status := getStatusTool()
	assert.Equal(t, "get_status", status.Name)
}
