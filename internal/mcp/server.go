package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/linkstash/linkstash/internal/embedder"
	"github.com/linkstash/linkstash/internal/searcher"
	"github.com/linkstash/linkstash/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "linkstash"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.linkstash"
	// EnvOwnerID selects whose bookmarks the assistant surface searches
	EnvOwnerID = "LINKSTASH_OWNER_ID"
)

// Server wraps the MCP server with application dependencies. The MCP
// surface is single-owner: every tool call searches the bookmarks of the
// owner the server was started for.
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	engine  *searcher.Engine
	ownerID string
}

// NewServer creates a new MCP server instance
func NewServer(dbPath, ownerID string) (*Server, error) {
	if ownerID == "" {
		ownerID = os.Getenv(EnvOwnerID)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required (set %s)", EnvOwnerID)
	}

	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".linkstash")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "linkstash.db")

	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	engine := searcher.New(store, emb, searcher.Config{}, nil)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		storage: store,
		engine:  engine,
		ownerID: ownerID,
	}

	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(searchBookmarksTool(), s.handleSearchBookmarks)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
