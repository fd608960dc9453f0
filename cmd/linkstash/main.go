package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/linkstash/linkstash/internal/embedder"
	"github.com/linkstash/linkstash/internal/httpapi"
	"github.com/linkstash/linkstash/internal/mcp"
	"github.com/linkstash/linkstash/internal/searcher"
	"github.com/linkstash/linkstash/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usage = `usage: linkstash <command>

commands:
  serve    run the HTTP search API
  mcp      run the MCP server on stdio

flags:
  --version    print build information
`

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("linkstash\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Log to stderr; in MCP mode stdout carries the protocol stream
	log.SetOutput(os.Stderr)

	// Missing .env is fine; the environment may be set directly
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runHTTP()
	case "mcp":
		err = runMCP()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("linkstash: %v", err)
	}
}

func runHTTP() error {
	log.Printf("linkstash v%s starting (mode: %s, driver: %s)", version, storage.BuildMode, storage.DriverName)

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return fmt.Errorf("initialize embedder: %w", err)
	}
	defer func() { _ = emb.Close() }()
	log.Printf("embedding provider: %s (%s)", emb.Provider(), emb.Model())

	engine := searcher.New(store, emb, searcher.Config{}, log.Default())

	addr := os.Getenv("LINKSTASH_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(addr, engine, store, log.Default())
	if err := httpapi.Run(ctx, srv, log.Default()); err != nil {
		return err
	}
	log.Println("server stopped")
	return nil
}

func runMCP() error {
	log.Printf("linkstash MCP server v%s starting (mode: %s, driver: %s)", version, storage.BuildMode, storage.DriverName)

	server, err := mcp.NewServer(os.Getenv("LINKSTASH_DB_PATH"), os.Getenv(mcp.EnvOwnerID))
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	log.Println("server stopped")
	return nil
}

func openStore() (storage.Storage, error) {
	dbPath := os.Getenv("LINKSTASH_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".linkstash")
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dbPath, "linkstash.db"))
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	return store, nil
}
