package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/linkstash/linkstash/internal/searcher"
	"github.com/linkstash/linkstash/internal/storage"
)

// OwnerHeader carries the authenticated owner id, set by the fronting
// auth proxy. Requests without it are rejected.
const OwnerHeader = "X-Owner-ID"

// New builds the HTTP server for the search API.
//
// Routes:
//
//	GET  /api/search             authenticated in-app search
//	GET  /api/v1/search          versioned API with a larger page cap
//	GET  /api/status             collection statistics
//	POST /api/share              mint a public share token
//	GET  /share/{token}/search   public search through a share link
func New(addr string, engine *searcher.Engine, store storage.Storage, logger *log.Logger) *http.Server {
	if logger == nil {
		logger = log.Default()
	}
	h := &handlers{engine: engine, store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", h.handleSearch)
	mux.HandleFunc("GET /api/v1/search", h.handleSearchV1)
	mux.HandleFunc("GET /api/status", h.handleStatus)
	mux.HandleFunc("POST /api/share", h.handleCreateShare)
	mux.HandleFunc("GET /share/{token}/search", h.handleShareSearch)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run serves until the context is cancelled, then shuts down gracefully
func Run(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("http api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}
