package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/linkstash/internal/embedder"
	"github.com/linkstash/linkstash/internal/searcher"
	"github.com/linkstash/linkstash/internal/storage"
	"github.com/linkstash/linkstash/pkg/types"
)

func newTestServer(t *testing.T) (*http.Server, *storage.SQLiteStorage, *searcher.Engine) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)

	engine := searcher.New(store, emb, searcher.Config{}, log.New(io.Discard, "", 0))
	return New(":0", engine, store, log.New(io.Discard, "", 0)), store, engine
}

func seedReady(t *testing.T, store *storage.SQLiteStorage, owner, url, title string, starred bool) *types.Bookmark {
	t.Helper()
	bm := &types.Bookmark{
		OwnerID: owner,
		URL:     url,
		Title:   &title,
		Status:  types.StatusReady,
		Starred: starred,
	}
	require.NoError(t, store.CreateBookmark(context.Background(), bm))
	return bm
}

func doRequest(srv *http.Server, method, target, owner string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if owner != "" {
		req.Header.Set(OwnerHeader, owner)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) pageJSON {
	t.Helper()
	var page pageJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	return page
}

func TestSearchRequiresOwner(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/search?q=golang", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchReturnsResults(t *testing.T) {
	srv, store, _ := newTestServer(t)

	bm := seedReady(t, store, "alice", "https://example.com/go", "Go Concurrency Patterns", true)
	seedReady(t, store, "alice", "https://example.com/other", "Cast iron cooking", false)

	rec := doRequest(srv, http.MethodGet, "/api/search?q=concurrency", "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodePage(t, rec)
	require.Len(t, page.Results, 1)
	assert.Equal(t, bm.ID, page.Results[0].ID)
	assert.Equal(t, "EXACT_TEXT", page.Results[0].MatchType)
	assert.True(t, page.Results[0].Starred)
	assert.False(t, page.HasMore)
}

func TestSearchRejectsOversizeLimit(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// The in-app API caps pages at 50 and rejects rather than clamps
	rec := doRequest(srv, http.MethodGet, "/api/search?q=x&limit=51", "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The versioned API allows up to 100
	rec = doRequest(srv, http.MethodGet, "/api/v1/search?q=x&limit=51", "alice")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchRejectsBadParams(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/search?q=x&limit=abc", "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/search?q=x&cursor=bogus!!", "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrowsePagination(t *testing.T) {
	srv, store, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		seedReady(t, store, "alice", "https://example.com/post", "Saved page", false)
	}

	rec := doRequest(srv, http.MethodGet, "/api/search?limit=2", "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodePage(t, rec)
	require.Len(t, page.Results, 2)
	require.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)

	rec = doRequest(srv, http.MethodGet, "/api/search?limit=2&cursor="+page.NextCursor, "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decodePage(t, rec)
	assert.Len(t, page.Results, 1)
	assert.False(t, page.HasMore)
}

func TestShareLinkFlow(t *testing.T) {
	srv, store, _ := newTestServer(t)

	seedReady(t, store, "alice", "https://example.com/go", "Go Concurrency Patterns", true)

	rec := doRequest(srv, http.MethodPost, "/api/share", "alice")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created["token"])

	// Public search needs no owner header; the token stands in
	rec = doRequest(srv, http.MethodGet, "/share/"+created["token"]+"/search?q=concurrency", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodePage(t, rec)
	require.Len(t, page.Results, 1)
	// Private flags are blanked on the public surface
	assert.False(t, page.Results[0].Starred)
	assert.False(t, page.Results[0].Read)
}

func TestShareLinkUnknownToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/share/nope/search?q=x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)

	seedReady(t, store, "alice", "https://example.com/go", "Go", false)

	rec := doRequest(srv, http.MethodGet, "/api/status", "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.EqualValues(t, 1, status["bookmarksTotal"])

	rec = doRequest(srv, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
