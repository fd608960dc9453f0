package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/linkstash/linkstash/internal/query"
	"github.com/linkstash/linkstash/internal/searcher"
	"github.com/linkstash/linkstash/internal/storage"
	"github.com/linkstash/linkstash/pkg/types"
)

type handlers struct {
	engine *searcher.Engine
	store  storage.Storage
	logger *log.Logger
}

type resultJSON struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Title         *string   `json:"title,omitempty"`
	Summary       *string   `json:"summary,omitempty"`
	Type          string    `json:"type"`
	Starred       bool      `json:"starred"`
	Read          bool      `json:"read"`
	Preview       string    `json:"preview,omitempty"`
	FaviconURL    string    `json:"faviconUrl,omitempty"`
	OGImageURL    string    `json:"ogImageUrl,omitempty"`
	OGDescription string    `json:"ogDescription,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	MatchType     string    `json:"matchType,omitempty"`
	MatchedTags   []string  `json:"matchedTags,omitempty"`
	Score         float64   `json:"score"`
}

type pageJSON struct {
	Results    []resultJSON `json:"results"`
	HasMore    bool         `json:"hasMore"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

func (h *handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, query.ContextAPI, r.Header.Get(OwnerHeader), false)
}

func (h *handlers) handleSearchV1(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, query.ContextAPIV1, r.Header.Get(OwnerHeader), false)
}

// handleShareSearch serves public share-link search. The token resolves
// to an owner; private flags are blanked in the response.
func (h *handlers) handleShareSearch(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.store.ResolveShareLink(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown share link"})
			return
		}
		h.logger.Printf("share link lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "share link lookup failed"})
		return
	}
	h.search(w, r, query.ContextPublic, ownerID, true)
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request, c query.Context, ownerID string, public bool) {
	raw, err := rawFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	q, err := query.Normalize(c, ownerID, raw)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrMissingOwner):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "owner required"})
		case errors.Is(err, types.ErrInvalidLimit), errors.Is(err, types.ErrInvalidCursor):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid query"})
		}
		return
	}

	page, err := h.engine.Search(r.Context(), q)
	if err != nil {
		h.logger.Printf("search failed for owner %s: %v", ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}

	writeJSON(w, http.StatusOK, toPageJSON(page, public))
}

func (h *handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(OwnerHeader)
	if ownerID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "owner required"})
		return
	}

	status, err := h.store.GetStatus(r.Context(), ownerID)
	if err != nil {
		h.logger.Printf("status failed for owner %s: %v", ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "status failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookmarksTotal": status.BookmarksTotal,
		"bookmarksReady": status.BookmarksReady,
		"bookmarkErrors": status.BookmarksErrors,
		"tagsTotal":      status.TagsTotal,
		"withEmbeddings": status.WithEmbeddings,
		"storeSizeMb":    status.StoreSizeMB,
	})
}

// handleCreateShare mints a share token for the caller's collection
func (h *handlers) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get(OwnerHeader)
	if ownerID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "owner required"})
		return
	}

	token := uuid.NewString()
	if err := h.store.CreateShareLink(r.Context(), token, ownerID); err != nil {
		h.logger.Printf("share link creation failed for owner %s: %v", ownerID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "share link creation failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"token": token,
		"path":  "/share/" + token + "/search",
	})
}

// rawFromRequest maps query parameters onto loosely typed filter input
func rawFromRequest(r *http.Request) (query.Raw, error) {
	params := r.URL.Query()
	raw := query.Raw{
		Text:           params.Get("q"),
		Tags:           params["tags"],
		Types:          params["types"],
		SpecialFilters: params["filters"],
		Cursor:         params.Get("cursor"),
	}

	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return raw, errors.New("limit must be an integer")
		}
		raw.Limit = n
	}

	if v := params.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return raw, errors.New("threshold must be a number")
		}
		raw.Threshold = f
	}

	return raw, nil
}

func toPageJSON(page *types.Page, public bool) pageJSON {
	out := pageJSON{
		Results:    make([]resultJSON, 0, len(page.Results)),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
	for _, r := range page.Results {
		entry := resultJSON{
			ID:            r.Bookmark.ID,
			URL:           r.Bookmark.URL,
			Title:         r.Bookmark.Title,
			Summary:       r.Bookmark.Summary,
			Type:          string(r.Bookmark.Type),
			Starred:       r.Bookmark.Starred,
			Read:          r.Bookmark.Read,
			Preview:       r.Bookmark.Preview,
			FaviconURL:    r.Bookmark.FaviconURL,
			OGImageURL:    r.Bookmark.OGImageURL,
			OGDescription: r.Bookmark.OGDescription,
			CreatedAt:     r.Bookmark.CreatedAt,
			MatchType:     string(r.MatchType),
			MatchedTags:   r.MatchedTags,
			Score:         r.Score,
		}
		if public {
			// Read state and stars are private to the owner
			entry.Starred = false
			entry.Read = false
		}
		out.Results = append(out.Results, entry)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
