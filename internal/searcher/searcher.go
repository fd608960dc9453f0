package searcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/linkstash/linkstash/internal/embedder"
	"github.com/linkstash/linkstash/internal/storage"
	"github.com/linkstash/linkstash/pkg/types"
)

// DefaultSemanticTimeout bounds the semantic retrieval path. When the
// embedding provider cannot answer in time the query degrades to
// lexical and tag results instead of failing.
const DefaultSemanticTimeout = 2 * time.Second

// pipelineTimeout bounds one shared pipeline execution
const pipelineTimeout = 10 * time.Second

// Config tunes the engine. Zero values select defaults.
type Config struct {
	CacheSize       int
	CacheTTL        time.Duration
	SemanticTimeout time.Duration
}

// Engine runs the search pipeline: candidate generation across the
// lexical, tag, and semantic paths in parallel, then merge, rank,
// paginate, and hydrate.
type Engine struct {
	store           storage.Storage
	embed           embedder.Embedder
	cache           *resultCache
	flight          singleflight.Group
	semanticTimeout time.Duration
	logger          *log.Logger
}

// New creates a search engine over the given store and embedder
func New(store storage.Storage, embed embedder.Embedder, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.SemanticTimeout
	if timeout <= 0 {
		timeout = DefaultSemanticTimeout
	}
	return &Engine{
		store:           store,
		embed:           embed,
		cache:           newResultCache(cfg.CacheSize, cfg.CacheTTL),
		semanticTimeout: timeout,
		logger:          logger,
	}
}

// Search executes a normalized query and returns one page of ranked
// results. Identical concurrent queries share a single execution.
func (e *Engine) Search(ctx context.Context, q *types.Query) (*types.Page, error) {
	key := e.cache.key(q)
	if page, ok := e.cache.get(key); ok {
		return page, nil
	}

	v, err, _ := e.flight.Do(key, func() (interface{}, error) {
		// Detach from the starting caller's context: coalesced waiters
		// must not inherit its cancellation
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pipelineTimeout)
		defer cancel()

		page, err := e.search(sctx, q)
		if err != nil {
			return nil, err
		}
		e.cache.put(key, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Page), nil
}

// InvalidateOwner drops all cached pages for an owner. Call after any
// write to the owner's bookmarks or tags.
func (e *Engine) InvalidateOwner(ownerID string) {
	e.cache.invalidateOwner(ownerID)
}

// CacheSize returns the number of cached result pages
func (e *Engine) CacheSize() int {
	return e.cache.size()
}

func (e *Engine) search(ctx context.Context, q *types.Query) (*types.Page, error) {
	if !q.HasText() {
		return e.browse(ctx, q)
	}

	cq := candidateQuery(q)

	var lexical, tagged, semantic []types.Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cands, err := e.store.LexicalCandidates(gctx, cq)
		if err != nil {
			return fmt.Errorf("lexical candidates: %w", err)
		}
		lexical = cands
		return nil
	})
	g.Go(func() error {
		cands, err := e.store.TagCandidates(gctx, cq)
		if err != nil {
			return fmt.Errorf("tag candidates: %w", err)
		}
		tagged = cands
		return nil
	})
	g.Go(func() error {
		cands, err := e.semanticCandidates(gctx, cq, q.Threshold)
		if err != nil {
			// Degrade rather than fail: the lexical and tag paths
			// still produce a usable page
			e.logger.Printf("semantic path degraded for owner %s: %v", q.OwnerID, err)
			return nil
		}
		semantic = cands
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeCandidates(lexical, tagged, semantic)
	rankCandidates(merged)

	pageCands, hasMore := slicePage(merged, q.Cursor, q.Limit)
	results, err := e.hydrate(ctx, q.OwnerID, pageCands)
	if err != nil {
		return nil, err
	}

	return &types.Page{
		Results:    results,
		HasMore:    hasMore,
		NextCursor: nextCursor(pageCands),
	}, nil
}

// browse handles textless queries: a pure filtered listing, newest first,
// with the cursor predicate pushed into SQL.
func (e *Engine) browse(ctx context.Context, q *types.Query) (*types.Page, error) {
	rows, err := e.store.BrowseBookmarks(ctx, candidateQuery(q), q.Cursor, q.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("browse: %w", err)
	}

	hasMore := len(rows) > q.Limit
	if hasMore {
		rows = rows[:q.Limit]
	}

	results := make([]types.Result, 0, len(rows))
	for _, bm := range rows {
		results = append(results, types.Result{Bookmark: *bm, Score: 1.0})
	}

	page := &types.Page{Results: results, HasMore: hasMore}
	if len(rows) > 0 {
		page.NextCursor = types.EncodeCursor(rows[len(rows)-1].ID)
	}
	return page, nil
}

// semanticCandidates embeds the query text and scans the owner's stored
// vectors, keeping bookmarks whose best vector lies within the distance
// threshold. The threshold boundary is inclusive.
func (e *Engine) semanticCandidates(ctx context.Context, cq *storage.CandidateQuery, threshold float64) ([]types.Candidate, error) {
	sctx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
	defer cancel()

	emb, err := e.embed.GenerateEmbedding(sctx, embedder.EmbeddingRequest{Text: cq.Text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := e.store.EmbeddingRows(sctx, cq)
	if err != nil {
		return nil, fmt.Errorf("embedding rows: %w", err)
	}

	cands := make([]types.Candidate, 0)
	for _, row := range rows {
		dist, ok := bestDistance(emb.Vector, row)
		if !ok || dist > threshold {
			continue
		}
		cands = append(cands, types.Candidate{
			BookmarkID: row.BookmarkID,
			MatchType:  types.MatchSemantic,
			Distance:   dist,
		})
	}
	return cands, nil
}

// bestDistance returns the smaller cosine distance between the query
// vector and the row's title and summary vectors. Rows whose stored
// dimension does not match the query embedding are skipped.
func bestDistance(query []float32, row storage.EmbeddingRow) (float64, bool) {
	best := 0.0
	found := false
	for _, blob := range [][]byte{row.TitleVector, row.SummaryVector} {
		if len(blob) == 0 {
			continue
		}
		vec, err := storage.DeserializeVector(blob)
		if err != nil || len(vec) != len(query) {
			continue
		}
		dist := storage.CosineDistance(query, vec)
		if !found || dist < best {
			best = dist
			found = true
		}
	}
	return best, found
}

// hydrate loads full bookmark rows for the page's candidates, preserving
// candidate order. Candidates whose row vanished mid-query are dropped.
func (e *Engine) hydrate(ctx context.Context, ownerID string, cands []types.Candidate) ([]types.Result, error) {
	if len(cands) == 0 {
		return []types.Result{}, nil
	}

	ids := make([]int64, len(cands))
	for i, cand := range cands {
		ids[i] = cand.BookmarkID
	}

	rows, err := e.store.GetBookmarksByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate page: %w", err)
	}

	results := make([]types.Result, 0, len(cands))
	for _, cand := range cands {
		bm, ok := rows[cand.BookmarkID]
		if !ok {
			continue
		}
		results = append(results, types.Result{
			Bookmark:    *bm,
			MatchType:   cand.MatchType,
			MatchedTags: cand.MatchedTags,
			Score:       score(cand),
		})
	}
	return results, nil
}

func candidateQuery(q *types.Query) *storage.CandidateQuery {
	return &storage.CandidateQuery{
		OwnerID:        q.OwnerID,
		Text:           q.Text,
		Tags:           q.Tags,
		Types:          q.Types,
		SpecialFilters: q.SpecialFilters,
	}
}

// IsNotFound reports whether an error is the store's missing-row sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
