package storage

import (
	"context"
	"time"

	"github.com/linkstash/linkstash/pkg/types"
)

// Storage defines the interface for persisting and querying bookmark data.
// The search engine only reads; the write surface exists for the engine's
// collaborators (CRUD handlers, the enrichment pipeline) and for tests.
type Storage interface {
	// Bookmark operations
	CreateBookmark(ctx context.Context, bm *types.Bookmark) error
	GetBookmark(ctx context.Context, ownerID string, id int64) (*types.Bookmark, error)
	UpdateBookmark(ctx context.Context, bm *types.Bookmark) error
	DeleteBookmark(ctx context.Context, ownerID string, id int64) error
	SetBookmarkStatus(ctx context.Context, ownerID string, id int64, status types.BookmarkStatus) error
	SetBookmarkEmbeddings(ctx context.Context, ownerID string, id int64, title, summary []float32) error
	GetBookmarksByIDs(ctx context.Context, ownerID string, ids []int64) (map[int64]*types.Bookmark, error)

	// Tag operations
	UpsertTag(ctx context.Context, tag *types.Tag) error
	TagBookmark(ctx context.Context, ownerID string, bookmarkID, tagID int64) error
	UntagBookmark(ctx context.Context, ownerID string, bookmarkID, tagID int64) error
	ListTags(ctx context.Context, ownerID string) ([]*types.Tag, error)
	ListTagsByBookmark(ctx context.Context, ownerID string, bookmarkID int64) ([]*types.Tag, error)

	// Candidate generation read paths. Every query applies the structural
	// filters in CandidateQuery: ownership first, READY status, type set,
	// tag membership, special filters.
	LexicalCandidates(ctx context.Context, q *CandidateQuery) ([]types.Candidate, error)
	TagCandidates(ctx context.Context, q *CandidateQuery) ([]types.Candidate, error)
	EmbeddingRows(ctx context.Context, q *CandidateQuery) ([]EmbeddingRow, error)
	BrowseBookmarks(ctx context.Context, q *CandidateQuery, beforeID int64, limit int) ([]*types.Bookmark, error)

	// Share link operations
	CreateShareLink(ctx context.Context, token, ownerID string) error
	ResolveShareLink(ctx context.Context, token string) (string, error)

	// Status operations
	GetStatus(ctx context.Context, ownerID string) (*OwnerStatus, error)

	// Database operations
	Close() error
}

// CandidateQuery carries the structural predicates the filter composer
// applies, fused into each candidate-generation query.
type CandidateQuery struct {
	OwnerID        string
	Text           string // Free-text needle for the lexical path
	Tags           []string
	Types          []types.BookmarkType
	SpecialFilters []types.SpecialFilter
}

// EmbeddingRow is a raw embedding record for the semantic path. Vectors are
// little-endian float32 blobs; either may be nil when enrichment has only
// produced one of them.
type EmbeddingRow struct {
	BookmarkID    int64
	TitleVector   []byte
	SummaryVector []byte
}

// OwnerStatus contains statistics about one owner's bookmark set
type OwnerStatus struct {
	BookmarksTotal  int
	BookmarksReady  int
	BookmarksErrors int
	TagsTotal       int
	WithEmbeddings  int
	StoreSizeMB     float64
	LastCreatedAt   time.Time
}
