package types

import (
	"strings"
	"time"
)

// BookmarkType classifies the kind of content a bookmark points at
type BookmarkType string

const (
	TypeArticle BookmarkType = "ARTICLE"
	TypePage    BookmarkType = "PAGE"
	TypeYouTube BookmarkType = "YOUTUBE"
	TypeTweet   BookmarkType = "TWEET"
	TypeVideo   BookmarkType = "VIDEO"
	TypeImage   BookmarkType = "IMAGE"
	TypePDF     BookmarkType = "PDF"
	TypeProduct BookmarkType = "PRODUCT"
	TypeOther   BookmarkType = "OTHER"
)

// ParseBookmarkType returns the matching type for a raw string.
// Matching is case-insensitive; unknown values report ok=false.
func ParseBookmarkType(raw string) (BookmarkType, bool) {
	switch BookmarkType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeArticle:
		return TypeArticle, true
	case TypePage:
		return TypePage, true
	case TypeYouTube:
		return TypeYouTube, true
	case TypeTweet:
		return TypeTweet, true
	case TypeVideo:
		return TypeVideo, true
	case TypeImage:
		return TypeImage, true
	case TypePDF:
		return TypePDF, true
	case TypeProduct:
		return TypeProduct, true
	case TypeOther:
		return TypeOther, true
	default:
		return "", false
	}
}

// BookmarkStatus tracks a bookmark's position in the enrichment pipeline
type BookmarkStatus string

const (
	StatusPending    BookmarkStatus = "PENDING"
	StatusProcessing BookmarkStatus = "PROCESSING"
	StatusReady      BookmarkStatus = "READY"
	StatusError      BookmarkStatus = "ERROR"
)

// Bookmark is a saved URL with its enrichment artifacts.
// IDs are assigned by the store and are monotonic in creation order,
// which is what cursor pagination anchors on.
type Bookmark struct {
	ID      int64
	OwnerID string
	URL     string
	Title   *string // Nullable until enrichment completes
	Summary *string // Nullable until enrichment completes
	Type    BookmarkType
	Status  BookmarkStatus
	Starred bool
	Read    bool

	// Enrichment artifacts
	Preview       string
	FaviconURL    string
	OGImageURL    string
	OGDescription string
	Metadata      string // JSON blob, opaque to the engine

	// Precomputed embeddings, nil until the enrichment pipeline writes them
	TitleEmbedding   []float32
	SummaryEmbedding []float32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagKind distinguishes user-authored tags from AI-generated ones
type TagKind string

const (
	TagKindUser TagKind = "USER"
	TagKindAI   TagKind = "AI"
)

// Tag is a label attached to bookmarks, unique by name per owner
type Tag struct {
	ID        int64
	OwnerID   string
	Name      string
	Kind      TagKind
	CreatedAt time.Time
}
