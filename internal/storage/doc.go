// Package storage provides SQLite-backed persistence for bookmarks, tags,
// and the candidate-generation read paths the search engine runs on.
//
// # Architecture
//
// Storage is defined as an interface so the searcher and handlers depend on
// behavior, not on SQLite. The SQLiteStorage implementation supports two
// drivers selected at build time:
//
//   - cgo_sqlite tag: mattn/go-sqlite3 (C implementation, faster)
//   - default: modernc.org/sqlite (pure Go, no C toolchain needed)
//
// # Schema
//
// Three domain tables plus share links, owned by versioned migrations:
//
//	bookmarks      saved URLs with enrichment artifacts and embeddings
//	tags           per-owner labels (USER or AI authored)
//	bookmark_tags  many-to-many join
//	share_links    public token -> owner resolution
//
// Bookmark ids are AUTOINCREMENT and therefore monotonic in creation
// order; cursor pagination anchors on them.
//
// # Candidate queries
//
// The search read paths (LexicalCandidates, TagCandidates, EmbeddingRows,
// BrowseBookmarks) all fuse the structural filters of a CandidateQuery into
// their WHERE clause: ownership first, then the READY status gate, then
// type/tag/special predicates. OR semantics apply within each filter
// category, AND across categories. Keeping the ownership predicate inside
// every query is what enforces tenant isolation at the storage layer.
//
// # Embeddings
//
// Title and summary embeddings are little-endian float32 blobs written by
// the external enrichment pipeline via SetBookmarkEmbeddings. The semantic
// path reads raw rows with EmbeddingRows and computes cosine distance in
// Go; at personal-bookmark scale a linear scan outperforms maintaining a
// separate vector index.
package storage
