// Package types provides shared type definitions for the linkstash search engine.
//
// This package defines the domain types used across components: bookmarks,
// tags, normalized queries, candidates, and paginated results.
//
// # Core Types
//
// Bookmark is the persisted entity the engine reads. Its ID is monotonic in
// creation order, which is what cursor pagination anchors on:
//
//	bm := &types.Bookmark{
//	    OwnerID: owner,
//	    URL:     "https://react.dev/learn",
//	    Type:    types.TypeArticle,
//	    Status:  types.StatusReady,
//	}
//
// Query is a normalized search request. Build it through query.Normalize so
// the clamping and validation invariants hold:
//
//	q, err := query.Normalize(query.ContextAPI, owner, raw)
//
// Candidate is an unranked match produced by a single retrieval path
// (lexical, tag, or semantic), tagged with how it matched. The ranker merges
// candidate sets into Results with the precedence
// EXACT_TEXT > TAG > SEMANTIC.
//
// # Tenant Isolation
//
// Every Candidate and Result must belong to the querying owner. The storage
// layer enforces this in every candidate query; it is a correctness
// invariant, not a convention.
package types
