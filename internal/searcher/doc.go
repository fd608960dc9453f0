// Package searcher implements the hybrid search pipeline over stored
// bookmarks.
//
// A query with text fans out to three retrieval paths in parallel:
// lexical (case-insensitive substring over title, url, and summary), tag
// (exact case-insensitive tag name), and semantic (cosine distance
// between the query embedding and stored title/summary vectors). All
// paths apply the same structural filters: ownership, READY status, type
// set, tag membership, and special filters. Candidates are deduplicated
// with EXACT_TEXT > TAG > SEMANTIC precedence, ranked, cut into a page,
// and only then hydrated into full bookmark rows.
//
// A query without text is a browse: a filtered listing newest-first with
// the cursor pushed down into SQL.
//
// The semantic path runs under its own deadline and degrades to nothing
// on error, so a slow or unconfigured embedding provider never breaks
// search. Result pages are cached in an LRU with a short TTL; writes
// invalidate by bumping a per-owner epoch that is mixed into every cache
// key. Identical concurrent queries are collapsed through singleflight.
package searcher
