package types

import (
	"fmt"
	"sort"
	"strings"
)

// SpecialFilter is a boolean status predicate, distinct from type and tag filters
type SpecialFilter string

const (
	FilterRead   SpecialFilter = "READ"
	FilterUnread SpecialFilter = "UNREAD"
	FilterStar   SpecialFilter = "STAR"
)

// ParseSpecialFilter returns the matching filter for a raw string.
// Matching is case-insensitive; values outside the closed set report ok=false.
func ParseSpecialFilter(raw string) (SpecialFilter, bool) {
	switch SpecialFilter(strings.ToUpper(strings.TrimSpace(raw))) {
	case FilterRead:
		return FilterRead, true
	case FilterUnread:
		return FilterUnread, true
	case FilterStar:
		return FilterStar, true
	default:
		return "", false
	}
}

// Query is a normalized, validated search request. Construct through
// query.Normalize rather than by hand so the invariants hold.
type Query struct {
	OwnerID        string
	Text           string // Empty means no text filter
	Tags           []string
	Types          []BookmarkType
	SpecialFilters []SpecialFilter
	Cursor         int64 // 0 means first page
	Limit          int
	Threshold      float64 // Semantic distance cutoff, inclusive
}

// HasText reports whether the query carries a free-text filter
func (q *Query) HasText() bool {
	return q.Text != ""
}

// CacheKey builds a deterministic serialization of the query for cache
// hashing. Set-valued fields are sorted so logically equal queries produce
// identical keys.
func (q *Query) CacheKey() string {
	tags := append([]string(nil), q.Tags...)
	sort.Strings(tags)

	typs := make([]string, len(q.Types))
	for i, t := range q.Types {
		typs[i] = string(t)
	}
	sort.Strings(typs)

	filters := make([]string, len(q.SpecialFilters))
	for i, f := range q.SpecialFilters {
		filters[i] = string(f)
	}
	sort.Strings(filters)

	var b strings.Builder
	b.WriteString(q.OwnerID)
	b.WriteString("|")
	b.WriteString(q.Text)
	b.WriteString("|")
	b.WriteString(strings.Join(tags, ","))
	b.WriteString("|")
	b.WriteString(strings.Join(typs, ","))
	b.WriteString("|")
	b.WriteString(strings.Join(filters, ","))
	b.WriteString("|")
	fmt.Fprintf(&b, "%d|%d|%.3f", q.Cursor, q.Limit, q.Threshold)
	return b.String()
}
