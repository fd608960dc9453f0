package types

// MatchType classifies why a bookmark matched, used for ranking precedence
type MatchType string

const (
	MatchExactText MatchType = "EXACT_TEXT"
	MatchTag       MatchType = "TAG"
	MatchSemantic  MatchType = "SEMANTIC"
)

// precedence orders match types for the merge step; lower is better
func (m MatchType) precedence() int {
	switch m {
	case MatchExactText:
		return 0
	case MatchTag:
		return 1
	case MatchSemantic:
		return 2
	default:
		return 3
	}
}

// Outranks reports whether m takes precedence over other when the same
// bookmark was found by multiple retrieval paths.
func (m MatchType) Outranks(other MatchType) bool {
	return m.precedence() < other.precedence()
}

// Candidate is an unranked match produced by one retrieval path
type Candidate struct {
	BookmarkID  int64
	MatchType   MatchType
	Distance    float64 // 0 for lexical and tag matches
	MatchedTags []string
}

// Result is a ranked bookmark returned to callers
type Result struct {
	Bookmark    Bookmark
	MatchType   MatchType
	MatchedTags []string
	// Score is a normalized inverse-distance value for display only:
	// 1.0 for exact and tag matches, 1 - distance for semantic ones.
	Score float64
}

// Page is one page of ranked results plus the resume point
type Page struct {
	Results    []Result
	HasMore    bool
	NextCursor string // Empty when the page is empty
}
