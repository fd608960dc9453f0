package searcher

import (
	"github.com/linkstash/linkstash/pkg/types"
)

// slicePage cuts one page out of the full ranked candidate list. The
// cursor is the id of the last bookmark on the previous page: the page
// resumes strictly after it, so a bookmark deleted or re-ranked between
// fetches shifts the page boundary instead of failing the request. A
// cursor id no longer present in the list restarts from the top.
func slicePage(ranked []types.Candidate, cursor int64, limit int) (page []types.Candidate, hasMore bool) {
	start := 0
	if cursor > 0 {
		for i, cand := range ranked {
			if cand.BookmarkID == cursor {
				start = i + 1
				break
			}
		}
	}

	rest := ranked[start:]
	if len(rest) > limit {
		return rest[:limit], true
	}
	return rest, false
}

// nextCursor names the last row of a page. Every non-empty page carries
// one, final pages included, so a client can resume past what it has
// already seen.
func nextCursor(page []types.Candidate) string {
	if len(page) == 0 {
		return ""
	}
	return types.EncodeCursor(page[len(page)-1].BookmarkID)
}
