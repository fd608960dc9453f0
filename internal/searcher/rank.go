package searcher

import (
	"sort"

	"github.com/linkstash/linkstash/pkg/types"
)

// mergeCandidates deduplicates candidates found by multiple retrieval
// paths. The highest-precedence match type wins the slot; matched tags are
// unioned so a bookmark found by both text and tag still reports which
// tags hit.
func mergeCandidates(lists ...[]types.Candidate) []types.Candidate {
	byID := make(map[int64]types.Candidate)
	order := make([]int64, 0)

	for _, list := range lists {
		for _, cand := range list {
			existing, ok := byID[cand.BookmarkID]
			if !ok {
				byID[cand.BookmarkID] = cand
				order = append(order, cand.BookmarkID)
				continue
			}
			merged := existing
			if cand.MatchType.Outranks(existing.MatchType) {
				merged.MatchType = cand.MatchType
				merged.Distance = cand.Distance
			}
			merged.MatchedTags = unionTags(existing.MatchedTags, cand.MatchedTags)
			byID[cand.BookmarkID] = merged
		}
	}

	out := make([]types.Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// rankCandidates sorts merged candidates into the response order: match
// type precedence first, then ascending semantic distance, then descending
// id. Ids are assigned monotonically, so the id tiebreak is newest-first.
func rankCandidates(cands []types.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.MatchType != b.MatchType {
			return a.MatchType.Outranks(b.MatchType)
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.BookmarkID > b.BookmarkID
	})
}

// score converts a candidate into the display-only relevance value:
// 1.0 for exact and tag matches, inverse distance for semantic ones
func score(cand types.Candidate) float64 {
	if cand.MatchType != types.MatchSemantic {
		return 1.0
	}
	s := 1.0 - cand.Distance
	if s < 0 {
		return 0
	}
	return s
}

func unionTags(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	seen := make(map[string]struct{}, len(a))
	out := append([]string(nil), a...)
	for _, t := range a {
		seen[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := seen[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
