package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/linkstash/pkg/types"
)

func TestMergeCandidatesDeduplicates(t *testing.T) {
	lexical := []types.Candidate{
		{BookmarkID: 1, MatchType: types.MatchExactText},
		{BookmarkID: 2, MatchType: types.MatchExactText},
	}
	tagged := []types.Candidate{
		{BookmarkID: 1, MatchType: types.MatchTag, MatchedTags: []string{"go"}},
		{BookmarkID: 3, MatchType: types.MatchTag, MatchedTags: []string{"ai"}},
	}
	semantic := []types.Candidate{
		{BookmarkID: 1, MatchType: types.MatchSemantic, Distance: 0.05},
	}

	merged := mergeCandidates(lexical, tagged, semantic)
	require.Len(t, merged, 3)

	byID := make(map[int64]types.Candidate)
	for _, c := range merged {
		byID[c.BookmarkID] = c
	}

	// Highest precedence wins the slot, tags survive the merge
	assert.Equal(t, types.MatchExactText, byID[1].MatchType)
	assert.Zero(t, byID[1].Distance)
	assert.Equal(t, []string{"go"}, byID[1].MatchedTags)

	assert.Equal(t, types.MatchTag, byID[3].MatchType)
}

func TestMergeCandidatesLowerPrecedenceNeverWins(t *testing.T) {
	semantic := []types.Candidate{{BookmarkID: 1, MatchType: types.MatchSemantic, Distance: 0.01}}
	lexical := []types.Candidate{{BookmarkID: 1, MatchType: types.MatchExactText}}

	// Order of lists must not matter
	merged := mergeCandidates(semantic, lexical)
	require.Len(t, merged, 1)
	assert.Equal(t, types.MatchExactText, merged[0].MatchType)
	assert.Zero(t, merged[0].Distance)
}

func TestRankCandidatesOrdering(t *testing.T) {
	cands := []types.Candidate{
		{BookmarkID: 1, MatchType: types.MatchSemantic, Distance: 0.2},
		{BookmarkID: 2, MatchType: types.MatchTag},
		{BookmarkID: 3, MatchType: types.MatchSemantic, Distance: 0.1},
		{BookmarkID: 4, MatchType: types.MatchExactText},
		{BookmarkID: 5, MatchType: types.MatchExactText},
	}

	rankCandidates(cands)

	// Precedence first; within EXACT_TEXT newer ids come first; semantic
	// sorts by ascending distance
	ids := make([]int64, len(cands))
	for i, c := range cands {
		ids[i] = c.BookmarkID
	}
	assert.Equal(t, []int64{5, 4, 2, 3, 1}, ids)
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, score(types.Candidate{MatchType: types.MatchExactText}))
	assert.Equal(t, 1.0, score(types.Candidate{MatchType: types.MatchTag}))
	assert.InDelta(t, 0.75, score(types.Candidate{MatchType: types.MatchSemantic, Distance: 0.25}), 1e-9)
	// Distances beyond 1 floor at zero
	assert.Zero(t, score(types.Candidate{MatchType: types.MatchSemantic, Distance: 1.5}))
}
