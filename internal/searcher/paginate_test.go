package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/linkstash/pkg/types"
)

func ranked(ids ...int64) []types.Candidate {
	cands := make([]types.Candidate, len(ids))
	for i, id := range ids {
		cands[i] = types.Candidate{BookmarkID: id}
	}
	return cands
}

func TestSlicePageFirstPage(t *testing.T) {
	page, hasMore := slicePage(ranked(10, 9, 8, 7), 0, 2)
	require.Len(t, page, 2)
	assert.Equal(t, int64(10), page[0].BookmarkID)
	assert.True(t, hasMore)
}

func TestSlicePageResumesAfterCursor(t *testing.T) {
	page, hasMore := slicePage(ranked(10, 9, 8, 7), 9, 2)
	require.Len(t, page, 2)
	assert.Equal(t, int64(8), page[0].BookmarkID)
	assert.Equal(t, int64(7), page[1].BookmarkID)
	assert.False(t, hasMore)
}

func TestSlicePageExactBoundary(t *testing.T) {
	page, hasMore := slicePage(ranked(3, 2, 1), 0, 3)
	assert.Len(t, page, 3)
	assert.False(t, hasMore)
}

func TestSlicePageCursorGone(t *testing.T) {
	// A cursor id that vanished from the ranking restarts from the top
	page, _ := slicePage(ranked(3, 2, 1), 99, 2)
	require.NotEmpty(t, page)
	assert.Equal(t, int64(3), page[0].BookmarkID)
}

func TestSlicePageCursorAtEnd(t *testing.T) {
	page, hasMore := slicePage(ranked(3, 2, 1), 1, 2)
	assert.Empty(t, page)
	assert.False(t, hasMore)
}

func TestNextCursor(t *testing.T) {
	token := nextCursor(ranked(10, 9))
	require.NotEmpty(t, token)
	id, err := types.DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	assert.Empty(t, nextCursor(nil))
}

func TestNextCursorOnFinalPage(t *testing.T) {
	// A final page still names its last row so a client can resume
	// past everything it has seen
	token := nextCursor(ranked(7))
	id, err := types.DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}
