package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/linkstash/pkg/types"
)

func TestNormalizeDefaults(t *testing.T) {
	q, err := Normalize(ContextAPI, "alice", Raw{Text: "  golang  "})
	require.NoError(t, err)

	assert.Equal(t, "alice", q.OwnerID)
	assert.Equal(t, "golang", q.Text)
	assert.Equal(t, 20, q.Limit)
	assert.InDelta(t, 0.1, q.Threshold, 1e-9)
	assert.Zero(t, q.Cursor)
	assert.Empty(t, q.Tags)
}

func TestNormalizeMissingOwner(t *testing.T) {
	_, err := Normalize(ContextAPI, "  ", Raw{Text: "golang"})
	assert.ErrorIs(t, err, types.ErrMissingOwner)
}

func TestNormalizeSplitsLists(t *testing.T) {
	q, err := Normalize(ContextAPI, "alice", Raw{
		Tags:  []string{"go, ai", " web ", "go"},
		Types: []string{"article,VIDEO", "podcast", "article"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "ai", "web"}, q.Tags)
	// Unknown type values are dropped, duplicates collapsed
	assert.Equal(t, []types.BookmarkType{types.TypeArticle, types.TypeVideo}, q.Types)
}

func TestNormalizeSpecialFilters(t *testing.T) {
	q, err := Normalize(ContextAPI, "alice", Raw{SpecialFilters: []string{"star", "unread", "bogus"}})
	require.NoError(t, err)
	assert.Equal(t, []types.SpecialFilter{types.FilterStar, types.FilterUnread}, q.SpecialFilters)

	// The public surface strips special filters entirely
	q, err = Normalize(ContextPublic, "alice", Raw{SpecialFilters: []string{"star"}})
	require.NoError(t, err)
	assert.Empty(t, q.SpecialFilters)
}

func TestNormalizeLimitStrict(t *testing.T) {
	// In range
	q, err := Normalize(ContextAPI, "alice", Raw{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, q.Limit)

	// Over the cap fails on strict surfaces
	_, err = Normalize(ContextAPI, "alice", Raw{Limit: 51})
	assert.ErrorIs(t, err, types.ErrInvalidLimit)

	_, err = Normalize(ContextAPI, "alice", Raw{Limit: -1})
	assert.ErrorIs(t, err, types.ErrInvalidLimit)

	// The versioned API carries a larger cap
	q, err = Normalize(ContextAPIV1, "alice", Raw{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 100, q.Limit)
}

func TestNormalizeLimitLenient(t *testing.T) {
	// Lenient surfaces clamp instead of failing
	q, err := Normalize(ContextAssistant, "alice", Raw{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 20, q.Limit)

	q, err = Normalize(ContextAssistant, "alice", Raw{})
	require.NoError(t, err)
	assert.Equal(t, 10, q.Limit)

	q, err = Normalize(ContextPublic, "alice", Raw{Limit: -3})
	require.NoError(t, err)
	assert.Equal(t, 20, q.Limit)
}

func TestNormalizeThreshold(t *testing.T) {
	// Context defaults
	q, err := Normalize(ContextPublic, "alice", Raw{})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, q.Threshold, 1e-9)

	q, err = Normalize(ContextAssistant, "alice", Raw{})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, q.Threshold, 1e-9)

	// Explicit values clamp into range instead of failing
	q, err = Normalize(ContextAPI, "alice", Raw{Threshold: 5})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, q.Threshold, 1e-9)

	q, err = Normalize(ContextAPI, "alice", Raw{Threshold: 0.01})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, q.Threshold, 1e-9)

	q, err = Normalize(ContextAPI, "alice", Raw{Threshold: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, q.Threshold, 1e-9)
}

func TestNormalizeCursor(t *testing.T) {
	token := types.EncodeCursor(42)
	q, err := Normalize(ContextAPI, "alice", Raw{Cursor: token})
	require.NoError(t, err)
	assert.Equal(t, int64(42), q.Cursor)

	_, err = Normalize(ContextAPI, "alice", Raw{Cursor: "garbage!!"})
	assert.ErrorIs(t, err, types.ErrInvalidCursor)
}
