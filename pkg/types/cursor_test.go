package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, id := range []int64{1, 42, 1<<40 + 7} {
		token := EncodeCursor(id)
		require.NotEmpty(t, token)

		got, err := DecodeCursor(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	for _, token := range []string{"not base64 !!", "aGVsbG8", EncodeCursor(0)} {
		_, err := DecodeCursor(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, "token %q", token)
	}
}

func TestCursorIsOpaque(t *testing.T) {
	// Tokens must be URL-safe
	token := EncodeCursor(123456789)
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "=")
}
