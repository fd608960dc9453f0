package types

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// EncodeCursor wraps a bookmark id into an opaque pagination token.
// The id is the sort key under default ordering; because ids are monotonic
// and immutable, forward paging never duplicates or skips rows even when
// new bookmarks are inserted between page fetches.
func EncodeCursor(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeCursor unwraps an opaque pagination token back into a bookmark id
func DecodeCursor(cursor string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidCursor
	}
	return id, nil
}
