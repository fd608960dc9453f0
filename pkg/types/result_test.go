package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTypeOutranks(t *testing.T) {
	assert.True(t, MatchExactText.Outranks(MatchTag))
	assert.True(t, MatchExactText.Outranks(MatchSemantic))
	assert.True(t, MatchTag.Outranks(MatchSemantic))

	assert.False(t, MatchSemantic.Outranks(MatchTag))
	assert.False(t, MatchTag.Outranks(MatchTag))
}
