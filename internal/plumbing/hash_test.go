package plumbing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHashRoundTrip(t *testing.T) {
	h := NewHash("deadbeef")
	assert.Equal(t, "deadbeef", h.String())
}

func TestNewHashTruncatesOverlongInput(t *testing.T) {
	overlong := ""
	for i := 0; i < 40; i++ {
		overlong += "ab"
	}
	h := NewHash(overlong)
	assert.LessOrEqual(t, len(h.String()), HashSize*2)
}

func TestIsZero(t *testing.T) {
	assert.True(t, ZeroHash.IsZero())
	assert.False(t, NewHash("ab").IsZero())
}

func TestJSONRoundTrip(t *testing.T) {
	h := NewHash("cafef00d")
	b, err := json.Marshal(h)
	require.NoError(t, err)

	var got Hash
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, h, got)
}

func TestSortHashes(t *testing.T) {
	hs := []Hash{NewHash("ff"), NewHash("00"), NewHash("7f")}
	SortHashes(hs)
	assert.Equal(t, []Hash{NewHash("00"), NewHash("7f"), NewHash("ff")}, hs)
}

func TestHashContentDeterministic(t *testing.T) {
	assert.Equal(t, HashContent([]byte("a")), HashContent([]byte("a")))
	assert.NotEqual(t, HashContent([]byte("a")), HashContent([]byte("b")))
}
