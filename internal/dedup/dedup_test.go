package dedup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/marketpulse/internal/domain"
)

func meta() domain.PostMeta {
	return domain.PostMeta{Platform: "reddit", Author: "poster"}
}

// longContent builds a content string of n distinct words sharing a common
// prefix set, so two calls with different tails are highly similar.
func longContent(n int, tail string) string {
	words := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		words = append(words, fmt.Sprintf("word%02d", i))
	}
	words = append(words, tail)
	return strings.Join(words, " ")
}

func TestIsDuplicateExactMatch(t *testing.T) {
	d := New()

	assert.False(t, d.IsDuplicate("TSLA to the moon", meta()))
	assert.True(t, d.IsDuplicate("TSLA to the moon", meta()))
}

func TestIsDuplicateNormalizesContent(t *testing.T) {
	d := New()

	assert.False(t, d.IsDuplicate("Buy the dip on AAPL", meta()))
	assert.True(t, d.IsDuplicate("  buy the DIP on aapl  ", meta()))
}

func TestIsDuplicateNearMatch(t *testing.T) {
	d := New()

	// 50 shared words, one differing: cosine well above 0.95.
	require.False(t, d.IsDuplicate(longContent(50, "original"), meta()))
	assert.True(t, d.IsDuplicate(longContent(50, "crosspost"), meta()))
}

func TestIsDuplicateDistinctContent(t *testing.T) {
	d := New()

	assert.False(t, d.IsDuplicate("tesla deliveries missed estimates this quarter badly", meta()))
	assert.False(t, d.IsDuplicate("gamestop short interest remains elevated after earnings", meta()))
	assert.False(t, d.IsDuplicate("apple services revenue keeps growing year over year", meta()))
}

func TestNearDuplicateNotBuffered(t *testing.T) {
	d := New()

	require.False(t, d.IsDuplicate(longContent(50, "first"), meta()))
	require.True(t, d.IsDuplicate(longContent(50, "second"), meta()))

	// The near-duplicate was not registered: only the original is in the
	// buffer, and a third variant still matches against it.
	assert.Equal(t, 1, len(d.buffer))
	assert.True(t, d.IsDuplicate(longContent(50, "third"), meta()))
}

func TestDegenerateContentIsNotDuplicate(t *testing.T) {
	d := New()

	require.False(t, d.IsDuplicate("tesla calls printing money today again definitely", meta()))

	// Punctuation-only content produces no usable terms; similarity falls
	// back to 0.0 instead of failing.
	assert.False(t, d.IsDuplicate("!!! ??? !!!", meta()))
}

func TestBufferEviction(t *testing.T) {
	d := New()

	first := "evictme alpha0 beta0 gamma0 delta0"
	require.False(t, d.IsDuplicate(first, meta()))

	// Fill the buffer past capacity with distinct content.
	for i := 1; i <= bufferCapacity; i++ {
		content := fmt.Sprintf("filler%d alpha%d beta%d gamma%d delta%d", i, i, i, i, i)
		require.False(t, d.IsDuplicate(content, meta()))
	}

	assert.Equal(t, bufferCapacity, len(d.buffer))

	// The first entry was evicted: its exact fingerprint is gone and it no
	// longer serves as a near-duplicate source.
	assert.False(t, d.IsDuplicate(first, meta()))
}

func TestSeenSetStaysBounded(t *testing.T) {
	d := New()

	for i := 0; i < bufferCapacity+200; i++ {
		content := fmt.Sprintf("bounded%d alpha%d beta%d gamma%d delta%d", i, i, i, i, i)
		require.False(t, d.IsDuplicate(content, meta()))
	}

	assert.Equal(t, bufferCapacity, len(d.seen))
}
