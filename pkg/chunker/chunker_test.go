package chunker_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatforge/rag/pkg/chunker"
)

func TestSplit_Empty(t *testing.T) {
	s := chunker.New()

	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\t  "))
}

func TestSplit_ShortInput(t *testing.T) {
	s := chunker.New()
	text := "The quick brown fox jumps over the lazy dog, twice, on a Tuesday afternoon."

	chunks := s.Split(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_BelowMinLengthDropped(t *testing.T) {
	s := chunker.New()

	// Under 50 characters: filtered out entirely.
	assert.Empty(t, s.Split("too short to keep"))
}

func TestSplit_LongInput(t *testing.T) {
	s := chunker.New()
	sentence := "Cats are small carnivorous mammals kept as pets. "
	text := strings.Repeat(sentence, 60) // ~2940 chars

	chunks := s.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, len(c), 50)
		assert.LessOrEqual(t, len(c), chunker.DefaultChunkSize)
		assert.Contains(t, text, c)
	}
}

func TestSplit_CoversInput(t *testing.T) {
	cfg := chunker.Config{ChunkSize: 200, ChunkOverlap: 40, MinLength: 10}
	s := chunker.NewWithConfig(cfg)
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Sentence number %03d discusses a distinct topic. ", i)
	}
	text := b.String()

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// Each chunk occurs in the original at a position no earlier than the
	// previous chunk's start: the walk moves strictly forward.
	prev := -1
	for _, c := range chunks {
		idx := strings.Index(text, c)
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, prev)
		prev = idx
	}

	// The final chunk reaches the end of the input (modulo trimming).
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}

func TestSplit_SnapsToSentenceBoundary(t *testing.T) {
	cfg := chunker.Config{ChunkSize: 100, ChunkOverlap: 20, MinLength: 10}
	s := chunker.NewWithConfig(cfg)

	// A period sits ~90% into the first window, so the first chunk should be
	// cut there instead of mid-word at the raw 100-char boundary.
	text := strings.Repeat("a", 88) + ". " + strings.Repeat("b", 200)

	chunks := s.Split(text)

	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "first chunk should end at the sentence boundary, got %q", chunks[0])
}

func TestSplit_NoSnapBeforeThreshold(t *testing.T) {
	cfg := chunker.Config{ChunkSize: 100, ChunkOverlap: 20, MinLength: 10}
	s := chunker.NewWithConfig(cfg)

	// The only period sits at 30% of the window, well before the 70% snap
	// threshold, so the raw character cut wins.
	text := strings.Repeat("a", 28) + ". " + strings.Repeat("b", 300)

	chunks := s.Split(text)

	require.NotEmpty(t, chunks)
	assert.Len(t, chunks[0], 100)
}

func TestSplit_OverlapBetweenChunks(t *testing.T) {
	cfg := chunker.Config{ChunkSize: 100, ChunkOverlap: 30, MinLength: 10}
	s := chunker.NewWithConfig(cfg)
	text := strings.Repeat("x", 95) + " " + strings.Repeat("y", 95) + " " + strings.Repeat("z", 95)

	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)

	// Consecutive chunks share at most ChunkOverlap characters of text.
	for i := 1; i < len(chunks); i++ {
		shared := sharedAffix(chunks[i-1], chunks[i])
		assert.LessOrEqual(t, shared, cfg.ChunkOverlap)
	}
}

// sharedAffix returns the length of the longest suffix of a that is a prefix
// of b.
func sharedAffix(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for n := max; n > 0; n-- {
		if strings.HasPrefix(b, a[len(a)-n:]) {
			return n
		}
	}
	return 0
}
