package embedder_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatforge/rag/pkg/embedder"
)

type stubRemote struct {
	vec []float32
	err error

	calls int
}

func (s *stubRemote) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, nil
}

func TestLocalEmbed_Deterministic(t *testing.T) {
	a := embedder.LocalEmbed("the cat sat on the mat")
	b := embedder.LocalEmbed("the cat sat on the mat")

	require.Len(t, a, embedder.LocalDim)
	assert.Equal(t, a, b)
}

func TestLocalEmbed_Normalized(t *testing.T) {
	vec := embedder.LocalEmbed("stock markets fluctuate on macroeconomic news")

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestLocalEmbed_EmptyIsZeroVector(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		vec := embedder.LocalEmbed(text)
		require.Len(t, vec, embedder.LocalDim)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	}
}

func TestLocalEmbed_DistinctTexts(t *testing.T) {
	a := embedder.LocalEmbed("cats are mammals")
	b := embedder.LocalEmbed("stock markets fluctuate")

	assert.NotEqual(t, a, b)
}

func TestGenerator_LocalOnly(t *testing.T) {
	g := embedder.New(context.Background(), embedder.Config{}, nil)

	assert.Equal(t, embedder.ProviderLocal, g.Provider())
	assert.Equal(t, embedder.LocalDim, g.Dimension())

	vec := g.Embed(context.Background(), "hello world")
	assert.Equal(t, embedder.LocalEmbed("hello world"), vec)
}

func TestGenerator_RemotePreferred(t *testing.T) {
	remote := &stubRemote{vec: make([]float32, embedder.RemoteDim)}
	remote.vec[0] = 1

	g := embedder.NewWithRemote(remote, embedder.RemoteDim, nil)

	assert.Equal(t, embedder.ProviderGoogle, g.Provider())
	assert.Equal(t, embedder.RemoteDim, g.Dimension())

	vec := g.Embed(context.Background(), "hello world")
	require.Len(t, vec, embedder.RemoteDim)
	assert.Equal(t, float32(1), vec[0])
	assert.Equal(t, 1, remote.calls)
}

func TestGenerator_FallsBackOnRemoteError(t *testing.T) {
	remote := &stubRemote{err: errors.New("quota exceeded")}
	g := embedder.NewWithRemote(remote, embedder.RemoteDim, nil)

	// No error surfaces; the caller gets the deterministic local vector.
	vec := g.Embed(context.Background(), "hello world")

	require.Len(t, vec, embedder.LocalDim)
	assert.Equal(t, embedder.LocalEmbed("hello world"), vec)
}

func TestGenerator_NilRemoteIsLocal(t *testing.T) {
	g := embedder.NewWithRemote(nil, 0, nil)

	assert.Equal(t, embedder.ProviderLocal, g.Provider())
	assert.Equal(t, embedder.LocalDim, g.Dimension())
}

func TestLocalEmbed_BucketCounts(t *testing.T) {
	// Two occurrences of one token land in a single bucket; the normalized
	// vector therefore has exactly one non-zero component equal to 1.
	vec := embedder.LocalEmbed("alpha alpha")

	nonZero := 0
	for _, v := range vec {
		if v != 0 {
			nonZero++
			assert.InDelta(t, 1.0, float64(v), 1e-6)
		}
	}
	assert.Equal(t, 1, nonZero)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}
