package embedder

import (
	"math"
	"strings"
)

// LocalDim is the dimensionality of the local fallback embedding. It is
// deliberately different from RemoteDim: vectors from the two backends are
// not comparable, and the length difference makes mixing detectable.
const LocalDim = 384

// LocalEmbed is the deterministic fallback: a hashed bag of words. Each
// whitespace token is hashed into one of LocalDim buckets, bucket counts are
// accumulated, and the result is L2-normalized. Identical input always
// yields an identical vector. Input with no tokens yields the zero vector,
// which scores similarity 0 against everything.
func LocalEmbed(text string) []float32 {
	vec := make([]float32, LocalDim)
	for _, token := range strings.Fields(text) {
		vec[bucket(token)]++
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// bucket maps a token to a vector index with a polynomial rolling hash
// folded into 32 bits.
func bucket(token string) int {
	var h int32
	for _, r := range token {
		h = h*31 + int32(r)
	}
	idx := int(h % int32(LocalDim))
	if idx < 0 {
		idx = -idx
	}
	return idx
}
