package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatforge/rag/pkg/search"
)

func TestCosine(t *testing.T) {
	v := []float32{0.5, -1.25, 3, 0.75}
	neg := []float32{-0.5, 1.25, -3, -0.75}
	zero := []float32{0, 0, 0, 0}

	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"self similarity is maximal", v, v, 1},
		{"opposite vector", v, neg, -1},
		{"zero vector left", zero, v, 0},
		{"zero vector right", v, zero, 0},
		{"both zero", zero, zero, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", v, []float32{1, 2}, 0},
		{"nil operand", nil, v, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, search.Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosine_ScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, 20, 30}

	assert.InDelta(t, 1.0, search.Cosine(a, b), 1e-6)
}
