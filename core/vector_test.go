package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
		want  []float32
	}{
		{"empty", []float32{}, []float32{}},
		{"zero", []float32{0, 0, 0}, []float32{0, 0, 0}},
		{"unit", []float32{1, 0}, []float32{1, 0}},
		{"scaled", []float32{3, 4}, []float32{0.6, 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.input)
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}

	t.Run("does not modify input", func(t *testing.T) {
		v := []float32{3, 4}
		NormalizeVector(v)
		assert.Equal(t, []float32{3, 4}, v)
	})
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5, Norm([]float32{3, 4}), 1e-6)
	assert.InDelta(t, 1, Norm([]float32{0, 0, -1}), 1e-6)
	assert.Zero(t, Norm(nil))
	assert.Zero(t, Norm([]float32{0, 0}))
}
