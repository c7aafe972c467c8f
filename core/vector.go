package core

import "github.com/viant/vec/search"

// Norm returns the Euclidean length of v.
func Norm(v []float32) float32 {
	return search.Float32s(v).Magnitude()
}

// NormalizeVector scales v to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))
	magnitude := Norm(v)
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
