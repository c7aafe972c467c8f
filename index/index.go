// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package index defines the similarity index used to find the sections
// nearest to a query vector.
//
// Scores are cosine similarities in [-1, 1], higher is better. Nearest
// returns exactly min(k, Size()) hits ordered by descending score, with ties
// broken by ascending section id, and assigns ranks starting at 1.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/vec/search"

	"github.com/poiesic/papervec/core"
)

var (
	// ErrZeroVector indicates a vector with zero magnitude.
	ErrZeroVector = errors.New("zero-magnitude vector")

	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Index finds the stored vectors nearest to a query vector.
// Implementations must be safe for concurrent queries.
type Index interface {
	// Nearest returns the k most similar entries. k <= 0 yields no hits.
	Nearest(ctx context.Context, vector []float32, k int) ([]core.Hit, error)

	// Size returns the number of indexed entries.
	Size() int

	// Dimension returns the length of indexed vectors.
	Dimension() int
}

// Prepare validates a vector against dimension and returns it normalized.
func Prepare(vector []float32, dimension int) ([]float32, error) {
	if len(vector) != dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), dimension)
	}
	if core.Norm(vector) == 0 {
		return nil, ErrZeroVector
	}
	return core.NormalizeVector(vector), nil
}

// Cosine returns the cosine similarity of a and b clamped to [-1, 1].
// Vectors of different length, or with zero magnitude, score 0.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	similarity := 1 - search.Float32s(a).CosineDistance(b)
	return max(-1, min(1, similarity))
}
