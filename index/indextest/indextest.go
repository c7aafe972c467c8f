// Package indextest provides a behavioral test suite for index.Index
// implementations.
package indextest

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/index"
)

// Builder creates an index of the given dimension holding entries.
type Builder func(t *testing.T, dimension int, entries map[core.ID][]float32) index.Index

// Run exercises the index.Index contract against build.
func Run(t *testing.T, build Builder) {
	ctx := context.Background()
	entries := map[core.ID][]float32{
		1: {1, 0, 0},
		2: {0, 1, 0},
		3: {0.9, 0.1, 0},
		4: {-1, 0, 0},
		5: {0.9, 0.1, 0},
		6: {0, 0, 1},
	}

	t.Run("size and dimension", func(t *testing.T) {
		idx := build(t, 3, entries)
		assert.Equal(t, 6, idx.Size())
		assert.Equal(t, 3, idx.Dimension())
	})

	t.Run("ordered by similarity", func(t *testing.T) {
		idx := build(t, 3, entries)
		hits, err := idx.Nearest(ctx, []float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, core.ID(1), hits[0].SectionID)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
		// 3 and 5 tie; ascending id wins
		assert.Equal(t, core.ID(3), hits[1].SectionID)
		assert.Equal(t, core.ID(5), hits[2].SectionID)
		for i, hit := range hits {
			assert.Equal(t, i+1, hit.Rank)
		}
	})

	t.Run("scores non-increasing and bounded", func(t *testing.T) {
		idx := build(t, 3, entries)
		hits, err := idx.Nearest(ctx, []float32{0.2, 0.5, 0.3}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 6, "min(k, size) hits")
		for i, hit := range hits {
			assert.GreaterOrEqual(t, hit.Score, float32(-1))
			assert.LessOrEqual(t, hit.Score, float32(1))
			if i > 0 {
				assert.GreaterOrEqual(t, hits[i-1].Score, hit.Score)
			}
		}
	})

	t.Run("opposite vector scores lowest", func(t *testing.T) {
		idx := build(t, 3, entries)
		hits, err := idx.Nearest(ctx, []float32{2, 0, 0}, 6)
		require.NoError(t, err)
		last := hits[len(hits)-1]
		assert.Equal(t, core.ID(4), last.SectionID)
		assert.InDelta(t, -1.0, last.Score, 1e-5)
	})

	t.Run("zero k", func(t *testing.T) {
		idx := build(t, 3, entries)
		hits, err := idx.Nearest(ctx, []float32{1, 0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("huge k", func(t *testing.T) {
		idx := build(t, 3, entries)
		hits, err := idx.Nearest(ctx, []float32{1, 0, 0}, math.MaxInt)
		require.NoError(t, err)
		assert.Len(t, hits, 6)
	})

	t.Run("zero vector rejected", func(t *testing.T) {
		idx := build(t, 3, entries)
		_, err := idx.Nearest(ctx, []float32{0, 0, 0}, 3)
		assert.ErrorIs(t, err, index.ErrZeroVector)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		idx := build(t, 3, entries)
		_, err := idx.Nearest(ctx, []float32{1, 0}, 3)
		assert.ErrorIs(t, err, index.ErrDimensionMismatch)
	})

	t.Run("empty index", func(t *testing.T) {
		idx := build(t, 3, map[core.ID][]float32{})
		hits, err := idx.Nearest(ctx, []float32{1, 0, 0}, 3)
		require.NoError(t, err)
		assert.Empty(t, hits)
		assert.Zero(t, idx.Size())
	})

	t.Run("repeatable", func(t *testing.T) {
		idx := build(t, 3, entries)
		first, err := idx.Nearest(ctx, []float32{0.3, 0.3, 0.1}, 4)
		require.NoError(t, err)
		second, err := idx.Nearest(ctx, []float32{0.3, 0.3, 0.1}, 4)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
