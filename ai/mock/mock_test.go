package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/core"
)

type sliceSource [][]string

func (s sliceSource) ForEach(ctx context.Context, fn func([]string) error) error {
	for _, tokens := range s {
		if err := fn(tokens); err != nil {
			return err
		}
	}
	return nil
}

func TestMockEmbedder(t *testing.T) {
	m := NewMockEmbedder()
	vectors, err := m.EmbedTexts(context.Background(), []string{"a", "b", "a"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Len(t, vectors[0], DefaultDimension)
	assert.Equal(t, vectors[0], vectors[2])
	assert.NotEqual(t, vectors[0], vectors[1])
	assert.InDelta(t, 1.0, core.Norm(vectors[0]), 1e-5)
	assert.Equal(t, 1, m.CallCount())

	m.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, assert.AnError
	}
	_, err = m.EmbedTexts(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, assert.AnError)

	m.Reset()
	assert.Zero(t, m.CallCount())
	assert.Nil(t, m.EmbedTextsFunc)
}

func TestMockTrainer(t *testing.T) {
	m := NewMockTrainer()
	assert.Equal(t, "mock", m.Name())

	source := sliceSource{{"risk", "covid"}, {"risk"}}
	model, err := m.Train(context.Background(), source, ai.Params{Dimension: 8, MinFrequency: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, model.Len())
	assert.Equal(t, DeterministicVector("risk", 8), model.Vectors["risk"])
	assert.Equal(t, uint64(2), model.Documents)
	assert.Equal(t, 1, m.CallCount())

	m.TrainFunc = func(context.Context, ai.TokenSource, ai.Params) (*core.WordVectors, error) {
		return nil, assert.AnError
	}
	_, err = m.Train(context.Background(), source, ai.Params{Dimension: 8, MinFrequency: 1})
	assert.ErrorIs(t, err, assert.AnError)
}
