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

package vectors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/ai/mock"
	"github.com/poiesic/papervec/ai/randindex"
	"github.com/poiesic/papervec/artifact"
	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus/sqlite"
	"github.com/poiesic/papervec/stream"
	"github.com/poiesic/papervec/tokenizer"
)

func fixtureStream(t *testing.T) *stream.RowStream {
	t.Helper()
	path, err := sqlite.CreateFixtureCorpus(context.Background(), t.TempDir())
	require.NoError(t, err)
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rows, err := stream.NewRowStream(store)
	require.NoError(t, err)
	return rows
}

func emptyStream(t *testing.T) *stream.RowStream {
	t.Helper()
	w, err := sqlite.Create(t.TempDir())
	require.NoError(t, err)
	path := w.Path()
	require.NoError(t, w.Close())

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rows, err := stream.NewRowStream(store)
	require.NoError(t, err)
	return rows
}

func randomIndexTrainer(t *testing.T) ai.Trainer {
	t.Helper()
	trainer, err := randindex.NewTrainer(ai.DefaultConfig())
	require.NoError(t, err)
	return trainer
}

func newRoot(t *testing.T) *artifact.Root {
	t.Helper()
	root, err := artifact.NewRoot(filepath.Join(t.TempDir(), "model"))
	require.NoError(t, err)
	return root
}

func TestNewBuilder(t *testing.T) {
	rows := emptyStream(t)
	trainer := mock.NewMockTrainer()
	root := newRoot(t)

	_, err := NewBuilder(nil, trainer, root)
	assert.ErrorIs(t, err, ErrRowStreamRequired)
	_, err = NewBuilder(rows, nil, root)
	assert.ErrorIs(t, err, ErrTrainerRequired)
	_, err = NewBuilder(rows, trainer, nil)
	assert.ErrorIs(t, err, ErrRootRequired)

	_, err = NewBuilder(rows, trainer, root, WithAggregation("median"))
	assert.ErrorIs(t, err, ErrUnknownAggregation)
	_, err = NewBuilder(rows, trainer, root, WithParams(ai.Params{Dimension: 0, MinFrequency: 1}))
	assert.ErrorIs(t, err, ai.ErrInvalidConfig)

	b, err := NewBuilder(rows, trainer, root, WithAggregation("MEAN"))
	require.NoError(t, err)
	assert.Equal(t, AggregateMean, b.aggregation)
}

func TestBuildFixtureCorpus(t *testing.T) {
	ctx := context.Background()
	root := newRoot(t)

	b, err := NewBuilder(fixtureStream(t), randomIndexTrainer(t), root,
		WithParams(ai.Params{Dimension: 300, MinFrequency: 4}),
		WithCorpusName("articles.sqlite"))
	require.NoError(t, err)

	result, err := b.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v000001", result.Version)
	assert.Equal(t, 34, result.Rows.Yielded)
	assert.Zero(t, result.Rows.Corrupt)

	m := result.Manifest
	assert.Equal(t, randindex.Name, m.Trainer)
	assert.Equal(t, 300, m.Dimension)
	assert.Equal(t, 4, m.MinFrequency)
	assert.Equal(t, DefaultAggregation, m.Aggregation)
	assert.Equal(t, 34, m.Sections)
	assert.Equal(t, m.Sections-result.Skipped, m.IndexedSections)
	assert.Positive(t, m.Vocabulary)
	assert.Equal(t, tokenizer.DefaultConfig().Fingerprint(), m.TokenizerFingerprint)

	current, err := root.Current()
	require.NoError(t, err)
	assert.Equal(t, result.Version, current)

	info, err := os.Stat(filepath.Join(root.Dir(), current, "model.vec"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	h, err := root.Open()
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, m.Vocabulary, h.Model.Len())
	assert.Equal(t, m.IndexedSections, h.Index().Size())
	for token := range h.Model.Vectors {
		assert.GreaterOrEqual(t, h.Model.DocFreq[token], uint64(1), token)
	}

	// Scratch files do not survive publication.
	_, err = os.Stat(filepath.Join(root.Dir(), current, "scratch"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildIsDeterministic(t *testing.T) {
	ctx := context.Background()
	params := WithParams(ai.Params{Dimension: 300, MinFrequency: 4})

	var handles []*artifact.Handle
	for range 2 {
		root := newRoot(t)
		b, err := NewBuilder(fixtureStream(t), randomIndexTrainer(t), root, params)
		require.NoError(t, err)
		_, err = b.Build(ctx)
		require.NoError(t, err)

		h, err := root.Open()
		require.NoError(t, err)
		defer h.Close()
		handles = append(handles, h)
	}

	first, second := handles[0], handles[1]
	assert.Equal(t, first.Manifest.ModelChecksum, second.Manifest.ModelChecksum)

	agg, err := NewAggregator(first.Manifest.Aggregation, first.Model)
	require.NoError(t, err)
	query, _ := agg.Vector([]string{"hypertension", "diabetes", "risk"})
	require.NotNil(t, query)

	hits1, err := first.Index().Nearest(ctx, query, 10)
	require.NoError(t, err)
	hits2, err := second.Index().Nearest(ctx, query, 10)
	require.NoError(t, err)
	assert.Equal(t, hits1, hits2)
	assert.NotEmpty(t, hits1)
}

func TestBuildEmptyCorpus(t *testing.T) {
	ctx := context.Background()

	t.Run("no sections", func(t *testing.T) {
		root := newRoot(t)
		b, err := NewBuilder(emptyStream(t), mock.NewMockTrainer(), root)
		require.NoError(t, err)

		_, err = b.Build(ctx)
		assert.ErrorIs(t, err, core.ErrEmptyCorpus)
		_, err = root.Current()
		assert.ErrorIs(t, err, core.ErrModelNotFound)
	})

	t.Run("no token reaches the minimum frequency", func(t *testing.T) {
		root := newRoot(t)
		b, err := NewBuilder(fixtureStream(t), mock.NewMockTrainer(), root,
			WithParams(ai.Params{Dimension: 16, MinFrequency: 10000}))
		require.NoError(t, err)

		_, err = b.Build(ctx)
		assert.ErrorIs(t, err, core.ErrEmptyCorpus)
	})
}

func TestBuildTrainerFailure(t *testing.T) {
	ctx := context.Background()
	root := newRoot(t)
	trainer := mock.NewMockTrainer()
	params := WithParams(ai.Params{Dimension: 16, MinFrequency: 2})

	b, err := NewBuilder(fixtureStream(t), trainer, root, params)
	require.NoError(t, err)
	first, err := b.Build(ctx)
	require.NoError(t, err)

	boom := errors.New("out of memory")
	trainer.TrainFunc = func(context.Context, ai.TokenSource, ai.Params) (*core.WordVectors, error) {
		return nil, boom
	}
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, core.ErrTrainerFailure)
	assert.ErrorIs(t, err, boom)

	current, err := root.Current()
	require.NoError(t, err)
	assert.Equal(t, first.Version, current, "a failed build leaves the previous artifact current")

	entries, err := os.ReadDir(root.Dir())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".staging-"), entry.Name())
	}
}

func TestBuildRejectsMisshapenModel(t *testing.T) {
	trainer := mock.NewMockTrainer()
	trainer.TrainFunc = func(context.Context, ai.TokenSource, ai.Params) (*core.WordVectors, error) {
		return &core.WordVectors{Dimension: 3, Vectors: map[string][]float32{"risk": {1, 0}}}, nil
	}
	b, err := NewBuilder(fixtureStream(t), trainer, newRoot(t), WithParams(ai.Params{Dimension: 3, MinFrequency: 1}))
	require.NoError(t, err)

	_, err = b.Build(context.Background())
	assert.ErrorIs(t, err, core.ErrTrainerFailure)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := newRoot(t)
	b, err := NewBuilder(fixtureStream(t), mock.NewMockTrainer(), root)
	require.NoError(t, err)

	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = root.Current()
	assert.Error(t, err)
}

func TestCheckModel(t *testing.T) {
	assert.Error(t, checkModel(nil, 2))
	assert.Error(t, checkModel(&core.WordVectors{Dimension: 3}, 2))
	assert.NoError(t, checkModel(&core.WordVectors{Dimension: 2, Vectors: map[string][]float32{"a": {0, 1}}}, 2))
}
