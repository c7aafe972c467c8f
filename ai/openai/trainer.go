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

package openai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/core"
)

// Name is the trainer name recorded in manifests.
const Name = ai.TrainerOpenAI

// Trainer embeds the corpus vocabulary with a remote embedding model.
type Trainer struct {
	embedder  ai.Embedder
	batchSize int
	workers   int
	retry     ai.Retry
	logger    *slog.Logger
}

var _ ai.Trainer = (*Trainer)(nil)

// Option configures a Trainer.
type Option func(*Trainer) error

// WithLogger sets the logger for the trainer.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// WithEmbedder replaces the HTTP embedder, e.g. with a mock.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(t *Trainer) error {
		if embedder == nil {
			return ErrEmbedderRequired
		}
		t.embedder = embedder
		return nil
	}
}

// NewTrainer creates a remote trainer from config.
func NewTrainer(config *ai.Config, opts ...Option) (ai.Trainer, error) {
	return newTrainer(config, opts...)
}

func newTrainer(config *ai.Config, opts ...Option) (*Trainer, error) {
	cfg := *config
	cfg.Trainer = ai.TrainerOpenAI
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	t.logger = t.logger.With("component", "openai-trainer")
	t.retry = ai.Retry{MaxAttempts: cfg.MaxRetries, BaseDelay: cfg.RetryDelay, Logger: t.logger}

	if t.embedder == nil {
		embedder, err := newEmbedder(&cfg)
		if err != nil {
			return nil, err
		}
		t.embedder = embedder
	}
	return t, nil
}

// Name returns the trainer name.
func (t *Trainer) Name() string {
	return Name
}

// Train counts the vocabulary in source and embeds every kept token.
func (t *Trainer) Train(ctx context.Context, source ai.TokenSource, params ai.Params) (*core.WordVectors, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	vocab, err := ai.CountTokens(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("counting tokens: %w", err)
	}
	kept := vocab.Kept(params.MinFrequency)

	model := &core.WordVectors{
		Dimension: params.Dimension,
		Vectors:   make(map[string][]float32, len(kept)),
		DocFreq:   vocab.DocFreqOf(kept),
		Documents: vocab.Documents,
	}
	if len(kept) == 0 {
		return model, nil
	}

	batches := slices.Collect(slices.Chunk(kept, t.batchSize))
	t.logger.Info("embedding vocabulary", "tokens", len(kept), "batches", len(batches), "workers", t.workers)

	results, err := t.embedBatches(ctx, batches, params.Dimension)
	if err != nil {
		return nil, err
	}
	for i, batch := range batches {
		for j, token := range batch {
			model.Vectors[token] = core.NormalizeVector(results[i][j])
		}
	}
	return model, nil
}

// embedBatches embeds all batches on a bounded pool. The first failure
// cancels the remaining work.
func (t *Trainer) embedBatches(ctx context.Context, batches [][]string, dimension int) ([][][]float32, error) {
	pool, err := ants.NewPool(t.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		results  = make([][][]float32, len(batches))
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, batch := range batches {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vectors, err := t.embedBatch(ctx, batch, dimension)
			if err != nil {
				fail(err)
				return
			}
			results[i] = vectors
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (t *Trainer) embedBatch(ctx context.Context, batch []string, dimension int) ([][]float32, error) {
	var vectors [][]float32
	err := ai.RetryWithBackoff(ctx, t.retry, func(ctx context.Context) error {
		var err error
		vectors, err = t.embedder.EmbedTexts(ctx, batch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("embedding %d tokens: %w", len(batch), err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("embedding %d tokens: got %d vectors", len(batch), len(vectors))
	}
	for j, vector := range vectors {
		if len(vector) != dimension {
			return nil, fmt.Errorf("%w: token %q has %d values, want %d",
				ai.ErrDimensionMismatch, batch[j], len(vector), dimension)
		}
	}
	return vectors, nil
}
