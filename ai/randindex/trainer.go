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

package randindex

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/core"
)

// Name is the trainer name recorded in manifests.
const Name = ai.TrainerRandomIndex

// Trainer is a random-indexing ai.Trainer.
type Trainer struct {
	window  int
	nonzero int
	seed    uint64
	logger  *slog.Logger
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

// NewTrainer creates a trainer from the random-indexing fields of config.
func NewTrainer(config *ai.Config, opts ...Option) (ai.Trainer, error) {
	return newTrainer(config, opts...)
}

func newTrainer(config *ai.Config, opts ...Option) (*Trainer, error) {
	if config.Window < 1 {
		return nil, fmt.Errorf("%w: Window must be positive", ai.ErrInvalidConfig)
	}
	if config.Nonzero < 2 || config.Nonzero%2 != 0 {
		return nil, fmt.Errorf("%w: Nonzero must be a positive even number", ai.ErrInvalidConfig)
	}

	t := &Trainer{
		window:  config.Window,
		nonzero: config.Nonzero,
		seed:    config.Seed,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	t.logger = t.logger.With("component", "randindex-trainer")
	return t, nil
}

// Name returns the trainer name.
func (t *Trainer) Name() string {
	return Name
}

// indexVector is a sparse ternary vector.
type indexVector struct {
	positions []int
	signs     []float32
}

// Train builds the model in two passes over source.
func (t *Trainer) Train(ctx context.Context, source ai.TokenSource, params ai.Params) (*core.WordVectors, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if t.nonzero > params.Dimension {
		return nil, fmt.Errorf("%w: Nonzero must not exceed Dimension", ai.ErrInvalidConfig)
	}

	vocab, err := ai.CountTokens(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("counting tokens: %w", err)
	}
	kept := vocab.Kept(params.MinFrequency)
	t.logger.Debug("vocabulary counted", "tokens", len(vocab.Counts), "kept", len(kept), "documents", vocab.Documents)

	model := &core.WordVectors{
		Dimension: params.Dimension,
		Vectors:   make(map[string][]float32, len(kept)),
		DocFreq:   vocab.DocFreqOf(kept),
		Documents: vocab.Documents,
	}
	if len(kept) == 0 {
		return model, nil
	}

	index := make(map[string]indexVector, len(kept))
	contexts := make(map[string][]float32, len(kept))
	for _, token := range kept {
		index[token] = t.indexVector(token, params.Dimension)
		contexts[token] = make([]float32, params.Dimension)
	}

	window := make([]string, 0, 64)
	err = source.ForEach(ctx, func(tokens []string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		window = window[:0]
		for _, token := range tokens {
			if _, ok := index[token]; ok {
				window = append(window, token)
			}
		}
		t.accumulate(window, index, contexts)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("accumulating context: %w", err)
	}

	for _, token := range kept {
		vector := contexts[token]
		if core.Norm(vector) == 0 {
			iv := index[token]
			for i, pos := range iv.positions {
				vector[pos] = iv.signs[i]
			}
		}
		model.Vectors[token] = core.NormalizeVector(vector)
	}
	return model, nil
}

// accumulate adds the weighted index vectors of each token's neighbours to
// its context vector.
func (t *Trainer) accumulate(tokens []string, index map[string]indexVector, contexts map[string][]float32) {
	for i, token := range tokens {
		target := contexts[token]
		lo := max(0, i-t.window)
		hi := min(len(tokens)-1, i+t.window)
		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			weight := 1 / float32(abs(i-j))
			neighbour := index[tokens[j]]
			for k, pos := range neighbour.positions {
				target[pos] += weight * neighbour.signs[k]
			}
		}
	}
}

// indexVector derives the sparse random vector of token. Half of the
// non-zero entries are +1 and half are -1.
func (t *Trainer) indexVector(token string, dimension int) indexVector {
	h, _ := blake2b.New(16, nil)
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], t.seed)
	h.Write(seed[:])
	h.Write([]byte(token))
	sum := h.Sum(nil)

	rng := rand.New(rand.NewPCG(binary.LittleEndian.Uint64(sum[:8]), binary.LittleEndian.Uint64(sum[8:])))
	perm := rng.Perm(dimension)[:t.nonzero]

	iv := indexVector{
		positions: perm,
		signs:     make([]float32, t.nonzero),
	}
	for i := range iv.signs {
		if i < t.nonzero/2 {
			iv.signs[i] = 1
		} else {
			iv.signs[i] = -1
		}
	}
	return iv
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
