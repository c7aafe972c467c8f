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

package ai

import (
	"fmt"
	"strings"
	"time"
)

// Trainer names.
const (
	TrainerRandomIndex = "randindex"
	TrainerOpenAI      = "openai"
)

// Config holds trainer selection and hyperparameters.
type Config struct {
	// Trainer selects the implementation: "randindex" or "openai".
	// Default: "randindex"
	Trainer string

	// Dimension is the length of every model vector.
	// Default: 300
	Dimension int

	// MinFrequency is the number of occurrences a token needs to get a vector.
	// Default: 3
	MinFrequency int

	// Window is the number of neighbours on each side that contribute to a
	// token's context vector (randindex only).
	// Default: 5
	Window int

	// Nonzero is the number of non-zero entries in each random index vector
	// (randindex only). Must be even.
	// Default: 8
	Nonzero int

	// Seed drives the random index vectors (randindex only).
	// Default: 1
	Seed uint64

	// EmbeddingHost is the base URL for the embedding service API (openai only).
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for token embeddings (openai only).
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// BatchSize is the number of tokens sent per embedding request.
	BatchSize int

	// Workers is the number of concurrent embedding requests.
	Workers int

	// MaxRetries is the number of attempts per embedding batch.
	MaxRetries int

	// RetryDelay is the base delay between attempts, doubled each retry.
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithTrainer selects the trainer implementation.
func WithTrainer(name string) ConfigOption {
	return func(c *Config) {
		c.Trainer = name
	}
}

// WithDimension sets the model vector length.
func WithDimension(dimension int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dimension
	}
}

// WithMinFrequency sets the minimum token frequency.
func WithMinFrequency(minFrequency int) ConfigOption {
	return func(c *Config) {
		c.MinFrequency = minFrequency
	}
}

// WithWindow sets the context window radius.
func WithWindow(window int) ConfigOption {
	return func(c *Config) {
		c.Window = window
	}
}

// WithNonzero sets the number of non-zero entries per index vector.
func WithNonzero(nonzero int) ConfigOption {
	return func(c *Config) {
		c.Nonzero = nonzero
	}
}

// WithSeed sets the random index seed.
func WithSeed(seed uint64) ConfigOption {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithBatchSize sets the number of tokens per embedding request.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithWorkers sets the number of concurrent embedding requests.
func WithWorkers(workers int) ConfigOption {
	return func(c *Config) {
		c.Workers = workers
	}
}

// WithRetry sets the attempts per batch and the base retry delay.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config for the local trainer with the default
// model shape.
func DefaultConfig() *Config {
	return &Config{
		Trainer:        TrainerRandomIndex,
		Dimension:      300,
		MinFrequency:   3,
		Window:         5,
		Nonzero:        8,
		Seed:           1,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		BatchSize:      64,
		Workers:        4,
		MaxRetries:     3,
		RetryDelay:     500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithTrainer(TrainerOpenAI),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	    WithDimension(768),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Params returns the model shape passed to Trainer.Train.
func (c *Config) Params() Params {
	return Params{Dimension: c.Dimension, MinFrequency: c.MinFrequency}
}

// Normalize ensures the configuration is in a canonical form.
// It lowercases the trainer name and adds the /v1 suffix to the embedding
// host if missing, which is required by most OpenAI-compatible APIs.
func (c *Config) Normalize() {
	c.Trainer = strings.ToLower(strings.TrimSpace(c.Trainer))
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if err := c.Params().Validate(); err != nil {
		return err
	}

	switch c.Trainer {
	case TrainerRandomIndex:
		if c.Window < 1 {
			return fmt.Errorf("%w: Window must be positive", ErrInvalidConfig)
		}
		if c.Nonzero < 2 || c.Nonzero%2 != 0 {
			return fmt.Errorf("%w: Nonzero must be a positive even number", ErrInvalidConfig)
		}
		if c.Nonzero > c.Dimension {
			return fmt.Errorf("%w: Nonzero must not exceed Dimension", ErrInvalidConfig)
		}
	case TrainerOpenAI:
		if c.EmbeddingHost == "" {
			return fmt.Errorf("%w: EmbeddingHost is required", ErrInvalidConfig)
		}
		if c.EmbeddingModel == "" {
			return fmt.Errorf("%w: EmbeddingModel is required", ErrInvalidConfig)
		}
		if c.BatchSize < 1 {
			return fmt.Errorf("%w: BatchSize must be positive", ErrInvalidConfig)
		}
		if c.Workers < 1 {
			return fmt.Errorf("%w: Workers must be positive", ErrInvalidConfig)
		}
		if c.MaxRetries < 1 {
			return fmt.Errorf("%w: MaxRetries must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTrainer, c.Trainer)
	}
	return nil
}
