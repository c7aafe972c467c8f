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

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/corpus"
	"github.com/poiesic/papervec/query"
	"github.com/poiesic/papervec/stream"
	"github.com/poiesic/papervec/tokenizer"
	"github.com/poiesic/papervec/vectors"
)

// DefaultLimit is the default number of answers per query.
const DefaultLimit = 10

// File is the configuration file layout.
type File struct {
	Corpus    string    `toml:"corpus"`
	Build     Build     `toml:"build"`
	Tokenizer Tokenizer `toml:"tokenizer"`
	Query     Query     `toml:"query"`
}

// Build configures index construction.
type Build struct {
	// Output is the artifact root. Empty means "<corpus>/vectors".
	Output string `toml:"output"`

	Trainer      string `toml:"trainer"`
	Dimension    int    `toml:"dimension"`
	MinFrequency int    `toml:"min_frequency"`
	Aggregation  string `toml:"aggregation"`
	Retain       int    `toml:"retain"`

	// Random indexing
	Window  int    `toml:"window"`
	Nonzero int    `toml:"nonzero"`
	Seed    uint64 `toml:"seed"`

	// Remote embedding
	EmbeddingHost  string `toml:"embedding_host"`
	EmbeddingModel string `toml:"embedding_model"`
	BatchSize      int    `toml:"batch_size"`
	Workers        int    `toml:"workers"`
	MaxRetries     int    `toml:"max_retries"`
	RetryDelay     string `toml:"retry_delay"`

	// Row stream
	MaxCorruptRatio float64  `toml:"max_corrupt_ratio"`
	Warmup          int      `toml:"warmup"`
	TaggedOnly      bool     `toml:"tagged_only"`
	ExcludeLabels   []string `toml:"exclude_labels"`
}

// Tokenizer configures text normalization. Used only at build time; queries
// use the rules pinned in the artifact.
type Tokenizer struct {
	MinLength      int      `toml:"min_length"`
	KeepNumeric    bool     `toml:"keep_numeric"`
	StopWords      []string `toml:"stop_words"` // Replaces the default list when set
	ExtraStopWords []string `toml:"extra_stop_words"`
}

// Query configures the query engine.
type Query struct {
	Limit           int     `toml:"limit"`
	CandidateFactor int     `toml:"candidate_factor"`
	MinScore        float64 `toml:"min_score"`
	Granularity     string  `toml:"granularity"`
	CacheSize       int     `toml:"cache_size"`
	Preload         bool    `toml:"preload"`
}

// Default returns the built-in configuration.
func Default() *File {
	trainer := ai.DefaultConfig()
	return &File{
		Build: Build{
			Trainer:         trainer.Trainer,
			Dimension:       trainer.Dimension,
			MinFrequency:    trainer.MinFrequency,
			Aggregation:     vectors.DefaultAggregation,
			Retain:          2,
			Window:          trainer.Window,
			Nonzero:         trainer.Nonzero,
			Seed:            trainer.Seed,
			EmbeddingHost:   trainer.EmbeddingHost,
			EmbeddingModel:  trainer.EmbeddingModel,
			BatchSize:       trainer.BatchSize,
			Workers:         trainer.Workers,
			MaxRetries:      trainer.MaxRetries,
			RetryDelay:      trainer.RetryDelay.String(),
			MaxCorruptRatio: stream.DefaultMaxCorruptRatio,
			Warmup:          stream.DefaultWarmup,
		},
		Tokenizer: Tokenizer{
			MinLength: tokenizer.DefaultMinLength,
		},
		Query: Query{
			Limit:           DefaultLimit,
			CandidateFactor: query.DefaultCandidateFactor,
			MinScore:        float64(query.DefaultMinScore),
			Granularity:     query.GranularityArticle.String(),
			CacheSize:       query.DefaultCacheSize,
		},
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	file := Default()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, strict.String())
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Validate checks value ranges that the typed decoder cannot.
func (f *File) Validate() error {
	if _, err := f.AI(); err != nil {
		return fmt.Errorf("%w: [build] %w", ErrInvalidConfig, err)
	}
	if _, err := tokenizer.New(f.TokenizerConfig()); err != nil {
		return fmt.Errorf("%w: [tokenizer] %w", ErrInvalidConfig, err)
	}
	if _, err := vectors.NewAggregator(f.Build.Aggregation, nil); err != nil {
		return fmt.Errorf("%w: [build] %w", ErrInvalidConfig, err)
	}
	if f.Build.Retain < 1 {
		return fmt.Errorf("%w: [build] retain must be at least 1", ErrInvalidConfig)
	}
	if f.Query.Limit < 1 {
		return fmt.Errorf("%w: [query] limit must be positive", ErrInvalidConfig)
	}
	if _, err := f.QueryOptions(); err != nil {
		return fmt.Errorf("%w: [query] %w", ErrInvalidConfig, err)
	}
	return nil
}

// AI returns the trainer configuration of the [build] table.
func (f *File) AI() (*ai.Config, error) {
	delay, err := time.ParseDuration(f.Build.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("retry_delay: %w", err)
	}
	b := f.Build
	config := ai.NewConfig(
		ai.WithTrainer(b.Trainer),
		ai.WithDimension(b.Dimension),
		ai.WithMinFrequency(b.MinFrequency),
		ai.WithWindow(b.Window),
		ai.WithNonzero(b.Nonzero),
		ai.WithSeed(b.Seed),
		ai.WithEmbeddingHost(b.EmbeddingHost),
		ai.WithEmbeddingModel(b.EmbeddingModel),
		ai.WithBatchSize(b.BatchSize),
		ai.WithWorkers(b.Workers),
		ai.WithRetry(b.MaxRetries, delay),
	)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// TokenizerConfig returns the normalization rules of the [tokenizer] table.
func (f *File) TokenizerConfig() tokenizer.Config {
	config := tokenizer.DefaultConfig()
	config.MinLength = f.Tokenizer.MinLength
	config.KeepNumeric = f.Tokenizer.KeepNumeric
	if f.Tokenizer.StopWords != nil {
		config.StopWords = f.Tokenizer.StopWords
	}
	config.StopWords = slices.Concat(config.StopWords, f.Tokenizer.ExtraStopWords)
	return config
}

// Filter returns the row filter of the [build] table.
func (f *File) Filter() corpus.Filter {
	labels := make([]string, 0, len(f.Build.ExcludeLabels))
	for _, label := range f.Build.ExcludeLabels {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, strings.ToUpper(label))
		}
	}
	return corpus.Filter{TaggedOnly: f.Build.TaggedOnly, ExcludeLabels: labels}
}

// StreamOptions returns the row stream options of the [build] table.
func (f *File) StreamOptions() []stream.Option {
	return []stream.Option{
		stream.WithFilter(f.Filter()),
		stream.WithMaxCorruptRatio(f.Build.MaxCorruptRatio),
		stream.WithWarmup(f.Build.Warmup),
	}
}

// BuildOptions returns the builder options of the [build] and [tokenizer]
// tables.
func (f *File) BuildOptions() []vectors.Option {
	return []vectors.Option{
		vectors.WithParams(ai.Params{Dimension: f.Build.Dimension, MinFrequency: f.Build.MinFrequency}),
		vectors.WithTokenizer(f.TokenizerConfig()),
		vectors.WithAggregation(f.Build.Aggregation),
	}
}

// QueryOptions returns the engine options of the [query] table.
func (f *File) QueryOptions() ([]query.Option, error) {
	granularity, err := query.ParseGranularity(f.Query.Granularity)
	if err != nil {
		return nil, err
	}
	if f.Query.CandidateFactor < 1 {
		return nil, query.ErrInvalidCandidateFactor
	}
	if f.Query.CacheSize < 1 {
		return nil, query.ErrInvalidCacheSize
	}
	return []query.Option{
		query.WithCandidateFactor(f.Query.CandidateFactor),
		query.WithMinScore(float32(f.Query.MinScore)),
		query.WithGranularity(granularity),
		query.WithCacheSize(f.Query.CacheSize),
		query.WithPreload(f.Query.Preload),
	}, nil
}
