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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/artifact"
	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/index"
	"github.com/poiesic/papervec/stream"
	"github.com/poiesic/papervec/tokenizer"
)

const (
	tokenFileName = "tokens.txt"

	defaultReportInterval = 1000
)

// Result describes a published build.
type Result struct {
	Version  string
	Manifest *artifact.Manifest
	Rows     stream.Stats
	Skipped  int // Sections without any in-vocabulary token
	Elapsed  time.Duration
}

// Builder builds and publishes a model/index pair from a row stream.
type Builder struct {
	rows        *stream.RowStream
	trainer     ai.Trainer
	root        *artifact.Root
	tokenizer   tokenizer.Config
	params      ai.Params
	aggregation string
	corpusName  string
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets the logger for the builder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithParams sets the model dimension and minimum token frequency.
func WithParams(params ai.Params) Option {
	return func(b *Builder) error {
		if err := params.Validate(); err != nil {
			return err
		}
		b.params = params
		return nil
	}
}

// WithTokenizer sets the tokenizer configuration pinned into the artifact.
func WithTokenizer(config tokenizer.Config) Option {
	return func(b *Builder) error {
		if err := config.Validate(); err != nil {
			return err
		}
		b.tokenizer = config
		return nil
	}
}

// WithAggregation sets the document vector rule ("mean" or "idf").
func WithAggregation(rule string) Option {
	return func(b *Builder) error {
		aggregator, err := NewAggregator(rule, &core.WordVectors{})
		if err != nil {
			return err
		}
		b.aggregation = aggregator.Rule()
		return nil
	}
}

// WithCorpusName records the corpus location in the manifest.
func WithCorpusName(name string) Option {
	return func(b *Builder) error {
		b.corpusName = name
		return nil
	}
}

// WithProgress writes build progress to w (typically os.Stderr).
func WithProgress(w io.Writer) Option {
	return func(b *Builder) error {
		b.progress = w
		return nil
	}
}

// NewBuilder creates a builder.
func NewBuilder(rows *stream.RowStream, trainer ai.Trainer, root *artifact.Root, opts ...Option) (*Builder, error) {
	if rows == nil {
		return nil, ErrRowStreamRequired
	}
	if trainer == nil {
		return nil, ErrTrainerRequired
	}
	if root == nil {
		return nil, ErrRootRequired
	}

	defaults := ai.DefaultConfig()
	b := &Builder{
		rows:        rows,
		trainer:     trainer,
		root:        root,
		tokenizer:   tokenizer.DefaultConfig(),
		params:      defaults.Params(),
		aggregation: DefaultAggregation,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.logger = b.logger.With("component", "builder")
	return b, nil
}

// Build runs the pipeline and publishes the result. On any error nothing is
// published and the previous artifact stays current.
//
// Errors: core.ErrEmptyCorpus when no section yields a token or no token
// reaches the minimum frequency, core.ErrTrainerFailure wrapping trainer
// errors, plus store and corruption errors from the row stream.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	tok, err := tokenizer.New(b.tokenizer)
	if err != nil {
		return nil, err
	}

	staging, err := b.root.Stage()
	if err != nil {
		return nil, err
	}
	defer staging.Abort()

	tokenPath, err := staging.ScratchPath(tokenFileName)
	if err != nil {
		return nil, err
	}
	rowStats, lines, err := b.writeTokens(ctx, tok, tokenPath)
	if err != nil {
		return nil, err
	}
	if lines == 0 {
		return nil, fmt.Errorf("%w: no section produced a token (%d rows read)", core.ErrEmptyCorpus, rowStats.Read)
	}

	tokens, err := OpenTokenFile(tokenPath)
	if err != nil {
		return nil, err
	}

	b.logger.Info("training model", "trainer", b.trainer.Name(), "dimension", b.params.Dimension, "minFrequency", b.params.MinFrequency)
	model, err := b.trainer.Train(ctx, tokens, b.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrTrainerFailure, b.trainer.Name(), err)
	}
	if err := checkModel(model, b.params.Dimension); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrTrainerFailure, b.trainer.Name(), err)
	}
	if model.Len() == 0 {
		return nil, fmt.Errorf("%w: no token occurs %d or more times", core.ErrEmptyCorpus, b.params.MinFrequency)
	}

	if _, err := staging.WriteModel(model); err != nil {
		return nil, err
	}

	indexed, skipped, err := b.writeIndex(ctx, staging, tokens, model, rowStats.Yielded)
	if err != nil {
		return nil, err
	}
	if indexed == 0 {
		return nil, fmt.Errorf("%w: no section has an in-vocabulary token", core.ErrEmptyCorpus)
	}

	manifest := &artifact.Manifest{
		CreatedAt:            time.Now().UTC(),
		Corpus:               b.corpusName,
		Trainer:              b.trainer.Name(),
		Dimension:            b.params.Dimension,
		MinFrequency:         b.params.MinFrequency,
		Aggregation:          b.aggregation,
		Vocabulary:           model.Len(),
		Sections:             rowStats.Yielded,
		Tokenizer:            b.tokenizer,
		TokenizerFingerprint: b.tokenizer.Fingerprint(),
	}
	version, err := staging.Publish(manifest)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Version:  version,
		Manifest: manifest,
		Rows:     rowStats,
		Skipped:  skipped,
		Elapsed:  time.Since(start),
	}
	b.logger.Info("build complete",
		"version", version,
		"sections", rowStats.Yielded,
		"corrupt", rowStats.Corrupt,
		"vocabulary", model.Len(),
		"indexed", indexed,
		"skipped", skipped,
		"elapsed", result.Elapsed)
	return result, nil
}

// writeTokens streams the corpus into the token file. Returns the row
// statistics and the number of non-empty lines.
func (b *Builder) writeTokens(ctx context.Context, tok *tokenizer.Tokenizer, path string) (stream.Stats, int, error) {
	w, err := CreateTokenFile(path)
	if err != nil {
		return stream.Stats{}, 0, err
	}

	expected, err := b.rows.Expected(ctx)
	if err != nil {
		w.Close()
		return stream.Stats{}, 0, err
	}
	progress := NewProgressTracker(b.progress, "Tokenizing", expected, defaultReportInterval)
	progress.Start()

	stats, err := b.rows.ForEach(ctx, func(section *core.Section) error {
		progress.Increment(1)
		return w.Write(section.ID, tok.Tokenize(section.Text))
	})
	progress.Finish()
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return stats, 0, err
	}

	b.logger.Debug("token file written", "lines", w.Lines(), "nonEmpty", w.NonEmpty(), "corrupt", stats.Corrupt)
	return stats, w.NonEmpty(), nil
}

// writeIndex computes a document vector for every token line and stores it.
// Sections without any in-vocabulary token are skipped.
func (b *Builder) writeIndex(ctx context.Context, staging *artifact.Staging, tokens *TokenFile, model *core.WordVectors, total int) (int, int, error) {
	aggregator, err := NewAggregator(b.aggregation, model)
	if err != nil {
		return 0, 0, err
	}
	writer, err := staging.IndexWriter(model.Dimension)
	if err != nil {
		return 0, 0, err
	}

	progress := NewProgressTracker(b.progress, "Indexing", total, defaultReportInterval)
	progress.Start()
	defer progress.Finish()

	skipped := 0
	err = tokens.ForEachSection(ctx, func(id core.ID, line []string) error {
		progress.Increment(1)
		vector, _ := aggregator.Vector(line)
		if vector == nil {
			skipped++
			return nil
		}
		if err := writer.Add(id, vector); err != nil {
			if errors.Is(err, index.ErrZeroVector) {
				skipped++
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("writing index: %w", err)
	}
	return writer.Count(), skipped, nil
}

// checkModel verifies that the trainer honoured the requested shape.
func checkModel(model *core.WordVectors, dimension int) error {
	if model == nil {
		return errors.New("trainer returned no model")
	}
	if model.Dimension != dimension {
		return fmt.Errorf("model dimension %d, want %d", model.Dimension, dimension)
	}
	for token, vector := range model.Vectors {
		if len(vector) != dimension {
			return fmt.Errorf("token %q has %d values, want %d", token, len(vector), dimension)
		}
	}
	return nil
}
