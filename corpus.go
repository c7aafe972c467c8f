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

package papervec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/ai/openai"
	"github.com/poiesic/papervec/ai/randindex"
	"github.com/poiesic/papervec/artifact"
	"github.com/poiesic/papervec/config"
	"github.com/poiesic/papervec/corpus"
	"github.com/poiesic/papervec/corpus/sqlite"
	"github.com/poiesic/papervec/query"
	"github.com/poiesic/papervec/stream"
	"github.com/poiesic/papervec/vectors"
)

// DefaultArtifactDir is the artifact root inside the corpus directory.
const DefaultArtifactDir = "vectors"

// ErrCorpusPathRequired is returned when no corpus path is given.
var ErrCorpusPathRequired = errors.New("corpus path required")

// Corpus is an open corpus store plus the artifact root built from it.
type Corpus struct {
	path     string
	store    *sqlite.Store
	root     *artifact.Root
	config   *config.File
	progress io.Writer
	logger   *slog.Logger
}

// CorpusOption configures a Corpus.
type CorpusOption func(*corpusOptions)

type corpusOptions struct {
	config   *config.File
	output   string
	progress io.Writer
	logger   *slog.Logger
}

// WithConfig sets the configuration. Default is config.Default().
func WithConfig(file *config.File) CorpusOption {
	return func(o *corpusOptions) {
		if file != nil {
			o.config = file
		}
	}
}

// WithArtifactDir sets the artifact root directory, overriding [build] output.
func WithArtifactDir(dir string) CorpusOption {
	return func(o *corpusOptions) {
		o.output = dir
	}
}

// WithProgress reports build progress to w.
func WithProgress(w io.Writer) CorpusOption {
	return func(o *corpusOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CorpusOption {
	return func(o *corpusOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OpenCorpus opens the corpus at path, either the database file or the
// directory holding articles.sqlite. The artifact root defaults to a
// "vectors" directory next to the database.
func OpenCorpus(path string, opts ...CorpusOption) (*Corpus, error) {
	if path == "" {
		return nil, ErrCorpusPathRequired
	}
	options := &corpusOptions{
		config: config.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := sqlite.Open(path, sqlite.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	output := options.output
	if output == "" {
		output = options.config.Build.Output
	}
	if output == "" {
		output = filepath.Join(filepath.Dir(store.Path()), DefaultArtifactDir)
	}
	root, err := artifact.NewRoot(output,
		artifact.WithLogger(options.logger),
		artifact.WithRetain(options.config.Build.Retain))
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Corpus{
		path:     store.Path(),
		store:    store,
		root:     root,
		config:   options.config,
		progress: options.progress,
		logger:   options.logger,
	}, nil
}

// Close closes the corpus store.
func (c *Corpus) Close() error {
	if err := c.store.Close(); err != nil {
		c.logger.Error("error closing corpus store", "err", err)
		return err
	}
	return nil
}

// Path returns the corpus database file.
func (c *Corpus) Path() string {
	return c.path
}

// Store returns the corpus store.
func (c *Corpus) Store() corpus.Store {
	return c.store
}

// ArtifactRoot returns the artifact root.
func (c *Corpus) ArtifactRoot() *artifact.Root {
	return c.root
}

// Config returns the configuration in effect.
func (c *Corpus) Config() *config.File {
	return c.config
}

// NewRowStream returns a row stream over the corpus, configured from the
// [build] table; opts are applied last.
func (c *Corpus) NewRowStream(opts ...stream.Option) (*stream.RowStream, error) {
	all := append(c.config.StreamOptions(), stream.WithLogger(c.logger))
	return stream.NewRowStream(c.store, append(all, opts...)...)
}

// NewTrainer returns the trainer selected by the [build] table.
func (c *Corpus) NewTrainer() (ai.Trainer, error) {
	aiConfig, err := c.config.AI()
	if err != nil {
		return nil, err
	}
	return NewTrainer(aiConfig, c.logger)
}

// NewBuilder returns a builder over the corpus. The trainer and model
// shape come from the configuration; opts are applied last.
func (c *Corpus) NewBuilder(opts ...vectors.Option) (*vectors.Builder, error) {
	rows, err := c.NewRowStream()
	if err != nil {
		return nil, err
	}
	trainer, err := c.NewTrainer()
	if err != nil {
		return nil, err
	}
	all := append(c.config.BuildOptions(),
		vectors.WithLogger(c.logger),
		vectors.WithProgress(c.progress),
		vectors.WithCorpusName(c.path))
	return vectors.NewBuilder(rows, trainer, c.root, append(all, opts...)...)
}

// Build builds and publishes a new artifact.
func (c *Corpus) Build(ctx context.Context, opts ...vectors.Option) (*vectors.Result, error) {
	b, err := c.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

// NewEngine opens the current artifact and returns a query engine over it.
// The caller must Close the engine.
func (c *Corpus) NewEngine(opts ...query.Option) (*query.Engine, error) {
	all, err := c.config.QueryOptions()
	if err != nil {
		return nil, err
	}
	all = append(all, query.WithLogger(c.logger))
	return query.Open(c.root, c.store, append(all, opts...)...)
}

// NewTrainer returns the trainer named by aiConfig.Trainer.
func NewTrainer(aiConfig *ai.Config, logger *slog.Logger) (ai.Trainer, error) {
	if err := aiConfig.Validate(); err != nil {
		return nil, err
	}
	switch aiConfig.Trainer {
	case ai.TrainerRandomIndex:
		return randindex.NewTrainer(aiConfig, randindex.WithLogger(logger))
	case ai.TrainerOpenAI:
		return openai.NewTrainer(aiConfig, openai.WithLogger(logger))
	default:
		return nil, fmt.Errorf("%w: %q", ai.ErrUnknownTrainer, aiConfig.Trainer)
	}
}

// Build builds the corpus at corpusPath into outputPath (the artifact root;
// empty means "<corpus>/vectors") with the given model shape and the
// default local trainer. Build progress is reported on stderr.
func Build(ctx context.Context, corpusPath string, dimension, minFrequency int, outputPath string) error {
	file := config.Default()
	file.Build.Dimension = dimension
	file.Build.MinFrequency = minFrequency
	if err := file.Validate(); err != nil {
		return err
	}

	c, err := OpenCorpus(corpusPath, WithConfig(file), WithArtifactDir(outputPath), WithProgress(os.Stderr))
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.Build(ctx)
	return err
}

// Run answers queryText from the current artifact of the corpus at
// corpusPath and writes the report to w.
func Run(ctx context.Context, queryText string, limit int, corpusPath string, w io.Writer) error {
	c, err := OpenCorpus(corpusPath)
	if err != nil {
		return err
	}
	defer c.Close()

	engine, err := c.NewEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	answers, err := engine.Run(ctx, queryText, limit)
	if err != nil {
		return err
	}
	return query.NewReport(w).Write(queryText, limit, answers)
}
