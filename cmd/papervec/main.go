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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/papervec"
	"github.com/poiesic/papervec/config"
	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/query"
	"github.com/poiesic/papervec/tokenizer"
	"github.com/poiesic/papervec/vectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "papervec",
		Usage: "Semantic search over scientific article sections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a TOML configuration file",
			},
			&cli.StringFlag{
				Name:    "corpus",
				Aliases: []string{"c"},
				Usage:   "Corpus directory or articles.sqlite file (overrides the config file)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "stream",
				Usage:  "Count the section rows the index would be built from",
				Action: streamCommand,
			},
			{
				Name:   "tokens",
				Usage:  "Write the token file, one line per section",
				Action: tokensCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Token file path (default: tokens.txt next to the corpus)",
					},
				},
			},
			{
				Name:   "build",
				Usage:  "Build and publish the model and similarity index",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Artifact root directory (default: vectors next to the corpus)",
					},
					&cli.IntFlag{
						Name:  "dimension",
						Usage: "Model vector dimension",
						Value: 300,
					},
					&cli.IntFlag{
						Name:  "min-frequency",
						Usage: "Minimum token occurrences for a token to get a vector",
						Value: 3,
					},
					&cli.StringFlag{
						Name:  "trainer",
						Usage: "Trainer: randindex or openai",
						Value: "randindex",
					},
					&cli.StringFlag{
						Name:  "aggregation",
						Usage: "Document vector rule: idf or mean",
						Value: vectors.DefaultAggregation,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (openai trainer)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (openai trainer)",
					},
					&cli.BoolFlag{
						Name:  "tagged-only",
						Usage: "Only index sections that carry tags",
					},
					&cli.StringSliceFlag{
						Name:  "exclude-labels",
						Usage: "Skip sections with these NLP labels (e.g. FRAGMENT,QUESTION)",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a free-text query",
				ArgsUsage: "<query text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of articles",
						Value:   config.DefaultLimit,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum section score (disabled by default)",
					},
					&cli.StringFlag{
						Name:  "granularity",
						Usage: "What the limit counts: article or section",
						Value: "article",
					},
					&cli.BoolFlag{
						Name:  "preload",
						Usage: "Load the similarity index into memory",
					},
				},
			},
		},
	}
}

// loadConfig reads --config (or the defaults) and applies global overrides.
func loadConfig(c *cli.Context) (*config.File, error) {
	file := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}
	if corpus := c.String("corpus"); corpus != "" {
		file.Corpus = corpus
	}
	if file.Corpus == "" {
		return nil, fmt.Errorf("corpus path is required (--corpus or corpus in the config file)")
	}
	return file, nil
}

func openCorpus(file *config.File, opts ...papervec.CorpusOption) (*papervec.Corpus, error) {
	corpus, err := papervec.OpenCorpus(file.Corpus, append([]papervec.CorpusOption{papervec.WithConfig(file)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	return corpus, nil
}

func streamCommand(c *cli.Context) error {
	file, err := loadConfig(c)
	if err != nil {
		return err
	}
	corpus, err := openCorpus(file)
	if err != nil {
		return err
	}
	defer corpus.Close()

	rows, err := corpus.NewRowStream()
	if err != nil {
		return err
	}
	stats, err := rows.Count(c.Context)
	if err != nil {
		return fmt.Errorf("streaming rows failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Rows: %d\n", stats.Yielded)
	fmt.Fprintf(c.App.Writer, "Corrupt: %d\n", stats.Corrupt)
	return nil
}

func tokensCommand(c *cli.Context) error {
	file, err := loadConfig(c)
	if err != nil {
		return err
	}
	corpus, err := openCorpus(file)
	if err != nil {
		return err
	}
	defer corpus.Close()

	output := c.String("output")
	if output == "" {
		output = filepath.Join(filepath.Dir(corpus.Path()), "tokens.txt")
	}

	tok, err := tokenizer.New(file.TokenizerConfig())
	if err != nil {
		return err
	}
	rows, err := corpus.NewRowStream()
	if err != nil {
		return err
	}
	w, err := vectors.CreateTokenFile(output)
	if err != nil {
		return err
	}

	stats, err := rows.ForEach(c.Context, func(section *core.Section) error {
		return w.Write(section.ID, tok.Tokenize(section.Text))
	})
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing tokens failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Token file: %s\n", output)
	fmt.Fprintf(c.App.Writer, "Lines: %d (%d empty, %d corrupt rows skipped)\n", w.Lines(), w.Lines()-w.NonEmpty(), stats.Corrupt)
	return nil
}

func buildCommand(c *cli.Context) error {
	file, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Flags override the config file only when given explicitly.
	if c.IsSet("dimension") {
		file.Build.Dimension = c.Int("dimension")
	}
	if c.IsSet("min-frequency") {
		file.Build.MinFrequency = c.Int("min-frequency")
	}
	if c.IsSet("trainer") {
		file.Build.Trainer = c.String("trainer")
	}
	if c.IsSet("aggregation") {
		file.Build.Aggregation = c.String("aggregation")
	}
	if c.IsSet("embedding-host") {
		file.Build.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		file.Build.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("tagged-only") {
		file.Build.TaggedOnly = c.Bool("tagged-only")
	}
	if c.IsSet("exclude-labels") {
		file.Build.ExcludeLabels = c.StringSlice("exclude-labels")
	}
	if err := file.Validate(); err != nil {
		return err
	}

	corpus, err := openCorpus(file, papervec.WithArtifactDir(c.String("output")), papervec.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer corpus.Close()

	fmt.Fprintf(c.App.ErrWriter, "Corpus: %s\n", corpus.Path())
	fmt.Fprintf(c.App.ErrWriter, "Artifacts: %s\n", corpus.ArtifactRoot().Dir())
	fmt.Fprintf(c.App.ErrWriter, "Trainer: %s (dimension %d, min frequency %d)\n",
		file.Build.Trainer, file.Build.Dimension, file.Build.MinFrequency)
	fmt.Fprintln(c.App.ErrWriter)

	result, err := corpus.Build(c.Context)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Published %s: %d sections indexed, %d skipped, vocabulary %d, %s\n",
		result.Version, result.Manifest.IndexedSections, result.Skipped, result.Manifest.Vocabulary, result.Elapsed.Round(time.Millisecond))
	return nil
}

func queryCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("query text is required")
	}

	file, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("limit") {
		file.Query.Limit = c.Int("limit")
	}
	if c.IsSet("threshold") {
		file.Query.MinScore = c.Float64("threshold")
	}
	if c.IsSet("granularity") {
		file.Query.Granularity = c.String("granularity")
	}
	if c.IsSet("preload") {
		file.Query.Preload = c.Bool("preload")
	}
	if err := file.Validate(); err != nil {
		return err
	}

	corpus, err := openCorpus(file)
	if err != nil {
		return err
	}
	defer corpus.Close()

	engine, err := corpus.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to open model: %w", err)
	}
	defer engine.Close()

	answers, err := engine.Run(c.Context, text, file.Query.Limit)
	if err != nil {
		return err
	}
	return query.NewReport(c.App.Writer).Write(text, file.Query.Limit, answers)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
