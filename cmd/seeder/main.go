package main

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus/sqlite"
)

// seedArticle holds the sections read from --src.
const seedArticle = "seed"

func main() {
	app := &cli.App{
		Name:  "seeder",
		Usage: "Create a sample corpus database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Corpus directory or database file",
				Value:   "./corpus",
			},
			&cli.StringFlag{
				Name:  "src",
				Usage: "File of extra section texts, one per line",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of extra sections written per transaction",
				Value: 100,
			},
		},
		Action: seed,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seed(c *cli.Context) error {
	ctx := c.Context

	path, err := sqlite.CreateFixtureCorpus(ctx, c.String("output"))
	if err != nil {
		return fmt.Errorf("failed to create corpus: %w", err)
	}
	slog.Info("sample corpus written", "path", path, "articles", len(sqlite.FixtureArticles()), "sections", len(sqlite.FixtureSections()))

	src := c.String("src")
	if src == "" {
		return nil
	}
	source, err := linesFromFile(src)
	if err != nil {
		return err
	}

	w, err := sqlite.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.AddArticles(ctx, &core.Article{ID: seedArticle, Title: "Seed sections from " + src}); err != nil {
		return err
	}
	firstID := core.ID(len(sqlite.FixtureSections()) + 1)
	n, err := addBatched(ctx, w, source, firstID, c.Int("batch-size"))
	if err != nil {
		return err
	}
	slog.Info("seed sections written", "source", src, "sections", n)
	return nil
}

// linesFromFile returns an iterator over the non-blank lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}, nil
}

// addBatched writes one section per line, batchSize sections per transaction.
func addBatched(ctx context.Context, w *sqlite.Writer, source iter.Seq[string], nextID core.ID, batchSize int) (int, error) {
	batch := make([]*core.Section, 0, batchSize)
	written := 0

	for line := range source {
		batch = append(batch, &core.Section{ID: nextID, ArticleID: seedArticle, Text: line})
		nextID++
		if len(batch) == batchSize {
			if err := w.AddSections(ctx, batch...); err != nil {
				return written, err
			}
			written += len(batch)
			batch = batch[:0]
		}
	}

	// Write any remaining lines
	if len(batch) > 0 {
		if err := w.AddSections(ctx, batch...); err != nil {
			return written, err
		}
		written += len(batch)
	}

	return written, nil
}
