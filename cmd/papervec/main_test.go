package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/papervec/corpus/sqlite"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"papervec", "--log-level", "error"}, args...))
	return out.String(), err
}

func fixtureCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := sqlite.CreateFixtureCorpus(context.Background(), dir)
	require.NoError(t, err)
	return dir
}

func TestStreamCommand(t *testing.T) {
	dir := fixtureCorpus(t)

	out, err := runApp(t, "--corpus", dir, "stream")
	require.NoError(t, err)
	assert.Equal(t, "Rows: 34\nCorrupt: 0\n", out)

	_, err = runApp(t, "stream")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus path is required")
}

func TestTokensCommand(t *testing.T) {
	dir := fixtureCorpus(t)
	output := filepath.Join(t.TempDir(), "tokens.txt")

	out, err := runApp(t, "-c", dir, "tokens", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Lines: 34")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 34, strings.Count(string(data), "\n"))
}

func TestBuildAndQueryCommands(t *testing.T) {
	dir := fixtureCorpus(t)

	out, err := runApp(t, "-c", dir, "build", "--dimension", "128", "--min-frequency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Published v000001")

	out, err = runApp(t, "-c", dir, "query", "-n", "3", "hypertension", "diabetes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Query: hypertension diabetes\n"))
	assert.Contains(t, out, "Title: ")

	preloaded, err := runApp(t, "-c", dir, "query", "-n", "3", "--preload", "hypertension", "diabetes")
	require.NoError(t, err)
	assert.Equal(t, strings.Count(out, "\n"), strings.Count(preloaded, "\n"))

	_, err = runApp(t, "-c", dir, "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query text is required")

	_, err = runApp(t, "-c", dir, "query", "--granularity", "page", "risk")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := fixtureCorpus(t)
	path := filepath.Join(t.TempDir(), "papervec.toml")
	content := "corpus = \"" + filepath.ToSlash(dir) + "\"\n\n[build]\ndimension = 64\nmin_frequency = 2\n\n[query]\nlimit = 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := runApp(t, "--config", path, "build")
	require.NoError(t, err)

	out, err := runApp(t, "--config", path, "query", "vaccine")
	require.NoError(t, err)
	titles := strings.Count(out, "Title: ")
	assert.Positive(t, titles)
	assert.LessOrEqual(t, titles, 2)
}

func TestQueryWithoutModel(t *testing.T) {
	dir := fixtureCorpus(t)
	_, err := runApp(t, "-c", dir, "query", "risk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []string{"debug", "info", "warn", "error", "DEBUG", "Info"}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		app.Commands = nil
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}

		err := app.Run([]string{"papervec", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestBuildFlagDefaults(t *testing.T) {
	app := newApp()
	var build *cli.Command
	for _, cmd := range app.Commands {
		if cmd.Name == "build" {
			build = cmd
		}
	}
	require.NotNil(t, build)

	defaults := map[string]int{}
	for _, flag := range build.Flags {
		if f, ok := flag.(*cli.IntFlag); ok {
			defaults[f.Name] = f.Value
		}
	}
	assert.Equal(t, 300, defaults["dimension"])
	assert.Equal(t, 3, defaults["min-frequency"])
}
