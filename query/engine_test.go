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

package query

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/ai/randindex"
	"github.com/poiesic/papervec/artifact"
	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus/sqlite"
	"github.com/poiesic/papervec/stream"
	"github.com/poiesic/papervec/vectors"
)

// fixture builds the sample corpus and publishes an artifact for it.
func fixture(t *testing.T) (*artifact.Root, *sqlite.Store) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	path, err := sqlite.CreateFixtureCorpus(ctx, dir)
	require.NoError(t, err)
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rows, err := stream.NewRowStream(store)
	require.NoError(t, err)
	trainer, err := randindex.NewTrainer(ai.DefaultConfig())
	require.NoError(t, err)
	root, err := artifact.NewRoot(filepath.Join(dir, "vectors"))
	require.NoError(t, err)

	b, err := vectors.NewBuilder(rows, trainer, root, vectors.WithParams(ai.Params{Dimension: 300, MinFrequency: 2}))
	require.NoError(t, err)
	_, err = b.Build(ctx)
	require.NoError(t, err)
	return root, store
}

func openEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	root, store := fixture(t)
	e, err := Open(root, store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func assertRanked(t *testing.T, answers []*core.Answer) {
	t.Helper()
	for i, answer := range answers {
		assert.Equal(t, i+1, answer.Rank)
		require.NotEmpty(t, answer.Excerpts)
		assert.Equal(t, answer.Excerpts[0].Score, answer.Score)
		for j := 1; j < len(answer.Excerpts); j++ {
			assert.GreaterOrEqual(t, answer.Excerpts[j-1].Score, answer.Excerpts[j].Score)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, answers[i-1].Score, answer.Score)
		}
	}
}

func TestNewEngine(t *testing.T) {
	root, store := fixture(t)
	h, err := root.Open()
	require.NoError(t, err)
	defer h.Close()

	_, err = NewEngine(nil, store)
	assert.ErrorIs(t, err, ErrArtifactRequired)
	_, err = NewEngine(h, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
	_, err = NewEngine(h, store, WithCandidateFactor(0))
	assert.ErrorIs(t, err, ErrInvalidCandidateFactor)
	_, err = NewEngine(h, store, WithCacheSize(0))
	assert.ErrorIs(t, err, ErrInvalidCacheSize)
	_, err = NewEngine(h, store, WithGranularity(Granularity(7)))
	assert.ErrorIs(t, err, ErrUnknownGranularity)

	e, err := NewEngine(h, store)
	require.NoError(t, err)
	assert.Equal(t, "v000001", e.Version())
	require.NoError(t, e.Close())

	// The caller still owns the handle.
	assert.Positive(t, h.Index().Size())
}

func TestOpenWithoutArtifact(t *testing.T) {
	_, store := fixture(t)
	root, err := artifact.NewRoot(t.TempDir())
	require.NoError(t, err)

	_, err = Open(root, store)
	assert.ErrorIs(t, err, core.ErrModelNotFound)

	_, err = Open(nil, store)
	assert.ErrorIs(t, err, ErrArtifactRequired)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	e := openEngine(t)

	answers, err := e.Run(ctx, "hypertension diabetes risk", 3)
	require.NoError(t, err)
	require.NotEmpty(t, answers)
	assert.LessOrEqual(t, len(answers), 3)
	assertRanked(t, answers)

	seen := make(map[string]bool)
	for _, answer := range answers {
		assert.False(t, seen[answer.Article.ID], "articles are grouped")
		seen[answer.Article.ID] = true
		assert.NotEmpty(t, answer.Article.Title, "article metadata is joined")
	}
	assert.NotEmpty(t, answers[0].Excerpts[0].Terms)
}

func TestRunIsReproducible(t *testing.T) {
	ctx := context.Background()
	e := openEngine(t)

	first, err := e.Run(ctx, "risk factors studied", 10)
	require.NoError(t, err)
	for range 3 {
		again, err := e.Run(ctx, "risk factors studied", 10)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRunPreloadMatchesScan(t *testing.T) {
	ctx := context.Background()
	root, store := fixture(t)

	scan, err := Open(root, store)
	require.NoError(t, err)
	defer scan.Close()
	mem, err := Open(root, store, WithPreload(true))
	require.NoError(t, err)
	defer mem.Close()

	a, err := scan.Run(ctx, "virus transmission in households", 5)
	require.NoError(t, err)
	b, err := mem.Run(ctx, "virus transmission in households", 5)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Article.ID, b[i].Article.ID)
		require.Len(t, b[i].Excerpts, len(a[i].Excerpts))
		for j := range a[i].Excerpts {
			assert.Equal(t, a[i].Excerpts[j].SectionID, b[i].Excerpts[j].SectionID)
			assert.InDelta(t, a[i].Excerpts[j].Score, b[i].Excerpts[j].Score, 1e-5)
		}
	}
}

func TestRunTerms(t *testing.T) {
	ctx := context.Background()
	e := openEngine(t)

	answers, err := e.Run(ctx, "risk +smoking", 10)
	require.NoError(t, err)
	require.NotEmpty(t, answers)
	for _, answer := range answers {
		for _, excerpt := range answer.Excerpts {
			assert.Contains(t, strings.ToLower(excerpt.Text), "smoking")
		}
	}

	answers, err = e.Run(ctx, "mortality -hypertension", 10)
	require.NoError(t, err)
	for _, answer := range answers {
		for _, excerpt := range answer.Excerpts {
			assert.NotContains(t, strings.ToLower(excerpt.Text), "hypertension")
		}
	}
}

func TestRunGranularitySection(t *testing.T) {
	e := openEngine(t, WithGranularity(GranularitySection))

	answers, err := e.Run(context.Background(), "patients mortality", 4)
	require.NoError(t, err)
	assertRanked(t, answers)

	total := 0
	for _, answer := range answers {
		total += len(answer.Excerpts)
	}
	assert.Equal(t, 4, total)
}

func TestRunMinScore(t *testing.T) {
	e := openEngine(t, WithMinScore(0.5))

	answers, err := e.Run(context.Background(), "vaccine trials", 10)
	require.NoError(t, err)
	for _, answer := range answers {
		for _, excerpt := range answer.Excerpts {
			assert.GreaterOrEqual(t, excerpt.Score, float32(0.5))
		}
	}

	e = openEngine(t, WithMinScore(1.5))
	answers, err = e.Run(context.Background(), "vaccine trials", 10)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	e := openEngine(t)

	_, err := e.Run(ctx, "risk", 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = e.Run(ctx, "", 10)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)

	_, err = e.Run(ctx, "the of and", 10)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)

	_, err = e.Run(ctx, "zyxwvut qwertyuiop", 10)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)

	_, err = e.Run(ctx, "-risk", 10)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestRunConcurrent(t *testing.T) {
	ctx := context.Background()
	e := openEngine(t)

	want, err := e.Run(ctx, "incubation period", 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]*core.Answer, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Run(ctx, "incubation period", 5)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestRunHugeLimit(t *testing.T) {
	e := openEngine(t)
	monitor := &recordingMonitor{}

	answers, err := e.RunWithMonitor(context.Background(), "risk factors studied", math.MaxInt, monitor)
	require.NoError(t, err)
	assert.NotEmpty(t, answers)
	assert.Equal(t, e.index.Size(), monitor.hits)
	assertRanked(t, answers)
}

func TestRunReturnsPrivateArticles(t *testing.T) {
	ctx := context.Background()
	e := openEngine(t)

	first, err := e.Run(ctx, "risk factors studied", 3)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	title := first[0].Article.Title
	first[0].Article.Title = "mutated"
	first[0].Article.Authors = append(first[0].Article.Authors, "Mutated, M")

	again, err := e.Run(ctx, "risk factors studied", 3)
	require.NoError(t, err)
	assert.Equal(t, title, again[0].Article.Title)
	assert.NotContains(t, again[0].Article.Authors, "Mutated, M")
}

func TestCandidateCount(t *testing.T) {
	tests := []struct {
		name                string
		limit, factor, size int
		want                int
	}{
		{"over-fetch", 2, 5, 34, 10},
		{"capped by size", 10, 5, 34, 34},
		{"factor one", 3, 1, 34, 3},
		{"overflow", math.MaxInt / 2, 5, 34, 34},
		{"max limit", math.MaxInt, 5, 1 << 20, 1 << 20},
		{"empty index", 10, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, candidateCount(tt.limit, tt.factor, tt.size))
		})
	}
}

type recordingMonitor struct {
	calls    []string
	hits     int
	filtered []string
	answers  int
}

func (m *recordingMonitor) Start(string) { m.calls = append(m.calls, "start") }
func (m *recordingMonitor) AfterTokenize([]string, int) {
	m.calls = append(m.calls, "tokenize")
}
func (m *recordingMonitor) AfterNearest(hits []core.Hit) {
	m.calls = append(m.calls, "nearest")
	m.hits = len(hits)
}
func (m *recordingMonitor) AfterSectionRetrieval([]*core.Section) {
	m.calls = append(m.calls, "sections")
}
func (m *recordingMonitor) Filtered(_ *core.Section, reason string) {
	m.filtered = append(m.filtered, reason)
}
func (m *recordingMonitor) Finish(answers []*core.Answer) {
	m.calls = append(m.calls, "finish")
	m.answers = len(answers)
}

func TestRunWithMonitor(t *testing.T) {
	e := openEngine(t)
	monitor := &recordingMonitor{}

	answers, err := e.RunWithMonitor(context.Background(), "risk -patients", 2, monitor)
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "tokenize", "nearest", "sections", "finish"}, monitor.calls)
	assert.Equal(t, 10, monitor.hits, "candidates are over-fetched")
	assert.Equal(t, len(answers), monitor.answers)
	for _, reason := range monitor.filtered {
		assert.Equal(t, "-patients", reason)
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("Section")
	require.NoError(t, err)
	assert.Equal(t, GranularitySection, g)

	g, err = ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, GranularityArticle, g)
	assert.Equal(t, "article", g.String())

	_, err = ParseGranularity("paragraph")
	assert.ErrorIs(t, err, ErrUnknownGranularity)
}
