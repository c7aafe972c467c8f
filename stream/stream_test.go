package stream

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus"
	"github.com/poiesic/papervec/corpus/sqlite"
)

// memStore is an in-memory corpus.Store over a fixed row list.
type memStore struct {
	rows    []*core.Section
	scanErr error
	scans   int
}

func (m *memStore) ScanSections(ctx context.Context, _ corpus.Filter, fn func(*core.Section) error) error {
	m.scans++
	for _, row := range m.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return m.scanErr
}

func (m *memStore) CountSections(context.Context, corpus.Filter) (int, error) {
	return len(m.rows), nil
}

func (m *memStore) GetSections(context.Context, ...core.ID) ([]*core.Section, error) {
	return nil, nil
}

func (m *memStore) GetArticle(context.Context, string) (*core.Article, error) {
	return nil, corpus.ErrNotFound
}

func (m *memStore) GetArticles(context.Context, ...string) ([]*core.Article, error) {
	return nil, nil
}

func (m *memStore) Close() error { return nil }

func rows(n int, corrupt func(i int) bool) []*core.Section {
	out := make([]*core.Section, n)
	for i := range n {
		out[i] = &core.Section{ID: core.ID(i + 1), ArticleID: "a", Text: fmt.Sprintf("row %d", i+1)}
		if corrupt != nil && corrupt(i) {
			out[i].Text = ""
		}
	}
	return out
}

func TestNewRowStream(t *testing.T) {
	_, err := NewRowStream(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewRowStream(&memStore{}, WithMaxCorruptRatio(1.5))
	assert.ErrorIs(t, err, ErrInvalidRatio)

	_, err = NewRowStream(&memStore{}, WithWarmup(-1))
	assert.ErrorIs(t, err, ErrInvalidWarmup)
}

func TestRowStreamForEach(t *testing.T) {
	ctx := context.Background()

	t.Run("yields all valid rows in order", func(t *testing.T) {
		s, err := NewRowStream(&memStore{rows: rows(5, nil)})
		require.NoError(t, err)

		var ids []core.ID
		stats, err := s.ForEach(ctx, func(section *core.Section) error {
			ids = append(ids, section.ID)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []core.ID{1, 2, 3, 4, 5}, ids)
		assert.Equal(t, 5, stats.Read)
		assert.Equal(t, 5, stats.Yielded)
		assert.Zero(t, stats.Corrupt)
	})

	t.Run("skips corrupt rows", func(t *testing.T) {
		data := rows(100, func(i int) bool { return i == 10 })
		data[20].ArticleID = ""
		data[30].ID = 0
		s, err := NewRowStream(&memStore{rows: data})
		require.NoError(t, err)

		stats, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100, stats.Read)
		assert.Equal(t, 97, stats.Yielded)
		assert.Equal(t, 3, stats.Corrupt)
		assert.Equal(t, 3, stats.Policy.Corrupt)
	})

	t.Run("excessive corruption at end of small stream", func(t *testing.T) {
		s, err := NewRowStream(&memStore{rows: rows(10, func(i int) bool { return i%2 == 0 })})
		require.NoError(t, err)

		stats, err := s.Count(ctx)
		assert.ErrorIs(t, err, core.ErrExcessiveCorruption)
		assert.Equal(t, 10, stats.Read)
	})

	t.Run("excessive corruption after warmup stops early", func(t *testing.T) {
		store := &memStore{rows: rows(5000, func(i int) bool { return i%4 == 0 })}
		s, err := NewRowStream(store, WithWarmup(100))
		require.NoError(t, err)

		stats, err := s.Count(ctx)
		assert.ErrorIs(t, err, core.ErrExcessiveCorruption)
		assert.Equal(t, 100, stats.Read)
	})

	t.Run("tolerant ratio", func(t *testing.T) {
		s, err := NewRowStream(&memStore{rows: rows(10, func(i int) bool { return i%2 == 0 })}, WithMaxCorruptRatio(0.5))
		require.NoError(t, err)

		stats, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.Yielded)
	})

	t.Run("callback error is returned unchanged", func(t *testing.T) {
		s, err := NewRowStream(&memStore{rows: rows(5, nil)})
		require.NoError(t, err)

		stats, err := s.ForEach(ctx, func(section *core.Section) error {
			if section.ID == 2 {
				return assert.AnError
			}
			return nil
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 2, stats.Yielded)
	})

	t.Run("store error propagates", func(t *testing.T) {
		store := &memStore{rows: rows(3, nil), scanErr: fmt.Errorf("%w: disk gone", corpus.ErrStoreUnavailable)}
		s, err := NewRowStream(store)
		require.NoError(t, err)

		_, err = s.Count(ctx)
		assert.ErrorIs(t, err, corpus.ErrStoreUnavailable)
	})

	t.Run("restartable", func(t *testing.T) {
		store := &memStore{rows: rows(7, func(i int) bool { return i == 3 })}
		s, err := NewRowStream(store, WithMaxCorruptRatio(0.2))
		require.NoError(t, err)

		first, err := s.Count(ctx)
		require.NoError(t, err)
		second, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 2, store.scans)
	})
}

func TestRowStreamOverSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	_, err := sqlite.CreateFixtureCorpus(ctx, dir)
	require.NoError(t, err)

	store, err := sqlite.Open(dir)
	require.NoError(t, err)
	defer store.Close()

	s, err := NewRowStream(store)
	require.NoError(t, err)

	collect := func() ([]core.ID, Stats) {
		var ids []core.ID
		stats, err := s.ForEach(ctx, func(section *core.Section) error {
			ids = append(ids, section.ID)
			return nil
		})
		require.NoError(t, err)
		return ids, stats
	}

	firstIDs, firstStats := collect()
	secondIDs, secondStats := collect()
	assert.Equal(t, firstIDs, secondIDs)
	assert.Equal(t, firstStats, secondStats)
	assert.Len(t, firstIDs, len(sqlite.FixtureSections()))

	expected, err := s.Expected(ctx)
	require.NoError(t, err)
	assert.Equal(t, firstStats.Read, expected)
}
