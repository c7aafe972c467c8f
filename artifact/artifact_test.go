package artifact

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/index"
	"github.com/poiesic/papervec/index/indextest"
	"github.com/poiesic/papervec/tokenizer"
)

func testModel(dimension int) *core.WordVectors {
	model := &core.WordVectors{
		Dimension: dimension,
		Vectors:   map[string][]float32{},
		DocFreq:   map[string]uint64{},
		Documents: 3,
	}
	for i, token := range []string{"covid-19", "risk", "hypertension"} {
		vector := make([]float32, dimension)
		vector[i%dimension] = 1
		model.Vectors[token] = vector
		model.DocFreq[token] = uint64(i + 1)
	}
	return model
}

func testManifest(dimension int) *Manifest {
	tok := tokenizer.DefaultConfig()
	return &Manifest{
		CreatedAt:            time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
		Corpus:               "articles.sqlite",
		Trainer:              "mock",
		Dimension:            dimension,
		MinFrequency:         1,
		Aggregation:          "mean",
		Vocabulary:           3,
		Tokenizer:            tok,
		TokenizerFingerprint: tok.Fingerprint(),
	}
}

// publish stages and publishes a build holding entries.
func publish(t *testing.T, root *Root, dimension int, entries map[core.ID][]float32) string {
	t.Helper()
	staging, err := root.Stage()
	require.NoError(t, err)
	defer staging.Abort()

	_, err = staging.WriteModel(testModel(dimension))
	require.NoError(t, err)

	writer, err := staging.IndexWriter(dimension)
	require.NoError(t, err)
	for id, vector := range entries {
		require.NoError(t, writer.Add(id, vector))
	}

	name, err := staging.Publish(testManifest(dimension))
	require.NoError(t, err)
	return name
}

func newTestRoot(t *testing.T, opts ...RootOption) *Root {
	t.Helper()
	root, err := NewRoot(filepath.Join(t.TempDir(), "vectors"), opts...)
	require.NoError(t, err)
	return root
}

func TestModelCodec(t *testing.T) {
	model := testModel(4)

	var buf bytes.Buffer
	sum, err := encodeModel(&buf, model)
	require.NoError(t, err)
	assert.Equal(t, checksum(buf.Bytes()), sum)

	decoded, err := decodeModel(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, model, decoded)

	t.Run("deterministic bytes", func(t *testing.T) {
		var again bytes.Buffer
		_, err := encodeModel(&again, testModel(4))
		require.NoError(t, err)
		assert.Equal(t, buf.Bytes(), again.Bytes())
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := decodeModel(buf.Bytes()[:buf.Len()-3])
		assert.ErrorIs(t, err, ErrCorruptModel)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := decodeModel(append(bytes.Clone(buf.Bytes()), 0))
		assert.ErrorIs(t, err, ErrCorruptModel)
	})

	t.Run("bad header", func(t *testing.T) {
		_, err := decodeModel([]byte("not a model"))
		assert.ErrorIs(t, err, ErrCorruptModel)
	})

	t.Run("wrong vector length", func(t *testing.T) {
		bad := testModel(4)
		bad.Vectors["risk"] = []float32{1}
		_, err := encodeModel(&bytes.Buffer{}, bad)
		assert.Error(t, err)
	})
}

func TestSectionVectorKey(t *testing.T) {
	key := makeSectionVectorKey(258)
	id, ok := parseSectionVectorKey(key)
	assert.True(t, ok)
	assert.Equal(t, core.ID(258), id)

	assert.Less(t, string(makeSectionVectorKey(2)), string(makeSectionVectorKey(256)))

	_, ok = parseSectionVectorKey([]byte("secvec:short"))
	assert.False(t, ok)
}

func TestPublishAndOpen(t *testing.T) {
	root := newTestRoot(t)

	_, err := root.Open()
	assert.ErrorIs(t, err, core.ErrModelNotFound)

	name := publish(t, root, 3, map[core.ID][]float32{1: {1, 0, 0}, 2: {0, 2, 0}})
	assert.Equal(t, "v000001", name)

	current, err := root.Current()
	require.NoError(t, err)
	assert.Equal(t, name, current)

	h, err := root.Open()
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, name, h.Version())
	assert.Equal(t, 1, h.Manifest.Version)
	assert.Equal(t, FormatVersion, h.Manifest.FormatVersion)
	assert.Equal(t, 2, h.Manifest.IndexedSections)
	assert.NotEmpty(t, h.Manifest.ModelChecksum)
	assert.Equal(t, testModel(3), h.Model)
	assert.Equal(t, 2, h.Index().Size())

	hits, err := h.Index().Nearest(context.Background(), []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, core.ID(2), hits[0].SectionID)

	tok, err := h.Manifest.NewTokenizer()
	require.NoError(t, err)
	assert.Equal(t, []string{"risk"}, tok.Tokenize("the risk"))

	scan := h.Index().(*ScanIndex)
	vector, ok, err := scan.Vector(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, vector, 1e-6)

	_, ok, err = scan.Vector(99)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = os.Stat(filepath.Join(h.Dir(), scratchDir))
	assert.True(t, os.IsNotExist(err), "scratch files are not published")
}

func TestPublishReplacesCurrent(t *testing.T) {
	root := newTestRoot(t, WithRetain(2))

	publish(t, root, 2, map[core.ID][]float32{1: {1, 0}})
	publish(t, root, 2, map[core.ID][]float32{1: {1, 0}, 2: {0, 1}})
	third := publish(t, root, 2, map[core.ID][]float32{1: {1, 0}, 2: {0, 1}, 3: {1, 1}})

	current, err := root.Current()
	require.NoError(t, err)
	assert.Equal(t, third, current)

	versions, err := root.Versions()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, versions, "older versions pruned")

	h, err := root.Open()
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, 3, h.Index().Size())
}

func TestAbortKeepsPrevious(t *testing.T) {
	root := newTestRoot(t)
	first := publish(t, root, 2, map[core.ID][]float32{1: {1, 0}})

	staging, err := root.Stage()
	require.NoError(t, err)
	_, err = staging.WriteModel(testModel(2))
	require.NoError(t, err)
	writer, err := staging.IndexWriter(2)
	require.NoError(t, err)
	require.NoError(t, writer.Add(7, []float32{0, 1}))
	require.NoError(t, staging.Abort())
	require.NoError(t, staging.Abort())

	_, err = os.Stat(staging.Dir())
	assert.True(t, os.IsNotExist(err))

	current, err := root.Current()
	require.NoError(t, err)
	assert.Equal(t, first, current)

	_, err = staging.Publish(testManifest(2))
	assert.ErrorIs(t, err, ErrStagingClosed)
}

func TestStageRemovesStale(t *testing.T) {
	root := newTestRoot(t)
	stale, err := root.Stage()
	require.NoError(t, err)

	fresh, err := root.Stage()
	require.NoError(t, err)
	defer fresh.Abort()

	_, err = os.Stat(stale.Dir())
	assert.True(t, os.IsNotExist(err))
}

func TestPublishRequiresModelAndIndex(t *testing.T) {
	root := newTestRoot(t)
	staging, err := root.Stage()
	require.NoError(t, err)
	defer staging.Abort()

	_, err = staging.Publish(testManifest(2))
	assert.Error(t, err)

	_, err = staging.WriteModel(testModel(2))
	require.NoError(t, err)
	_, err = staging.Publish(testManifest(2))
	assert.Error(t, err)

	_, err = root.Current()
	assert.ErrorIs(t, err, core.ErrModelNotFound)
}

func TestIndexWriterRejectsZeroVector(t *testing.T) {
	root := newTestRoot(t)
	staging, err := root.Stage()
	require.NoError(t, err)
	defer staging.Abort()

	writer, err := staging.IndexWriter(2)
	require.NoError(t, err)
	assert.ErrorIs(t, writer.Add(1, []float32{0, 0}), index.ErrZeroVector)
	assert.Zero(t, writer.Count())
}

func TestOpenRejectsDamagedArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		damage func(t *testing.T, dir string)
	}{
		{"missing model", func(t *testing.T, dir string) {
			require.NoError(t, os.Remove(filepath.Join(dir, modelFile)))
		}},
		{"modified model", func(t *testing.T, dir string) {
			path := filepath.Join(dir, modelFile)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			data[len(data)-1] ^= 0xff
			require.NoError(t, os.WriteFile(path, data, 0644))
		}},
		{"missing manifest", func(t *testing.T, dir string) {
			require.NoError(t, os.Remove(filepath.Join(dir, manifestFile)))
		}},
		{"missing index", func(t *testing.T, dir string) {
			require.NoError(t, os.RemoveAll(filepath.Join(dir, indexDir)))
		}},
		{"format version", func(t *testing.T, dir string) {
			rewriteManifest(t, dir, func(m *Manifest) { m.FormatVersion = FormatVersion + 1 })
		}},
		{"tokenizer fingerprint", func(t *testing.T, dir string) {
			rewriteManifest(t, dir, func(m *Manifest) { m.Tokenizer.MinLength = 5 })
		}},
		{"tokenizer version", func(t *testing.T, dir string) {
			rewriteManifest(t, dir, func(m *Manifest) { m.Tokenizer.Version = tokenizer.Version + 1 })
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newTestRoot(t)
			name := publish(t, root, 2, map[core.ID][]float32{1: {1, 0}})
			tt.damage(t, filepath.Join(root.Dir(), name))

			_, err := root.Open()
			assert.ErrorIs(t, err, core.ErrModelNotFound)
		})
	}

	t.Run("bad pointer", func(t *testing.T) {
		root := newTestRoot(t)
		publish(t, root, 2, map[core.ID][]float32{1: {1, 0}})
		require.NoError(t, os.WriteFile(filepath.Join(root.Dir(), currentFile), []byte("garbage"), 0644))

		_, err := root.Open()
		assert.ErrorIs(t, err, core.ErrModelNotFound)
	})
}

func rewriteManifest(t *testing.T, dir string, fn func(*Manifest)) {
	t.Helper()
	path := filepath.Join(dir, manifestFile)
	m, err := readManifest(path)
	require.NoError(t, err)
	fn(m)
	require.NoError(t, writeManifest(path, m))
}

func TestScanIndexContract(t *testing.T) {
	for _, preload := range []bool{false, true} {
		name := "scan"
		if preload {
			name = "preload"
		}
		t.Run(name, func(t *testing.T) {
			indextest.Run(t, func(t *testing.T, dimension int, entries map[core.ID][]float32) index.Index {
				root := newTestRoot(t)
				publish(t, root, dimension, entries)
				h, err := root.Open(WithPreload(preload))
				require.NoError(t, err)
				t.Cleanup(func() { h.Close() })
				return h.Index()
			})
		})
	}
}
