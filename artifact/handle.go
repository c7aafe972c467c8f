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

package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/index"
	"github.com/poiesic/papervec/index/bruteforce"
)

// Handle is an open, read-only model/index pair.
// It is safe for concurrent use until Close.
type Handle struct {
	Manifest *Manifest
	Model    *core.WordVectors

	version string
	dir     string
	backend *backend
	index   index.Index
	logger  *slog.Logger
}

type openOptions struct {
	preload bool
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

// WithPreload loads every document vector into memory at open time instead
// of scanning the on-disk index per query.
func WithPreload(preload bool) OpenOption {
	return func(o *openOptions) {
		o.preload = preload
	}
}

// Open opens the current version under root.
func (r *Root) Open(opts ...OpenOption) (*Handle, error) {
	name, err := r.Current()
	if err != nil {
		return nil, err
	}
	return r.OpenVersion(name, opts...)
}

// OpenVersion opens a specific version directory such as "v000003".
func (r *Root) OpenVersion(name string, opts ...OpenOption) (*Handle, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	dir := filepath.Join(r.dir, name)
	manifest, err := readManifest(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelNotFound, name, err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelNotFound, name, err)
	}
	if sum := checksum(data); sum != manifest.ModelChecksum {
		return nil, fmt.Errorf("%w: %w", ErrModelNotFound, ErrChecksumMismatch)
	}
	model, err := decodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	if model.Dimension != manifest.Dimension {
		return nil, fmt.Errorf("%w: model dimension %d, manifest %d", ErrModelNotFound, model.Dimension, manifest.Dimension)
	}

	logger := r.logger.With("version", name)
	b, err := openBackend(filepath.Join(dir, indexDir), modeReadOnly, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: opening index: %w", ErrModelNotFound, err)
	}

	h := &Handle{
		Manifest: manifest,
		Model:    model,
		version:  name,
		dir:      dir,
		backend:  b,
		logger:   logger,
	}
	scan := &ScanIndex{backend: b, dimension: manifest.Dimension, size: manifest.IndexedSections}
	h.index = scan
	if o.preload {
		mem, err := scan.Load(context.Background())
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: loading index: %w", ErrModelNotFound, err)
		}
		h.index = mem
	}

	logger.Debug("opened artifact", "vocabulary", model.Len(), "sections", manifest.IndexedSections, "preload", o.preload)
	return h, nil
}

// Version returns the version directory name.
func (h *Handle) Version() string {
	return h.version
}

// Dir returns the version directory.
func (h *Handle) Dir() string {
	return h.dir
}

// Index returns the similarity index over document vectors.
func (h *Handle) Index() index.Index {
	return h.index
}

// Close releases the index database.
func (h *Handle) Close() error {
	return h.backend.Close()
}

// ScanIndex is an index.Index that scans the on-disk vectors per query.
type ScanIndex struct {
	backend   *backend
	dimension int
	size      int
}

var _ index.Index = (*ScanIndex)(nil)

// Nearest scores every stored vector against vector.
func (s *ScanIndex) Nearest(ctx context.Context, vector []float32, k int) ([]core.Hit, error) {
	query, err := index.Prepare(vector, s.dimension)
	if err != nil {
		return nil, err
	}
	top := index.NewTopK(min(k, s.size))
	err = s.ForEach(ctx, func(id core.ID, stored []float32) error {
		top.Push(id, index.Cosine(query, stored))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return top.Hits(), nil
}

// ForEach visits every stored vector in ascending section id order.
func (s *ScanIndex) ForEach(ctx context.Context, fn func(id core.ID, vector []float32) error) error {
	return s.backend.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sectionVectorPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		n := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if n%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			n++

			item := iter.Item()
			id, ok := parseSectionVectorKey(item.Key())
			if !ok {
				continue
			}
			var stored []float32
			err := item.Value(func(val []byte) error {
				var err error
				stored, _, err = unmarshalVector(val, s.dimension)
				return err
			})
			if err != nil {
				return fmt.Errorf("reading vector of section %d: %w", id, err)
			}
			if err := fn(id, stored); err != nil {
				return err
			}
		}
		return nil
	})
}

// Vector returns the stored vector of a section.
func (s *ScanIndex) Vector(id core.ID) ([]float32, bool, error) {
	var stored []float32
	err := s.backend.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSectionVectorKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			stored, _, err = unmarshalVector(val, s.dimension)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

// Load copies every stored vector into an in-memory index.
func (s *ScanIndex) Load(ctx context.Context) (*bruteforce.Index, error) {
	mem := bruteforce.New(s.dimension)
	err := s.ForEach(ctx, func(id core.ID, vector []float32) error {
		return mem.Add(id, vector)
	})
	if err != nil {
		return nil, err
	}
	return mem, nil
}

// Size returns the number of indexed sections.
func (s *ScanIndex) Size() int {
	return s.size
}

// Dimension returns the vector length.
func (s *ScanIndex) Dimension() int {
	return s.dimension
}
