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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/index"
)

const scratchDir = "scratch"

// Staging is an unpublished build. It must end with Publish or Abort.
type Staging struct {
	root     *Root
	dir      string
	logger   *slog.Logger
	checksum string
	writer   *IndexWriter
	closed   bool
}

// Dir returns the staging directory.
func (s *Staging) Dir() string {
	return s.dir
}

// ScratchPath returns a path for temporary build files. Scratch files are
// deleted on Publish and never become part of the artifact.
func (s *Staging) ScratchPath(name string) (string, error) {
	if s.closed {
		return "", ErrStagingClosed
	}
	dir := filepath.Join(s.dir, scratchDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// WriteModel writes the model file and records its checksum.
func (s *Staging) WriteModel(model *core.WordVectors) (string, error) {
	if s.closed {
		return "", ErrStagingClosed
	}
	f, err := os.Create(filepath.Join(s.dir, modelFile))
	if err != nil {
		return "", fmt.Errorf("creating model file: %w", err)
	}
	sum, err := encodeModel(f, model)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("writing model file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	s.checksum = sum
	s.logger.Debug("model written", "vocabulary", model.Len(), "checksum", sum)
	return sum, nil
}

// IndexWriter opens the staged index for writing. Only one writer exists
// per staging area.
func (s *Staging) IndexWriter(dimension int) (*IndexWriter, error) {
	if s.closed {
		return nil, ErrStagingClosed
	}
	if s.writer != nil {
		return nil, errors.New("index writer already opened")
	}
	b, err := openBackend(filepath.Join(s.dir, indexDir), modeWrite, s.logger)
	if err != nil {
		return nil, fmt.Errorf("opening staged index: %w", err)
	}
	s.writer = &IndexWriter{
		backend:   b,
		batch:     b.db.NewWriteBatch(),
		dimension: dimension,
	}
	return s.writer, nil
}

// Publish completes the build and makes it current. The manifest's model
// checksum and section count are filled in from what was staged.
func (s *Staging) Publish(manifest *Manifest) (string, error) {
	if s.closed {
		return "", ErrStagingClosed
	}
	if s.checksum == "" {
		return "", errors.New("model was not written")
	}
	if s.writer == nil {
		return "", errors.New("index was not written")
	}
	if err := s.writer.Close(); err != nil {
		return "", err
	}
	if err := os.RemoveAll(filepath.Join(s.dir, scratchDir)); err != nil {
		return "", fmt.Errorf("removing scratch files: %w", err)
	}

	manifest.ModelChecksum = s.checksum
	manifest.IndexedSections = s.writer.Count()
	name, err := s.root.publish(s.dir, manifest)
	if err != nil {
		return "", err
	}
	s.closed = true
	return name, nil
}

// Abort discards the staging area. Safe to call after Publish.
func (s *Staging) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.writer != nil {
		s.writer.Close()
	}
	s.logger.Debug("discarding staged build", "dir", s.dir)
	return os.RemoveAll(s.dir)
}

// IndexWriter writes document vectors into a staged index.
type IndexWriter struct {
	backend   *backend
	batch     *badger.WriteBatch
	dimension int
	count     int
	closed    bool
}

// Add stores the normalized vector of a section. Zero vectors are rejected
// with index.ErrZeroVector.
func (w *IndexWriter) Add(id core.ID, vector []float32) error {
	if w.closed {
		return ErrStagingClosed
	}
	unit, err := index.Prepare(vector, w.dimension)
	if err != nil {
		return err
	}
	if err := w.batch.Set(makeSectionVectorKey(id), marshalVector(unit)); err != nil {
		return fmt.Errorf("writing vector of section %d: %w", id, err)
	}
	w.count++
	return nil
}

// Count returns the number of vectors written.
func (w *IndexWriter) Count() int {
	return w.count
}

// Close flushes pending writes and closes the index. Idempotent.
func (w *IndexWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.batch.Flush()
	closeErr := w.backend.Close()
	return errors.Join(flushErr, closeErr)
}
