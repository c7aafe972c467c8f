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

package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus"
)

// Stats summarizes one pass over the stream.
type Stats struct {
	Read    int // Rows read from the store
	Yielded int // Valid sections handed to the callback
	Corrupt int // Rows skipped as corrupt

	Policy CorruptionPolicy
}

// RowStream yields validated sections from a corpus store.
type RowStream struct {
	store           corpus.Store
	filter          corpus.Filter
	maxCorruptRatio float64
	warmup          int
	logger          *slog.Logger
}

// Option configures a RowStream.
type Option func(*RowStream) error

// WithLogger sets the logger for the stream.
func WithLogger(logger *slog.Logger) Option {
	return func(s *RowStream) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithFilter restricts the rows the stream reads.
func WithFilter(filter corpus.Filter) Option {
	return func(s *RowStream) error {
		s.filter = filter
		return nil
	}
}

// WithMaxCorruptRatio sets the tolerated share of corrupt rows.
func WithMaxCorruptRatio(ratio float64) Option {
	return func(s *RowStream) error {
		if ratio < 0 || ratio > 1 {
			return ErrInvalidRatio
		}
		s.maxCorruptRatio = ratio
		return nil
	}
}

// WithWarmup sets how many rows are read before the ratio is enforced.
func WithWarmup(rows int) Option {
	return func(s *RowStream) error {
		if rows < 0 {
			return ErrInvalidWarmup
		}
		s.warmup = rows
		return nil
	}
}

// NewRowStream creates a stream over store.
func NewRowStream(store corpus.Store, opts ...Option) (*RowStream, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &RowStream{
		store:           store,
		maxCorruptRatio: DefaultMaxCorruptRatio,
		warmup:          DefaultWarmup,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "row-stream")
	return s, nil
}

// ForEach runs one pass over the store, calling fn for every valid section in
// increasing id order. Corrupt rows are skipped and logged. An error from fn
// stops the pass and is returned unchanged. The returned Stats describe the
// rows seen so far even when an error is returned.
func (s *RowStream) ForEach(ctx context.Context, fn func(*core.Section) error) (Stats, error) {
	policy := NewCorruptionPolicy(s.maxCorruptRatio, s.warmup)
	yielded := 0
	stats := func() Stats {
		return Stats{Read: policy.Read, Yielded: yielded, Corrupt: policy.Corrupt, Policy: policy}
	}

	err := s.store.ScanSections(ctx, s.filter, func(section *core.Section) error {
		if err := core.ValidateSection(section); err != nil {
			policy.Observe(true)
			s.logger.Warn("skipping corrupt row", "id", section.ID, "article", section.ArticleID, "error", err)
			return policy.Check(false)
		}
		policy.Observe(false)
		if err := policy.Check(false); err != nil {
			return err
		}
		yielded++
		return fn(section)
	})
	if err != nil {
		if errors.Is(err, core.ErrExcessiveCorruption) {
			s.logger.Error("aborting stream", "read", policy.Read, "corrupt", policy.Corrupt)
		}
		return stats(), err
	}
	if err := policy.Check(true); err != nil {
		s.logger.Error("aborting stream", "read", policy.Read, "corrupt", policy.Corrupt)
		return stats(), err
	}

	s.logger.Debug("stream pass complete", "read", policy.Read, "yielded", yielded, "corrupt", policy.Corrupt)
	return stats(), nil
}

// Count runs a pass without a callback and returns its statistics.
func (s *RowStream) Count(ctx context.Context) (Stats, error) {
	return s.ForEach(ctx, func(*core.Section) error { return nil })
}

// Expected returns the number of rows the store reports for the stream's
// filter, corrupt rows included. Used for progress reporting.
func (s *RowStream) Expected(ctx context.Context) (int, error) {
	n, err := s.store.CountSections(ctx, s.filter)
	if err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}
