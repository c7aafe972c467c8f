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

// Package bruteforce provides an in-memory index.Index that scores every
// entry on each query.
package bruteforce

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/index"
)

// Index is an exhaustive in-memory similarity index.
type Index struct {
	mu        sync.RWMutex
	dimension int
	ids       []core.ID
	vectors   [][]float32
	positions map[core.ID]int
}

var _ index.Index = (*Index)(nil)

// New creates an empty index for vectors of the given dimension.
func New(dimension int) *Index {
	return &Index{
		dimension: dimension,
		positions: make(map[core.ID]int),
	}
}

// Add stores vector under id, replacing any previous entry.
// The vector is normalized; zero vectors are rejected.
func (i *Index) Add(id core.ID, vector []float32) error {
	unit, err := index.Prepare(vector, i.dimension)
	if err != nil {
		return fmt.Errorf("section %d: %w", id, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if pos, ok := i.positions[id]; ok {
		i.vectors[pos] = unit
		return nil
	}
	i.positions[id] = len(i.ids)
	i.ids = append(i.ids, id)
	i.vectors = append(i.vectors, unit)
	return nil
}

// Nearest scores every entry against vector.
func (i *Index) Nearest(ctx context.Context, vector []float32, k int) ([]core.Hit, error) {
	query, err := index.Prepare(vector, i.dimension)
	if err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	top := index.NewTopK(min(k, len(i.ids)))
	for n, stored := range i.vectors {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		top.Push(i.ids[n], index.Cosine(query, stored))
	}
	return top.Hits(), nil
}

// Size returns the number of entries.
func (i *Index) Size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ids)
}

// Dimension returns the vector length.
func (i *Index) Dimension() int {
	return i.dimension
}
