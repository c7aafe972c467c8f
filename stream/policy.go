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
	"fmt"

	"github.com/poiesic/papervec/core"
)

const (
	// DefaultMaxCorruptRatio is the largest tolerated share of corrupt rows.
	DefaultMaxCorruptRatio = 0.05

	// DefaultWarmup is the number of rows read before the ratio is enforced.
	DefaultWarmup = 1000
)

// CorruptionPolicy counts rows and decides when corruption is excessive.
// The ratio is enforced once Warmup rows have been read and again at the end
// of the stream, so a small corpus is judged on its whole population.
type CorruptionPolicy struct {
	MaxRatio float64
	Warmup   int

	Read    int
	Corrupt int
}

// NewCorruptionPolicy returns a policy with zeroed counters.
func NewCorruptionPolicy(maxRatio float64, warmup int) CorruptionPolicy {
	return CorruptionPolicy{MaxRatio: maxRatio, Warmup: warmup}
}

// Observe records one row. corrupt marks a row that failed validation.
func (p *CorruptionPolicy) Observe(corrupt bool) {
	p.Read++
	if corrupt {
		p.Corrupt++
	}
}

// Ratio returns Corrupt/Read, or zero before any row was read.
func (p *CorruptionPolicy) Ratio() float64 {
	if p.Read == 0 {
		return 0
	}
	return float64(p.Corrupt) / float64(p.Read)
}

// Check returns core.ErrExcessiveCorruption when the ratio exceeds MaxRatio.
// Before the warm-up it only fails when final is set.
func (p *CorruptionPolicy) Check(final bool) error {
	if !final && p.Read < p.Warmup {
		return nil
	}
	if ratio := p.Ratio(); ratio > p.MaxRatio {
		return fmt.Errorf("%w: %d of %d rows corrupt (%.2f%% > %.2f%%)",
			core.ErrExcessiveCorruption, p.Corrupt, p.Read, ratio*100, p.MaxRatio*100)
	}
	return nil
}
