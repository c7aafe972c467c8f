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

package vectors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, "Tokenizing", 10, 5)

	p.Increment(3)
	assert.Zero(t, p.Current(), "increments before Start are ignored")

	p.Start()
	p.Increment(3)
	assert.Empty(t, buf.String())

	p.Increment(3)
	assert.Contains(t, buf.String(), "Tokenizing: 6/10 (60.0%)")

	p.Finish()
	assert.Equal(t, 6, p.Current())
	assert.Contains(t, buf.String(), "\n")
}

func TestProgressTrackerUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, "Indexing", 0, 1)
	p.Start()
	p.Increment(2)
	p.Finish()

	assert.Contains(t, buf.String(), "Indexing: 2 - ")
	assert.NotContains(t, buf.String(), "%")
}

func TestProgressTrackerNilWriter(t *testing.T) {
	p := NewProgressTracker(nil, "Indexing", 3, 1)
	p.Start()
	p.Increment(3)
	p.Finish()
	assert.Equal(t, 3, p.Current())
}
