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

package core

import "errors"

// Pipeline errors. Each is returned wrapped, so test with errors.Is.
var (
	// ErrStoreUnavailable indicates the corpus store could not be opened or read.
	// It is transient: callers may retry.
	ErrStoreUnavailable = errors.New("corpus store unavailable")

	// ErrCorruptRow indicates a corpus row is missing a mandatory field.
	ErrCorruptRow = errors.New("corrupt row")

	// ErrExcessiveCorruption indicates the corrupt row rate exceeded the configured threshold.
	ErrExcessiveCorruption = errors.New("excessive corruption")

	// ErrEmptyCorpus indicates the corpus produced nothing to train on.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrTrainerFailure indicates the embedding trainer reported an error.
	ErrTrainerFailure = errors.New("trainer failure")

	// ErrModelNotFound indicates the model/index pair is missing or has an incompatible version.
	ErrModelNotFound = errors.New("model not found")

	// ErrEmptyQuery indicates the query produced no embeddable tokens.
	ErrEmptyQuery = errors.New("empty query")
)

// Validation errors
var (
	// ErrMissingID indicates a section row has no id.
	ErrMissingID = errors.New("missing section id")

	// ErrMissingArticle indicates a section row has no article id.
	ErrMissingArticle = errors.New("missing article id")

	// ErrMissingText indicates a section row has no text.
	ErrMissingText = errors.New("missing section text")
)
