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

// Package corpus provides the read-only abstraction over the article store.
//
// The store holds two relations: articles (publication metadata) and
// sections (retrievable text units, many per article). The indexing pipeline
// only reads from it; it never mutates articles or sections.
//
// # Ordering
//
// ScanSections must visit rows in a stable order (increasing section id) so
// two passes over an unchanged store produce identical sequences. The vector
// index is addressed by section id, and that order is what ties the two
// together.
//
// # Errors
//
// Failures to open or read the store are reported as ErrStoreUnavailable and
// may be retried by the caller. Lookups of a single missing article return
// ErrNotFound. Rows with missing fields are passed through as-is; validating
// them is the caller's concern (see the stream package).
package corpus
