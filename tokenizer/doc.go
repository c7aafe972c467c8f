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

// Package tokenizer normalizes section and query text into tokens.
//
// The same Tokenizer must be used at build time and at query time: a query
// tokenized with different rules lands in a different region of the vector
// space and silently loses relevance. Config is therefore versioned and its
// Fingerprint is recorded in every model manifest.
package tokenizer
