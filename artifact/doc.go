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

// Package artifact stores and publishes the model/index pair produced by a
// build.
//
// # Layout
//
// An artifact root holds numbered versions and a pointer to the current one:
//
//	<root>/CURRENT              name of the current version directory
//	<root>/v000001/MANIFEST.toml
//	<root>/v000001/model.vec    mus-encoded word vectors
//	<root>/v000001/index/       badger database: section id -> document vector
//	<root>/.staging-*/          build in progress
//
// A build writes everything into a staging directory. Publish renames the
// staging directory to the next version and then replaces CURRENT through a
// rename, so readers observe either the old pair or the new pair and never a
// mix. Abort (or a crash) leaves only a staging directory behind, which is
// removed on the next Stage.
//
// # Reading
//
// Open resolves CURRENT, validates the manifest and the model checksum, and
// opens the index read-only. Anything missing, truncated or written by an
// incompatible format is reported as core.ErrModelNotFound.
package artifact
