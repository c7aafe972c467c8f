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

package query

import "errors"

var (
	// ErrArtifactRequired is returned when no open artifact handle is provided.
	ErrArtifactRequired = errors.New("artifact handle required")

	// ErrStoreRequired is returned when no corpus store is provided.
	ErrStoreRequired = errors.New("corpus store required")

	// ErrInvalidLimit is returned for a non-positive result limit.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidCandidateFactor is returned for a candidate factor below one.
	ErrInvalidCandidateFactor = errors.New("candidate factor must be at least 1")

	// ErrInvalidCacheSize is returned for a non-positive article cache size.
	ErrInvalidCacheSize = errors.New("cache size must be positive")

	// ErrUnknownGranularity is returned for an unsupported result granularity.
	ErrUnknownGranularity = errors.New("unknown granularity")
)
