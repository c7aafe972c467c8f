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

// Package randindex implements ai.Trainer with random indexing.
//
// Every vocabulary token is assigned a sparse ternary index vector: Nonzero
// positions set to +1 or -1, chosen by a PCG generator seeded from a BLAKE2b
// hash of the configured seed and the token. A token's context vector is the
// sum of the index vectors of the tokens around it, each weighted by
// 1/distance within Window positions. The normalized context vector is the
// token's model vector; a token that never had a neighbour falls back to its
// own index vector.
//
// Training reads the source twice (counting, then accumulation) and is fully
// deterministic: the same sequences, parameters and seed give bit-identical
// vectors.
package randindex
