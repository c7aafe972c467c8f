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

// Package config loads the papervec TOML configuration file.
//
// A file has an optional corpus path and three tables:
//
//	corpus = "/data/cord19"
//
//	[build]
//	trainer = "randindex"
//	dimension = 300
//	min_frequency = 3
//	retry_delay = "500ms"
//
//	[tokenizer]
//	min_length = 2
//	extra_stop_words = ["et", "al"]
//
//	[query]
//	limit = 10
//	granularity = "article"
//
// Missing keys keep their defaults; unknown keys are rejected. Command line
// flags override file values.
package config
