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

// Package ai provides abstractions for the embedding trainers used to build
// the vector-space model.
//
// A Trainer consumes token sequences from a TokenSource and produces a
// core.WordVectors model in which every token seen at least MinFrequency
// times has exactly one vector of Dimension values. The source is read as
// many times as the trainer needs; implementations stream it and never ask
// for the whole corpus at once.
//
// # Implementation Packages
//
//   - ai/randindex: Local random-indexing trainer, deterministic for a seed
//   - ai/openai: Remote trainer embedding the vocabulary through an
//     OpenAI-compatible API
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (randindex.NewTrainer, openai.NewTrainer) return the
// ai.Trainer interface. Mock constructors return concrete types so tests can
// inject behavior and inspect call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithDimension(300), ai.WithMinFrequency(3))
//	trainer, err := randindex.NewTrainer(cfg)
//	if err != nil {
//	    return err
//	}
//	model, err := trainer.Train(ctx, source, cfg.Params())
package ai
