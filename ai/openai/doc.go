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

// Package openai implements ai.Trainer on top of an OpenAI-compatible
// embeddings API.
//
// The trainer counts the vocabulary, then embeds every token that reaches
// the minimum frequency. Tokens are sent in batches through a bounded
// worker pool (ants) and each batch is retried with exponential backoff.
// Returned vectors must match the requested dimension; they are normalized
// before being stored in the model.
//
// The langchaingo library is used to talk to OpenAI or OpenAI-compatible
// services (such as Ollama, LocalAI, or vLLM).
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithTrainer(ai.TrainerOpenAI),
//	    ai.WithEmbeddingHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	    ai.WithDimension(768),
//	)
//	trainer, err := openai.NewTrainer(cfg)
//	if err != nil {
//	    return err
//	}
//	model, err := trainer.Train(ctx, source, cfg.Params())
package openai
