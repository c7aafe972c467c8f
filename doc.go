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

// Package papervec provides semantic search over scientific article sections.
//
// A corpus is a SQLite database of articles and their sections. Build streams
// every section through the tokenizer, trains a vector-space model over the
// token stream, embeds each section as a document vector and publishes the
// model and the similarity index together as one versioned artifact. Run
// answers a free-text query from the current artifact and writes a report.
//
// Basic usage:
//
//	ctx := context.Background()
//	if err := papervec.Build(ctx, "/data/cord19", 300, 3, ""); err != nil {
//		return err
//	}
//	return papervec.Run(ctx, "risk factors studied", 10, "/data/cord19", os.Stdout)
//
// For finer control open a Corpus and use its builder and engine factories:
//
//	c, err := papervec.OpenCorpus("/data/cord19", papervec.WithConfig(file))
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	engine, err := c.NewEngine()
//	...
package papervec
