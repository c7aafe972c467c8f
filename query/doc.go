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

// Package query answers free-text questions against a published model/index
// pair.
//
// An Engine tokenizes the query with the tokenizer pinned in the artifact
// manifest, embeds it with the pinned aggregation rule, fetches the nearest
// sections from the similarity index and joins them with article metadata
// from the corpus store. Matches are grouped by article and ranked by their
// best section.
//
// Basic usage:
//
//	engine, err := query.Open(root, store)
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	answers, err := engine.Run(ctx, "risk factors studied", 10)
//	if err != nil {
//		return err
//	}
//	return query.NewReport(os.Stdout).Write("risk factors studied", 10, answers)
//
// Query syntax: words prefixed with "+" must appear in a matching section,
// words prefixed with "-" must not. Both are matched case-insensitively
// against the section text. Required words also contribute to the query
// vector; excluded words do not.
package query
