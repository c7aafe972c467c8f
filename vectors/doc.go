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

// Package vectors builds the vector-space model and the section index.
//
// A build makes one forward pass over the corpus rows. Each section is
// tokenized and appended as one line to a scratch token file, so the working
// set is a single section. The trainer then reads the token file (as many
// times as it needs), and document vectors are computed by reading the token
// file once more. The model and the index are staged together and published
// as a pair; any failure discards the staging area and leaves the previous
// pair current.
//
// Basic usage:
//
//	builder, err := vectors.NewBuilder(rows, trainer, root,
//	    vectors.WithParams(ai.Params{Dimension: 300, MinFrequency: 3}),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := builder.Build(ctx)
package vectors
