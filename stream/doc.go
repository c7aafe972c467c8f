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

// Package stream turns corpus section rows into a validated, ordered stream.
//
// A RowStream is lazy and restartable: every ForEach call opens a fresh scan
// of the store, visits rows in increasing section id order and holds only
// the current row in memory. Rows that fail core.ValidateSection are skipped
// and counted; a CorruptionPolicy aborts the pass with
// core.ErrExcessiveCorruption when too many rows are bad.
//
// Basic usage:
//
//	rows, err := stream.NewRowStream(store, stream.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	stats, err := rows.ForEach(ctx, func(section *core.Section) error {
//		// process section
//		return nil
//	})
package stream
