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

// Package sqlite implements corpus.Store on top of an SQLite database
// (modernc.org/sqlite, no cgo) accessed through sqlx.
//
// The database holds two tables:
//
//	articles(Id, Source, Published, Publication, Authors, Title, Tags, Reference, Entry)
//	sections(Id, Article, Name, Text, Tags, Labels)
//
// Authors are stored "; " separated, each "Last, First". Section tags are
// comma separated. Stores opened with Open are read-only; Create returns a
// Writer used by the seeder and by tests to build a corpus.
package sqlite
