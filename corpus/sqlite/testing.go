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

package sqlite

import (
	"context"
	"fmt"
)

// CreateFixtureCorpus writes the sample corpus to path and returns the
// database file path. Used by tests and the seeder.
func CreateFixtureCorpus(ctx context.Context, path string) (string, error) {
	w, err := Create(path)
	if err != nil {
		return "", err
	}
	defer w.Close()

	if err := w.AddArticles(ctx, FixtureArticles()...); err != nil {
		return "", fmt.Errorf("seeding articles: %w", err)
	}
	if err := w.AddSections(ctx, FixtureSections()...); err != nil {
		return "", fmt.Errorf("seeding sections: %w", err)
	}
	return w.Path(), nil
}
