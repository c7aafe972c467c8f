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

package core

import "fmt"

// ValidateSection validates a Section read from the corpus store.
//
// Validation rules:
//   - ID must be non-zero
//   - ArticleID must not be empty
//   - Text must not be empty (NULL text is read as empty)
//
// NOT validated:
//   - Text content (whitespace or stop words only is valid, it tokenizes to nothing)
//   - Tags (optional)
func ValidateSection(section *Section) error {
	if section == nil {
		return fmt.Errorf("%w: section is nil", ErrCorruptRow)
	}

	if section.ID == 0 {
		return fmt.Errorf("%w: %w", ErrCorruptRow, ErrMissingID)
	}

	if section.ArticleID == "" {
		return fmt.Errorf("%w: section %d: %w", ErrCorruptRow, section.ID, ErrMissingArticle)
	}

	if section.Text == "" {
		return fmt.Errorf("%w: section %d: %w", ErrCorruptRow, section.ID, ErrMissingText)
	}

	return nil
}
