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

package query

import (
	"strings"
	"time"
)

// dateLayouts are the publication date formats found in corpus stores.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006",
}

// Authors formats an author list for display: the surname of the first
// author, followed by " et al" when there are more. Entries may be written
// "Last, First" or "First Last". Returns false when there is no author.
func Authors(authors []string) (string, bool) {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if author = strings.TrimSpace(author); author != "" {
			names = append(names, author)
		}
	}
	if len(names) == 0 {
		return "", false
	}

	surname := names[0]
	if last, _, found := strings.Cut(surname, ","); found {
		surname = strings.TrimSpace(last)
	} else if fields := strings.Fields(surname); len(fields) > 1 {
		surname = fields[len(fields)-1]
	}
	if len(names) > 1 {
		surname += " et al"
	}
	return surname, true
}

// Date formats a raw publication date as YYYY-MM-DD. Dates on January 1st
// are shown as the year alone since stores record year-only dates that way.
// Unparsable values are returned trimmed. Returns false for an empty value.
func Date(published string) (string, bool) {
	published = strings.TrimSpace(published)
	if published == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, published)
		if err != nil {
			continue
		}
		if t.Month() == time.January && t.Day() == 1 {
			return t.Format("2006"), true
		}
		return t.Format("2006-01-02"), true
	}
	return published, true
}
