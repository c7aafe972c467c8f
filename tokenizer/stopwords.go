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

package tokenizer

// defaultStopWords are common English function words that carry no topical signal.
var defaultStopWords = []string{
	"a", "about", "also", "am", "an", "and", "any", "are", "as", "at",
	"be", "but", "by", "can", "come", "could", "did", "do", "does", "for",
	"from", "get", "go", "had", "has", "have", "he", "her", "here", "hers",
	"his", "how", "i", "if", "in", "into", "is", "it", "its", "just",
	"let", "like", "make", "may", "me", "might", "most", "much", "must", "my",
	"no", "nor", "not", "of", "off", "on", "only", "or", "other", "our",
	"out", "over", "own", "say", "see", "should", "she", "so", "some", "such",
	"than", "that", "the", "their", "them", "then", "there", "these", "they", "this",
	"through", "to", "too", "until", "up", "very", "was", "way", "we", "well",
	"were", "what", "when", "where", "which", "who", "whom", "why", "will", "with",
	"would", "yet", "you", "your",
}

// DefaultStopWords returns a copy of the built-in stop-token list.
func DefaultStopWords() []string {
	return append([]string(nil), defaultStopWords...)
}
