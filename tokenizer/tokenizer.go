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

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
)

// Version identifies the normalization algorithm. Bump it whenever Tokenize
// changes behaviour so artifacts built with the old rules are rejected.
const Version = 1

const (
	// DefaultMinLength is the default minimum token length in runes.
	DefaultMinLength = 2
)

// Config pins the normalization rules. It is stored with every built model.
type Config struct {
	Version     int      `toml:"version"`
	MinLength   int      `toml:"min_length"`
	KeepNumeric bool     `toml:"keep_numeric"`
	StopWords   []string `toml:"stop_words"`
}

// DefaultConfig returns the default normalization rules.
func DefaultConfig() Config {
	return Config{
		Version:     Version,
		MinLength:   DefaultMinLength,
		KeepNumeric: false,
		StopWords:   DefaultStopWords(),
	}
}

// Validate checks that the configuration can be used by this build.
func (c Config) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: version %d, supported %d", ErrUnsupportedVersion, c.Version, Version)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("%w: min length must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Fingerprint returns a stable hash of the normalization rules. Two configs
// with the same fingerprint tokenize every input identically.
func (c Config) Fingerprint() string {
	words := normalizeStopWords(c.StopWords)

	h, _ := blake2b.New(16, nil)
	h.Write([]byte("v" + strconv.Itoa(c.Version)))
	h.Write([]byte{0})
	h.Write([]byte("min" + strconv.Itoa(c.MinLength)))
	h.Write([]byte{0})
	h.Write([]byte("num" + strconv.FormatBool(c.KeepNumeric)))
	for _, w := range words {
		h.Write([]byte{0})
		h.Write([]byte(w))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Tokenizer turns text into normalized tokens. It holds only immutable
// configuration and is safe for concurrent use.
type Tokenizer struct {
	config    Config
	stopWords map[string]struct{}
}

// New creates a Tokenizer from a validated Config.
func New(config Config) (*Tokenizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	words := normalizeStopWords(config.StopWords)
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[w] = struct{}{}
	}
	config.StopWords = words
	return &Tokenizer{config: config, stopWords: stop}, nil
}

// Default returns a Tokenizer using DefaultConfig.
func Default() *Tokenizer {
	t, _ := New(DefaultConfig())
	return t
}

// Config returns the normalization rules in canonical form.
func (t *Tokenizer) Config() Config {
	c := t.config
	c.StopWords = slices.Clone(t.config.StopWords)
	return c
}

// Tokenize lowercases text, splits it on whitespace and punctuation, and drops
// short tokens, stop tokens and (unless configured) tokens without a letter.
// Empty text yields an empty, non-nil slice.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		// Connectors are kept inside tokens ("covid-19", "p.value") but not at the edges
		cleaned := strings.Trim(word, connectors)
		if cleaned == "" {
			continue
		}
		if utf8.RuneCountInString(cleaned) < t.config.MinLength {
			continue
		}
		if _, stop := t.stopWords[cleaned]; stop {
			continue
		}
		if !t.config.KeepNumeric && !hasLetter(cleaned) {
			continue
		}
		tokens = append(tokens, cleaned)
	}

	return tokens
}

// connectors are punctuation runes allowed inside a token.
const connectors = "-._:"

// isSeparator reports whether r splits tokens.
func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if strings.ContainsRune(connectors, r) {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsControl(r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// normalizeStopWords lowercases, deduplicates and sorts a stop list.
func normalizeStopWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
