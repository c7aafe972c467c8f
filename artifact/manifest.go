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

package artifact

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/poiesic/papervec/tokenizer"
)

// FormatVersion is the artifact layout version written by this package.
const FormatVersion = 1

// Manifest describes a published model/index pair.
type Manifest struct {
	FormatVersion int       `toml:"format_version"`
	Version       int       `toml:"version"`
	CreatedAt     time.Time `toml:"created_at"`
	Corpus        string    `toml:"corpus"`

	Trainer      string `toml:"trainer"`
	Dimension    int    `toml:"dimension"`
	MinFrequency int    `toml:"min_frequency"`
	Aggregation  string `toml:"aggregation"`

	Vocabulary      int `toml:"vocabulary"`
	Sections        int `toml:"sections"`
	IndexedSections int `toml:"indexed_sections"`

	ModelChecksum        string           `toml:"model_checksum"`
	TokenizerFingerprint string           `toml:"tokenizer_fingerprint"`
	Tokenizer            tokenizer.Config `toml:"tokenizer"`
}

// Validate checks that the manifest can be served by this build.
func (m *Manifest) Validate() error {
	if m.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format version %d, supported %d", ErrModelNotFound, m.FormatVersion, FormatVersion)
	}
	if m.Dimension < 1 {
		return fmt.Errorf("%w: manifest has no dimension", ErrModelNotFound)
	}
	if m.ModelChecksum == "" {
		return fmt.Errorf("%w: manifest has no model checksum", ErrModelNotFound)
	}
	if err := m.Tokenizer.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	if fp := m.Tokenizer.Fingerprint(); fp != m.TokenizerFingerprint {
		return fmt.Errorf("%w: tokenizer fingerprint %s does not match %s", ErrModelNotFound, fp, m.TokenizerFingerprint)
	}
	return nil
}

// NewTokenizer returns the tokenizer pinned by the manifest.
func (m *Manifest) NewTokenizer() (*tokenizer.Tokenizer, error) {
	tok, err := tokenizer.New(m.Tokenizer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	return tok, nil
}

func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

func writeManifest(path string, m *Manifest) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return writeFileSync(path, buf.Bytes())
}

// writeFileSync writes data to path and flushes it to disk.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
