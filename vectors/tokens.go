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

package vectors

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/core"
)

// idSuffix names the sidecar holding the section id of every line.
const idSuffix = ".ids"

// TokenWriter appends one line of space-separated tokens per section.
// Section ids are written to a sidecar file so lines can be matched back to
// sections; the token file itself stays plain text.
type TokenWriter struct {
	path     string
	file     *os.File
	ids      *os.File
	out      *bufio.Writer
	idOut    *bufio.Writer
	idBuf    []byte
	lines    int
	nonEmpty int
}

// CreateTokenFile creates (or truncates) the token file at path.
func CreateTokenFile(path string) (*TokenWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating token file: %w", err)
	}
	ids, err := os.Create(path + idSuffix)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("creating token id file: %w", err)
	}
	return &TokenWriter{
		path:  path,
		file:  file,
		ids:   ids,
		out:   bufio.NewWriter(file),
		idOut: bufio.NewWriter(ids),
		idBuf: make([]byte, varint.Uint64.Size(^uint64(0))),
	}, nil
}

// Write appends the tokens of one section. An empty token list still
// produces a (blank) line.
func (w *TokenWriter) Write(id core.ID, tokens []string) error {
	for i, token := range tokens {
		if i > 0 {
			if err := w.out.WriteByte(' '); err != nil {
				return err
			}
		}
		if _, err := w.out.WriteString(token); err != nil {
			return err
		}
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return err
	}
	n := varint.Uint64.Marshal(uint64(id), w.idBuf)
	if _, err := w.idOut.Write(w.idBuf[:n]); err != nil {
		return err
	}
	w.lines++
	if len(tokens) > 0 {
		w.nonEmpty++
	}
	return nil
}

// Lines returns the number of lines written.
func (w *TokenWriter) Lines() int {
	return w.lines
}

// NonEmpty returns the number of lines holding at least one token.
func (w *TokenWriter) NonEmpty() int {
	return w.nonEmpty
}

// Close flushes and closes the files.
func (w *TokenWriter) Close() error {
	return errors.Join(
		w.out.Flush(),
		w.idOut.Flush(),
		w.file.Close(),
		w.ids.Close(),
	)
}

// TokenFile reads a token file. It implements ai.TokenSource; every ForEach
// call rereads the file from the start.
type TokenFile struct {
	path string
}

var _ ai.TokenSource = (*TokenFile)(nil)

// OpenTokenFile returns a reader for the token file at path.
func OpenTokenFile(path string) (*TokenFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &TokenFile{path: path}, nil
}

// ForEach calls fn with the tokens of every line.
func (f *TokenFile) ForEach(ctx context.Context, fn func(tokens []string) error) error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	return readLines(ctx, bufio.NewReader(file), func(tokens []string) error {
		return fn(tokens)
	})
}

// ForEachSection calls fn with the section id and tokens of every line.
func (f *TokenFile) ForEachSection(ctx context.Context, fn func(id core.ID, tokens []string) error) error {
	ids, err := os.ReadFile(f.path + idSuffix)
	if err != nil {
		return err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	offset := 0
	err = readLines(ctx, bufio.NewReader(file), func(tokens []string) error {
		if offset >= len(ids) {
			return ErrTokenFileMismatch
		}
		id, n, err := varint.Uint64.Unmarshal(ids[offset:])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTokenFileMismatch, err)
		}
		offset += n
		return fn(core.ID(id), tokens)
	})
	if err != nil {
		return err
	}
	if offset != len(ids) {
		return ErrTokenFileMismatch
	}
	return nil
}

// readLines splits r into lines of space-separated tokens.
func readLines(ctx context.Context, r *bufio.Reader, fn func(tokens []string) error) error {
	for n := 0; ; n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line, err := r.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		if err := fn(strings.Fields(line)); err != nil {
			return err
		}
		if err == io.EOF {
			return nil
		}
	}
}
