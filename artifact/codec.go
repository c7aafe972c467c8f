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
	"bufio"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"slices"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/papervec/core"
)

const (
	modelMagic  = "papervec-model"
	modelFormat = 1
)

// marshalVector serializes a vector as dimension raw float32 values.
func marshalVector(vector []float32) []byte {
	size := 0
	for _, v := range vector {
		size += raw.Float32.Size(v)
	}
	buf := make([]byte, size)
	n := 0
	for _, v := range vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// unmarshalVector deserializes a vector of the given dimension.
func unmarshalVector(data []byte, dimension int) ([]float32, int, error) {
	vector := make([]float32, dimension)
	n := 0
	for i := range vector {
		v, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, n, err
		}
		vector[i] = v
		n += m
	}
	return vector, n, nil
}

// newChecksum returns the hash used for model checksums.
func newChecksum() hash.Hash {
	h, _ := blake2b.New(32, nil)
	return h
}

// checksum returns the hex model checksum of data.
func checksum(data []byte) string {
	h := newChecksum()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// encodeModel writes model to w in sorted token order and returns the
// checksum of the written bytes.
func encodeModel(w io.Writer, model *core.WordVectors) (string, error) {
	sum := newChecksum()
	out := bufio.NewWriter(io.MultiWriter(w, sum))

	header := make([]byte, ord.String.Size(modelMagic)+
		varint.Uint64.Size(modelFormat)+
		varint.Uint64.Size(uint64(model.Dimension))+
		varint.Uint64.Size(uint64(len(model.Vectors)))+
		varint.Uint64.Size(model.Documents))
	n := ord.String.Marshal(modelMagic, header)
	n += varint.Uint64.Marshal(modelFormat, header[n:])
	n += varint.Uint64.Marshal(uint64(model.Dimension), header[n:])
	n += varint.Uint64.Marshal(uint64(len(model.Vectors)), header[n:])
	varint.Uint64.Marshal(model.Documents, header[n:])
	if _, err := out.Write(header); err != nil {
		return "", err
	}

	tokens := make([]string, 0, len(model.Vectors))
	for token := range model.Vectors {
		tokens = append(tokens, token)
	}
	slices.Sort(tokens)

	for _, token := range tokens {
		vector := model.Vectors[token]
		if len(vector) != model.Dimension {
			return "", fmt.Errorf("token %q has %d values, want %d", token, len(vector), model.Dimension)
		}
		df := model.DocFreq[token]
		entry := make([]byte, ord.String.Size(token)+varint.Uint64.Size(df))
		m := ord.String.Marshal(token, entry)
		varint.Uint64.Marshal(df, entry[m:])
		if _, err := out.Write(entry); err != nil {
			return "", err
		}
		if _, err := out.Write(marshalVector(vector)); err != nil {
			return "", err
		}
	}

	if err := out.Flush(); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// decodeModel parses a model file produced by encodeModel.
func decodeModel(data []byte) (*core.WordVectors, error) {
	n := 0
	next := func(what string) (uint64, error) {
		v, m, err := varint.Uint64.Unmarshal(data[n:])
		if err != nil {
			return 0, fmt.Errorf("%w: reading %s: %w", ErrCorruptModel, what, err)
		}
		n += m
		return v, nil
	}

	magic, m, err := ord.String.Unmarshal(data)
	if err != nil || magic != modelMagic {
		return nil, fmt.Errorf("%w: bad header", ErrCorruptModel)
	}
	n += m

	format, err := next("format")
	if err != nil {
		return nil, err
	}
	if format != modelFormat {
		return nil, fmt.Errorf("%w: unsupported model format %d", ErrCorruptModel, format)
	}
	dimension, err := next("dimension")
	if err != nil {
		return nil, err
	}
	count, err := next("count")
	if err != nil {
		return nil, err
	}
	documents, err := next("documents")
	if err != nil {
		return nil, err
	}

	model := &core.WordVectors{
		Dimension: int(dimension),
		Vectors:   make(map[string][]float32, count),
		DocFreq:   make(map[string]uint64, count),
		Documents: documents,
	}
	for i := uint64(0); i < count; i++ {
		token, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: reading token %d: %w", ErrCorruptModel, i, err)
		}
		n += m
		df, err := next("document frequency")
		if err != nil {
			return nil, err
		}
		vector, m, err := unmarshalVector(data[n:], model.Dimension)
		if err != nil {
			return nil, fmt.Errorf("%w: reading vector of %q: %w", ErrCorruptModel, token, err)
		}
		n += m
		model.Vectors[token] = vector
		model.DocFreq[token] = df
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptModel, len(data)-n)
	}
	return model, nil
}
