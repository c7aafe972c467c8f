package ai

import (
	"context"

	"github.com/poiesic/papervec/core"
)

// TokenSource supplies token sequences for training, one per section.
// ForEach may be called several times and must yield the same sequences in
// the same order each time. Iteration stops at the first error from fn.
type TokenSource interface {
	ForEach(ctx context.Context, fn func(tokens []string) error) error
}

// Trainer builds a vector-space model from token sequences.
// Implementations must be safe to call sequentially for multiple builds.
type Trainer interface {
	// Name identifies the trainer in artifact manifests.
	Name() string

	// Train reads source and returns a model holding one vector of
	// params.Dimension values for each token that occurs at least
	// params.MinFrequency times. A source with no such token yields an
	// empty model, not an error.
	Train(ctx context.Context, source TokenSource, params Params) (*core.WordVectors, error)
}

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
