package openai

import "errors"

// ErrEmbedderRequired indicates that a nil embedder was supplied.
var ErrEmbedderRequired = errors.New("embedder is required")
