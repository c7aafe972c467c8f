package artifact

import (
	"errors"

	"github.com/poiesic/papervec/core"
)

var (
	// ErrModelNotFound indicates a missing, incomplete or incompatible artifact.
	ErrModelNotFound = core.ErrModelNotFound

	// ErrCorruptModel indicates a model file that cannot be decoded.
	ErrCorruptModel = errors.New("corrupt model file")

	// ErrChecksumMismatch indicates a model file that does not match its manifest.
	ErrChecksumMismatch = errors.New("model checksum mismatch")

	// ErrStagingClosed indicates a staging area that was already published or aborted.
	ErrStagingClosed = errors.New("staging area is closed")
)
