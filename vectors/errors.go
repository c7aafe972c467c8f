package vectors

import "errors"

var (
	// ErrRowStreamRequired indicates that a row stream is required.
	ErrRowStreamRequired = errors.New("row stream is required")

	// ErrTrainerRequired indicates that a trainer is required.
	ErrTrainerRequired = errors.New("trainer is required")

	// ErrRootRequired indicates that an artifact root is required.
	ErrRootRequired = errors.New("artifact root is required")

	// ErrUnknownAggregation indicates an unsupported aggregation rule.
	ErrUnknownAggregation = errors.New("unknown aggregation rule")

	// ErrTokenFileMismatch indicates a token file whose id sidecar has a different length.
	ErrTokenFileMismatch = errors.New("token file and id file disagree")
)
