package ai

import "errors"

var (
	// ErrInvalidConfig indicates an invalid trainer configuration.
	ErrInvalidConfig = errors.New("ai config")

	// ErrUnknownTrainer indicates an unsupported trainer name.
	ErrUnknownTrainer = errors.New("unknown trainer")

	// ErrDimensionMismatch indicates a vector with an unexpected length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidMaxAttempts indicates that maxAttempts must be greater than 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
