package stream

import "errors"

var (
	// ErrStoreRequired indicates that a corpus store is required.
	ErrStoreRequired = errors.New("corpus store is required")

	// ErrInvalidRatio indicates a corruption ratio outside [0, 1].
	ErrInvalidRatio = errors.New("corruption ratio must be between 0 and 1")

	// ErrInvalidWarmup indicates a negative warm-up row count.
	ErrInvalidWarmup = errors.New("warm-up must not be negative")
)
