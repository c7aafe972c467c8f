package ai

import "fmt"

// Params is the model shape requested from a trainer.
type Params struct {
	Dimension    int
	MinFrequency int
}

// Validate checks that the shape is usable.
func (p Params) Validate() error {
	if p.Dimension < 1 {
		return fmt.Errorf("%w: Dimension must be positive", ErrInvalidConfig)
	}
	if p.MinFrequency < 1 {
		return fmt.Errorf("%w: MinFrequency must be positive", ErrInvalidConfig)
	}
	return nil
}
