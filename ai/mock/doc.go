// Package mock provides test doubles for the ai package interfaces.
//
// Example:
//
//	trainer := mock.NewMockTrainer()
//	trainer.TrainFunc = func(ctx context.Context, source ai.TokenSource, params ai.Params) (*core.WordVectors, error) {
//	    return nil, errors.New("out of memory")
//	}
//
//	// Check call counts
//	count := trainer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockTrainer: Gives every frequent token a deterministic hash vector
package mock
