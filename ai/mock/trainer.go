package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/papervec/ai"
	"github.com/poiesic/papervec/core"
)

// MockTrainer is a test double for ai.Trainer.
type MockTrainer struct {
	// TrainFunc is called by Train if set.
	// If nil, every token reaching the minimum frequency gets DeterministicVector(token).
	TrainFunc func(ctx context.Context, source ai.TokenSource, params ai.Params) (*core.WordVectors, error)

	// TrainerName is returned by Name. Defaults to "mock".
	TrainerName string

	callCount atomic.Int64
}

var _ ai.Trainer = (*MockTrainer)(nil)

// NewMockTrainer creates a mock trainer with default deterministic behavior.
func NewMockTrainer() *MockTrainer {
	return &MockTrainer{TrainerName: "mock"}
}

// Name returns the configured trainer name.
func (m *MockTrainer) Name() string {
	return m.TrainerName
}

// Train builds a model or delegates to TrainFunc.
func (m *MockTrainer) Train(ctx context.Context, source ai.TokenSource, params ai.Params) (*core.WordVectors, error) {
	m.callCount.Add(1)

	if m.TrainFunc != nil {
		return m.TrainFunc(ctx, source, params)
	}

	vocab, err := ai.CountTokens(ctx, source)
	if err != nil {
		return nil, err
	}
	kept := vocab.Kept(params.MinFrequency)
	model := &core.WordVectors{
		Dimension: params.Dimension,
		Vectors:   make(map[string][]float32, len(kept)),
		DocFreq:   vocab.DocFreqOf(kept),
		Documents: vocab.Documents,
	}
	for _, token := range kept {
		model.Vectors[token] = DeterministicVector(token, params.Dimension)
	}
	return model, nil
}

// CallCount returns the number of times Train was called.
func (m *MockTrainer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockTrainer) Reset() {
	m.callCount.Store(0)
	m.TrainFunc = nil
}
