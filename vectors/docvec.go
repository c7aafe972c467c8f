package vectors

import (
	"fmt"
	"math"
	"strings"

	"github.com/poiesic/papervec/core"
)

// Aggregation rules for document vectors.
const (
	AggregateMean = "mean"
	AggregateIDF  = "idf"

	DefaultAggregation = AggregateIDF
)

// Aggregator turns a token sequence into a document vector using a model.
// The result depends only on the tokens, the model and the rule, so the
// same input always yields bit-identical output.
type Aggregator struct {
	rule  string
	model *core.WordVectors
}

// NewAggregator returns an aggregator for rule ("mean" or "idf").
func NewAggregator(rule string, model *core.WordVectors) (*Aggregator, error) {
	rule = strings.ToLower(strings.TrimSpace(rule))
	switch rule {
	case AggregateMean, AggregateIDF:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAggregation, rule)
	}
	return &Aggregator{rule: rule, model: model}, nil
}

// Rule returns the aggregation rule name.
func (a *Aggregator) Rule() string {
	return a.rule
}

// Vector returns the unit document vector of tokens and the number of
// tokens found in the model vocabulary. When no token is in the vocabulary
// the vector is nil.
func (a *Aggregator) Vector(tokens []string) ([]float32, int) {
	sum := make([]float64, a.model.Dimension)
	matched := 0
	var total float64
	for _, token := range tokens {
		vector, ok := a.model.Vectors[token]
		if !ok {
			continue
		}
		matched++
		weight := a.weight(token)
		total += weight
		for i, v := range vector {
			sum[i] += weight * float64(v)
		}
	}
	if matched == 0 || total == 0 {
		return nil, matched
	}

	result := make([]float32, len(sum))
	for i, v := range sum {
		result[i] = float32(v / total)
	}
	if core.Norm(result) == 0 {
		return nil, matched
	}
	return core.NormalizeVector(result), matched
}

// weight returns the contribution of one token occurrence.
func (a *Aggregator) weight(token string) float64 {
	if a.rule == AggregateMean {
		return 1
	}
	n := float64(a.model.Documents)
	df := float64(a.model.DocFreq[token])
	return math.Log((1+n)/(1+df)) + 1
}
