package ai

import (
	"context"
	"slices"
)

// Vocabulary holds token statistics gathered from one pass over a source.
type Vocabulary struct {
	Counts    map[string]uint64 // Total occurrences
	DocFreq   map[string]uint64 // Number of sequences containing the token
	Documents uint64            // Number of non-empty sequences
}

// CountTokens reads source once and gathers token statistics.
func CountTokens(ctx context.Context, source TokenSource) (*Vocabulary, error) {
	vocab := &Vocabulary{
		Counts:  make(map[string]uint64),
		DocFreq: make(map[string]uint64),
	}
	seen := make(map[string]struct{})
	err := source.ForEach(ctx, func(tokens []string) error {
		if len(tokens) == 0 {
			return nil
		}
		vocab.Documents++
		clear(seen)
		for _, token := range tokens {
			vocab.Counts[token]++
			if _, ok := seen[token]; !ok {
				seen[token] = struct{}{}
				vocab.DocFreq[token]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vocab, nil
}

// Kept returns the tokens occurring at least minFrequency times, sorted.
func (v *Vocabulary) Kept(minFrequency int) []string {
	var kept []string
	for token, count := range v.Counts {
		if count >= uint64(minFrequency) {
			kept = append(kept, token)
		}
	}
	slices.Sort(kept)
	return kept
}

// DocFreqOf returns the document frequencies restricted to tokens.
func (v *Vocabulary) DocFreqOf(tokens []string) map[string]uint64 {
	df := make(map[string]uint64, len(tokens))
	for _, token := range tokens {
		df[token] = v.DocFreq[token]
	}
	return df
}
