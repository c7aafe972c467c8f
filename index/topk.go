package index

import (
	"container/heap"
	"slices"

	"github.com/poiesic/papervec/core"
)

// TopK keeps the k best hits seen so far.
type TopK struct {
	k    int
	hits hitHeap
}

// preallocLimit bounds the capacity reserved up front; the heap grows past it
// only as hits arrive.
const preallocLimit = 1024

// NewTopK creates a collector for k hits.
func NewTopK(k int) *TopK {
	k = max(k, 0)
	return &TopK{k: k, hits: make(hitHeap, 0, min(k, preallocLimit))}
}

// Push offers a scored entry.
func (t *TopK) Push(id core.ID, score float32) {
	if t.k == 0 {
		return
	}
	hit := core.Hit{SectionID: id, Score: score}
	if len(t.hits) < t.k {
		heap.Push(&t.hits, hit)
		return
	}
	if worse(t.hits[0], hit) {
		t.hits[0] = hit
		heap.Fix(&t.hits, 0)
	}
}

// Hits returns the collected hits, best first, ranked from 1.
func (t *TopK) Hits() []core.Hit {
	hits := slices.Clone([]core.Hit(t.hits))
	slices.SortFunc(hits, func(a, b core.Hit) int {
		switch {
		case worse(b, a):
			return -1
		case worse(a, b):
			return 1
		}
		return 0
	})
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits
}

// worse reports whether a ranks below b.
func worse(a, b core.Hit) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.SectionID > b.SectionID
}

// hitHeap is a min-heap with the worst hit at the root.
type hitHeap []core.Hit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)        { *h = append(*h, x.(core.Hit)) }

func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
