package growth

import (
	"container/heap"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// Sink receives emitted patterns. Returning an error aborts the run.
type Sink interface {
	Emit(p pattern.Itemset) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(p pattern.Itemset) error

// Emit calls f(p).
func (f SinkFunc) Emit(p pattern.Itemset) error { return f(p) }

// ThresholdRaiser is implemented by sinks that can tighten the minimum
// support while a run is in progress. The miner uses the larger of its own
// minimum support and the value returned here; the value must never
// decrease during a run.
type ThresholdRaiser interface {
	MinSupport() int
}

// Collector keeps every emitted pattern in emission order.
type Collector struct {
	Patterns []pattern.Itemset
}

// Emit appends p.
func (c *Collector) Emit(p pattern.Itemset) error {
	c.Patterns = append(c.Patterns, p)
	return nil
}

// Sorted returns the collected patterns in presentation order.
func (c *Collector) Sorted() []pattern.Itemset {
	out := append([]pattern.Itemset(nil), c.Patterns...)
	pattern.Sort(out)
	return out
}

// TopK keeps the k best patterns by [pattern.Compare]. Once it holds k
// patterns it raises the effective minimum support to the support of the
// worst one held.
type TopK struct {
	k    int
	heap worstFirst
}

var _ ThresholdRaiser = (*TopK)(nil)

// NewTopK returns a sink keeping at most k patterns. k must be positive.
func NewTopK(k int) *TopK {
	return &TopK{k: k, heap: make(worstFirst, 0, k)}
}

// Emit offers p. It replaces the worst held pattern when p ranks better.
func (t *TopK) Emit(p pattern.Itemset) error {
	if len(t.heap) < t.k {
		heap.Push(&t.heap, p)
		return nil
	}
	if pattern.Compare(p, t.heap[0]) < 0 {
		t.heap[0] = p
		heap.Fix(&t.heap, 0)
	}
	return nil
}

// MinSupport returns the support of the worst held pattern once k patterns
// are held, and 0 before that.
func (t *TopK) MinSupport() int {
	if len(t.heap) < t.k || t.k == 0 {
		return 0
	}
	return t.heap[0].Support
}

// Patterns returns the held patterns in presentation order.
func (t *TopK) Patterns() []pattern.Itemset {
	out := append([]pattern.Itemset(nil), t.heap...)
	pattern.Sort(out)
	return out
}

// worstFirst is a heap whose root is the lowest-ranked itemset.
type worstFirst []pattern.Itemset

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return pattern.Compare(h[i], h[j]) > 0 }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(pattern.Itemset)) }
func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
