// Package bound provides the secondary pruning bound used alongside minimum
// support during pattern growth.
//
// An [Aggregate] measures a value over the occurrence list of an item or
// itemset (the ascending transaction ids it occurs in) and decides whether
// that value is admissible. The growth engine only relies on admission being
// anti-monotone: if a set of occurrences is rejected, every subset of it must
// be rejected too. Support itself is measured by the engine; an Aggregate
// never needs to count.
//
// Three aggregates are provided:
//
//   - [None] admits everything and measures 0.
//   - [Lability] is the maximum lability of a stable periodic pattern: the
//     accumulated excess of gaps between consecutive occurrences over a
//     maximum period. Values above MaxLa are rejected.
//   - [WeightSum] sums per-transaction weights and rejects sums below Min.
package bound

import (
	"fmt"
)

// Aggregate is a caller-supplied secondary bound.
type Aggregate interface {
	// Name identifies the aggregate in logs, cache keys and output.
	Name() string

	// Measure computes the bound over tids, which are distinct and sorted
	// ascending. Implementations must not retain or modify tids.
	Measure(tids []int) int

	// Admit reports whether a measured value passes the threshold.
	Admit(value int) bool
}

// Horizoned is implemented by aggregates whose measure depends on the last
// transaction id of the database.
type Horizoned interface {
	WithHorizon(lastTID int) Aggregate
}

// Bind returns agg with its horizon set to lastTID when agg depends on one,
// and agg unchanged otherwise. A nil agg becomes [None].
func Bind(agg Aggregate, lastTID int) Aggregate {
	if agg == nil {
		return None{}
	}
	if h, ok := agg.(Horizoned); ok {
		return h.WithHorizon(lastTID)
	}
	return agg
}

// None is the absent bound.
type None struct{}

func (None) Name() string      { return KindNone }
func (None) Measure([]int) int { return 0 }
func (None) Admit(int) bool    { return true }

// Lability measures the maximum lability of an occurrence list.
//
// Walking the occurrences t1 < t2 < ... < tn with t0 = 0, the lability after
// each step is la_i = max(0, la_{i-1} + (t_i - t_{i-1}) - MaxPer); a final
// step closes the list against LastTID. The measure is the largest la_i. A
// pattern that recurs at least every MaxPer transactions has lability 0.
type Lability struct {
	MaxPer  int `mapstructure:"max_per" json:"max_per" toml:"max_per"`
	MaxLa   int `mapstructure:"max_la" json:"max_la" toml:"max_la"`
	LastTID int `mapstructure:"last_tid" json:"last_tid,omitempty" toml:"last_tid"`
}

func (l Lability) Name() string { return KindLability }

func (l Lability) Measure(tids []int) int {
	var prev, la, peak int
	for _, tid := range tids {
		la = max(0, la+tid-prev-l.MaxPer)
		peak = max(peak, la)
		prev = tid
	}
	if l.LastTID > prev {
		la = max(0, la+l.LastTID-prev-l.MaxPer)
		peak = max(peak, la)
	}
	return peak
}

func (l Lability) Admit(value int) bool { return value <= l.MaxLa }

// WithHorizon implements [Horizoned].
func (l Lability) WithHorizon(lastTID int) Aggregate {
	l.LastTID = lastTID
	return l
}

func (l Lability) String() string {
	return fmt.Sprintf("lability(max_per=%d, max_la=%d)", l.MaxPer, l.MaxLa)
}

// WeightSum sums a weight per occurrence. Transactions without an explicit
// weight count as Default.
type WeightSum struct {
	Weights map[int]int `mapstructure:"weights" json:"weights,omitempty" toml:"weights"`
	Default int         `mapstructure:"default" json:"default" toml:"default"`
	Min     int         `mapstructure:"min" json:"min" toml:"min"`
}

func (w WeightSum) Name() string { return KindWeightSum }

func (w WeightSum) Measure(tids []int) int {
	sum := 0
	for _, tid := range tids {
		if v, ok := w.Weights[tid]; ok {
			sum += v
			continue
		}
		sum += w.Default
	}
	return sum
}

func (w WeightSum) Admit(value int) bool { return value >= w.Min }

func (w WeightSum) String() string {
	return fmt.Sprintf("weight_sum(min=%d)", w.Min)
}

var (
	_ Aggregate = None{}
	_ Aggregate = Lability{}
	_ Aggregate = WeightSum{}
	_ Horizoned = Lability{}
)
