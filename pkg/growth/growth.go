package growth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/fptree"
	"github.com/matzehuels/sppgrowth/pkg/observability"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// ErrInvalidThreshold is returned by [New] for a minimum support below 1 or a
// negative maximum length.
var ErrInvalidThreshold = errors.New("invalid mining threshold")

// Options configures a [Miner].
type Options struct {
	// MinSupport is the minimum number of transactions a pattern must occur
	// in. It must be at least 1.
	MinSupport int

	// Bound is the secondary bound, already bound to the database horizon
	// (see [bound.Bind]). Nil means no secondary bound.
	Bound bound.Aggregate

	// MaxLength caps the number of items per pattern. Zero means unlimited.
	MaxLength int
}

// Stats summarises one run.
type Stats struct {
	Patterns         int           `json:"patterns"`
	ConditionalTrees int           `json:"conditional_trees"`
	ConditionalNodes int           `json:"conditional_nodes"`
	MaxDepth         int           `json:"max_depth"`
	Duration         time.Duration `json:"duration"`
}

// Miner runs pattern growth with fixed options.
type Miner struct {
	opts Options
}

// New validates opts and returns a Miner.
func New(opts Options) (*Miner, error) {
	if opts.MinSupport < 1 {
		return nil, fmt.Errorf("%w: min support %d", ErrInvalidThreshold, opts.MinSupport)
	}
	if opts.MaxLength < 0 {
		return nil, fmt.Errorf("%w: max length %d", ErrInvalidThreshold, opts.MaxLength)
	}
	if opts.Bound == nil {
		opts.Bound = bound.None{}
	}
	return &Miner{opts: opts}, nil
}

// Options returns the miner's effective options.
func (m *Miner) Options() Options { return m.opts }

// Mine enumerates every pattern of t that passes the thresholds and hands
// each to sink exactly once. The tree must have its header built; it is
// consumed by the run and left empty on success.
//
// Mine stops early when ctx is cancelled or sink returns an error.
func (m *Miner) Mine(ctx context.Context, t *fptree.Tree, sink Sink) (Stats, error) {
	hooks := observability.Mining()
	hooks.OnMineStart(ctx, t.Len())
	start := time.Now()

	r := &run{ctx: ctx, opts: m.opts, sink: sink, hooks: hooks}
	if raiser, ok := sink.(ThresholdRaiser); ok {
		r.raiser = raiser
	}
	err := r.grow(t, nil, 0)

	r.stats.Duration = time.Since(start)
	hooks.OnMineComplete(ctx, r.stats.Patterns, r.stats.Duration, err)
	return r.stats, err
}

// run is the state of one Mine call.
type run struct {
	ctx    context.Context
	opts   Options
	sink   Sink
	raiser ThresholdRaiser
	hooks  observability.MiningHooks
	stats  Stats
}

// minSupport is the effective threshold at this point of the run.
func (r *run) minSupport() int {
	if r.raiser != nil {
		return max(r.opts.MinSupport, r.raiser.MinSupport())
	}
	return r.opts.MinSupport
}

func (r *run) measure(tids []int) pattern.Stat {
	return pattern.Stat{Support: len(tids), Bound: r.opts.Bound.Measure(tids)}
}

func (r *run) passes(st pattern.Stat) bool {
	return st.Support >= r.minSupport() && r.opts.Bound.Admit(st.Bound)
}

// grow mines t under prefix until its header is empty.
func (r *run) grow(t *fptree.Tree, prefix []int, depth int) error {
	r.stats.MaxDepth = max(r.stats.MaxDepth, depth)
	for t.Len() > 0 {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		tail, _ := t.Tail()
		st := r.measure(t.TIDs(tail))

		if r.passes(st) {
			items := append(prefix[:len(prefix):len(prefix)], tail)
			r.stats.Patterns++
			if err := r.sink.Emit(pattern.New(items, st)); err != nil {
				return err
			}
			if r.opts.MaxLength == 0 || len(items) < r.opts.MaxLength {
				if err := r.descend(t, tail, items, depth); err != nil {
					return err
				}
			}
		}

		if _, err := t.RemoveTail(); err != nil {
			return err
		}
	}
	return nil
}

// descend builds the conditional tree of tail and mines it under items.
func (r *run) descend(t *fptree.Tree, tail int, items []int, depth int) error {
	paths := t.PrefixPaths(tail)

	child := make(pattern.StatMap)
	for item, tids := range fptree.PathStats(paths) {
		if st := r.measure(tids); r.passes(st) {
			child[item] = st
		}
	}
	if len(child) == 0 {
		return nil
	}

	ct := fptree.BuildConditional(paths, child)
	if err := ct.BuildHeader(t.Header(), child); err != nil {
		return err
	}
	r.stats.ConditionalTrees++
	r.stats.ConditionalNodes += ct.NodeCount()
	r.hooks.OnConditionalTree(r.ctx, depth+1, ct.NodeCount())

	return r.grow(ct, items, depth+1)
}
