// Package growth mines frequent patterns from an [fptree.Tree] by recursive
// pattern growth with in-place shrinking.
//
// At each level the [Miner] takes the last item of the header list, emits it
// (appended to the current prefix) when its support and secondary bound pass,
// builds a conditional tree from its prefix paths, recurses into that tree,
// and then removes the item from the current tree with [fptree.Tree.RemoveTail].
// Removal is unconditional, so every level shrinks monotonically and no
// conditional tree is ever built twice for the same item.
//
// Every frequent itemset is emitted exactly once, in mining order. Sinks that
// need a presentation order sort afterwards (see [pattern.Sort]).
//
// # Thresholds
//
// An itemset passes when its support is at least the effective minimum
// support and the configured [bound.Aggregate] admits the value it measured
// over the itemset's occurrence list. A sink implementing [ThresholdRaiser]
// can raise the effective minimum support during a run; [TopK] does this to
// keep only the k best patterns.
//
// A Miner is safe for concurrent use; each call to [Miner.Mine] consumes the
// tree it is given and must own it exclusively.
package growth
