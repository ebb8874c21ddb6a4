package fptree

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// countStats counts item supports over raw transactions.
func countStats(txs [][]int) pattern.StatMap {
	stats := make(pattern.StatMap)
	for _, tx := range txs {
		for _, item := range tx {
			st := stats[item]
			st.Support++
			stats[item] = st
		}
	}
	return stats
}

// buildTree inserts txs (tid = index+1) in mining order and builds the header.
func buildTree(txs [][]int) (*Tree, pattern.StatMap, error) {
	stats := countStats(txs)
	t := New()
	for i, tx := range txs {
		ordered := slices.Clone(tx)
		slices.SortFunc(ordered, stats.Compare)
		if err := t.Insert(ordered, i+1); err != nil {
			return nil, nil, err
		}
	}
	if err := t.BuildHeader(nil, stats); err != nil {
		return nil, nil, err
	}
	return t, stats, nil
}

// randomTransactions generates n duplicate-free transactions over items 1..k.
func randomTransactions(r *rand.Rand, n, k int) [][]int {
	txs := make([][]int, n)
	for i := range txs {
		var tx []int
		for item := 1; item <= k; item++ {
			if r.IntN(3) == 0 {
				tx = append(tx, item)
			}
		}
		txs[i] = tx
	}
	return txs
}

// support counts transactions containing item.
func support(txs [][]int, item int) int {
	n := 0
	for _, tx := range txs {
		if slices.Contains(tx, item) {
			n++
		}
	}
	return n
}
