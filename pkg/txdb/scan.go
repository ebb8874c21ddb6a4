package txdb

import (
	"slices"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/fptree"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// Occurrences returns, for every item, the ascending ids of the
// transactions containing it.
func Occurrences(db *Database) map[int][]int {
	occ := make(map[int][]int)
	for _, tx := range db.Transactions {
		for _, item := range tx.Items {
			occ[item] = append(occ[item], tx.TID)
		}
	}
	return occ
}

// Scan is the first pass over the database: it computes every item's
// support and its secondary bound under agg. A nil agg measures 0.
func Scan(db *Database, agg bound.Aggregate) pattern.StatMap {
	if agg == nil {
		agg = bound.None{}
	}
	occ := Occurrences(db)
	stats := make(pattern.StatMap, len(occ))
	for item, tids := range occ {
		stats[item] = pattern.Stat{Support: len(tids), Bound: agg.Measure(tids)}
	}
	return stats
}

// Frequent keeps the items whose support reaches minSup and whose bound agg
// admits. A nil agg admits everything.
func Frequent(stats pattern.StatMap, minSup int, agg bound.Aggregate) pattern.StatMap {
	if agg == nil {
		agg = bound.None{}
	}
	out := make(pattern.StatMap, len(stats))
	for item, st := range stats {
		if st.Support >= minSup && agg.Admit(st.Bound) {
			out[item] = st
		}
	}
	return out
}

// Order returns the items of tx present in stats, in mining order.
func Order(items []int, stats pattern.StatMap) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		if _, ok := stats[item]; ok {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, stats.Compare)
	return out
}

// BuildTree inserts every transaction restricted to the items of stats, in
// mining order, and builds the top-level header.
func BuildTree(db *Database, stats pattern.StatMap) (*fptree.Tree, error) {
	t := fptree.New()
	for _, tx := range db.Transactions {
		if err := t.Insert(Order(tx.Items, stats), tx.TID); err != nil {
			return nil, err
		}
	}
	if err := t.BuildHeader(nil, stats); err != nil {
		return nil, err
	}
	return t, nil
}
