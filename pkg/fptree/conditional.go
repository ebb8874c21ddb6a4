package fptree

import (
	"slices"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// PrefixPath is the ancestor chain above one occurrence of an item, oldest
// ancestor first and root excluded, together with the transaction ids held by
// that occurrence. The item itself is not part of Items.
type PrefixPath struct {
	Items []int
	TIDs  []int
}

// PrefixPaths collects one prefix path per node on item's chain. It only
// reads the tree. Occurrences directly under the root produce a path with no
// items; they still carry transaction ids and are returned so callers can
// account for them.
//
// The TIDs slices alias node storage and stay valid until the next call to
// [Tree.RemoveTail].
func (t *Tree) PrefixPaths(item int) []PrefixPath {
	var paths []PrefixPath
	for n := range t.Chain(item) {
		var items []int
		for p := n.parent; p != nil && !p.root; p = p.parent {
			items = append(items, p.Item)
		}
		slices.Reverse(items)
		paths = append(paths, PrefixPath{Items: items, TIDs: n.tids})
	}
	return paths
}

// InsertPath adds a prefix path keeping only the items for which keep
// returns true. The path's transaction ids attach to the deepest retained
// node; when no item is retained they are dropped.
func (t *Tree) InsertPath(p PrefixPath, keep func(item int) bool) {
	kept := make([]int, 0, len(p.Items))
	for _, item := range p.Items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return
	}
	t.walk(kept).appendTIDs(p.TIDs...)
}

// BuildConditional builds a new tree from prefix paths, restricted to the
// items present in stats. The new tree never shares nodes with the tree the
// paths came from. Its header is not built; call [Tree.BuildHeader] with the
// parent's header.
func BuildConditional(paths []PrefixPath, stats pattern.StatMap) *Tree {
	t := New()
	keep := func(item int) bool {
		_, ok := stats[item]
		return ok
	}
	for _, p := range paths {
		t.InsertPath(p, keep)
	}
	return t
}

// PathStats aggregates per-item occurrence lists across prefix paths: for
// every item on any path, the ascending transaction ids of the paths it lies
// on.
func PathStats(paths []PrefixPath) map[int][]int {
	occ := make(map[int][]int)
	for _, p := range paths {
		if len(p.TIDs) == 0 {
			continue
		}
		for _, item := range p.Items {
			occ[item] = append(occ[item], p.TIDs...)
		}
	}
	for _, tids := range occ {
		slices.Sort(tids)
	}
	return occ
}
