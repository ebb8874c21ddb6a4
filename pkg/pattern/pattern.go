// Package pattern defines the records that flow out of the mining engine.
//
// A [Stat] pairs the support of an item or itemset with the value of the
// caller-supplied secondary bound (see package bound). A [StatMap] holds the
// per-item stats of one tree level and doubles as the comparator that fixes
// mining order. An [Itemset] is one emitted pattern.
package pattern

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Stat is the pair (support, secondary bound) attached to an item or itemset.
// Support counts transactions; Bound is whatever the active bound.Aggregate
// measured over the same transactions.
type Stat struct {
	Support int `json:"support"`
	Bound   int `json:"bound"`
}

// StatMap maps an item id to its stat at one tree level.
type StatMap map[int]Stat

// Less reports whether item a precedes item b in mining order: descending
// support, ties broken by ascending item id. Items missing from the map sort
// as if their support were zero.
func (m StatMap) Less(a, b int) bool {
	return m.Compare(a, b) < 0
}

// Compare is the three-way form of [StatMap.Less], suitable for slices.SortFunc.
func (m StatMap) Compare(a, b int) int {
	if c := cmp.Compare(m[b].Support, m[a].Support); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// Items returns the map's item ids in mining order.
func (m StatMap) Items() []int {
	items := make([]int, 0, len(m))
	for item := range m {
		items = append(items, item)
	}
	slices.SortFunc(items, m.Compare)
	return items
}

// Itemset is one emitted pattern. Items are stored in the order the growth
// driver appended them (prefix first, tail last); use [Itemset.Sorted] for a
// canonical form.
type Itemset struct {
	Items []int `json:"items"`
	Stat
}

// New copies items into a fresh Itemset.
func New(items []int, st Stat) Itemset {
	return Itemset{Items: slices.Clone(items), Stat: st}
}

// Len returns the number of items.
func (s Itemset) Len() int { return len(s.Items) }

// Sorted returns the items in ascending order. The receiver is not modified.
func (s Itemset) Sorted() []int {
	out := slices.Clone(s.Items)
	slices.Sort(out)
	return out
}

// Key returns a canonical string identity (sorted, space separated) that is
// equal for two itemsets holding the same items in any order.
func (s Itemset) Key() string {
	return join(s.Sorted(), " ")
}

// String renders the SPMF output line, e.g. "1 2 3  #SUP: 2  #MAXLA: 0".
func (s Itemset) String() string {
	return fmt.Sprintf("%s  #SUP: %d  #MAXLA: %d", s.Key(), s.Support, s.Bound)
}

// Compare orders itemsets by descending support, then ascending length, then
// lexicographically by sorted items. It gives result sets a stable
// presentation order independent of mining order.
func Compare(a, b Itemset) int {
	if c := cmp.Compare(b.Support, a.Support); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Len(), b.Len()); c != 0 {
		return c
	}
	return slices.Compare(a.Sorted(), b.Sorted())
}

// Sort sorts itemsets in place using [Compare].
func Sort(sets []Itemset) {
	slices.SortStableFunc(sets, Compare)
}

func join(items []int, sep string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(strconv.Itoa(item))
	}
	return b.String()
}
