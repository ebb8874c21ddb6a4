package fptree

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

var (
	// ErrDuplicateItem is returned by [Tree.Insert] when a transaction lists
	// the same item twice. Upstream loaders must deduplicate transactions.
	ErrDuplicateItem = errors.New("item repeated within a transaction")

	// ErrMissingStat is returned by [Tree.BuildHeader] when an item present in
	// the tree has no stat at the top level.
	ErrMissingStat = errors.New("item has no stat")

	// ErrEmptyHeader is returned by [Tree.RemoveTail] when there is nothing
	// left to remove.
	ErrEmptyHeader = errors.New("header list is empty")

	// ErrTailNotLeaf is returned by [Tree.RemoveTail] when a node of the tail
	// item still has children, meaning transactions were not inserted in
	// header order.
	ErrTailNotLeaf = errors.New("tail item node has children")

	// ErrBrokenChain is returned by [Tree.Validate] when the header, the
	// node-link chains and the tree topology disagree.
	ErrBrokenChain = errors.New("node-link chain does not match tree")
)

// Tree is a prefix tree with per-item node-link chains and a header list.
//
// The zero value is not usable; use [New].
type Tree struct {
	root   *Node
	heads  map[int]*Node // item -> first node of its chain
	tails  map[int]*Node // item -> last node of its chain
	header []int
	nodes  int

	seen map[int]struct{} // scratch set for duplicate detection in Insert
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{
		root:  &Node{root: true},
		heads: make(map[int]*Node),
		tails: make(map[int]*Node),
		seen:  make(map[int]struct{}),
	}
}

// Root returns the sentinel root.
func (t *Tree) Root() *Node { return t.root }

// NodeCount returns the number of live non-root nodes.
func (t *Tree) NodeCount() int { return t.nodes }

// Header returns the current header list in mining order. The slice is owned
// by the tree and must not be modified.
func (t *Tree) Header() []int { return t.header }

// Len returns the number of items left in the header list.
func (t *Tree) Len() int { return len(t.header) }

// Tail returns the last header item, the next one to mine.
func (t *Tree) Tail() (int, bool) {
	if len(t.header) == 0 {
		return 0, false
	}
	return t.header[len(t.header)-1], true
}

// Head returns the first node of item's chain, or nil.
func (t *Tree) Head(item int) *Node { return t.heads[item] }

// Items returns every item that currently has a chain, in ascending order.
func (t *Tree) Items() []int {
	items := make([]int, 0, len(t.heads))
	for item := range t.heads {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// Chain iterates over the nodes carrying item in chain order.
func (t *Tree) Chain(item int) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := t.heads[item]; n != nil; n = n.link {
			if !yield(n) {
				return
			}
		}
	}
}

// Insert adds one transaction whose items are already in mining order. Each
// item either follows an existing child or creates a node appended to that
// item's chain. The transaction id is attached to the last node reached.
// An empty transaction is ignored.
//
// Complexity: O(len(items)) amortised, plus a child scan per level.
func (t *Tree) Insert(items []int, tid int) error {
	if len(items) == 0 {
		return nil
	}
	clear(t.seen)
	for _, item := range items {
		if _, dup := t.seen[item]; dup {
			return fmt.Errorf("%w: item %d in transaction %d", ErrDuplicateItem, item, tid)
		}
		t.seen[item] = struct{}{}
	}

	cur := t.walk(items)
	cur.appendTIDs(tid)
	return nil
}

// walk descends from the root along items, creating missing nodes, and
// returns the last node reached.
func (t *Tree) walk(items []int) *Node {
	cur := t.root
	for _, item := range items {
		next := cur.Child(item)
		if next == nil {
			next = cur.addChild(item)
			t.link(next)
		}
		cur = next
	}
	return cur
}

// link appends a freshly created node to the end of its item's chain.
func (t *Tree) link(n *Node) {
	t.nodes++
	if last := t.tails[n.Item]; last != nil {
		last.link = n
	} else {
		t.heads[n.Item] = n
	}
	t.tails[n.Item] = n
}

// BuildHeader fixes the mining order.
//
// With a nil parent (top level) the header holds every item that has a chain,
// sorted by stats: descending support, then ascending item id. Every such
// item must have a stat.
//
// With a parent header (conditional tree) the header is the parent header
// filtered to items present in stats, in the parent's relative order, so the
// conditional tree mines in an order consistent with its ancestors. Items
// without a chain in this tree are skipped.
func (t *Tree) BuildHeader(parent []int, stats pattern.StatMap) error {
	if parent == nil {
		header := make([]int, 0, len(t.heads))
		for item := range t.heads {
			if _, ok := stats[item]; !ok {
				return fmt.Errorf("%w: %d", ErrMissingStat, item)
			}
			header = append(header, item)
		}
		slices.SortFunc(header, stats.Compare)
		t.header = header
		return nil
	}

	header := make([]int, 0, min(len(parent), len(stats)))
	for _, item := range parent {
		if _, ok := stats[item]; !ok {
			continue
		}
		if t.heads[item] == nil {
			continue
		}
		header = append(header, item)
	}
	t.header = header
	return nil
}

// Support returns the number of transaction ids on item's chain. For the
// tail item this is its exact support.
func (t *Tree) Support(item int) int {
	n := 0
	for node := range t.Chain(item) {
		n += len(node.tids)
	}
	return n
}

// TIDs returns the transaction ids on item's chain, sorted ascending.
func (t *Tree) TIDs(item int) []int {
	var out []int
	for node := range t.Chain(item) {
		out = append(out, node.tids...)
	}
	slices.Sort(out)
	return out
}

// RemoveTail removes the last header item from the tree in place and returns
// it. Each of its nodes is detached from its parent and hands its
// transaction ids to that parent, unless the parent is the root: those
// transactions held no other remaining item and carry no further
// information. Remaining items keep their exact supports.
func (t *Tree) RemoveTail() (int, error) {
	item, ok := t.Tail()
	if !ok {
		return 0, ErrEmptyHeader
	}

	for n := range t.Chain(item) {
		if len(n.children) > 0 {
			return 0, fmt.Errorf("%w: item %d", ErrTailNotLeaf, item)
		}
	}

	for n := t.heads[item]; n != nil; {
		parent := n.parent
		parent.removeChild(item)
		if !parent.root {
			parent.appendTIDs(n.tids...)
		}
		next := n.link
		n.parent, n.link, n.tids = nil, nil, nil
		t.nodes--
		n = next
	}

	delete(t.heads, item)
	delete(t.tails, item)
	t.header = t.header[:len(t.header)-1]
	return item, nil
}

// Walk visits every node depth-first in child order, starting with the root
// at depth 0. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	visit(t.root, 0)
}

// Validate checks that the chains and the topology agree: every node is on
// its item's chain exactly once, every chained node is attached to the tree,
// every header item has a chain, and no node has two children with the same
// item.
func (t *Tree) Validate() error {
	reachable := make(map[*Node]bool)
	var err error
	t.Walk(func(n *Node, depth int) bool {
		if err != nil {
			return false
		}
		seen := make(map[int]bool, len(n.children))
		for _, c := range n.children {
			if seen[c.Item] {
				err = fmt.Errorf("%w: duplicate child %d", ErrBrokenChain, c.Item)
				return false
			}
			seen[c.Item] = true
			if c.parent != n {
				err = fmt.Errorf("%w: node %d has wrong parent", ErrBrokenChain, c.Item)
				return false
			}
		}
		if !n.root {
			reachable[n] = false
		}
		return true
	})
	if err != nil {
		return err
	}

	for item, head := range t.heads {
		var last *Node
		for n := head; n != nil; n = n.link {
			if n.Item != item {
				return fmt.Errorf("%w: item %d chained under %d", ErrBrokenChain, n.Item, item)
			}
			visited, ok := reachable[n]
			if !ok {
				return fmt.Errorf("%w: chained node %d is detached", ErrBrokenChain, item)
			}
			if visited {
				return fmt.Errorf("%w: chain %d has a cycle", ErrBrokenChain, item)
			}
			reachable[n] = true
			last = n
		}
		if t.tails[item] != last {
			return fmt.Errorf("%w: stale last node for %d", ErrBrokenChain, item)
		}
	}
	for n, visited := range reachable {
		if !visited {
			return fmt.Errorf("%w: node %d missing from its chain", ErrBrokenChain, n.Item)
		}
	}
	for _, item := range t.header {
		if t.heads[item] == nil {
			return fmt.Errorf("%w: header item %d has no chain", ErrBrokenChain, item)
		}
	}
	if len(reachable) != t.nodes {
		return fmt.Errorf("%w: node count %d, found %d", ErrBrokenChain, t.nodes, len(reachable))
	}
	return nil
}
