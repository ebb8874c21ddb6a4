package fptree

// Node is one item at one position of a shared prefix.
//
// A node owns its children and the transaction ids of the transactions whose
// retained items end exactly here. Its parent pointer and its node-link are
// observation-only: they are used for upward walks and same-item chains and
// never decide what the tree keeps.
//
// The root is a sentinel with no item and never appears on a node-link chain.
type Node struct {
	Item int

	parent   *Node
	children []*Node
	link     *Node
	tids     []int
	root     bool
}

// IsRoot reports whether n is the tree's sentinel root.
func (n *Node) IsRoot() bool { return n.root }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Next returns the next node carrying the same item, or nil at the end of
// the chain.
func (n *Node) Next() *Node { return n.link }

// Children returns the node's children in insertion order. The slice is
// owned by the node and must not be modified.
func (n *Node) Children() []*Node { return n.children }

// TIDs returns the transaction ids attached to the node. The slice is owned
// by the node and must not be modified.
func (n *Node) TIDs() []int { return n.tids }

// Child returns the child carrying item, or nil.
func (n *Node) Child(item int) *Node {
	for _, c := range n.children {
		if c.Item == item {
			return c
		}
	}
	return nil
}

// addChild appends a new child for item. The caller guarantees no child with
// that item exists yet.
func (n *Node) addChild(item int) *Node {
	c := &Node{Item: item, parent: n}
	n.children = append(n.children, c)
	return c
}

// removeChild detaches the child carrying item and returns it, or nil when
// there is none. The detached node keeps its transaction ids; redistributing
// them is the tree's job.
func (n *Node) removeChild(item int) *Node {
	for i, c := range n.children {
		if c.Item != item {
			continue
		}
		last := len(n.children) - 1
		copy(n.children[i:], n.children[i+1:])
		n.children[last] = nil
		n.children = n.children[:last]
		return c
	}
	return nil
}

// appendTIDs merges tids into the node's own list.
func (n *Node) appendTIDs(tids ...int) {
	n.tids = append(n.tids, tids...)
}
