// Package fptree implements a prefix-sharing transaction tree that is built
// once and then shrunk in place while patterns are grown from it.
//
// # Structure
//
// A [Tree] holds a sentinel root, one [Node] per (prefix, item) pair, and a
// node-link chain per item that threads every node carrying that item in
// insertion order. The header list fixes the mining order: the last header
// item is the next one to mine and remove.
//
// Items must be inserted in header order (see [pattern.StatMap.Compare]).
// Under that discipline the tail item's nodes are always leaves, so the
// transaction ids on its chain are exactly the transactions containing it.
//
// # Operations
//
//   - [Tree.Insert] adds one ordered transaction, extending chains in O(depth).
//   - [Tree.BuildHeader] fixes mining order, either from stats (top level) or
//     by filtering a parent header (conditional trees).
//   - [Tree.PrefixPaths] extracts the ancestor paths of one item without
//     mutating anything.
//   - [BuildConditional] builds a new tree from prefix paths, keeping only
//     items that can still pass the thresholds.
//   - [Tree.RemoveTail] removes the tail item in place, merging its
//     transaction ids into the parent nodes.
//
// # Invariant
//
// Every non-root node whose item is in the header list is reachable through
// that item's chain and vice versa. [Tree.Validate] checks this.
//
// A Tree is not safe for concurrent use.
package fptree
