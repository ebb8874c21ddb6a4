// Package pkg provides the libraries behind sppgrowth.
//
// # Overview
//
// sppgrowth mines frequent itemsets from a transaction database by pattern
// growth over a prefix tree. The tree is shrunk in place: once every pattern
// ending in the current tail item has been mined, the tail's nodes are folded
// into their parents and the tree is one item smaller.
//
// # Architecture
//
// The typical data flow:
//
//	transaction file / in-memory rows
//	         ↓
//	    [txdb] (parse, scan item stats, order frequent items)
//	         ↓
//	    [fptree] (prefix tree, header, conditional trees, tail removal)
//	         ↓
//	    [growth] (recursive mining into a Sink)
//	         ↓
//	    [io] / [store] (SPMF, JSON, CSV output; persisted runs)
//
// [pipeline] ties these stages together with caching ([cache]) and is shared
// by the CLI and the HTTP server.
//
// # Quick Start
//
//	db, _ := txdb.Open("retail.dat")
//	stats := txdb.Frequent(txdb.Scan(db, bound.None{}), 50, bound.None{})
//	tree, _ := txdb.BuildTree(db, stats)
//
//	miner, _ := growth.New(growth.Options{MinSupport: 50})
//	var c growth.Collector
//	if _, err := miner.Mine(ctx, tree, &c); err != nil {
//	    return err
//	}
//	for _, p := range c.Sorted() {
//	    fmt.Println(p)
//	}
//
// # Main Packages
//
//   - [pattern]: item stats, itemsets and their orderings
//   - [bound]: pluggable secondary bounds (lability, weight sum)
//   - [fptree]: the prefix tree and its operations
//   - [growth]: the mining driver and result sinks
//   - [txdb]: transaction database loading and first scan
//   - [pipeline]: load, build and mine with caching
//   - [cache]: file, Redis and null caches
//   - [io]: pattern import and export
//   - [store]: run persistence (memory, MongoDB)
//   - [render/nodelink]: Graphviz rendering of a tree
//   - [observability]: hooks and Prometheus metrics
//   - [errors]: coded errors for API boundaries
//   - [buildinfo]: version information
package pkg
