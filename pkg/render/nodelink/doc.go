// Package nodelink renders prefix trees as node-link diagrams.
//
// # Overview
//
// This package turns an [fptree.Tree] into Graphviz DOT source, where every
// tree node is a box labelled with its item and the transaction ids it
// holds, and parent/child relations are arrows. Node-link chains can be
// overlaid as dashed edges, which makes the header index visible while
// debugging shrink behaviour.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{ShowLinks: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
