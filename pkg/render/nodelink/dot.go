package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sppgrowth/pkg/fptree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// ShowTIDs lists the transaction ids held by each node. When false only
	// their count is shown.
	ShowTIDs bool

	// ShowLinks overlays node-link chains as dashed edges.
	ShowLinks bool

	// MaxNodes truncates the diagram after this many nodes in depth-first
	// order. Zero means no limit.
	MaxNodes int
}

// ToDOT converts a tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(t *fptree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	ids := make(map[*fptree.Node]string)
	var edges []string
	t.Walk(func(n *fptree.Node, depth int) bool {
		if opts.MaxNodes > 0 && len(ids) > opts.MaxNodes {
			return false
		}
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, opts), ", "))
		if p := n.Parent(); p != nil {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", ids[p], id))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	if opts.ShowLinks {
		buf.WriteString("\n")
		for _, item := range t.Items() {
			for n := t.Head(item); n != nil && n.Next() != nil; n = n.Next() {
				from, okFrom := ids[n]
				to, okTo := ids[n.Next()]
				if !okFrom || !okTo {
					continue
				}
				fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=steelblue, constraint=false];\n", from, to)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *fptree.Node, opts Options) string {
	if n.IsRoot() {
		return "root"
	}
	tids := n.TIDs()
	if opts.ShowTIDs && len(tids) > 0 {
		parts := make([]string, len(tids))
		for i, tid := range tids {
			parts[i] = strconv.Itoa(tid)
		}
		return fmt.Sprintf("%d\n{%s}", n.Item, strings.Join(parts, ","))
	}
	if len(tids) > 0 {
		return fmt.Sprintf("%d (%d)", n.Item, len(tids))
	}
	return strconv.Itoa(n.Item)
}

func fmtAttrs(n *fptree.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts))}
	if n.IsRoot() {
		attrs = append(attrs, "shape=circle", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching width and height so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
