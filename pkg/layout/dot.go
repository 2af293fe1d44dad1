package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a layout tree to Graphviz DOT format for debugging.
// Inner nodes show their orientation and ratios, leaves show their
// content-producer name. The result can be rendered with [RenderDOTSVG].
func ToDOT(e Element) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	next := 0
	var walk func(Element) string
	walk = func(el Element) string {
		id := fmt.Sprintf("n%d", next)
		next++
		switch v := el.(type) {
		case Leaf:
			fmt.Fprintf(&buf, "  %s [label=%q];\n", id, string(v))
		case *Node:
			label := fmt.Sprintf("%s\n%.0f : %.0f", v.Orient, v.Ratios[0], v.Ratios[1])
			fmt.Fprintf(&buf, "  %s [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", id, label)
			c0 := walk(v.Children[0])
			c1 := walk(v.Children[1])
			fmt.Fprintf(&buf, "  %s -> %s [label=\"0\"];\n", id, c0)
			fmt.Fprintf(&buf, "  %s -> %s [label=\"1\"];\n", id, c1)
		}
		return id
	}
	walk(e)

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return buf.Bytes(), nil
}
