package figure

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/panegrid/pkg/geometry"
)

// DPI converts figure units to pixels at serialization time.
const DPI = 100

const (
	defaultStroke      = "#333333"
	defaultStrokeWidth = 1.0
	defaultFontSize    = 14.0
	cellFrameColor     = "#c9c9c9"
)

// SVG serializes the whole surface. Container regions are computed
// fresh from the current split metadata, so a figure can be re-serialized
// after any number of structural edits without re-running producers.
// Marker operations become invisible placeholder rects spanning their
// cell, to be replaced by a post-process callback.
func (f *Figure) SVG() string {
	w := f.width * DPI
	h := f.height * DPI

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <rect x=\"0\" y=\"0\" width=\"%.1f\" height=\"%.1f\" fill=\"#ffffff\"/>\n", w, h)

	f.renderContainer(&buf, f.root, geometry.Unit)

	buf.WriteString("</svg>\n")
	return buf.String()
}

func (f *Figure) renderContainer(buf *bytes.Buffer, id ContainerID, box geometry.BoundingBox) {
	c := f.containers[id]
	if !c.isLeaf() {
		subs := geometry.Split(box, c.orient, c.ratios)
		f.renderContainer(buf, c.children[0], subs[0])
		f.renderContainer(buf, c.children[1], subs[1])
		return
	}

	x := box.XMin * f.width * DPI
	y := box.YMin * f.height * DPI
	cw := (box.XMax - box.XMin) * f.width * DPI
	ch := (box.YMax - box.YMin) * f.height * DPI

	fmt.Fprintf(buf, "  <g data-cell=%q>\n", c.cell.Name())
	fmt.Fprintf(buf, "    <rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"none\" stroke=%q stroke-width=\"1\"/>\n",
		x, y, cw, ch, cellFrameColor)

	for _, op := range c.cell.ops {
		renderOp(buf, op, x, y, cw, ch)
	}
	buf.WriteString("  </g>\n")
}

func renderOp(buf *bytes.Buffer, op drawOp, x, y, cw, ch float64) {
	sx := func(v float64) float64 { return x + v*cw }
	sy := func(v float64) float64 { return y + v*ch }

	switch op.kind {
	case opRect:
		fmt.Fprintf(buf, "    <rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=%q stroke=%q stroke-width=\"%.1f\"/>\n",
			sx(op.x1), sy(op.y1), (op.x2-op.x1)*cw, (op.y2-op.y1)*ch,
			fill(op.style), stroke(op.style), strokeWidth(op.style))
	case opLine:
		fmt.Fprintf(buf, "    <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=%q stroke-width=\"%.1f\"/>\n",
			sx(op.x1), sy(op.y1), sx(op.x2), sy(op.y2), stroke(op.style), strokeWidth(op.style))
	case opCircle:
		// Radius scales with the cell's shorter side to stay circular.
		r := op.r * min(cw, ch)
		fmt.Fprintf(buf, "    <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=%q stroke=%q stroke-width=\"%.1f\"/>\n",
			sx(op.x1), sy(op.y1), r, fill(op.style), stroke(op.style), strokeWidth(op.style))
	case opText:
		anchor := op.style.Anchor
		if anchor == "" {
			anchor = "middle"
		}
		size := op.style.FontSize
		if size == 0 {
			size = defaultFontSize
		}
		fmt.Fprintf(buf, "    <text x=\"%.2f\" y=\"%.2f\" font-size=\"%.1f\" font-family=\"sans-serif\" text-anchor=%q fill=%q>%s</text>\n",
			sx(op.x1), sy(op.y1), size, anchor, textFill(op.style), escapeText(op.text))
	case opMarker:
		fmt.Fprintf(buf, "    <rect id=\"marker-%s\" x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"none\" stroke=\"none\"/>\n",
			op.marker, x, y, cw, ch)
	}
}

func fill(s Style) string {
	if s.Fill == "" {
		return "none"
	}
	return s.Fill
}

func stroke(s Style) string {
	if s.Stroke == "" {
		return defaultStroke
	}
	return s.Stroke
}

func textFill(s Style) string {
	if s.Fill == "" {
		return defaultStroke
	}
	return s.Fill
}

func strokeWidth(s Style) float64 {
	if s.StrokeWidth == 0 {
		return defaultStrokeWidth
	}
	return s.StrokeWidth
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
