package figure

// Canvas is the drawing surface handed to content producers. All
// coordinates are in the cell's local unit square with the origin at the
// top-left corner; they are scaled to the cell's final screen region
// when the figure is serialized, so producers never need to know where
// their cell ends up.
type Canvas interface {
	Rect(x, y, w, h float64, s Style)
	Line(x1, y1, x2, y2 float64, s Style)
	Circle(cx, cy, r float64, s Style)
	Text(x, y float64, text string, s Style)

	// Marker reserves the cell's full region under the given id so that
	// externally produced content can be spliced in after serialization.
	Marker(id string)
}

// Style carries the presentation attributes of a single drawing
// operation. Zero values fall back to sensible defaults at
// serialization time.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	FontSize    float64
	Anchor      string
}

type opKind int

const (
	opRect opKind = iota
	opLine
	opCircle
	opText
	opMarker
)

type drawOp struct {
	kind           opKind
	x1, y1, x2, y2 float64
	r              float64
	text           string
	marker         string
	style          Style
}

// Cell is the drawable unit attached to a leaf container. It records
// the operations issued by its content producer and replays them, scaled
// into the container's current region, whenever the figure is
// serialized. A cell survives detachment: the cache keeps it under the
// leaf name it last displayed so the producer need not run again when
// that name reappears.
type Cell struct {
	name string
	ops  []drawOp
}

// NewCell returns an empty cell for the named content producer.
func NewCell(name string) *Cell {
	return &Cell{name: name}
}

// Name returns the leaf name the cell currently displays.
func (c *Cell) Name() string { return c.name }

// Reset clears all recorded drawing operations.
func (c *Cell) Reset() { c.ops = c.ops[:0] }

func (c *Cell) Rect(x, y, w, h float64, s Style) {
	c.ops = append(c.ops, drawOp{kind: opRect, x1: x, y1: y, x2: x + w, y2: y + h, style: s})
}

func (c *Cell) Line(x1, y1, x2, y2 float64, s Style) {
	c.ops = append(c.ops, drawOp{kind: opLine, x1: x1, y1: y1, x2: x2, y2: y2, style: s})
}

func (c *Cell) Circle(cx, cy, r float64, s Style) {
	c.ops = append(c.ops, drawOp{kind: opCircle, x1: cx, y1: cy, r: r, style: s})
}

func (c *Cell) Text(x, y float64, text string, s Style) {
	c.ops = append(c.ops, drawOp{kind: opText, x1: x, y1: y, text: text, style: s})
}

func (c *Cell) Marker(id string) {
	c.ops = append(c.ops, drawOp{kind: opMarker, marker: id})
}

var _ Canvas = (*Cell)(nil)
