// Package geometry computes normalized bounding boxes for layout leaves
// and reasons about their adjacency.
//
// All coordinates live in the unit square: the root region is
// [0,1]×[0,1] and node ratios subdivide it proportionally. The package
// provides the touch test, box rectification and the guillotine
// binary-space partitioner used by the merge engine.
package geometry

import (
	"math"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// AlmostEqual reports whether two floats are equal within the engine
// epsilon.
func AlmostEqual(a, b float64) bool { return layout.AlmostEqual(a, b) }

// LessThan reports whether a is less than b by more than epsilon.
func LessThan(a, b float64) bool { return a < b-layout.Epsilon }

// MoreThan reports whether a is greater than b by more than epsilon.
func MoreThan(a, b float64) bool { return a > b+layout.Epsilon }

// BoundingBox is an axis-aligned rectangle in the unit square.
type BoundingBox struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Unit is the full [0,1]×[0,1] region.
var Unit = BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 1}

// Degenerate reports whether the box has zero width or height.
func (b BoundingBox) Degenerate() bool {
	return b.XMin == b.XMax || b.YMin == b.YMax
}

// Edge is a 1-dimensional interval of a bounding box along one axis.
type Edge struct {
	Min, Max float64
}

// Size returns the length of the edge.
func (e Edge) Size() float64 { return e.Max - e.Min }

// EdgeOf extracts the box's interval along the axis a split in the given
// orientation cuts: the x interval for row, the y interval for column.
func EdgeOf(b BoundingBox, orient layout.Orient) Edge {
	if orient == layout.Row {
		return Edge{Min: b.XMin, Max: b.XMax}
	}
	return Edge{Min: b.YMin, Max: b.YMax}
}

// Union returns the smallest box containing both inputs.
func Union(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		XMin: math.Min(a.XMin, b.XMin),
		XMax: math.Max(a.XMax, b.XMax),
		YMin: math.Min(a.YMin, b.YMin),
		YMax: math.Max(a.YMax, b.YMax),
	}
}

// Mapping computes the bounding box of every leaf in the tree by
// recursive proportional subdivision of the unit square.
//
// It fails with INVALID_GEOMETRY if a leaf name repeats (callers tag the
// tree first when duplicates are possible) or any resulting box is
// degenerate.
func Mapping(e layout.Element) (map[string]BoundingBox, error) {
	mapping := make(map[string]BoundingBox)
	if err := fill(e, Unit, mapping); err != nil {
		return nil, err
	}
	for name, box := range mapping {
		if box.Degenerate() {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "leaf %q has a zero-length edge", name)
		}
	}
	return mapping, nil
}

func fill(e layout.Element, box BoundingBox, mapping map[string]BoundingBox) error {
	leaf, isLeaf := e.(layout.Leaf)
	if isLeaf {
		if _, exists := mapping[string(leaf)]; exists {
			return errors.New(errors.ErrCodeInvalidGeometry, "leaf %q appears more than once", leaf)
		}
		mapping[string(leaf)] = box
		return nil
	}

	node, ok := e.(*layout.Node)
	if !ok {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown element type %T", e)
	}

	subs := Split(box, node.Orient, node.Ratios)
	for i, child := range node.Children {
		if err := fill(child, subs[i], mapping); err != nil {
			return err
		}
	}
	return nil
}

// Split cuts a box into two along the axis of the given orientation,
// sized proportionally to the ratio weights.
func Split(box BoundingBox, orient layout.Orient, ratios layout.Ratios) [2]BoundingBox {
	cut := ratios[0] / (ratios[0] + ratios[1])

	first, second := box, box
	if orient == layout.Row {
		mid := box.XMin + (box.XMax-box.XMin)*cut
		first.XMax = mid
		second.XMin = mid
	} else {
		mid := box.YMin + (box.YMax-box.YMin)*cut
		first.YMax = mid
		second.YMin = mid
	}
	return [2]BoundingBox{first, second}
}
