package geometry

import (
	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// Rectify adjusts a box's extents along the axis perpendicular to orient
// so that edges which were exactly aligned with either merge target's
// pre-merge extents move to the union of both targets' extents.
//
// After two touching regions are merged into one, any box that shared a
// cut line with either of them must follow that line to its new position,
// otherwise the layout stops being a guillotine subdivision.
func Rectify(box BoundingBox, orient layout.Orient, a, b BoundingBox) (BoundingBox, error) {
	other := orient.Flip()

	edgeA := EdgeOf(a, other)
	edgeB := EdgeOf(b, other)

	targetMin := min(edgeA.Min, edgeB.Min)
	targetMax := max(edgeA.Max, edgeB.Max)

	curr := EdgeOf(box, other)
	newMin, newMax := curr.Min, curr.Max

	if AlmostEqual(newMin, edgeA.Min) || AlmostEqual(newMin, edgeB.Min) {
		newMin = targetMin
	}
	if AlmostEqual(newMin, edgeA.Max) || AlmostEqual(newMin, edgeB.Max) {
		newMin = targetMax
	}
	if AlmostEqual(newMax, edgeA.Min) || AlmostEqual(newMax, edgeB.Min) {
		newMax = targetMin
	}
	if AlmostEqual(newMax, edgeA.Max) || AlmostEqual(newMax, edgeB.Max) {
		newMax = targetMax
	}

	out := box
	if orient == layout.Row {
		out.YMin, out.YMax = newMin, newMax
	} else {
		out.XMin, out.XMax = newMin, newMax
	}

	if out.Degenerate() {
		return BoundingBox{}, errors.New(errors.ErrCodeInvalidGeometry, "rectified box has a zero-length edge")
	}
	return out, nil
}
