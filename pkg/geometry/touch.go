package geometry

import (
	stderrors "errors"
	"math"

	"github.com/matzehuels/panegrid/pkg/layout"
)

// DefaultMinTouchRatio is the strict overlap requirement for merges:
// the shared boundary segment must cover at least this fraction of the
// shorter of the two edges.
const DefaultMinTouchRatio = 0.9

// Sentinel causes returned by [Touch]. Callers wrap them into user-facing
// merge failures.
var (
	// ErrNoTouch means the boxes share no boundary on either axis.
	ErrNoTouch = stderrors.New("bounding boxes do not touch")

	// ErrCornerTouch means the boxes touch on both axes at once, which
	// makes the merge orientation ambiguous.
	ErrCornerTouch = stderrors.New("bounding boxes share only a corner")

	// ErrNoOverlap means the boxes touch on one axis but their
	// perpendicular intervals do not overlap.
	ErrNoOverlap = stderrors.New("bounding boxes do not overlap")

	// ErrSmallOverlap means the overlap exists but covers less than the
	// required fraction of the shorter edge.
	ErrSmallOverlap = stderrors.New("bounding boxes do not overlap enough")
)

// Touch evaluates if and how two bounding boxes are adjacent.
//
// Two boxes touch along row when one's XMax coincides with the other's
// XMin (within epsilon) and their y intervals overlap by at least
// minRatio of the shorter interval; symmetrically for column via the y
// axis. A minRatio of 0 accepts any positive overlap.
//
// The returned orientation is the split axis a node holding both regions
// as siblings would use. On failure one of the sentinel errors above is
// returned.
func Touch(a, b BoundingBox, minRatio float64) (layout.Orient, error) {
	xTouch := AlmostEqual(a.XMax, b.XMin) || AlmostEqual(b.XMax, a.XMin)
	yTouch := AlmostEqual(a.YMax, b.YMin) || AlmostEqual(b.YMax, a.YMin)

	if !xTouch && !yTouch {
		return "", ErrNoTouch
	}
	if xTouch && yTouch {
		return "", ErrCornerTouch
	}

	orient := layout.Row
	if yTouch {
		orient = layout.Column
	}

	edgeA := EdgeOf(a, orient.Flip())
	edgeB := EdgeOf(b, orient.Flip())
	overlap := math.Max(0, math.Min(edgeA.Max, edgeB.Max)-math.Max(edgeA.Min, edgeB.Min))
	minSize := math.Min(edgeA.Size(), edgeB.Size())

	if overlap == 0 {
		return "", ErrNoOverlap
	}
	if overlap/minSize < minRatio {
		return "", ErrSmallOverlap
	}
	return orient, nil
}
