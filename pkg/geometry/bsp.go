package geometry

import (
	"slices"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// Partition reconstructs a binary layout tree from a box mapping via
// guillotine cuts.
//
// A single box becomes its leaf. Otherwise every distinct XMax value is
// tried as a vertical cut in ascending order; a cut is valid when it
// splits all boxes into a strict left/right partition with none
// straddling it. The first valid cut wins and both sides recurse under a
// row node weighted by each side's aggregate span. If no vertical cut
// works the same is attempted with YMax values for a column split.
//
// Fails with NON_GUILLOTINE when neither axis yields a valid partition.
func Partition(mapping map[string]BoundingBox) (layout.Element, error) {
	if len(mapping) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "no bounding boxes to partition")
	}

	if len(mapping) == 1 {
		for name := range mapping {
			return layout.Leaf(name), nil
		}
	}

	if tree, ok, err := tryCuts(mapping, layout.Row); ok || err != nil {
		return tree, err
	}
	if tree, ok, err := tryCuts(mapping, layout.Column); ok || err != nil {
		return tree, err
	}

	return nil, errors.New(errors.ErrCodeNonGuillotine,
		"non-guillotine layout: no clear horizontal or vertical split possible")
}

// tryCuts attempts every candidate cut along one axis in ascending
// coordinate order. ok is false when no candidate partitions cleanly.
func tryCuts(mapping map[string]BoundingBox, orient layout.Orient) (layout.Element, bool, error) {
	candidates := make([]float64, 0, len(mapping))
	for _, box := range mapping {
		candidates = append(candidates, EdgeOf(box, orient).Max)
	}
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)
	if len(candidates) > 0 {
		candidates = candidates[:len(candidates)-1] // the outermost edge cuts nothing
	}

	for _, cut := range candidates {
		first := make(map[string]BoundingBox)
		second := make(map[string]BoundingBox)
		for name, box := range mapping {
			edge := EdgeOf(box, orient)
			if edge.Max <= cut {
				first[name] = box
			}
			if edge.Min >= cut {
				second[name] = box
			}
		}
		if len(first) == 0 || len(second) == 0 {
			continue
		}
		if len(first)+len(second) != len(mapping) {
			continue // some box straddles the cut
		}
		tree, err := buildNode(orient, first, second)
		if err != nil {
			return nil, true, err
		}
		return tree, true, nil
	}
	return nil, false, nil
}

func buildNode(orient layout.Orient, first, second map[string]BoundingBox) (layout.Element, error) {
	child0, err := Partition(first)
	if err != nil {
		return nil, err
	}
	child1, err := Partition(second)
	if err != nil {
		return nil, err
	}
	size0 := span(first, orient)
	size1 := span(second, orient)
	total := size0 + size1
	return &layout.Node{
		Orient:   orient,
		Children: [2]layout.Element{child0, child1},
		Ratios:   layout.Ratios{100 * size0 / total, 100 * size1 / total},
	}, nil
}

// span returns the extent of the boxes' union along the split axis.
func span(mapping map[string]BoundingBox, orient layout.Orient) float64 {
	first := true
	var lo, hi float64
	for _, box := range mapping {
		edge := EdgeOf(box, orient)
		if first || edge.Min < lo {
			lo = edge.Min
		}
		if first || edge.Max > hi {
			hi = edge.Max
		}
		first = false
	}
	return hi - lo
}
