// Package merge restructures a layout so that two touching, non-sibling
// leaves become siblings under a single node, using bounding-box
// reasoning over their lowest common ancestor region and a guillotine
// re-partition of the remaining boxes.
package merge

import (
	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/panegrid/pkg/apply"
	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/geometry"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/registry"
	"github.com/matzehuels/panegrid/pkg/render"
)

// Paths restructures the tree so the leaves at pathA and pathB become
// siblings, and returns the new tree plus the path of their lowest
// common ancestor. All other leaves keep their exact screen regions.
//
// Both paths must address leaves whose regions touch cleanly along one
// axis with edge overlap of at least minRatio of the shorter edge;
// minRatio <= 0 falls back to [geometry.DefaultMinTouchRatio].
// Identical paths and existing siblings are rejected.
func Paths(tree layout.Element, pathA, pathB layout.Path, minRatio float64) (layout.Element, layout.Path, error) {
	if minRatio <= 0 {
		minRatio = geometry.DefaultMinTouchRatio
	}
	if _, err := layout.LeafAt(tree, pathA); err != nil {
		return nil, nil, err
	}
	if _, err := layout.LeafAt(tree, pathB); err != nil {
		return nil, nil, err
	}
	if pathA.Equal(pathB) {
		return nil, nil, errors.New(errors.ErrCodeMergeFailed, "cannot merge a leaf with itself")
	}
	if len(pathA) > 0 && len(pathB) > 0 && pathA.Parent().Equal(pathB.Parent()) {
		return nil, nil, errors.New(errors.ErrCodeMergeFailed, "leaves are already siblings")
	}

	tagged, tags := tagLeaves(tree)
	tagA, err := layout.LeafAt(tagged, pathA)
	if err != nil {
		return nil, nil, err
	}
	tagB, err := layout.LeafAt(tagged, pathB)
	if err != nil {
		return nil, nil, err
	}

	lcaNode, lcaPath, _, _, err := layout.LCA(tagged, pathA, pathB)
	if err != nil {
		return nil, nil, err
	}

	// Boxes are normalized to the LCA's own region.
	mapping, err := geometry.Mapping(lcaNode)
	if err != nil {
		return nil, nil, err
	}
	boxA := mapping[string(tagA)]
	boxB := mapping[string(tagB)]

	orient, err := geometry.Touch(boxA, boxB, minRatio)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeMergeFailed, err,
			"leaves at %v and %v cannot be merged", pathA, pathB)
	}

	for name, box := range mapping {
		rectified, err := geometry.Rectify(box, orient, boxA, boxB)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMergeFailed, err,
				"rectifying region of %q", tags[name])
		}
		mapping[name] = rectified
	}
	rectA := mapping[string(tagA)]
	rectB := mapping[string(tagB)]

	delete(mapping, string(tagA))
	delete(mapping, string(tagB))
	placeholder := uuid.NewString()
	mapping[placeholder] = geometry.Union(rectA, rectB)

	newSub, err := geometry.Partition(mapping)
	if err != nil {
		return nil, nil, err
	}

	placeholderPath, ok := layout.FindLeaf(newSub, placeholder)
	if !ok {
		charmlog.Error("partition lost the merged placeholder region",
			"lca", []int(lcaPath), "regions", len(mapping))
		return nil, nil, errors.New(errors.ErrCodeInternal,
			"re-partition dropped the merged region")
	}

	merged := siblingNode(orient, tagA, tagB, rectA, rectB)
	if newSub, err = layout.Set(newSub, placeholderPath, merged); err != nil {
		return nil, nil, err
	}

	full, err := layout.Set(tagged, lcaPath, newSub)
	if err != nil {
		return nil, nil, err
	}
	return untagLeaves(full, tags), lcaPath, nil
}

// siblingNode builds the node holding the two merged leaves, ordered by
// increasing position along the touch axis and weighted by their
// rectified edge lengths.
func siblingNode(orient layout.Orient, tagA, tagB layout.Leaf, boxA, boxB geometry.BoundingBox) *layout.Node {
	edgeA := geometry.EdgeOf(boxA, orient)
	edgeB := geometry.EdgeOf(boxB, orient)

	first, second := tagA, tagB
	sizeFirst, sizeSecond := edgeA.Size(), edgeB.Size()
	if edgeB.Min < edgeA.Min {
		first, second = tagB, tagA
		sizeFirst, sizeSecond = edgeB.Size(), edgeA.Size()
	}
	total := sizeFirst + sizeSecond
	return &layout.Node{
		Orient:   orient,
		Children: [2]layout.Element{first, second},
		Ratios:   layout.Ratios{100 * sizeFirst / total, 100 * sizeSecond / total},
	}
}

// Merge performs a session-level merge: it computes the restructured
// tree, derives the change script via rebuild, and applies it to the
// live surface. It returns the new tree, the updated post processor and
// the backward script that undoes the merge.
func Merge(tree layout.Element, fig *figure.Figure, reg *registry.Registry, cache *figure.Cache, post render.PostProcess, pathA, pathB layout.Path, minRatio float64) (layout.Element, render.PostProcess, []layout.Change, error) {
	target, lcaPath, err := Paths(tree, pathA, pathB, minRatio)
	if err != nil {
		return nil, nil, nil, err
	}

	rebuilt, forward, backward, err := apply.Rebuild(tree, lcaPath, target)
	if err != nil {
		return nil, nil, nil, err
	}

	post, err = apply.ToFigure(fig, reg, cache, post, forward)
	if err != nil {
		return nil, nil, nil, err
	}
	return rebuilt, post, backward, nil
}

// Unmerge applies a backward script previously returned by [Merge] to
// both the tree and the live surface.
func Unmerge(tree layout.Element, fig *figure.Figure, reg *registry.Registry, cache *figure.Cache, post render.PostProcess, script []layout.Change) (layout.Element, render.PostProcess, error) {
	restored, _, _, err := apply.ToLayout(tree, script)
	if err != nil {
		return nil, nil, err
	}
	post, err = apply.ToFigure(fig, reg, cache, post, script)
	if err != nil {
		return nil, nil, err
	}
	return restored, post, nil
}
