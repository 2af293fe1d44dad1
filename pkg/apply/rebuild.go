package apply

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// Rebuild computes a change script transforming the subtree of tree at
// lcaPath into the corresponding subtree of target, applies it, and
// returns the rebuilt tree together with the forward script and its
// backward (undo) script.
//
// The diff walks both subtrees by position: equal elements emit
// nothing, a leaf facing a different leaf is replaced, a leaf facing a
// node is split and recursed into, a node facing a leaf collapses by
// deleting its second child, and orientation or ratio mismatches emit
// rotate or restructure. Children are never cross-matched, so a
// reordering elsewhere in the tree yields a longer script than strictly
// necessary; guillotine layouts are positionally ordered by
// construction, which keeps this cheap diff exact in practice.
func Rebuild(tree layout.Element, lcaPath layout.Path, target layout.Element) (layout.Element, []layout.Change, []layout.Change, error) {
	cur, err := layout.At(tree, lcaPath)
	if err != nil {
		return nil, nil, nil, err
	}
	tgt, err := layout.At(target, lcaPath)
	if err != nil {
		return nil, nil, nil, err
	}

	var forward []layout.Change
	diff(cur, tgt, lcaPath.Clone(), &forward)

	rebuilt, backward, _, err := ToLayout(tree, forward)
	if err != nil {
		return nil, nil, nil, err
	}

	got, err := layout.At(rebuilt, lcaPath)
	if err != nil {
		return nil, nil, nil, err
	}
	// The diff treats ratios as weights, so the self-check must too:
	// restructure is skipped for proportionally equal ratios and the
	// rebuilt subtree may keep a different absolute scale than target.
	if !layout.EquivalentElements(got, tgt) {
		charmlog.Error("rebuild script does not reproduce the target subtree",
			"path", []int(lcaPath), "steps", len(forward))
		return nil, nil, nil, errors.New(errors.ErrCodeInternal,
			"rebuild produced a diverging subtree at path %v", lcaPath)
	}
	return rebuilt, forward, backward, nil
}

func diff(cur, tgt layout.Element, path layout.Path, out *[]layout.Change) {
	curNode, curIsNode := cur.(*layout.Node)
	tgtNode, tgtIsNode := tgt.(*layout.Node)

	switch {
	case !curIsNode && !tgtIsNode:
		if cur != tgt {
			*out = append(*out, layout.Change{Op: layout.OpReplace, Path: path.Clone(), Value: tgt})
		}

	case !curIsNode && tgtIsNode:
		*out = append(*out, layout.Change{Op: layout.OpSplit, Path: path.Clone(), Orient: tgtNode.Orient})
		if !layout.DefaultRatios.SameProportion(tgtNode.Ratios) {
			*out = append(*out, layout.Change{Op: layout.OpRestructure, Path: path.Clone(), Ratios: tgtNode.Ratios})
		}
		diff(cur, tgtNode.Children[0], path.Child(0), out)
		diff(layout.DefaultLeaf, tgtNode.Children[1], path.Child(1), out)

	case curIsNode && !tgtIsNode:
		*out = append(*out, layout.Change{Op: layout.OpDelete, Path: path.Child(1)})
		diff(curNode.Children[0], tgt, path, out)

	default:
		if curNode.Orient != tgtNode.Orient {
			*out = append(*out, layout.Change{Op: layout.OpRotate, Path: path.Clone()})
		}
		if !curNode.Ratios.SameProportion(tgtNode.Ratios) {
			*out = append(*out, layout.Change{Op: layout.OpRestructure, Path: path.Clone(), Ratios: tgtNode.Ratios})
		}
		diff(curNode.Children[0], tgtNode.Children[0], path.Child(0), out)
		diff(curNode.Children[1], tgtNode.Children[1], path.Child(1), out)
	}
}
