package layout

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/panegrid/pkg/errors"
)

// The editor functions implement the pure structural edits. Every function
// clones its input, so the caller's tree is never mutated, and returns the
// new root plus the exact inverse [Change]. Delete, Replace and Insert
// additionally return the removed element.

// Split replaces the element at path with a node holding that element and
// [DefaultLeaf] under [DefaultRatios]. The inverse deletes the new leaf.
func Split(root Element, path Path, orient Orient) (Element, Change, error) {
	if !orient.Valid() {
		return nil, Change{}, errors.New(errors.ErrCodeInvalidEdit, "unknown orientation %q", orient)
	}
	root = Clone(root)
	elem, err := At(root, path)
	if err != nil {
		return nil, Change{}, err
	}
	newNode := &Node{
		Orient:   orient,
		Children: [2]Element{elem, DefaultLeaf},
		Ratios:   DefaultRatios,
	}
	root, err = Set(root, path, newNode)
	if err != nil {
		return nil, Change{}, err
	}
	return root, Change{Op: OpDelete, Path: path.Child(1)}, nil
}

// Delete removes the element at path; its parent collapses into the
// sibling. Deleting the root is rejected.
//
// The inverse is an insert restoring the removed element with the parent's
// orientation and ratios — except when the removed element is exactly
// [DefaultLeaf] at index 1 under [DefaultRatios], where the inverse
// collapses to the cheaper split.
func Delete(root Element, path Path) (Element, Change, Element, error) {
	if _, isLeaf := root.(Leaf); isLeaf || len(path) == 0 {
		return nil, Change{}, nil, errors.New(errors.ErrCodeInvalidEdit, "root layout cannot be deleted")
	}
	root = Clone(root)

	parentPath := path.Parent()
	ix := path[len(path)-1]
	if ix != 0 && ix != 1 {
		return nil, Change{}, nil, errors.New(errors.ErrCodeInvalidPath, "path index must be 0 or 1, got %d", ix)
	}

	parent, err := NodeAt(root, parentPath)
	if err != nil {
		return nil, Change{}, nil, err
	}
	removed := parent.Children[ix]
	sibling := parent.Children[1-ix]

	var backward Change
	if ix == 1 && parent.Ratios == DefaultRatios && Equal(removed, DefaultLeaf) {
		backward = Change{Op: OpSplit, Path: parentPath, Orient: parent.Orient}
	} else {
		backward = Change{
			Op:     OpInsert,
			Path:   path.Clone(),
			Orient: parent.Orient,
			Ratios: parent.Ratios,
			Value:  removed,
		}
	}

	root, err = Set(root, parentPath, sibling)
	if err != nil {
		return nil, Change{}, nil, err
	}
	return root, backward, removed, nil
}

// Replace swaps the element at path for value. Replacing an element with
// an equal one is rejected as a no-op. The inverse replaces back.
func Replace(root Element, path Path, value Element) (Element, Change, Element, error) {
	root = Clone(root)
	removed, err := At(root, path)
	if err != nil {
		return nil, Change{}, nil, err
	}
	if Equal(value, removed) {
		return nil, Change{}, nil, errors.New(errors.ErrCodeNoopEdit, "replaced with same content")
	}
	root, err = Set(root, path, value)
	if err != nil {
		return nil, Change{}, nil, err
	}
	return root, Change{Op: OpReplace, Path: path.Clone(), Value: removed}, removed, nil
}

// Restructure updates the ratios of the node at path. Ratios that are
// proportionally indistinguishable from the current ones are rejected as
// a no-op. Self-inverse with the prior ratios.
func Restructure(root Element, path Path, ratios Ratios) (Element, Change, error) {
	if _, isLeaf := root.(Leaf); isLeaf {
		return nil, Change{}, errors.New(errors.ErrCodeInvalidEdit, "cannot resize unsplit layout")
	}
	if err := errors.ValidateRatios([2]float64(ratios)); err != nil {
		return nil, Change{}, err
	}
	root = Clone(root)
	node, err := NodeAt(root, path)
	if err != nil {
		return nil, Change{}, err
	}
	prev := node.Ratios
	if prev.SameProportion(ratios) {
		return nil, Change{}, errors.New(errors.ErrCodeNoopEdit, "no or too small ratios change")
	}
	node.Ratios = ratios
	return root, Change{Op: OpRestructure, Path: path.Clone(), Ratios: prev}, nil
}

// Rotate flips the orientation of the node at path. Self-inverse.
func Rotate(root Element, path Path) (Element, Change, error) {
	if _, isLeaf := root.(Leaf); isLeaf {
		return nil, Change{}, errors.New(errors.ErrCodeInvalidEdit, "cannot rotate unsplit layout")
	}
	root = Clone(root)
	node, err := NodeAt(root, path)
	if err != nil {
		return nil, Change{}, err
	}
	node.Orient = node.Orient.Flip()
	return root, Change{Op: OpRotate, Path: path.Clone()}, nil
}

// Swap exchanges the elements at two arbitrary, possibly non-sibling,
// paths. Swapping a path with itself is a warned no-op, not an error.
// Self-inverse with the same two paths.
func Swap(root Element, path1, path2 Path) (Element, Change, error) {
	if _, isLeaf := root.(Leaf); isLeaf {
		return nil, Change{}, errors.New(errors.ErrCodeInvalidEdit, "cannot swap on unsplit layout")
	}
	backward := Change{Op: OpSwap, Path: path1.Clone(), Path2: path2.Clone()}
	if path1.Equal(path2) {
		charmlog.Warn("swapping an element with itself, nothing to do", "path", []int(path1))
		return Clone(root), backward, nil
	}
	if path1.IsPrefixOf(path2) || path2.IsPrefixOf(path1) {
		return nil, Change{}, errors.New(errors.ErrCodeInvalidEdit,
			"cannot swap an element with its own descendant (%v, %v)", path1, path2)
	}
	root = Clone(root)
	elem1, err := At(root, path1)
	if err != nil {
		return nil, Change{}, err
	}
	elem2, err := At(root, path2)
	if err != nil {
		return nil, Change{}, err
	}
	if root, err = Set(root, path1, elem2); err != nil {
		return nil, Change{}, err
	}
	if root, err = Set(root, path2, elem1); err != nil {
		return nil, Change{}, err
	}
	return root, backward, nil
}

// Insert places value at path by splitting the parent: split in orient,
// restructure to ratios, swap the children when inserting at index 0, and
// replace the placeholder with value. The restructure and replace steps
// are skipped when they would be no-ops. The inverse is a single delete;
// the returned removed element is the consumed [DefaultLeaf] placeholder.
func Insert(root Element, path Path, orient Orient, ratios Ratios, value Element) (Element, Change, Element, error) {
	if len(path) == 0 {
		return nil, Change{}, nil, errors.New(errors.ErrCodeInvalidEdit, "cannot insert as root")
	}
	parentPath := path.Parent()
	ix := path[len(path)-1]

	root, _, err := Split(root, parentPath, orient)
	if err != nil {
		return nil, Change{}, nil, err
	}
	if !ratios.SameProportion(DefaultRatios) {
		if root, _, err = Restructure(root, parentPath, ratios); err != nil {
			return nil, Change{}, nil, err
		}
	}
	if ix == 0 {
		if root, _, err = Swap(root, parentPath.Child(0), parentPath.Child(1)); err != nil {
			return nil, Change{}, nil, err
		}
	}
	curr, err := At(root, path)
	if err != nil {
		return nil, Change{}, nil, err
	}
	if !Equal(curr, value) {
		if root, _, _, err = Replace(root, path, value); err != nil {
			return nil, Change{}, nil, err
		}
	}
	return root, Change{Op: OpDelete, Path: path.Clone()}, DefaultLeaf, nil
}
