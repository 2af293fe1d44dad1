package figure

import (
	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// Split wraps the container at path in a new inner container split in
// the given orientation. The old container keeps slot 0; the new
// sibling leaf displaying cell takes slot 1 at default 50/50 ratios.
func (f *Figure) Split(path layout.Path, orient layout.Orient, cell *Cell) error {
	if !orient.Valid() {
		return errors.New(errors.ErrCodeInvalidEdit, "unknown orientation %q", orient)
	}
	id, err := f.ContainerAt(path)
	if err != nil {
		return err
	}
	old := f.containers[id]
	parent, slot := old.parent, old.slot

	wrapID := f.alloc(&container{
		parent: parent,
		slot:   slot,
		orient: orient,
		ratios: layout.DefaultRatios,
	})
	siblingID := f.alloc(&container{parent: wrapID, slot: 1, cell: cell})

	wrap := f.containers[wrapID]
	wrap.children = [2]ContainerID{id, siblingID}
	old.parent, old.slot = wrapID, 0

	if parent == NoContainer {
		f.root = wrapID
	} else {
		f.containers[parent].children[slot] = wrapID
	}
	return nil
}

// Delete detaches the container subtree at path and promotes its
// sibling into the parent's place, collapsing one tree level. The
// detached subtree's cells are returned in leaf order so the caller can
// route them into the cache.
func (f *Figure) Delete(path layout.Path) ([]*Cell, error) {
	if len(path) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidEdit, "cannot delete the root container")
	}
	parentID, err := f.ContainerAt(path.Parent())
	if err != nil {
		return nil, err
	}
	parent := f.containers[parentID]
	if parent.isLeaf() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "container at path %v is not split", path.Parent())
	}

	idx := path[len(path)-1]
	if idx != 0 && idx != 1 {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path index must be 0 or 1, got %d", idx)
	}
	removedID := parent.children[idx]
	siblingID := parent.children[1-idx]

	sibling := f.containers[siblingID]
	sibling.parent = parent.parent
	sibling.slot = parent.slot
	if parent.parent == NoContainer {
		f.root = siblingID
	} else {
		f.containers[parent.parent].children[parent.slot] = siblingID
	}
	delete(f.containers, parentID)

	return f.detach(removedID), nil
}

// Replace installs cell at the container addressed by path, returning
// the cells it displaces. Replacing an inner container detaches its
// whole subtree and turns it back into a leaf.
func (f *Figure) Replace(path layout.Path, cell *Cell) ([]*Cell, error) {
	id, err := f.ContainerAt(path)
	if err != nil {
		return nil, err
	}
	c := f.containers[id]
	if c.isLeaf() {
		old := c.cell
		c.cell = cell
		return []*Cell{old}, nil
	}

	cells := f.detach(c.children[0])
	cells = append(cells, f.detach(c.children[1])...)
	c.children = [2]ContainerID{}
	c.orient = ""
	c.ratios = layout.Ratios{}
	c.cell = cell
	return cells, nil
}

// Restructure updates the ratio weights of the split at path.
func (f *Figure) Restructure(path layout.Path, ratios layout.Ratios) error {
	if err := errors.ValidateRatios(ratios); err != nil {
		return err
	}
	id, err := f.ContainerAt(path)
	if err != nil {
		return err
	}
	c := f.containers[id]
	if c.isLeaf() {
		return errors.New(errors.ErrCodeInvalidEdit, "cannot resize an unsplit container at path %v", path)
	}
	c.ratios = ratios
	return nil
}

// Rotate flips the split axis of the container at path.
func (f *Figure) Rotate(path layout.Path) error {
	id, err := f.ContainerAt(path)
	if err != nil {
		return err
	}
	c := f.containers[id]
	if c.isLeaf() {
		return errors.New(errors.ErrCodeInvalidEdit, "cannot rotate an unsplit container at path %v", path)
	}
	c.orient = c.orient.Flip()
	return nil
}

// Swap exchanges the containers at two arbitrary paths, updating both
// parents' child slots and both containers' parent back-references.
// Cross-parent swaps are legal; swapping a container with one of its
// own descendants is not. Equal paths are a no-op.
func (f *Figure) Swap(p1, p2 layout.Path) error {
	if p1.Equal(p2) {
		return nil
	}
	if p1.IsPrefixOf(p2) || p2.IsPrefixOf(p1) {
		return errors.New(errors.ErrCodeInvalidEdit,
			"cannot swap a container with its own descendant (%v, %v)", p1, p2)
	}
	aID, err := f.ContainerAt(p1)
	if err != nil {
		return err
	}
	bID, err := f.ContainerAt(p2)
	if err != nil {
		return err
	}

	a, b := f.containers[aID], f.containers[bID]
	aParent, aSlot := a.parent, a.slot
	bParent, bSlot := b.parent, b.slot

	a.parent, a.slot = bParent, bSlot
	b.parent, b.slot = aParent, aSlot

	if aParent == NoContainer {
		f.root = bID
	} else {
		f.containers[aParent].children[aSlot] = bID
	}
	if bParent == NoContainer {
		f.root = aID
	} else {
		f.containers[bParent].children[bSlot] = aID
	}
	return nil
}

// Insert mirrors the composite abstract insert: the container at the
// parent path is split in orient, resized to ratios, the children are
// swapped when the insertion targets slot 0, and cell is installed in
// the target slot. The transient placeholder cell is discarded rather
// than cached since it was never displayed.
func (f *Figure) Insert(path layout.Path, orient layout.Orient, ratios layout.Ratios, cell *Cell) error {
	if len(path) == 0 {
		return errors.New(errors.ErrCodeInvalidEdit, "cannot insert at the root path")
	}
	parentPath := path.Parent()
	if err := f.Split(parentPath, orient, NewCell(string(layout.DefaultLeaf))); err != nil {
		return err
	}
	if err := f.Restructure(parentPath, ratios); err != nil {
		return err
	}
	if path[len(path)-1] == 0 {
		if err := f.Swap(parentPath.Child(0), parentPath.Child(1)); err != nil {
			return err
		}
	}
	_, err := f.Replace(path, cell)
	return err
}

// Resize changes the overall canvas dimensions without touching the
// container structure.
func (f *Figure) Resize(width, height float64) error {
	if err := errors.ValidateFigSize(width, height); err != nil {
		return err
	}
	f.width = width
	f.height = height
	return nil
}
