// Package figure is the live rendering surface: an arena of containers
// mirroring the abstract layout tree one-to-one. Containers are
// addressed by stable integer handles so that structural edits,
// including cross-parent swaps, are plain index updates. Every editor
// method keeps the surface's shape isomorphic to the abstract tree whose
// edit it mirrors.
package figure

import (
	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// ContainerID is a stable handle into the figure's container arena. The
// zero value is never a valid handle.
type ContainerID int

// NoContainer is the null handle.
const NoContainer ContainerID = 0

// container is one region of the surface. A leaf container owns a cell;
// an inner container owns two ordered children plus the split metadata.
type container struct {
	parent   ContainerID
	slot     int
	orient   layout.Orient
	ratios   layout.Ratios
	children [2]ContainerID
	cell     *Cell
}

func (c *container) isLeaf() bool { return c.cell != nil }

// Figure is the root canvas plus the arena of containers partitioning
// it. Width and height are in abstract figure units; serialization
// scales them by DPI.
type Figure struct {
	width      float64
	height     float64
	root       ContainerID
	containers map[ContainerID]*container
	next       ContainerID
}

// New creates a figure whose whole canvas is a single leaf container
// displaying the given cell.
func New(width, height float64, cell *Cell) (*Figure, error) {
	if err := errors.ValidateFigSize(width, height); err != nil {
		return nil, err
	}
	f := &Figure{
		width:      width,
		height:     height,
		containers: make(map[ContainerID]*container),
		next:       1,
	}
	f.root = f.alloc(&container{cell: cell})
	return f, nil
}

func (f *Figure) alloc(c *container) ContainerID {
	id := f.next
	f.next++
	f.containers[id] = c
	return id
}

// Width returns the canvas width in figure units.
func (f *Figure) Width() float64 { return f.width }

// Height returns the canvas height in figure units.
func (f *Figure) Height() float64 { return f.height }

// Root returns the handle of the root container.
func (f *Figure) Root() ContainerID { return f.root }

// ContainerAt walks the surface along a path of binary indices, with
// the same strictness as abstract tree traversal: every index must be 0
// or 1 and the walk must not run through a leaf container.
func (f *Figure) ContainerAt(path layout.Path) (ContainerID, error) {
	if err := path.Validate(); err != nil {
		return NoContainer, err
	}
	id := f.root
	for depth, idx := range path {
		c := f.containers[id]
		if c.isLeaf() {
			return NoContainer, errors.New(errors.ErrCodeInvalidPath,
				"path runs through a leaf container at depth %d", depth)
		}
		id = c.children[idx]
	}
	return id, nil
}

// CellAt returns the cell of the leaf container at path.
func (f *Figure) CellAt(path layout.Path) (*Cell, error) {
	id, err := f.ContainerAt(path)
	if err != nil {
		return nil, err
	}
	c := f.containers[id]
	if !c.isLeaf() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "container at path %v is not a leaf", path)
	}
	return c.cell, nil
}

// Tree extracts the surface's structural shape as an abstract layout
// tree, with each leaf named after the cell it displays. The editor
// methods guarantee this matches the abstract tree they mirror.
func (f *Figure) Tree() layout.Element {
	return f.subtree(f.root)
}

func (f *Figure) subtree(id ContainerID) layout.Element {
	c := f.containers[id]
	if c.isLeaf() {
		return layout.Leaf(c.cell.Name())
	}
	return &layout.Node{
		Orient: c.orient,
		Ratios: c.ratios,
		Children: [2]layout.Element{
			f.subtree(c.children[0]),
			f.subtree(c.children[1]),
		},
	}
}

// Leaves returns the cells of all leaf containers in left-to-right tree
// order.
func (f *Figure) Leaves() []*Cell {
	var cells []*Cell
	f.collect(f.root, &cells)
	return cells
}

func (f *Figure) collect(id ContainerID, cells *[]*Cell) {
	c := f.containers[id]
	if c.isLeaf() {
		*cells = append(*cells, c.cell)
		return
	}
	f.collect(c.children[0], cells)
	f.collect(c.children[1], cells)
}

// detach removes the subtree rooted at id from the arena and returns
// its cells in leaf order.
func (f *Figure) detach(id ContainerID) []*Cell {
	c := f.containers[id]
	delete(f.containers, id)
	if c.isLeaf() {
		return []*Cell{c.cell}
	}
	cells := f.detach(c.children[0])
	return append(cells, f.detach(c.children[1])...)
}
