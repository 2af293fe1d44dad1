// Package layout defines the abstract split-pane layout tree and the pure
// structural edits over it.
//
// A layout is a strict binary tree: every [Node] splits its region into
// exactly two children along one axis, weighted by a pair of ratios. A
// [Leaf] is a terminal string naming a content producer. Nodes carry no
// identity beyond their structural position; elements are addressed by
// [Path] values of 0/1 child indices.
//
// All edits in this package are copy-on-write: editor functions clone the
// input tree and return the new tree together with the exact inverse
// [Change] and any removed element. Applying a change and then its inverse
// reproduces the original tree.
package layout

import (
	"math"

	"github.com/matzehuels/panegrid/pkg/errors"
)

// Orient is the split axis of a node.
type Orient string

// Split orientations. A row node places its children side by side,
// a column node stacks them.
const (
	Row    Orient = "row"
	Column Orient = "column"
)

// Flip returns the opposite orientation.
func (o Orient) Flip() Orient {
	if o == Row {
		return Column
	}
	return Row
}

// Valid reports whether o is a known orientation.
func (o Orient) Valid() bool { return o == Row || o == Column }

// Ratios holds the relative size split between the two children of a node.
// The values are weights and are not required to sum to any particular total.
type Ratios [2]float64

// SameProportion reports whether two ratio pairs describe the same
// split within [Epsilon], regardless of their absolute scale.
func (r Ratios) SameProportion(other Ratios) bool {
	return AlmostEqual(r[0]/r[1], other[0]/other[1])
}

// DefaultLeaf is the placeholder content producer installed by split.
const DefaultLeaf = Leaf("draw_empty")

// DefaultRatios is the even split installed by split.
var DefaultRatios = Ratios{50, 50}

// Epsilon is the tolerance for float comparisons throughout the engine.
const Epsilon = 1e-9

// AlmostEqual reports whether two floats are equal within [Epsilon].
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Element is either a [Leaf] or a [*Node].
type Element interface {
	element()
}

// Leaf is a terminal tree element naming a content producer.
type Leaf string

func (Leaf) element() {}

// Node is an inner tree element splitting its region into two children.
type Node struct {
	Orient   Orient
	Children [2]Element
	Ratios   Ratios
}

func (*Node) element() {}

// Path addresses an element from the root by repeated child-index steps.
// Each step must be 0 or 1; the empty path denotes the root.
type Path []int

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether two paths are identical.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns the path without its last step.
// Calling Parent on the empty path returns the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].Clone()
}

// IsPrefixOf reports whether p addresses an ancestor of (or the same
// element as) the element other addresses.
func (p Path) IsPrefixOf(other Path) bool {
	if len(p) > len(other) {
		return false
	}
	for i, ix := range p {
		if other[i] != ix {
			return false
		}
	}
	return true
}

// Child returns the path extended by one step.
func (p Path) Child(ix int) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, ix)
}

// Validate checks that every step is a binary index.
func (p Path) Validate() error {
	for _, ix := range p {
		if ix != 0 && ix != 1 {
			return errors.New(errors.ErrCodeInvalidPath, "path index must be 0 or 1, got %d", ix)
		}
	}
	return nil
}

// Clone returns a deep copy of the element.
func Clone(e Element) Element {
	switch v := e.(type) {
	case Leaf:
		return v
	case *Node:
		return &Node{
			Orient:   v.Orient,
			Children: [2]Element{Clone(v.Children[0]), Clone(v.Children[1])},
			Ratios:   v.Ratios,
		}
	default:
		return nil
	}
}

// Equal reports exact structural equality, including ratios bit-for-bit.
func Equal(a, b Element) bool {
	la, aIsLeaf := a.(Leaf)
	lb, bIsLeaf := b.(Leaf)
	if aIsLeaf || bIsLeaf {
		return aIsLeaf && bIsLeaf && la == lb
	}
	na, nb := a.(*Node), b.(*Node)
	if na == nil || nb == nil {
		return na == nb
	}
	return na.Orient == nb.Orient &&
		na.Ratios == nb.Ratios &&
		Equal(na.Children[0], nb.Children[0]) &&
		Equal(na.Children[1], nb.Children[1])
}

// AlmostEqualElements reports structural equality with ratio comparison
// within [Epsilon]. Used by the render fast-track to detect unchanged trees.
func AlmostEqualElements(a, b Element) bool {
	la, aIsLeaf := a.(Leaf)
	lb, bIsLeaf := b.(Leaf)
	if aIsLeaf || bIsLeaf {
		return aIsLeaf && bIsLeaf && la == lb
	}
	na, nb := a.(*Node), b.(*Node)
	if na == nil || nb == nil {
		return na == nb
	}
	return na.Orient == nb.Orient &&
		AlmostEqual(na.Ratios[0], nb.Ratios[0]) &&
		AlmostEqual(na.Ratios[1], nb.Ratios[1]) &&
		AlmostEqualElements(na.Children[0], nb.Children[0]) &&
		AlmostEqualElements(na.Children[1], nb.Children[1])
}

// EquivalentElements reports structural equality with ratios compared
// proportionally (see [Ratios.SameProportion]). Ratios are weights, so
// {1, 1} and {50, 50} describe the same tree.
func EquivalentElements(a, b Element) bool {
	la, aIsLeaf := a.(Leaf)
	lb, bIsLeaf := b.(Leaf)
	if aIsLeaf || bIsLeaf {
		return aIsLeaf && bIsLeaf && la == lb
	}
	na, nb := a.(*Node), b.(*Node)
	if na == nil || nb == nil {
		return na == nb
	}
	return na.Orient == nb.Orient &&
		na.Ratios.SameProportion(nb.Ratios) &&
		EquivalentElements(na.Children[0], nb.Children[0]) &&
		EquivalentElements(na.Children[1], nb.Children[1])
}

// Leaves returns all leaf names in depth-first order (child 0 first).
// Duplicate names appear as often as they occur.
func Leaves(e Element) []string {
	var out []string
	var walk func(Element)
	walk = func(el Element) {
		switch v := el.(type) {
		case Leaf:
			out = append(out, string(v))
		case *Node:
			walk(v.Children[0])
			walk(v.Children[1])
		}
	}
	walk(e)
	return out
}

// FindLeaf returns the path to the first leaf with the given name
// in depth-first order. The second return is false if no leaf matches.
func FindLeaf(e Element, name string) (Path, bool) {
	var found Path
	ok := false
	var walk func(Element, Path)
	walk = func(el Element, p Path) {
		if ok {
			return
		}
		switch v := el.(type) {
		case Leaf:
			if string(v) == name {
				found = p.Clone()
				ok = true
			}
		case *Node:
			walk(v.Children[0], p.Child(0))
			walk(v.Children[1], p.Child(1))
		}
	}
	walk(e, Path{})
	return found, ok
}

// Validate checks structural invariants of a tree: known orientations,
// positive ratios, and valid leaf names.
func Validate(e Element) error {
	switch v := e.(type) {
	case Leaf:
		return errors.ValidateLeafName(string(v))
	case *Node:
		if !v.Orient.Valid() {
			return errors.New(errors.ErrCodeInvalidLayout, "unknown orientation %q", v.Orient)
		}
		if err := errors.ValidateRatios([2]float64(v.Ratios)); err != nil {
			return err
		}
		if err := Validate(v.Children[0]); err != nil {
			return err
		}
		return Validate(v.Children[1])
	case nil:
		return errors.New(errors.ErrCodeInvalidLayout, "layout element is nil")
	default:
		return errors.New(errors.ErrCodeInvalidLayout, "unknown element type %T", e)
	}
}
