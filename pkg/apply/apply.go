// Package apply folds ordered change scripts through the layout editor
// and mirrors them onto the live rendering surface, keeping both trees
// in lockstep. It also computes the minimal change script transforming
// one tree into another, which drives merge and unmerge.
package apply

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/registry"
	"github.com/matzehuels/panegrid/pkg/render"
)

// ToLayout applies the changes to the tree in order. It returns the new
// tree, the per-step inverses reversed into undo order, and the removed
// elements parallel to the input changes (nil where a step removed
// nothing). A failing step aborts the fold; earlier steps are not rolled
// back, the caller owns sequence-level atomicity.
func ToLayout(tree layout.Element, changes []layout.Change) (layout.Element, []layout.Change, []layout.Element, error) {
	inverses := make([]layout.Change, 0, len(changes))
	removed := make([]layout.Element, 0, len(changes))

	for _, c := range changes {
		var (
			inv layout.Change
			rem layout.Element
			err error
		)
		switch c.Op {
		case layout.OpSplit:
			tree, inv, err = layout.Split(tree, c.Path, c.Orient)
		case layout.OpDelete:
			tree, inv, rem, err = layout.Delete(tree, c.Path)
		case layout.OpReplace:
			tree, inv, rem, err = layout.Replace(tree, c.Path, c.Value)
		case layout.OpRestructure:
			tree, inv, err = layout.Restructure(tree, c.Path, c.Ratios)
		case layout.OpRotate:
			tree, inv, err = layout.Rotate(tree, c.Path)
		case layout.OpSwap:
			tree, inv, err = layout.Swap(tree, c.Path, c.Path2)
		case layout.OpInsert:
			tree, inv, rem, err = layout.Insert(tree, c.Path, c.Orient, c.Ratios, c.Value)
		default:
			err = errors.New(errors.ErrCodeInvalidEdit, "unknown change op %q", c.Op)
		}
		if err != nil {
			return nil, nil, nil, err
		}
		charmlog.Debug("applied layout change", "change", c.String())
		inverses = append(inverses, inv)
		removed = append(removed, rem)
	}

	// Undo order is the reverse of application order.
	for i, j := 0, len(inverses)-1; i < j; i, j = i+1, j-1 {
		inverses[i], inverses[j] = inverses[j], inverses[i]
	}
	return tree, inverses, removed, nil
}

// ToFigure mirrors an already layout-validated change script onto the
// live surface. Detached cells are routed into the cache under the leaf
// name they displayed; cells for incoming leaves are popped from the
// cache when available and produced fresh otherwise. Each step's post
// processor is composed onto the running one, outer after inner.
//
// Only leaf values can be installed on the surface: an insert or
// replace carrying a subtree value is rejected.
func ToFigure(fig *figure.Figure, reg *registry.Registry, cache *figure.Cache, post render.PostProcess, changes []layout.Change) (render.PostProcess, error) {
	if post == nil {
		post = render.Identity
	}
	for _, c := range changes {
		var err error
		switch c.Op {
		case layout.OpSplit:
			post, err = install(fig, reg, cache, post, c, string(layout.DefaultLeaf))
		case layout.OpDelete:
			var cells []*figure.Cell
			if cells, err = fig.Delete(c.Path); err == nil {
				stash(cache, cells)
			}
		case layout.OpReplace, layout.OpInsert:
			var name string
			if name, err = leafName(c.Value); err == nil {
				post, err = install(fig, reg, cache, post, c, name)
			}
		case layout.OpRestructure:
			err = fig.Restructure(c.Path, c.Ratios)
		case layout.OpRotate:
			err = fig.Rotate(c.Path)
		case layout.OpSwap:
			err = fig.Swap(c.Path, c.Path2)
		default:
			err = errors.New(errors.ErrCodeInvalidEdit, "unknown change op %q", c.Op)
		}
		if err != nil {
			return post, err
		}
	}
	return post, nil
}

// install obtains a drawer cell for name and wires it into the surface
// according to the change's op.
func install(fig *figure.Figure, reg *registry.Registry, cache *figure.Cache, post render.PostProcess, c layout.Change, name string) (render.PostProcess, error) {
	cell, stepPost, err := drawer(reg, cache, name)
	if err != nil {
		return post, err
	}
	switch c.Op {
	case layout.OpSplit:
		err = fig.Split(c.Path, c.Orient, cell)
	case layout.OpInsert:
		err = fig.Insert(c.Path, c.Orient, c.Ratios, cell)
	case layout.OpReplace:
		var old []*figure.Cell
		if old, err = fig.Replace(c.Path, cell); err == nil {
			stash(cache, old)
		}
	}
	if err != nil {
		return post, err
	}
	return render.Compose(stepPost, post), nil
}

// drawer pops a previously detached cell for name from the cache, or
// runs the registered producer when none is cached. Cached cells keep
// their recorded drawing and any marker, so no new post processing is
// needed for them.
func drawer(reg *registry.Registry, cache *figure.Cache, name string) (*figure.Cell, render.PostProcess, error) {
	if cell, ok := cache.Pop(name); ok {
		charmlog.Debug("reusing cached cell", "leaf", name)
		return cell, render.Identity, nil
	}
	return render.RunProducer(reg, name)
}

func stash(cache *figure.Cache, cells []*figure.Cell) {
	for _, cell := range cells {
		cache.Put(cell)
	}
}

func leafName(e layout.Element) (string, error) {
	leaf, ok := e.(layout.Leaf)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidEdit,
			"only leaf values can be installed on the surface, got %T", e)
	}
	return string(leaf), nil
}
