package apply

import (
	"testing"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/registry"
	"github.com/matzehuels/panegrid/pkg/render"
)

func twoPane() layout.Element {
	return &layout.Node{
		Orient:   layout.Row,
		Ratios:   layout.Ratios{70, 30},
		Children: [2]layout.Element{layout.Leaf("a"), layout.Leaf("b")},
	}
}

func TestToLayout_EveryOpUndoes(t *testing.T) {
	tree := twoPane()

	tests := []struct {
		name    string
		changes []layout.Change
	}{
		{"split", []layout.Change{{Op: layout.OpSplit, Path: layout.Path{0}, Orient: layout.Column}}},
		{"delete", []layout.Change{{Op: layout.OpDelete, Path: layout.Path{1}}}},
		{"replace", []layout.Change{{Op: layout.OpReplace, Path: layout.Path{0}, Value: layout.Leaf("c")}}},
		{"restructure", []layout.Change{{Op: layout.OpRestructure, Path: layout.Path{}, Ratios: layout.Ratios{10, 90}}}},
		{"rotate", []layout.Change{{Op: layout.OpRotate, Path: layout.Path{}}}},
		{"swap", []layout.Change{{Op: layout.OpSwap, Path: layout.Path{0}, Path2: layout.Path{1}}}},
		{"insert", []layout.Change{{Op: layout.OpInsert, Path: layout.Path{1, 0}, Orient: layout.Column, Ratios: layout.Ratios{20, 80}, Value: layout.Leaf("c")}}},
	}
	for _, tt := range tests {
		edited, inverses, _, err := ToLayout(tree, tt.changes)
		if err != nil {
			t.Errorf("%s: forward error: %v", tt.name, err)
			continue
		}
		restored, _, _, err := ToLayout(edited, inverses)
		if err != nil {
			t.Errorf("%s: undo error: %v", tt.name, err)
			continue
		}
		if !layout.Equal(restored, tree) {
			t.Errorf("%s: undo = %v, want original %v", tt.name, restored, tree)
		}
	}
}

func TestToLayout_InversesInUndoOrder(t *testing.T) {
	tree := twoPane()
	changes := []layout.Change{
		{Op: layout.OpSplit, Path: layout.Path{0}, Orient: layout.Column},
		{Op: layout.OpRestructure, Path: layout.Path{0}, Ratios: layout.Ratios{25, 75}},
		{Op: layout.OpReplace, Path: layout.Path{0, 1}, Value: layout.Leaf("c")},
	}

	edited, inverses, removed, err := ToLayout(tree, changes)
	if err != nil {
		t.Fatalf("ToLayout error: %v", err)
	}
	if len(inverses) != 3 {
		t.Fatalf("got %d inverses, want 3", len(inverses))
	}
	// The last applied change undoes first.
	if inverses[0].Op != layout.OpReplace || inverses[2].Op != layout.OpDelete {
		t.Errorf("inverse order = [%s %s %s]", inverses[0].Op, inverses[1].Op, inverses[2].Op)
	}

	if removed[0] != nil || removed[1] != nil {
		t.Errorf("split and restructure should remove nothing, got %v and %v", removed[0], removed[1])
	}
	if !layout.Equal(removed[2], layout.DefaultLeaf) {
		t.Errorf("replace removed = %v, want the split placeholder", removed[2])
	}

	restored, _, _, err := ToLayout(edited, inverses)
	if err != nil {
		t.Fatalf("undo error: %v", err)
	}
	if !layout.Equal(restored, tree) {
		t.Errorf("undo = %v, want %v", restored, tree)
	}
}

func TestToLayout_FailingStepAborts(t *testing.T) {
	tree := twoPane()
	changes := []layout.Change{
		{Op: layout.OpRotate, Path: layout.Path{}},
		{Op: layout.OpDelete, Path: layout.Path{0, 1}}, // no such node
	}
	if _, _, _, err := ToLayout(tree, changes); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestToLayout_UnknownOpRejected(t *testing.T) {
	if _, _, _, err := ToLayout(twoPane(), []layout.Change{{Op: "shuffle"}}); !errors.Is(err, errors.ErrCodeInvalidEdit) {
		t.Errorf("error = %v, want INVALID_EDIT", err)
	}
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := reg.Register(name, registry.Artifact(func(figure.Canvas) {})); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}
	return reg
}

func testFigure(t *testing.T, reg *registry.Registry, tree layout.Element) *figure.Figure {
	t.Helper()
	fig, _, err := render.RenderLayout(reg, tree, 8, 6)
	if err != nil {
		t.Fatalf("RenderLayout error: %v", err)
	}
	return fig
}

func TestToFigure_MirrorsLayoutChanges(t *testing.T) {
	tree := twoPane()
	reg := testRegistry(t)
	fig := testFigure(t, reg, tree)
	cache := figure.NewCache()

	changes := []layout.Change{
		{Op: layout.OpSplit, Path: layout.Path{0}, Orient: layout.Column},
		{Op: layout.OpReplace, Path: layout.Path{0, 1}, Value: layout.Leaf("c")},
		{Op: layout.OpRotate, Path: layout.Path{}},
		{Op: layout.OpRestructure, Path: layout.Path{}, Ratios: layout.Ratios{40, 60}},
		{Op: layout.OpSwap, Path: layout.Path{0, 0}, Path2: layout.Path{1}},
	}

	edited, _, _, err := ToLayout(tree, changes)
	if err != nil {
		t.Fatalf("ToLayout error: %v", err)
	}
	if _, err := ToFigure(fig, reg, cache, render.Identity, changes); err != nil {
		t.Fatalf("ToFigure error: %v", err)
	}
	if !layout.AlmostEqualElements(fig.Tree(), edited) {
		t.Errorf("surface tree = %v, want %v", fig.Tree(), edited)
	}
}

func TestToFigure_DeletedCellsLandInCache(t *testing.T) {
	tree := twoPane()
	reg := testRegistry(t)
	fig := testFigure(t, reg, tree)
	cache := figure.NewCache()

	changes := []layout.Change{{Op: layout.OpDelete, Path: layout.Path{1}}}
	if _, err := ToFigure(fig, reg, cache, render.Identity, changes); err != nil {
		t.Fatalf("ToFigure error: %v", err)
	}
	cell, ok := cache.Pop("b")
	if !ok {
		t.Fatal("deleted cell not cached under its leaf name")
	}
	if cell.Name() != "b" {
		t.Errorf("cached cell name = %q, want b", cell.Name())
	}
}

func TestToFigure_ReusesCachedCellOnUndo(t *testing.T) {
	tree := twoPane()
	reg := testRegistry(t)
	fig := testFigure(t, reg, tree)
	cache := figure.NewCache()

	forward := []layout.Change{{Op: layout.OpDelete, Path: layout.Path{1}}}
	edited, inverses, _, err := ToLayout(tree, forward)
	if err != nil {
		t.Fatalf("ToLayout error: %v", err)
	}
	if _, err := ToFigure(fig, reg, cache, render.Identity, forward); err != nil {
		t.Fatalf("forward ToFigure error: %v", err)
	}

	if _, _, _, err := ToLayout(edited, inverses); err != nil {
		t.Fatalf("undo ToLayout error: %v", err)
	}
	if _, err := ToFigure(fig, reg, cache, render.Identity, inverses); err != nil {
		t.Fatalf("undo ToFigure error: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("cache holds %d cells after undo, want 0", cache.Len())
	}
	if !layout.AlmostEqualElements(fig.Tree(), tree) {
		t.Errorf("surface tree = %v, want restored %v", fig.Tree(), tree)
	}
}

func TestToFigure_SubtreeValueRejected(t *testing.T) {
	tree := twoPane()
	reg := testRegistry(t)
	fig := testFigure(t, reg, tree)

	changes := []layout.Change{{Op: layout.OpReplace, Path: layout.Path{0}, Value: twoPane()}}
	if _, err := ToFigure(fig, reg, figure.NewCache(), render.Identity, changes); !errors.Is(err, errors.ErrCodeInvalidEdit) {
		t.Errorf("error = %v, want INVALID_EDIT", err)
	}
}
