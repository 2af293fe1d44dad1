package merge

import (
	"testing"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/geometry"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/registry"
	"github.com/matzehuels/panegrid/pkg/render"
)

// simpleRoot is a six-panel layout: a 70/30 row of two nested column
// stacks. f2l and f4r touch across the row cut and can merge; f1l and
// f4r only share a corner.
func simpleRoot() layout.Element {
	return &layout.Node{
		Orient: layout.Row,
		Ratios: layout.Ratios{70, 30},
		Children: [2]layout.Element{
			&layout.Node{
				Orient: layout.Column,
				Ratios: layout.Ratios{30, 70},
				Children: [2]layout.Element{
					layout.Leaf("f1l"),
					&layout.Node{
						Orient:   layout.Column,
						Ratios:   layout.Ratios{30, 70},
						Children: [2]layout.Element{layout.Leaf("f2l"), layout.Leaf("f6l")},
					},
				},
			},
			&layout.Node{
				Orient: layout.Column,
				Ratios: layout.Ratios{30, 70},
				Children: [2]layout.Element{
					layout.Leaf("f3r"),
					&layout.Node{
						Orient:   layout.Column,
						Ratios:   layout.Ratios{50, 50},
						Children: [2]layout.Element{layout.Leaf("f4r"), layout.Leaf("f5r")},
					},
				},
			},
		},
	}
}

func boxes(t *testing.T, e layout.Element) map[string]geometry.BoundingBox {
	t.Helper()
	mapping, err := geometry.Mapping(e)
	if err != nil {
		t.Fatalf("Mapping error: %v", err)
	}
	return mapping
}

func boxAlmostEqual(a, b geometry.BoundingBox) bool {
	return geometry.AlmostEqual(a.XMin, b.XMin) && geometry.AlmostEqual(a.XMax, b.XMax) &&
		geometry.AlmostEqual(a.YMin, b.YMin) && geometry.AlmostEqual(a.YMax, b.YMax)
}

func TestPaths_MakesLeavesSiblings(t *testing.T) {
	tree := simpleRoot()

	merged, lcaPath, err := Paths(tree, layout.Path{0, 1, 0}, layout.Path{1, 1, 0}, 0)
	if err != nil {
		t.Fatalf("Paths error: %v", err)
	}
	if !lcaPath.Equal(layout.Path{}) {
		t.Errorf("lcaPath = %v, want root", lcaPath)
	}

	pathA, ok := layout.FindLeaf(merged, "f2l")
	if !ok {
		t.Fatal("f2l missing from merged tree")
	}
	pathB, ok := layout.FindLeaf(merged, "f4r")
	if !ok {
		t.Fatal("f4r missing from merged tree")
	}
	if !pathA.Parent().Equal(pathB.Parent()) {
		t.Errorf("f2l at %v and f4r at %v are not siblings", pathA, pathB)
	}

	parent, err := layout.NodeAt(merged, pathA.Parent())
	if err != nil {
		t.Fatalf("NodeAt error: %v", err)
	}
	if parent.Orient != layout.Row {
		t.Errorf("merged node orient = %q, want row", parent.Orient)
	}
	// f2l spans x 0..0.7, f4r 0.7..1.
	if !layout.AlmostEqual(parent.Ratios[0], 70) || !layout.AlmostEqual(parent.Ratios[1], 30) {
		t.Errorf("merged node ratios = %v, want 70/30", parent.Ratios)
	}
}

func TestPaths_PreservesUntouchedRegions(t *testing.T) {
	tree := simpleRoot()
	before := boxes(t, tree)

	merged, _, err := Paths(tree, layout.Path{0, 1, 0}, layout.Path{1, 1, 0}, 0)
	if err != nil {
		t.Fatalf("Paths error: %v", err)
	}
	after := boxes(t, merged)

	for _, name := range []string{"f1l", "f3r", "f5r"} {
		if !boxAlmostEqual(after[name], before[name]) {
			t.Errorf("%s moved: %+v, want %+v", name, after[name], before[name])
		}
	}

	// f6l's top edge sat on f2l's bottom cut, which followed the merge
	// down to f4r's extent.
	wantF6l := geometry.BoundingBox{XMin: 0, XMax: 0.7, YMin: 0.65, YMax: 1}
	if !boxAlmostEqual(after["f6l"], wantF6l) {
		t.Errorf("f6l = %+v, want %+v", after["f6l"], wantF6l)
	}

	// The merged pair covers the union of its rectified parts.
	union := geometry.Union(after["f2l"], after["f4r"])
	wantUnion := geometry.BoundingBox{XMin: 0, XMax: 1, YMin: 0.3, YMax: 0.65}
	if !boxAlmostEqual(union, wantUnion) {
		t.Errorf("merged region = %+v, want %+v", union, wantUnion)
	}
}

func TestPaths_Rejections(t *testing.T) {
	tree := simpleRoot()

	tests := []struct {
		name         string
		pathA, pathB layout.Path
	}{
		{"same_leaf", layout.Path{0, 0}, layout.Path{0, 0}},
		{"already_siblings", layout.Path{1, 1, 0}, layout.Path{1, 1, 1}},
		{"corner_touch", layout.Path{0, 0}, layout.Path{1, 1, 0}},
		{"no_overlap", layout.Path{0, 0}, layout.Path{1, 1, 1}},
		{"small_overlap", layout.Path{0, 1, 1}, layout.Path{1, 1, 0}},
	}
	for _, tt := range tests {
		if _, _, err := Paths(tree, tt.pathA, tt.pathB, 0); !errors.Is(err, errors.ErrCodeMergeFailed) {
			t.Errorf("%s: error = %v, want MERGE_FAILED", tt.name, err)
		}
	}
}

func TestPaths_NodePathRejected(t *testing.T) {
	if _, _, err := Paths(simpleRoot(), layout.Path{0}, layout.Path{1, 0}, 0); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func mergeFixture(t *testing.T, tree layout.Element) (layout.Element, *figure.Figure, *registry.Registry, *figure.Cache, render.PostProcess) {
	t.Helper()
	reg := registry.New()
	for _, name := range layout.Leaves(tree) {
		if _, err := reg.Register(name, registry.Artifact(func(figure.Canvas) {})); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}
	fig, post, err := render.RenderLayout(reg, tree, 8, 6)
	if err != nil {
		t.Fatalf("RenderLayout error: %v", err)
	}
	return tree, fig, reg, figure.NewCache(), post
}

func TestMerge_KeepsSurfaceInLockstep(t *testing.T) {
	tree, fig, reg, cache, post := mergeFixture(t, simpleRoot())

	merged, _, backward, err := Merge(tree, fig, reg, cache, post, layout.Path{0, 1, 0}, layout.Path{1, 1, 0}, 0)
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if len(backward) == 0 {
		t.Fatal("backward script is empty")
	}
	if !layout.AlmostEqualElements(fig.Tree(), merged) {
		t.Errorf("surface tree = %v, want %v", fig.Tree(), merged)
	}
}

func TestMerge_UnmergeRestoresTree(t *testing.T) {
	tree, fig, reg, cache, post := mergeFixture(t, simpleRoot())

	merged, post, backward, err := Merge(tree, fig, reg, cache, post, layout.Path{0, 1, 0}, layout.Path{1, 1, 0}, 0)
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}

	restored, _, err := Unmerge(merged, fig, reg, cache, post, backward)
	if err != nil {
		t.Fatalf("Unmerge error: %v", err)
	}
	if !layout.AlmostEqualElements(restored, tree) {
		t.Errorf("restored tree = %v, want %v", restored, tree)
	}
	if !layout.AlmostEqualElements(fig.Tree(), tree) {
		t.Errorf("surface tree = %v, want %v", fig.Tree(), tree)
	}
}

// weightGrid is a 2x2 grid whose ratios are raw weights rather than
// percentages; the two top panels touch across the vertical cut.
func weightGrid() layout.Element {
	column := func(a, b string) layout.Element {
		return &layout.Node{
			Orient:   layout.Column,
			Ratios:   layout.Ratios{1, 1},
			Children: [2]layout.Element{layout.Leaf(a), layout.Leaf(b)},
		}
	}
	return &layout.Node{
		Orient:   layout.Row,
		Ratios:   layout.Ratios{1, 1},
		Children: [2]layout.Element{column("a", "b"), column("c", "d")},
	}
}

func TestMerge_WeightScaledRatios(t *testing.T) {
	tree, fig, reg, cache, post := mergeFixture(t, weightGrid())

	merged, _, backward, err := Merge(tree, fig, reg, cache, post, layout.Path{0, 0}, layout.Path{1, 0}, 0)
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	want := &layout.Node{
		Orient: layout.Column,
		Ratios: layout.Ratios{50, 50},
		Children: [2]layout.Element{
			&layout.Node{
				Orient:   layout.Row,
				Ratios:   layout.Ratios{50, 50},
				Children: [2]layout.Element{layout.Leaf("a"), layout.Leaf("c")},
			},
			&layout.Node{
				Orient:   layout.Row,
				Ratios:   layout.Ratios{50, 50},
				Children: [2]layout.Element{layout.Leaf("b"), layout.Leaf("d")},
			},
		},
	}
	if !layout.EquivalentElements(merged, want) {
		t.Errorf("merged = %v, want the shape of %v", merged, want)
	}
	if !layout.AlmostEqualElements(fig.Tree(), merged) {
		t.Errorf("surface tree = %v, want %v", fig.Tree(), merged)
	}
	if len(backward) == 0 {
		t.Fatal("backward script is empty")
	}
}
