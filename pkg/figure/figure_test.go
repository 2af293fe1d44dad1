package figure

import (
	"testing"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/layout"
)

// twoPaneFigure builds a figure mirroring {row, ("a", "b"), (70, 30)}.
func twoPaneFigure(t *testing.T) *Figure {
	t.Helper()
	fig, err := New(8, 6, NewCell("a"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := fig.Split(layout.Path{}, layout.Row, NewCell("b")); err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if err := fig.Restructure(layout.Path{}, layout.Ratios{70, 30}); err != nil {
		t.Fatalf("Restructure error: %v", err)
	}
	return fig
}

func wantTwoPane() layout.Element {
	return &layout.Node{
		Orient:   layout.Row,
		Ratios:   layout.Ratios{70, 30},
		Children: [2]layout.Element{layout.Leaf("a"), layout.Leaf("b")},
	}
}

func TestNew_SingleCellFigure(t *testing.T) {
	fig, err := New(8, 6, NewCell("only"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if fig.Width() != 8 || fig.Height() != 6 {
		t.Errorf("size = %vx%v, want 8x6", fig.Width(), fig.Height())
	}
	if !layout.Equal(fig.Tree(), layout.Leaf("only")) {
		t.Errorf("tree = %v, want leaf only", fig.Tree())
	}
}

func TestNew_InvalidSizeRejected(t *testing.T) {
	if _, err := New(0, 6, NewCell("a")); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("error = %v, want INVALID_LAYOUT", err)
	}
}

func TestSplit_TreeMatchesAbstractEditor(t *testing.T) {
	fig := twoPaneFigure(t)
	if !layout.Equal(fig.Tree(), wantTwoPane()) {
		t.Errorf("tree = %v, want %v", fig.Tree(), wantTwoPane())
	}

	if err := fig.Split(layout.Path{1}, layout.Column, NewCell("c")); err != nil {
		t.Fatalf("Split error: %v", err)
	}
	cell, err := fig.CellAt(layout.Path{1, 1})
	if err != nil {
		t.Fatalf("CellAt error: %v", err)
	}
	if cell.Name() != "c" {
		t.Errorf("new sibling = %q, want c", cell.Name())
	}
	if cell, _ := fig.CellAt(layout.Path{1, 0}); cell.Name() != "b" {
		t.Errorf("old container should keep slot 0, got %q", cell.Name())
	}
}

func TestDelete_PromotesSibling(t *testing.T) {
	fig := twoPaneFigure(t)

	cells, err := fig.Delete(layout.Path{0})
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(cells) != 1 || cells[0].Name() != "a" {
		t.Errorf("detached cells = %v, want just a", cells)
	}
	if !layout.Equal(fig.Tree(), layout.Leaf("b")) {
		t.Errorf("tree = %v, want leaf b", fig.Tree())
	}
}

func TestDelete_SubtreeReturnsCellsInLeafOrder(t *testing.T) {
	fig := twoPaneFigure(t)
	if err := fig.Split(layout.Path{0}, layout.Column, NewCell("c")); err != nil {
		t.Fatalf("Split error: %v", err)
	}

	cells, err := fig.Delete(layout.Path{0})
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(cells) != 2 || cells[0].Name() != "a" || cells[1].Name() != "c" {
		names := make([]string, len(cells))
		for i, c := range cells {
			names[i] = c.Name()
		}
		t.Errorf("detached cells = %v, want [a c]", names)
	}
}

func TestDelete_RootRejected(t *testing.T) {
	fig := twoPaneFigure(t)
	if _, err := fig.Delete(layout.Path{}); !errors.Is(err, errors.ErrCodeInvalidEdit) {
		t.Errorf("error = %v, want INVALID_EDIT", err)
	}
}

func TestDelete_OutOfRangeIndexRejected(t *testing.T) {
	fig := twoPaneFigure(t)
	if _, err := fig.Delete(layout.Path{2}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestReplace_SubtreeCollapsesToLeaf(t *testing.T) {
	fig := twoPaneFigure(t)
	if err := fig.Split(layout.Path{0}, layout.Column, NewCell("c")); err != nil {
		t.Fatalf("Split error: %v", err)
	}

	cells, err := fig.Replace(layout.Path{0}, NewCell("d"))
	if err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if len(cells) != 2 {
		t.Errorf("displaced %d cells, want 2", len(cells))
	}
	want := &layout.Node{
		Orient:   layout.Row,
		Ratios:   layout.Ratios{70, 30},
		Children: [2]layout.Element{layout.Leaf("d"), layout.Leaf("b")},
	}
	if !layout.Equal(fig.Tree(), want) {
		t.Errorf("tree = %v, want %v", fig.Tree(), want)
	}
}

func TestSwap_AcrossParents(t *testing.T) {
	fig := twoPaneFigure(t)
	if err := fig.Split(layout.Path{1}, layout.Column, NewCell("c")); err != nil {
		t.Fatalf("Split error: %v", err)
	}

	if err := fig.Swap(layout.Path{0}, layout.Path{1, 1}); err != nil {
		t.Fatalf("Swap error: %v", err)
	}
	want := &layout.Node{
		Orient: layout.Row,
		Ratios: layout.Ratios{70, 30},
		Children: [2]layout.Element{
			layout.Leaf("c"),
			&layout.Node{
				Orient:   layout.Column,
				Ratios:   layout.DefaultRatios,
				Children: [2]layout.Element{layout.Leaf("b"), layout.Leaf("a")},
			},
		},
	}
	if !layout.Equal(fig.Tree(), want) {
		t.Errorf("tree = %v, want %v", fig.Tree(), want)
	}
}

func TestSwap_NestedPathsRejected(t *testing.T) {
	fig := twoPaneFigure(t)
	if err := fig.Swap(layout.Path{}, layout.Path{1}); !errors.Is(err, errors.ErrCodeInvalidEdit) {
		t.Errorf("error = %v, want INVALID_EDIT", err)
	}
}

func TestInsert_AtSlotZero(t *testing.T) {
	fig := twoPaneFigure(t)

	if err := fig.Insert(layout.Path{1, 0}, layout.Column, layout.Ratios{30, 70}, NewCell("c")); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	want := &layout.Node{
		Orient: layout.Row,
		Ratios: layout.Ratios{70, 30},
		Children: [2]layout.Element{
			layout.Leaf("a"),
			&layout.Node{
				Orient:   layout.Column,
				Ratios:   layout.Ratios{30, 70},
				Children: [2]layout.Element{layout.Leaf("c"), layout.Leaf("b")},
			},
		},
	}
	if !layout.Equal(fig.Tree(), want) {
		t.Errorf("tree = %v, want %v", fig.Tree(), want)
	}
}

func TestRotate_FlipsOrient(t *testing.T) {
	fig := twoPaneFigure(t)
	if err := fig.Rotate(layout.Path{}); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	node, ok := fig.Tree().(*layout.Node)
	if !ok || node.Orient != layout.Column {
		t.Errorf("tree = %v, want a column node", fig.Tree())
	}
}

func TestResize_KeepsStructure(t *testing.T) {
	fig := twoPaneFigure(t)
	if err := fig.Resize(12, 4); err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	if fig.Width() != 12 || fig.Height() != 4 {
		t.Errorf("size = %vx%v, want 12x4", fig.Width(), fig.Height())
	}
	if !layout.Equal(fig.Tree(), wantTwoPane()) {
		t.Errorf("tree changed on resize: %v", fig.Tree())
	}
	if err := fig.Resize(-1, 4); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("error = %v, want INVALID_LAYOUT", err)
	}
}

func TestContainerAt_LeafWalkRejected(t *testing.T) {
	fig := twoPaneFigure(t)
	if _, err := fig.ContainerAt(layout.Path{0, 0}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestCache_PopsMostRecent(t *testing.T) {
	cache := NewCache()
	first := NewCell("a")
	second := NewCell("a")
	cache.Put(first)
	cache.Put(second)

	got, ok := cache.Pop("a")
	if !ok || got != second {
		t.Error("Pop should return the most recently cached cell")
	}
	got, ok = cache.Pop("a")
	if !ok || got != first {
		t.Error("second Pop should return the earlier cell")
	}
	if _, ok := cache.Pop("a"); ok {
		t.Error("Pop on empty bucket should report a miss")
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want 0", cache.Len())
	}
}
