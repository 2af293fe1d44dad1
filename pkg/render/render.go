package render

import (
	"github.com/google/uuid"

	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/registry"
)

// RunProducer builds a fresh cell for the named producer and runs it.
// Producers that return serialized content get a marker drawn in their
// cell plus a post processor splicing the content in; pure artifact
// producers return [Identity].
func RunProducer(reg *registry.Registry, name string) (*figure.Cell, PostProcess, error) {
	p, err := reg.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	cell := figure.NewCell(name)
	content := p.Draw(cell)
	if p.Kind() == registry.KindArtifact {
		return cell, Identity, nil
	}

	id := uuid.NewString()
	cell.Marker(id)
	return cell, SpliceMarker(id, content), nil
}

// RenderLayout builds a live figure mirroring the tree, running every
// leaf's registered producer, and returns the figure together with the
// composed post processor for its content markers.
func RenderLayout(reg *registry.Registry, tree layout.Element, width, height float64) (*figure.Figure, PostProcess, error) {
	if err := layout.Validate(tree); err != nil {
		return nil, nil, err
	}
	fig, err := figure.New(width, height, figure.NewCell(string(layout.DefaultLeaf)))
	if err != nil {
		return nil, nil, err
	}
	post := PostProcess(Identity)
	if err := build(reg, fig, tree, layout.Path{}, &post); err != nil {
		return nil, nil, err
	}
	return fig, post, nil
}

func build(reg *registry.Registry, fig *figure.Figure, e layout.Element, path layout.Path, post *PostProcess) error {
	switch v := e.(type) {
	case layout.Leaf:
		cell, p, err := RunProducer(reg, string(v))
		if err != nil {
			return err
		}
		if _, err := fig.Replace(path, cell); err != nil {
			return err
		}
		*post = Compose(p, *post)
		return nil
	case *layout.Node:
		if err := fig.Split(path, v.Orient, figure.NewCell(string(layout.DefaultLeaf))); err != nil {
			return err
		}
		if err := fig.Restructure(path, v.Ratios); err != nil {
			return err
		}
		if err := build(reg, fig, v.Children[0], path.Child(0), post); err != nil {
			return err
		}
		return build(reg, fig, v.Children[1], path.Child(1), post)
	}
	return nil
}

// RenderSVG serializes the figure and applies the post processor.
func RenderSVG(fig *figure.Figure, post PostProcess) string {
	svg := fig.SVG()
	if post == nil {
		return svg
	}
	return post(svg)
}
