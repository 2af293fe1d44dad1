package cli

import (
	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/registry"
)

// labelProducer draws the leaf's name centered in its cell, mirroring
// how unassigned panels are previewed before real content exists.
func labelProducer(name string) registry.Producer {
	return registry.Artifact(func(c figure.Canvas) {
		c.Text(0.5, 0.5, name, figure.Style{FontSize: 16, Anchor: "middle"})
	})
}

// registerLabels registers a label producer for every leaf of the tree
// that has no producer yet, so arbitrary layout files render without
// user code.
func registerLabels(reg *registry.Registry, tree layout.Element) error {
	for _, name := range layout.Leaves(tree) {
		if _, err := reg.Lookup(name); err == nil {
			continue
		} else if !errors.Is(err, errors.ErrCodeProducerNotFound) {
			return err
		}
		if _, err := reg.Register(name, labelProducer(name)); err != nil {
			return err
		}
	}
	return nil
}
