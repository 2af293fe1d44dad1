package merge

import (
	"github.com/google/uuid"

	"github.com/matzehuels/panegrid/pkg/layout"
)

// tagTable maps an ephemeral tag id back to the leaf name it stands in
// for. Tags exist only within a single merge call; user-chosen leaf
// names never appear in the tagged tree, so duplicate names cannot
// confuse the geometry.
type tagTable map[string]string

// tagLeaves returns a copy of the tree with every leaf replaced by a
// unique tag id, plus the table to undo the substitution. Shape and
// ratios are untouched.
func tagLeaves(e layout.Element) (layout.Element, tagTable) {
	tags := make(tagTable)
	return retag(layout.Clone(e), tags), tags
}

func retag(e layout.Element, tags tagTable) layout.Element {
	switch v := e.(type) {
	case layout.Leaf:
		id := uuid.NewString()
		tags[id] = string(v)
		return layout.Leaf(id)
	case *layout.Node:
		v.Children[0] = retag(v.Children[0], tags)
		v.Children[1] = retag(v.Children[1], tags)
		return v
	}
	return e
}

// untagLeaves substitutes every tag id back for its original leaf name,
// in place.
func untagLeaves(e layout.Element, tags tagTable) layout.Element {
	switch v := e.(type) {
	case layout.Leaf:
		if name, ok := tags[string(v)]; ok {
			return layout.Leaf(name)
		}
		return v
	case *layout.Node:
		v.Children[0] = untagLeaves(v.Children[0], tags)
		v.Children[1] = untagLeaves(v.Children[1], tags)
		return v
	}
	return e
}
