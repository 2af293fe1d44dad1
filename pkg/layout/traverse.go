package layout

import "github.com/matzehuels/panegrid/pkg/errors"

// At returns the element at the given path.
// It fails with INVALID_PATH if an index is out of range or the walk
// reaches a leaf before the path is exhausted.
func At(root Element, path Path) (Element, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	curr := root
	for _, ix := range path {
		node, ok := curr.(*Node)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path reached a leaf during traversal")
		}
		curr = node.Children[ix]
	}
	return curr, nil
}

// NodeAt returns the node at the given path.
// It additionally fails if the path terminates on a leaf.
func NodeAt(root Element, path Path) (*Node, error) {
	elem, err := At(root, path)
	if err != nil {
		return nil, err
	}
	node, ok := elem.(*Node)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path leads to a leaf, expected a node")
	}
	return node, nil
}

// LeafAt returns the leaf at the given path.
// It additionally fails if the path terminates on a node.
func LeafAt(root Element, path Path) (Leaf, error) {
	elem, err := At(root, path)
	if err != nil {
		return "", err
	}
	leaf, ok := elem.(Leaf)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidPath, "path leads to a node, expected a leaf")
	}
	return leaf, nil
}

// Set replaces the element at the given path and returns the new root.
// An empty path replaces the whole tree, returning value directly.
// The parent node is mutated in place; callers holding an immutable tree
// must clone before calling (the editor does this).
func Set(root Element, path Path, value Element) (Element, error) {
	if len(path) == 0 {
		return value, nil
	}
	parent, err := NodeAt(root, path.Parent())
	if err != nil {
		return nil, err
	}
	ix := path[len(path)-1]
	if ix != 0 && ix != 1 {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path index must be 0 or 1, got %d", ix)
	}
	parent.Children[ix] = value
	return root, nil
}

// LCAPath returns the longest common index-prefix of two paths.
func LCAPath(a, b Path) Path {
	common := Path{}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
		common = append(common, a[i])
	}
	return common
}

// LCA returns the lowest common ancestor node of two paths together with
// its path and both input paths relativized to it.
func LCA(root Element, a, b Path) (*Node, Path, Path, Path, error) {
	lcaPath := LCAPath(a, b)
	lca, err := NodeAt(root, lcaPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return lca, lcaPath, a[len(lcaPath):].Clone(), b[len(lcaPath):].Clone(), nil
}
