package layout

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/panegrid/pkg/errors"
)

// jsonNode is the wire form of a [Node].
type jsonNode struct {
	Orient   Orient             `json:"orient"`
	Children [2]json.RawMessage `json:"children"`
	Ratios   [2]float64         `json:"ratios"`
}

// MarshalElement encodes an element as JSON: leaves become plain strings,
// nodes become {"orient", "children", "ratios"} objects with nested
// children.
func MarshalElement(e Element) ([]byte, error) {
	switch v := e.(type) {
	case Leaf:
		return json.Marshal(string(v))
	case *Node:
		c0, err := MarshalElement(v.Children[0])
		if err != nil {
			return nil, err
		}
		c1, err := MarshalElement(v.Children[1])
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonNode{
			Orient:   v.Orient,
			Children: [2]json.RawMessage{c0, c1},
			Ratios:   [2]float64(v.Ratios),
		})
	case nil:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "cannot marshal nil element")
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown element type %T", e)
	}
}

// UnmarshalElement decodes the wire form produced by [MarshalElement].
// A JSON string decodes to a [Leaf], an object to a [*Node].
func UnmarshalElement(data []byte) (Element, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "empty layout element")
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("decode leaf: %w", err)
		}
		return Leaf(s), nil
	}

	var jn jsonNode
	if err := json.Unmarshal(trimmed, &jn); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	c0, err := UnmarshalElement(jn.Children[0])
	if err != nil {
		return nil, err
	}
	c1, err := UnmarshalElement(jn.Children[1])
	if err != nil {
		return nil, err
	}
	return &Node{
		Orient:   jn.Orient,
		Children: [2]Element{c0, c1},
		Ratios:   Ratios(jn.Ratios),
	}, nil
}

// MarshalJSON implements json.Marshaler so a *Node can be embedded
// directly in response structs.
func (n *Node) MarshalJSON() ([]byte, error) {
	return MarshalElement(n)
}
