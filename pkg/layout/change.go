package layout

import (
	"encoding/json"
	"fmt"
)

// ChangeOp identifies a structural edit kind.
type ChangeOp string

// Edit kinds. Each is the unit of undo/redo and of edit-script diffing.
const (
	OpDelete      ChangeOp = "delete"
	OpInsert      ChangeOp = "insert"
	OpReplace     ChangeOp = "replace"
	OpRestructure ChangeOp = "restructure"
	OpRotate      ChangeOp = "rotate"
	OpSplit       ChangeOp = "split"
	OpSwap        ChangeOp = "swap"
)

// Change is a single structural edit record. Path addresses the target;
// the remaining fields hold kind-specific parameters:
//
//	delete:      Path
//	insert:      Path, Orient, Ratios, Value
//	replace:     Path, Value
//	restructure: Path, Ratios
//	rotate:      Path
//	split:       Path, Orient
//	swap:        Path, Path2
type Change struct {
	Op     ChangeOp
	Path   Path
	Value  Element
	Orient Orient
	Ratios Ratios
	Path2  Path
}

// String returns a compact human-readable form for logs.
func (c Change) String() string {
	return fmt.Sprintf("%s@%v", c.Op, []int(c.Path))
}

// jsonChange is the wire form of a [Change]. Paths are always emitted,
// even when empty, so the root path survives round trips.
type jsonChange struct {
	Op     ChangeOp        `json:"op"`
	Path   []int           `json:"path"`
	Value  json.RawMessage `json:"value,omitempty"`
	Orient Orient          `json:"orient,omitempty"`
	Ratios []float64       `json:"ratios,omitempty"`
	Path2  []int           `json:"path2,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Change) MarshalJSON() ([]byte, error) {
	jc := jsonChange{Op: c.Op, Path: c.Path}
	if jc.Path == nil {
		jc.Path = []int{}
	}
	if c.Value != nil {
		raw, err := MarshalElement(c.Value)
		if err != nil {
			return nil, err
		}
		jc.Value = raw
	}
	switch c.Op {
	case OpInsert, OpSplit:
		jc.Orient = c.Orient
	}
	switch c.Op {
	case OpInsert, OpRestructure:
		jc.Ratios = []float64{c.Ratios[0], c.Ratios[1]}
	}
	if c.Op == OpSwap {
		jc.Path2 = c.Path2
		if jc.Path2 == nil {
			jc.Path2 = []int{}
		}
	}
	return json.Marshal(jc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Change) UnmarshalJSON(data []byte) error {
	var jc jsonChange
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}
	out := Change{Op: jc.Op, Path: Path(jc.Path)}
	if len(jc.Value) > 0 {
		value, err := UnmarshalElement(jc.Value)
		if err != nil {
			return err
		}
		out.Value = value
	}
	out.Orient = jc.Orient
	if len(jc.Ratios) == 2 {
		out.Ratios = Ratios{jc.Ratios[0], jc.Ratios[1]}
	}
	if jc.Path2 != nil {
		out.Path2 = Path(jc.Path2)
	}
	*c = out
	return nil
}
