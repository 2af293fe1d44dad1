package layout

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestChangeJSON_InverseScriptSurvivesTheWire(t *testing.T) {
	// An undo script travels to the client and comes back for unmerge;
	// every field an insert carries must survive.
	script := []Change{
		{Op: OpInsert, Path: Path{0, 1}, Orient: Column, Ratios: Ratios{20, 80}, Value: Leaf("a")},
		{Op: OpRestructure, Path: Path{}, Ratios: Ratios{50, 50}},
		{Op: OpSwap, Path: Path{0}, Path2: Path{1}},
		{Op: OpDelete, Path: Path{1}},
	}

	data, err := json.Marshal(script)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var back []Change
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(back) != len(script) {
		t.Fatalf("got %d changes, want %d", len(back), len(script))
	}
	for i, want := range script {
		got := back[i]
		if got.Op != want.Op || !got.Path.Equal(want.Path) || got.Orient != want.Orient ||
			got.Ratios != want.Ratios || !got.Path2.Equal(want.Path2) {
			t.Errorf("change %d = %+v, want %+v", i, got, want)
		}
		if (got.Value == nil) != (want.Value == nil) || (want.Value != nil && !Equal(got.Value, want.Value)) {
			t.Errorf("change %d value = %v, want %v", i, got.Value, want.Value)
		}
	}
}

func TestChangeJSON_RootPathIsExplicit(t *testing.T) {
	data, err := json.Marshal(Change{Op: OpRotate, Path: Path{}})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"path":[]`) {
		t.Errorf("root path not serialized explicitly: %s", data)
	}
	if strings.Contains(string(data), "ratios") || strings.Contains(string(data), "orient") {
		t.Errorf("rotate should omit unused fields: %s", data)
	}
}

func TestChangeJSON_SubtreeValue(t *testing.T) {
	c := Change{Op: OpReplace, Path: Path{1}, Value: &Node{
		Orient:   Row,
		Ratios:   Ratios{70, 30},
		Children: [2]Element{Leaf("a"), Leaf("b")},
	}}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var back Change
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !Equal(back.Value, c.Value) {
		t.Errorf("value = %v, want %v", back.Value, c.Value)
	}
}
