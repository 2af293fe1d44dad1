// Package layoutio provides JSON import and export for layout documents.
//
// A document pairs a layout tree with its figure size:
//
//	{
//	  "layout": {
//	    "orient": "row",
//	    "children": ["left", "right"],
//	    "ratios": [70, 30]
//	  },
//	  "figsize": [12, 8]
//	}
//
// A bare string is a valid layout (a single full-canvas leaf). The
// format round-trips: export a document and re-import it identically.
package layoutio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/panegrid/pkg/layout"
)

// Document is a serializable layout plus its figure size in figure
// units.
type Document struct {
	Layout  layout.Element
	FigSize [2]float64
}

type document struct {
	Layout  json.RawMessage `json:"layout"`
	FigSize [2]float64      `json:"figsize"`
}

// ReadJSON decodes a layout document from r. The layout tree is
// validated structurally: every node must have exactly two children and
// positive ratios. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	tree, err := layout.UnmarshalElement(data.Layout)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if err := layout.Validate(tree); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return &Document{Layout: tree, FigSize: data.FigSize}, nil
}

// ImportJSON reads the layout document in the JSON file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes the document as indented JSON and writes it to w.
func WriteJSON(doc *Document, w io.Writer) error {
	raw, err := layout.MarshalElement(doc.Layout)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Layout: raw, FigSize: doc.FigSize}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the document to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
