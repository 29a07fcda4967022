// Package output serializes sheets and documents to JSON.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Document is a sheet with its name and layout, as written by the CLI.
type Document struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Cells is the sheet content.
	Cells models.Sheet `json:"cells"`
	// Layout holds column widths and row heights.
	Layout models.Layout `json:"layout"`
}

// ToJSON serializes any value to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// SheetToJSON serializes a sheet to JSON.
func SheetToJSON(sheet models.Sheet, pretty bool) ([]byte, error) {
	if sheet == nil {
		sheet = models.Sheet{}
	}
	return ToJSON(sheet, pretty)
}

// SheetFromJSON parses a sheet written by SheetToJSON.
func SheetFromJSON(data []byte) (models.Sheet, error) {
	sheet := models.Sheet{}
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("decode sheet: %w", err)
	}
	return sheet, nil
}

// DocumentToJSON serializes a document to JSON.
func DocumentToJSON(doc *Document, pretty bool) ([]byte, error) {
	return ToJSON(doc, pretty)
}

// DocumentFromJSON parses a document. A bare sheet object is accepted too
// and becomes a document without name or layout.
func DocumentFromJSON(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if _, ok := probe["cells"]; !ok {
		sheet, err := SheetFromJSON(data)
		if err != nil {
			return nil, err
		}
		return &Document{Cells: sheet}, nil
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Cells == nil {
		doc.Cells = models.Sheet{}
	}
	return doc, nil
}
