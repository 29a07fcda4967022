// Package models defines the data structures shared by the gridcalc packages.
package models

// CellType classifies the raw input of a cell at write time.
type CellType string

const (
	// CellTypeText is any input that is not a formula, number or date.
	CellTypeText CellType = "text"
	// CellTypeNumber is an input that parses as a numeric literal.
	CellTypeNumber CellType = "number"
	// CellTypeFormula is an input starting with "=".
	CellTypeFormula CellType = "formula"
	// CellTypeDate is an input in YYYY-MM-DD form.
	CellTypeDate CellType = "date"
)

// Align is the horizontal alignment of a cell.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// CellStyle holds presentation attributes. It never affects evaluation.
// Unset fields are nil or empty.
type CellStyle struct {
	// Bold renders the text in bold.
	Bold *bool `json:"bold,omitempty"`
	// Italic renders the text in italics.
	Italic *bool `json:"italic,omitempty"`
	// FontSize is the font size in points.
	FontSize *int `json:"font_size,omitempty"`
	// Color is the text color as a CSS hex string (e.g. "#ff0000").
	Color string `json:"color,omitempty"`
	// BackgroundColor is the fill color as a CSS hex string.
	BackgroundColor string `json:"background_color,omitempty"`
	// Align is the horizontal alignment.
	Align Align `json:"align,omitempty"`
}

// Merge returns s with every field that is set in patch replaced.
func (s CellStyle) Merge(patch CellStyle) CellStyle {
	if patch.Bold != nil {
		s.Bold = patch.Bold
	}
	if patch.Italic != nil {
		s.Italic = patch.Italic
	}
	if patch.FontSize != nil {
		s.FontSize = patch.FontSize
	}
	if patch.Color != "" {
		s.Color = patch.Color
	}
	if patch.BackgroundColor != "" {
		s.BackgroundColor = patch.BackgroundColor
	}
	if patch.Align != "" {
		s.Align = patch.Align
	}
	return s
}

// IsZero reports whether no attribute is set.
func (s CellStyle) IsZero() bool {
	return s == CellStyle{}
}

// Cell represents a single addressable cell of a sheet.
type Cell struct {
	// Value is the raw entered content: string, float64 or nil.
	Value any `json:"value"`
	// Formula is the original input when it starts with "=", else empty.
	Formula string `json:"formula,omitempty"`
	// Formatted is the display string.
	Formatted string `json:"formatted"`
	// Type is derived from the input at write time.
	Type CellType `json:"type"`
	// Style holds optional presentation attributes.
	Style *CellStyle `json:"style,omitempty"`
}

// HasFormula reports whether the cell holds a formula.
func (c Cell) HasFormula() bool {
	return c.Formula != ""
}

// Content returns what a formula bar shows for the cell.
func (c Cell) Content() string {
	if c.Formula != "" {
		return c.Formula
	}
	return c.Formatted
}

// CellInput is a raw input destined for an address, as typed by a user
// or read from a file.
type CellInput struct {
	// Address is the A1-style address.
	Address string `json:"address"`
	// Input is the raw text, formulas included.
	Input string `json:"input"`
	// Style is an optional style to apply.
	Style *CellStyle `json:"style,omitempty"`
}
