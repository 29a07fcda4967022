package models

// Position is a zero-based cell coordinate.
type Position struct {
	// Col is the column index (A=0).
	Col int `json:"col"`
	// Row is the row index (row "1" is 0).
	Row int `json:"row"`
}

// Range is the inclusive rectangle spanned by two positions, regardless of
// which corner a drag started from.
type Range struct {
	// Start is the first corner.
	Start Position `json:"start"`
	// End is the opposite corner.
	End Position `json:"end"`
}

// Normalize returns the range with Start as the top-left corner.
func (r Range) Normalize() Range {
	return Range{
		Start: Position{Col: min(r.Start.Col, r.End.Col), Row: min(r.Start.Row, r.End.Row)},
		End:   Position{Col: max(r.Start.Col, r.End.Col), Row: max(r.Start.Row, r.End.Row)},
	}
}

// Contains reports whether p lies inside the range.
func (r Range) Contains(p Position) bool {
	n := r.Normalize()
	return p.Col >= n.Start.Col && p.Col <= n.End.Col &&
		p.Row >= n.Start.Row && p.Row <= n.End.Row
}

// Columns returns the number of columns spanned.
func (r Range) Columns() int {
	n := r.Normalize()
	return n.End.Col - n.Start.Col + 1
}

// Rows returns the number of rows spanned.
func (r Range) Rows() int {
	n := r.Normalize()
	return n.End.Row - n.Start.Row + 1
}

// RangeStats summarizes the numeric content of a range.
type RangeStats struct {
	// Cells is the number of cells in the range, empty ones included.
	Cells int `json:"cells"`
	// Sum is the sum of all numeric values.
	Sum float64 `json:"sum"`
	// Average is Sum divided by the number of numeric values (0 if none).
	Average float64 `json:"average"`
}
