package models

import "time"

// SavedSheet is a named snapshot of a sheet.
type SavedSheet struct {
	// ID uniquely identifies the snapshot.
	ID string `json:"id"`
	// Name is the user supplied name.
	Name string `json:"name"`
	// Cells is the snapshot content (nil in listings).
	Cells Sheet `json:"cells,omitempty"`
	// SavedAt is the time the snapshot was taken.
	SavedAt time.Time `json:"saved_at"`
}

// Layout holds UI sizing in pixels.
type Layout struct {
	// ColumnWidths maps a column name (e.g. "A") to its width.
	ColumnWidths map[string]int `json:"column_widths,omitempty"`
	// RowHeights maps a 1-based row number to its height.
	RowHeights map[int]int `json:"row_heights,omitempty"`
}
