package server

import "github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"

// Request types sent by the browser.
const (
	TypeSet          = "set"
	TypeSelect       = "select"
	TypeSelectRange  = "select_range"
	TypeStyle        = "style"
	TypeStats        = "stats"
	TypeFindReplace  = "find_replace"
	TypeDedup        = "dedup"
	TypeInsertRow    = "insert_row"
	TypeDeleteRow    = "delete_row"
	TypeInsertColumn = "insert_column"
	TypeDeleteColumn = "delete_column"
	TypeCopy         = "copy"
	TypeCut          = "cut"
	TypePaste        = "paste"
	TypeSave         = "save"
	TypeLoad         = "load"
	TypeList         = "list"
	TypeSnapshot     = "snapshot"
	TypeResize       = "resize"
)

// Response types sent by the server besides the echoed request type.
const (
	TypeHello = "hello"
	TypeError = "error"
)

// Request is a message from the browser.
type Request struct {
	// ID is echoed in the response.
	ID int `json:"id,omitempty"`
	// Type selects the operation.
	Type string `json:"type"`
	// Address is the target cell of set, select and style.
	Address string `json:"address,omitempty"`
	// Input is the raw text of set.
	Input string `json:"input,omitempty"`
	// Range is the target of select_range, stats and dedup. Dedup falls back
	// to the selected range.
	Range *models.Range `json:"range,omitempty"`
	// Ref is Range in A1 notation ("B2:D5"). It is used when Range is unset.
	Ref string `json:"ref,omitempty"`
	// Style is the patch of style.
	Style *models.CellStyle `json:"style,omitempty"`
	// Find and Replace are the arguments of find_replace.
	Find    string `json:"find,omitempty"`
	Replace string `json:"replace,omitempty"`
	// Index is the 0-based row or column of structural edits and resize.
	Index int `json:"index,omitempty"`
	// Axis is "column" or "row" for resize.
	Axis string `json:"axis,omitempty"`
	// Size is the new size in pixels for resize.
	Size int `json:"size,omitempty"`
	// Name is the name of a saved sheet.
	Name string `json:"name,omitempty"`
	// SheetID identifies the saved sheet to load.
	SheetID string `json:"sheet_id,omitempty"`
}

// Response is a message to the browser.
type Response struct {
	// ID echoes the request ID.
	ID int `json:"id,omitempty"`
	// Type is the request type, "hello" or "error".
	Type string `json:"type"`
	// Session identifies the connection (hello only).
	Session string `json:"session,omitempty"`
	// Cells holds the cells changed by the request.
	Cells map[string]models.Cell `json:"cells,omitempty"`
	// Removed lists the addresses that became empty.
	Removed []string `json:"removed,omitempty"`
	// Sheet is the whole sheet, sent after bulk operations.
	Sheet models.Sheet `json:"sheet,omitempty"`
	// Layout is sent with Sheet and after resize.
	Layout *models.Layout `json:"layout,omitempty"`
	// Content is the formula bar content of the selected cell.
	Content *string `json:"content,omitempty"`
	// Count is the number of cells or rows affected.
	Count int `json:"count,omitempty"`
	// Stats summarizes a range.
	Stats *models.RangeStats `json:"stats,omitempty"`
	// Saved describes a saved sheet.
	Saved *models.SavedSheet `json:"saved,omitempty"`
	// Sheets lists saved sheets.
	Sheets []models.SavedSheet `json:"sheets,omitempty"`
	// Error describes a failed request.
	Error string `json:"error,omitempty"`
}
