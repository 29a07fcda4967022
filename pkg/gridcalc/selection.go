package gridcalc

import (
	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Select makes addr the active cell and returns what a formula bar shows
// for it: the formula, or the formatted value.
func (w *Workbook) Select(addr string) (string, error) {
	canonical, _, err := w.resolve(addr)
	if err != nil {
		return "", NewOperationError("select", addr, err)
	}
	w.selected = canonical
	w.selection = nil
	return w.sheet[canonical].Content(), nil
}

// SelectRange selects the rectangle r and makes its top-left corner the
// active cell.
func (w *Workbook) SelectRange(r models.Range) error {
	n := r.Normalize()
	if !w.inGrid(n.Start) || !w.inGrid(n.End) {
		return NewOperationError("select_range", "", ErrOutOfBounds)
	}
	w.selection = &n
	w.selected = address.EncodePosition(n.Start)
	return nil
}

// Selected returns the active cell, or "" when nothing is selected.
func (w *Workbook) Selected() string {
	return w.selected
}

// Selection returns the selected range.
func (w *Workbook) Selection() (models.Range, bool) {
	if w.selection == nil {
		return models.Range{}, false
	}
	return *w.selection, true
}

// RangeStats sums the numeric values of r. Unlike SUM, numeric strings are
// counted, and formula cells contribute their current result. The range is
// clipped to the grid.
func (w *Workbook) RangeStats(r models.Range) models.RangeStats {
	n := w.clip(r)
	if n.Start.Col > n.End.Col || n.Start.Row > n.End.Row {
		return models.RangeStats{}
	}
	stats := models.RangeStats{Cells: n.Columns() * n.Rows()}

	numeric := 0
	for _, addr := range address.Addresses(n) {
		cell, ok := w.sheet[addr]
		if !ok {
			continue
		}
		v := cell.Value
		if cell.HasFormula() {
			v = formula.Evaluate(cell.Formula, w.sheet)
		}
		if f, ok := numericValue(v); ok {
			stats.Sum += f
			numeric++
		}
	}
	if numeric > 0 {
		stats.Average = stats.Sum / float64(numeric)
	}
	return stats
}

func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		return formula.ParseNumber(x)
	}
	return 0, false
}

// Copy puts the active cell on the clipboard.
func (w *Workbook) Copy() error {
	if w.selected == "" {
		return NewOperationError("copy", "", ErrNoSelection)
	}
	var cell models.Cell
	if err := deepcopy.Copy(&cell, w.sheet[w.selected]); err != nil {
		return NewOperationError("copy", w.selected, err)
	}
	w.clipboard = &cell
	return nil
}

// Cut copies the active cell and clears it.
func (w *Workbook) Cut() ([]string, error) {
	if err := w.Copy(); err != nil {
		return nil, err
	}
	return w.SetCell(w.selected, "")
}

// Paste writes the clipboard content to the active cell through the edit
// path: formulas are pasted as text and re-evaluated in place.
func (w *Workbook) Paste() ([]string, error) {
	if w.selected == "" {
		return nil, NewOperationError("paste", "", ErrNoSelection)
	}
	if w.clipboard == nil {
		return nil, NewOperationError("paste", w.selected, ErrClipboardEmpty)
	}
	return w.SetCell(w.selected, w.clipboard.Content())
}

func (w *Workbook) clip(r models.Range) models.Range {
	n := r.Normalize()
	n.Start.Col, n.Start.Row = max(n.Start.Col, 0), max(n.Start.Row, 0)
	n.End.Col, n.End.Row = min(n.End.Col, w.opts.Columns-1), min(n.End.Row, w.opts.Rows-1)
	return n
}
