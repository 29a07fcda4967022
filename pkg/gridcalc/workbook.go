package gridcalc

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"go.alis.build/alog"
)

// Workbook owns a single sheet and keeps every formula cell's Formatted
// field in sync with its inputs. A Workbook is not safe for concurrent use.
type Workbook struct {
	opts      Options
	formatter *formula.Formatter
	sheet     models.Sheet
	layout    models.Layout

	selected  string
	selection *models.Range
	clipboard *models.Cell

	saved map[string]models.SavedSheet
	store SheetStore
}

// New creates an empty workbook. Unset options take their default values.
func New(opts Options) (*Workbook, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Workbook{
		opts:      opts,
		formatter: formula.NewFormatter(opts.Locale),
		sheet:     models.Sheet{},
		layout:    models.Layout{ColumnWidths: map[string]int{}, RowHeights: map[int]int{}},
		saved:     map[string]models.SavedSheet{},
	}, nil
}

// Options returns the options the workbook was created with.
func (w *Workbook) Options() Options {
	return w.opts
}

// Formatter returns the formatter used for formula results.
func (w *Workbook) Formatter() *formula.Formatter {
	return w.formatter
}

// Cell returns the cell at addr.
func (w *Workbook) Cell(addr string) (models.Cell, bool) {
	return w.sheet.Cell(addr)
}

// Sheet returns a deep copy of the current sheet.
func (w *Workbook) Sheet() models.Sheet {
	return copySheet(w.sheet)
}

func copySheet(src models.Sheet) models.Sheet {
	dst := models.Sheet{}
	if len(src) == 0 {
		return dst
	}
	if err := deepcopy.Copy(&dst, src); err != nil {
		// deepcopy only fails on unsupported types, which Sheet does not have
		alog.Errorf(context.Background(), "copy sheet: %v", err)
		dst = maps.Clone(src)
	}
	return dst
}

// resolve validates addr against the grid and returns its canonical form.
func (w *Workbook) resolve(addr string) (string, models.Position, error) {
	col, row, err := address.Parse(strings.ToUpper(addr))
	if err != nil {
		return "", models.Position{}, ErrInvalidAddress
	}
	if col >= w.opts.Columns || row >= w.opts.Rows {
		return "", models.Position{}, ErrOutOfBounds
	}
	return address.Encode(col, row), models.Position{Col: col, Row: row}, nil
}

func (w *Workbook) inGrid(p models.Position) bool {
	return p.Col >= 0 && p.Row >= 0 && p.Col < w.opts.Columns && p.Row < w.opts.Rows
}

// SetCell writes a raw input to addr, as typed by a user, and recalculates
// the affected formulas. An empty input clears the cell but keeps its style.
// It returns every updated address in sorted order.
func (w *Workbook) SetCell(addr, input string) ([]string, error) {
	canonical, _, err := w.resolve(addr)
	if err != nil {
		return nil, NewOperationError("set", addr, err)
	}

	w.write(canonical, input)
	return w.afterEdit(canonical), nil
}

// SetValue writes a typed value (float64, int, string or nil) to addr.
func (w *Workbook) SetValue(addr string, v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return w.SetCell(addr, "")
	case string:
		return w.SetCell(addr, x)
	case int:
		v = float64(x)
	case float64:
	default:
		return nil, NewOperationError("set", addr, ErrInvalidValue)
	}

	canonical, _, err := w.resolve(addr)
	if err != nil {
		return nil, NewOperationError("set", addr, err)
	}
	prev := w.sheet[canonical]
	w.sheet[canonical] = models.Cell{
		Value:     v,
		Formatted: formula.String(v),
		Type:      models.CellTypeNumber,
		Style:     prev.Style,
	}
	return w.afterEdit(canonical), nil
}

func (w *Workbook) afterEdit(addr string) []string {
	var updated []string
	if w.opts.Recalc == RecalcAll {
		updated = RecalculateAll(w.sheet, w.formatter)
	} else {
		updated = RecalculateDependents(w.sheet, addr, w.formatter)
	}
	return sortedUnique(append(updated, addr))
}

// write stores the cell built from input without recalculating. Formulas
// are evaluated against the sheet as it was before the write.
func (w *Workbook) write(addr, input string) {
	prev, ok := w.sheet[addr]
	cell, keep := w.buildCell(input, prev.Style)
	if !keep {
		if ok {
			delete(w.sheet, addr)
		}
		return
	}
	w.sheet[addr] = cell
}

// buildCell derives a cell from a raw input. keep is false for an empty
// input without style.
func (w *Workbook) buildCell(input string, style *models.CellStyle) (cell models.Cell, keep bool) {
	cell.Style = style
	switch {
	case input == "":
		cell.Type = models.CellTypeText
		return cell, style != nil
	case strings.HasPrefix(input, "="):
		cell.Type = models.CellTypeFormula
		cell.Value = input
		cell.Formula = input
		cell.Formatted = w.formatter.Format(formula.Evaluate(input, w.sheet))
	default:
		cell.Type = inputType(input)
		cell.Value = input
		if n, ok := formula.ParseNumber(input); ok {
			cell.Value = n
		}
		cell.Formatted = input
	}
	return cell, true
}

func inputType(input string) models.CellType {
	if _, ok := formula.ParseNumber(input); ok {
		return models.CellTypeNumber
	}
	if _, err := time.Parse(time.DateOnly, input); err == nil {
		return models.CellTypeDate
	}
	return models.CellTypeText
}

// SetStyle merges the set fields of patch into the style of addr.
func (w *Workbook) SetStyle(addr string, patch models.CellStyle) error {
	canonical, _, err := w.resolve(addr)
	if err != nil {
		return NewOperationError("style", addr, err)
	}

	cell, ok := w.sheet[canonical]
	if !ok {
		cell = models.Cell{Type: models.CellTypeText}
	}
	var style models.CellStyle
	if cell.Style != nil {
		style = *cell.Style
	}
	style = style.Merge(patch)
	cell.Style = &style
	w.sheet[canonical] = cell
	return nil
}

// ReplaceCells replaces the whole sheet with a copy of sheet and
// recalculates every formula. Cells outside the grid are dropped.
func (w *Workbook) ReplaceCells(sheet models.Sheet) []string {
	next := copySheet(sheet)
	for addr := range next {
		col, row := address.Decode(addr)
		if !address.IsCell(addr) || !w.inGrid(models.Position{Col: col, Row: row}) {
			alog.Warnf(context.Background(), "dropping cell %s outside the %dx%d grid", addr, w.opts.Columns, w.opts.Rows)
			delete(next, addr)
		}
	}
	w.sheet = next
	w.selected = ""
	w.selection = nil
	return RecalculateAll(w.sheet, w.formatter)
}

// Apply writes a batch of inputs and recalculates every formula once.
// Invalid addresses are reported after the valid inputs are written.
func (w *Workbook) Apply(inputs []models.CellInput) ([]string, error) {
	var (
		updated []string
		errs    []error
	)
	for _, in := range inputs {
		canonical, _, err := w.resolve(in.Address)
		if err != nil {
			errs = append(errs, NewOperationError("apply", in.Address, err))
			continue
		}
		w.write(canonical, in.Input)
		if in.Style != nil {
			if err := w.SetStyle(canonical, *in.Style); err != nil {
				errs = append(errs, err)
			}
		}
		updated = append(updated, canonical)
	}
	updated = append(updated, RecalculateAll(w.sheet, w.formatter)...)
	return sortedUnique(updated), errors.Join(errs...)
}

// SetColumnWidth records the display width of col in pixels.
func (w *Workbook) SetColumnWidth(col, px int) error {
	if col < 0 || col >= w.opts.Columns || px <= 0 {
		return NewOperationError("resize_column", address.ColumnName(col), ErrOutOfBounds)
	}
	w.layout.ColumnWidths[address.ColumnName(col)] = px
	return nil
}

// SetRowHeight records the display height of row (0-based) in pixels.
func (w *Workbook) SetRowHeight(row, px int) error {
	if row < 0 || row >= w.opts.Rows || px <= 0 {
		return NewOperationError("resize_row", "", ErrOutOfBounds)
	}
	w.layout.RowHeights[row+1] = px
	return nil
}

// Layout returns a copy of the column widths and row heights.
func (w *Workbook) Layout() models.Layout {
	return models.Layout{
		ColumnWidths: maps.Clone(w.layout.ColumnWidths),
		RowHeights:   maps.Clone(w.layout.RowHeights),
	}
}

// SetLayout replaces the layout, ignoring entries outside the grid.
func (w *Workbook) SetLayout(l models.Layout) {
	w.layout = models.Layout{ColumnWidths: map[string]int{}, RowHeights: map[int]int{}}
	for name, px := range l.ColumnWidths {
		_ = w.SetColumnWidth(address.ColumnIndex(name), px)
	}
	for row, px := range l.RowHeights {
		_ = w.SetRowHeight(row-1, px)
	}
}

func sortedUnique(addrs []string) []string {
	slices.Sort(addrs)
	return slices.Compact(addrs)
}
