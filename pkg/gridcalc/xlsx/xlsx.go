package xlsx

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
	"go.alis.build/alog"
)

// DefaultSheetName is the name of the sheet of a new Excel file.
const DefaultSheetName = "Sheet1"

// Import reads one sheet of an Excel file into a new workbook. An empty
// sheetName selects the first sheet. Cells outside the grid are skipped.
func Import(path, sheetName string, opts gridcalc.Options) (*gridcalc.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetList()[0]
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	w, err := gridcalc.New(opts)
	if err != nil {
		return nil, err
	}
	if err := Read(f, sheetName, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Read loads the inputs, styles and layout of a sheet into w.
func Read(f *excelize.File, sheetName string, w *gridcalc.Workbook) error {
	opts := w.Options()

	inputs, skipped, err := ExtractInputs(f, sheetName, opts.Columns, opts.Rows)
	if err != nil {
		return err
	}
	if skipped > 0 {
		alog.Warnf(context.Background(), "sheet %q: skipped %d cells outside the %dx%d grid",
			sheetName, skipped, opts.Columns, opts.Rows)
	}

	styles, err := ExtractStyles(f, sheetName, opts.Columns, opts.Rows)
	if err != nil {
		return err
	}
	for i := range inputs {
		if s, ok := styles[inputs[i].Address]; ok {
			inputs[i].Style = &s
			delete(styles, inputs[i].Address)
		}
	}
	// styled cells without content
	for _, addr := range slices.Sorted(maps.Keys(styles)) {
		s := styles[addr]
		inputs = append(inputs, models.CellInput{Address: addr, Style: &s})
	}

	if _, err := w.Apply(inputs); err != nil {
		return NewError(sheetName, "cells", err)
	}

	layout, err := ExtractLayout(f, sheetName, opts.Columns, opts.Rows)
	if err != nil {
		return err
	}
	w.SetLayout(layout)
	return nil
}

// Export writes a sheet and its layout to a new Excel file at path.
func Export(path, sheetName string, sheet models.Sheet, layout models.Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return NewError(sheetName, "cells", err)
		}
	}

	if err := Write(f, sheetName, sheet, layout); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Write stores the cells, styles and layout of sheet into an existing sheet
// of f. Formulas are written without cached values.
func Write(f *excelize.File, sheetName string, sheet models.Sheet, layout models.Layout) error {
	for _, addr := range sheet.Addresses() {
		cell := sheet[addr]
		if err := writeCell(f, sheetName, addr, cell); err != nil {
			return NewError(sheetName, "cells", fmt.Errorf("%s: %w", addr, err))
		}

		if cell.Style == nil || cell.Style.IsZero() {
			continue
		}
		id, err := f.NewStyle(toExcelStyle(*cell.Style))
		if err != nil {
			return NewError(sheetName, "styles", fmt.Errorf("%s: %w", addr, err))
		}
		if err := f.SetCellStyle(sheetName, addr, addr, id); err != nil {
			return NewError(sheetName, "styles", fmt.Errorf("%s: %w", addr, err))
		}
	}
	return writeLayout(f, sheetName, layout)
}

func writeCell(f *excelize.File, sheetName, addr string, cell models.Cell) error {
	switch {
	case cell.HasFormula():
		return f.SetCellFormula(sheetName, addr, strings.TrimPrefix(cell.Formula, "="))
	case cell.Type == models.CellTypeNumber:
		if n, ok := cell.Value.(float64); ok {
			return f.SetCellFloat(sheetName, addr, n, -1, 64)
		}
	}
	if cell.Formatted == "" {
		return nil
	}
	return f.SetCellStr(sheetName, addr, cell.Formatted)
}
