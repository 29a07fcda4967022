// Package xlsx reads and writes gridcalc sheets as Excel workbooks.
package xlsx

import (
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
)

// ExtractInputs reads the raw inputs of the first cols columns and rows
// rows of a sheet in row-major order. Formulas are returned with a leading
// "=". It also returns the number of non-empty cells outside that grid.
func ExtractInputs(f *excelize.File, sheetName string, cols, rows int) ([]models.CellInput, int, error) {
	values, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, NewError(sheetName, "cells", err)
	}

	skipped := 0
	raw := make(map[string]string)
	for rowIdx, row := range values {
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			if rowIdx >= rows || colIdx >= cols {
				skipped++
				continue
			}
			raw[address.Encode(colIdx, rowIdx)] = cellValue
		}
	}

	// Formulas without a cached value do not show up in GetRows, so the
	// whole grid is scanned for them.
	var inputs []models.CellInput
	for rowIdx := 0; rowIdx < rows; rowIdx++ {
		for colIdx := 0; colIdx < cols; colIdx++ {
			addr := address.Encode(colIdx, rowIdx)
			formula, err := f.GetCellFormula(sheetName, addr)
			if err != nil {
				return nil, 0, NewError(sheetName, "cells", err)
			}

			input := raw[addr]
			if formula != "" {
				input = "=" + formula
			}
			if input == "" {
				continue
			}
			inputs = append(inputs, models.CellInput{Address: addr, Input: input})
		}
	}
	return inputs, skipped, nil
}
