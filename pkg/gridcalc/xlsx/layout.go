package xlsx

import (
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
)

// ExtractLayout reads the non-default column widths and row heights of the
// grid, converted to pixels.
func ExtractLayout(f *excelize.File, sheetName string, cols, rows int) (models.Layout, error) {
	layout := models.Layout{ColumnWidths: map[string]int{}, RowHeights: map[int]int{}}

	for colIdx := 0; colIdx < cols; colIdx++ {
		name := address.ColumnName(colIdx)
		width, err := f.GetColWidth(sheetName, name)
		if err != nil {
			return models.Layout{}, NewError(sheetName, "layout", err)
		}
		if width != DefaultColumnWidth {
			layout.ColumnWidths[name] = ColumnWidthToPixels(width)
		}
	}

	for row := 1; row <= rows; row++ {
		height, err := f.GetRowHeight(sheetName, row)
		if err != nil {
			return models.Layout{}, NewError(sheetName, "layout", err)
		}
		if height != DefaultRowHeight {
			layout.RowHeights[row] = RowHeightToPixels(height)
		}
	}
	return layout, nil
}

// writeLayout applies pixel sizes to a sheet.
func writeLayout(f *excelize.File, sheetName string, layout models.Layout) error {
	for name, px := range layout.ColumnWidths {
		if err := f.SetColWidth(sheetName, name, name, PixelsToColumnWidth(px)); err != nil {
			return NewError(sheetName, "layout", err)
		}
	}
	for row, px := range layout.RowHeights {
		if err := f.SetRowHeight(sheetName, row, PixelsToRowHeight(px)); err != nil {
			return NewError(sheetName, "layout", err)
		}
	}
	return nil
}
