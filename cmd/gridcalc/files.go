package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/output"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/xlsx"
)

func isExcel(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// readWorkbook loads a .xlsx or .json sheet into a recalculated workbook and
// returns it with the sheet name.
func readWorkbook(path, sheet string, opts gridcalc.Options) (*gridcalc.Workbook, string, error) {
	if isExcel(path) {
		wb, err := xlsx.Import(path, sheet, opts)
		if err != nil {
			return nil, "", fmt.Errorf("import failed: %w", err)
		}
		if sheet == "" {
			sheet = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return wb, sheet, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input: %w", err)
	}
	doc, err := output.DocumentFromJSON(data)
	if err != nil {
		return nil, "", err
	}

	wb, err := gridcalc.New(opts)
	if err != nil {
		return nil, "", err
	}
	wb.ReplaceCells(doc.Cells)
	wb.SetLayout(doc.Layout)

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return wb, name, nil
}

// writeWorkbook writes the sheet to path as Excel or JSON, or as JSON to
// stdout when path is empty.
func writeWorkbook(stdout io.Writer, path, name string, sheet models.Sheet, layout models.Layout) error {
	if path != "" && isExcel(path) {
		if err := xlsx.Export(path, xlsx.DefaultSheetName, sheet, layout); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return nil
	}

	jsonData, err := output.DocumentToJSON(&output.Document{Name: name, Cells: sheet, Layout: layout}, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(stdout, string(jsonData))
		return err
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
