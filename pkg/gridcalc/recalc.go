package gridcalc

import (
	"context"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"go.alis.build/alog"
)

// RecalculateDependents re-evaluates, in one pass, every formula cell other
// than changed whose formula text contains changed. Matching is textual, so
// "A1" also matches "A10", and cells depending on a dependent are not
// revisited. It returns the updated addresses in sorted order.
func RecalculateDependents(sheet models.Sheet, changed string, f *formula.Formatter) []string {
	return recalculate(sheet, f, func(addr string, cell models.Cell) bool {
		return addr != changed && strings.Contains(cell.Formula, changed)
	})
}

// RecalculateAll re-evaluates every formula cell once and returns their
// addresses in sorted order.
func RecalculateAll(sheet models.Sheet, f *formula.Formatter) []string {
	return recalculate(sheet, f, func(string, models.Cell) bool { return true })
}

func recalculate(sheet models.Sheet, f *formula.Formatter, match func(string, models.Cell) bool) []string {
	if f == nil {
		f = formula.NewFormatter("")
	}

	var updated []string
	for _, addr := range sheet.Addresses() {
		cell := sheet[addr]
		if !cell.HasFormula() || !match(addr, cell) {
			continue
		}
		v := formula.Evaluate(cell.Formula, sheet)
		if formula.IsMarker(v) {
			alog.Debugf(context.Background(), "recalc %s: %s evaluates to %v", addr, cell.Formula, v)
		}
		cell.Formatted = f.Format(v)
		sheet[addr] = cell
		updated = append(updated, addr)
	}
	return updated
}
