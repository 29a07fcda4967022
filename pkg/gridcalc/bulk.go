package gridcalc

import (
	"context"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"go.alis.build/alog"
)

// FindReplace replaces every literal occurrence of find in the content of
// every cell, then recalculates every formula once. Replaced cells are
// rebuilt from their new text, so a number cell may become text. It returns
// the number of cells changed.
func (w *Workbook) FindReplace(find, replace string) (int, error) {
	if find == "" {
		return 0, NewOperationError("find_replace", "", ErrEmptyFind)
	}

	changed := 0
	for _, addr := range w.sheet.Addresses() {
		input := w.sheet[addr].Content()
		if !strings.Contains(input, find) {
			continue
		}
		w.write(addr, strings.ReplaceAll(input, find, replace))
		changed++
	}
	if changed > 0 {
		RecalculateAll(w.sheet, w.formatter)
	}
	alog.Infof(context.Background(), "find_replace %q -> %q: %d cells", find, replace, changed)
	return changed, nil
}

// RemoveDuplicatesInSelection runs RemoveDuplicates on the selected range.
func (w *Workbook) RemoveDuplicatesInSelection() (int, error) {
	r, ok := w.Selection()
	if !ok {
		return 0, NewOperationError("dedup", "", ErrNoRange)
	}
	return w.RemoveDuplicates(r)
}

// RemoveDuplicates removes the rows of r whose content repeats an earlier
// row of r, compared column by column. Remaining rows are packed to the top
// of the range and the freed rows are cleared. Empty rows are never counted
// as duplicates. It returns the number of rows removed.
func (w *Workbook) RemoveDuplicates(r models.Range) (int, error) {
	n := r.Normalize()
	if !w.inGrid(n.Start) || !w.inGrid(n.End) {
		return 0, NewOperationError("dedup", "", ErrOutOfBounds)
	}

	var (
		kept    [][]*models.Cell
		seen    = map[string]bool{}
		removed int
	)
	for row := n.Start.Row; row <= n.End.Row; row++ {
		cells, key := w.rowContent(n, row)
		if key == "" {
			continue
		}
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		kept = append(kept, cells)
	}

	for i := 0; i <= n.End.Row-n.Start.Row; i++ {
		for j := 0; j <= n.End.Col-n.Start.Col; j++ {
			addr := address.Encode(n.Start.Col+j, n.Start.Row+i)
			if i < len(kept) && kept[i][j] != nil {
				w.sheet[addr] = *kept[i][j]
			} else {
				delete(w.sheet, addr)
			}
		}
	}
	// rows move even when nothing is removed, so formulas are always refreshed
	RecalculateAll(w.sheet, w.formatter)
	alog.Infof(context.Background(), "dedup %s:%s: %d rows removed",
		address.EncodePosition(n.Start), address.EncodePosition(n.End), removed)
	return removed, nil
}

// rowContent returns the cells of row within r and a key built from their
// content. The key is empty when every cell is empty.
func (w *Workbook) rowContent(r models.Range, row int) ([]*models.Cell, string) {
	cells := make([]*models.Cell, 0, r.Columns())
	parts := make([]string, 0, r.Columns())
	empty := true
	for col := r.Start.Col; col <= r.End.Col; col++ {
		cell, ok := w.sheet[address.Encode(col, row)]
		if !ok {
			cells = append(cells, nil)
			parts = append(parts, "")
			continue
		}
		content := cell.Content()
		if content != "" {
			empty = false
		}
		cells = append(cells, &cell)
		parts = append(parts, content)
	}
	if empty {
		return cells, ""
	}
	return cells, strings.Join(parts, "\x00")
}
