package gridcalc

import (
	"context"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"go.alis.build/alog"
)

// InsertRow shifts row (0-based) and every row below it down by one.
// Cells pushed past the last row are dropped. Formula text is not rewritten.
func (w *Workbook) InsertRow(row int) error {
	if row < 0 || row >= w.opts.Rows {
		return NewOperationError("insert_row", "", ErrOutOfBounds)
	}
	w.shift("insert_row", func(p models.Position) (models.Position, bool) {
		if p.Row >= row {
			p.Row++
		}
		return p, true
	})
	return nil
}

// DeleteRow removes row (0-based) and shifts the rows below it up by one.
func (w *Workbook) DeleteRow(row int) error {
	if row < 0 || row >= w.opts.Rows {
		return NewOperationError("delete_row", "", ErrOutOfBounds)
	}
	w.shift("delete_row", func(p models.Position) (models.Position, bool) {
		switch {
		case p.Row == row:
			return p, false
		case p.Row > row:
			p.Row--
		}
		return p, true
	})
	return nil
}

// InsertColumn shifts col (0-based) and every column to its right by one.
func (w *Workbook) InsertColumn(col int) error {
	if col < 0 || col >= w.opts.Columns {
		return NewOperationError("insert_column", address.ColumnName(col), ErrOutOfBounds)
	}
	w.shift("insert_column", func(p models.Position) (models.Position, bool) {
		if p.Col >= col {
			p.Col++
		}
		return p, true
	})
	return nil
}

// DeleteColumn removes col (0-based) and shifts the columns to its right
// left by one.
func (w *Workbook) DeleteColumn(col int) error {
	if col < 0 || col >= w.opts.Columns {
		return NewOperationError("delete_column", address.ColumnName(col), ErrOutOfBounds)
	}
	w.shift("delete_column", func(p models.Position) (models.Position, bool) {
		switch {
		case p.Col == col:
			return p, false
		case p.Col > col:
			p.Col--
		}
		return p, true
	})
	return nil
}

// shift rebuilds the sheet by moving every cell through move. A cell is
// dropped when move rejects it or moves it off the grid.
func (w *Workbook) shift(op string, move func(models.Position) (models.Position, bool)) {
	ctx := context.Background()
	next := make(models.Sheet, len(w.sheet))
	dropped := 0
	for addr, cell := range w.sheet {
		p, ok := move(address.DecodePosition(addr))
		if !ok {
			continue
		}
		if !w.inGrid(p) {
			alog.Warnf(ctx, "%s: dropping %s pushed outside the grid", op, addr)
			dropped++
			continue
		}
		next[address.EncodePosition(p)] = cell
	}
	w.sheet = next
	w.selected = ""
	w.selection = nil

	var updated []string
	if w.opts.ShouldRecalcOnStructureChange() {
		updated = RecalculateAll(w.sheet, w.formatter)
	}
	alog.Infof(ctx, "%s: %d cells, %d dropped, %d recalculated", op, len(next), dropped, len(updated))
}
