package gridcalc

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"go.alis.build/alog"
)

// SheetStore persists saved sheets. Load must return an error wrapping
// ErrSheetNotFound for an unknown id.
type SheetStore interface {
	Save(ctx context.Context, s models.SavedSheet) error
	Load(ctx context.Context, id string) (models.SavedSheet, error)
	List(ctx context.Context) ([]models.SavedSheet, error)
}

// SetStore makes saved sheets persistent. A nil store keeps them in memory.
func (w *Workbook) SetStore(s SheetStore) {
	w.store = s
}

// SaveSheet snapshots the current sheet under name.
func (w *Workbook) SaveSheet(ctx context.Context, name string) (models.SavedSheet, error) {
	saved := models.SavedSheet{
		ID:      uuid.New().String(),
		Name:    name,
		Cells:   copySheet(w.sheet),
		SavedAt: time.Now().UTC(),
	}
	if w.store != nil {
		if err := w.store.Save(ctx, saved); err != nil {
			return models.SavedSheet{}, NewOperationError("save", "", err)
		}
	}
	w.saved[saved.ID] = saved
	alog.Infof(ctx, "saved sheet %q as %s (%d cells)", name, saved.ID, len(saved.Cells))
	return saved, nil
}

// LoadSheet replaces the current sheet with the saved sheet id and
// recalculates every formula.
func (w *Workbook) LoadSheet(ctx context.Context, id string) ([]string, error) {
	saved, ok := w.saved[id]
	if !ok {
		if w.store == nil {
			return nil, NewOperationError("load", "", fmt.Errorf("%w: %s", ErrSheetNotFound, id))
		}
		var err error
		saved, err = w.store.Load(ctx, id)
		if err != nil {
			return nil, NewOperationError("load", "", err)
		}
	}
	return w.ReplaceCells(saved.Cells), nil
}

// SavedSheets lists the saved sheets, newest first, without their cells.
func (w *Workbook) SavedSheets(ctx context.Context) ([]models.SavedSheet, error) {
	byID := map[string]models.SavedSheet{}
	if w.store != nil {
		stored, err := w.store.List(ctx)
		if err != nil {
			return nil, NewOperationError("list", "", err)
		}
		for _, s := range stored {
			byID[s.ID] = s
		}
	}
	for id, s := range w.saved {
		byID[id] = s
	}

	list := slices.Collect(maps.Values(byID))
	for i := range list {
		list[i].Cells = nil
	}
	slices.SortFunc(list, func(a, b models.SavedSheet) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}

// IsNotFound reports whether err means an unknown saved sheet.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSheetNotFound)
}
