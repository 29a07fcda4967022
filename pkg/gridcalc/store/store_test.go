package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "sheets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	saved := models.SavedSheet{
		ID:   "sheet-1",
		Name: "budget",
		Cells: models.Sheet{
			"A1": {Value: 5.0, Formatted: "5", Type: models.CellTypeNumber},
			"B1": {Value: "=A1*2", Formula: "=A1*2", Formatted: "10", Type: models.CellTypeFormula},
		},
		SavedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Save(ctx, saved))

	got, err := s.Load(ctx, "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Name, got.Name)
	assert.Equal(t, saved.Cells, got.Cells)
	assert.True(t, saved.SavedAt.Equal(got.SavedAt))

	// saving the same id replaces it
	saved.Name = "renamed"
	require.NoError(t, s.Save(ctx, saved))
	got, err = s.Load(ctx, "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, gridcalc.ErrSheetNotFound)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"old", "new", "middle"} {
		at := base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		require.NoError(t, s.Save(ctx, models.SavedSheet{Name: name, Cells: models.Sheet{}, SavedAt: at}))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].Name)
	assert.Equal(t, "middle", list[1].Name)
	assert.Equal(t, "old", list[2].Name)
	for _, item := range list {
		assert.NotEmpty(t, item.ID)
		assert.Nil(t, item.Cells)
	}

	require.NoError(t, s.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, s.Delete(ctx, list[0].ID), ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestWorkbookWithStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sheets.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	w, err := gridcalc.New(gridcalc.Options{})
	require.NoError(t, err)
	w.SetStore(s)

	_, err = w.SetCell("A1", "21")
	require.NoError(t, err)
	_, err = w.SetCell("A2", "=A1*2")
	require.NoError(t, err)
	saved, err := w.SaveSheet(ctx, "answer")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// reopen as a new process would
	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	other, err := gridcalc.New(gridcalc.Options{})
	require.NoError(t, err)
	other.SetStore(s)
	_, err = other.LoadSheet(ctx, saved.ID)
	require.NoError(t, err)

	cell, ok := other.Cell("A2")
	require.True(t, ok)
	assert.Equal(t, "42", cell.Formatted)
	assert.Equal(t, "=A1*2", cell.Formula)
}

func TestOpenMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), models.SavedSheet{Name: "tmp"}))
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
