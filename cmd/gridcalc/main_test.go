package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/output"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"sum with inputs", []string{"eval", "SUM(A1:A2)", "--set", "A1=2", "--set", "A2=3"}, "5"},
		{"leading equals", []string{"eval", "=2+3*2"}, "8"},
		{"text function", []string{"eval", `UPPER("abc")`}, "ABC"},
		{"unknown function", []string{"eval", "NOPE(1)"}, "#NAME?"},
		{"locale", []string{"eval", "=1234.5", "--locale", "de"}, "1.234,5"},
		{"average", []string{"eval", "AVERAGE(A1:B1)", "--set", "A1=1", "--set", "B1=2"}, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			if got := strings.TrimSpace(out); got != tt.expected {
				t.Errorf("eval = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := execute(t, "eval", "A1", "--set", "A1")
	assert.Error(t, err)

	_, err = execute(t, "eval", "A1", "--set", "1A=3")
	assert.ErrorIs(t, err, gridcalc.ErrInvalidAddress)

	_, err = execute(t, "eval", "A1", "--recalc", "sometimes")
	assert.ErrorIs(t, err, gridcalc.ErrInvalidOptions)
}

func writeDocument(t *testing.T, dir string) string {
	t.Helper()
	doc := &output.Document{
		Name: "prices",
		Cells: models.Sheet{
			"A1": {Value: 5.0, Formatted: "5", Type: models.CellTypeNumber},
			"B1": {Formula: "=A1*2", Formatted: "stale", Type: models.CellTypeFormula},
		},
		Layout: models.Layout{ColumnWidths: map[string]int{"B": 120}},
	}
	data, err := output.DocumentToJSON(doc, false)
	require.NoError(t, err)
	path := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRecalcJSON(t *testing.T) {
	input := writeDocument(t, t.TempDir())

	out, err := execute(t, "recalc", input)
	require.NoError(t, err)

	doc, err := output.DocumentFromJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "prices", doc.Name)
	assert.Equal(t, "10", doc.Cells["B1"].Formatted)
	assert.Equal(t, 120, doc.Layout.ColumnWidths["B"])
}

func TestRecalcExcelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := writeDocument(t, dir)
	book := filepath.Join(dir, "prices.xlsx")

	_, err := execute(t, "recalc", input, "-o", book)
	require.NoError(t, err)

	out, err := execute(t, "recalc", book, "--pretty")
	require.NoError(t, err)
	doc, err := output.DocumentFromJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "=A1*2", doc.Cells["B1"].Formula)
	assert.Equal(t, "10", doc.Cells["B1"].Formatted)
	assert.Equal(t, 120, doc.Layout.ColumnWidths["B"])
}

func TestSaveListLoad(t *testing.T) {
	dir := t.TempDir()
	input := writeDocument(t, dir)
	db := filepath.Join(dir, "sheets.db")

	out, err := execute(t, "save", "weekly", input, "--db", db)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "weekly")

	target := filepath.Join(dir, "loaded.json")
	_, err = execute(t, "load", id, "--db", db, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	doc, err := output.DocumentFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "weekly", doc.Name)
	assert.Equal(t, "10", doc.Cells["B1"].Formatted)

	_, err = execute(t, "load", "missing", "--db", db)
	assert.ErrorIs(t, err, gridcalc.ErrSheetNotFound)
}

func TestConfigAndFlags(t *testing.T) {
	config := filepath.Join(t.TempDir(), "gridcalc.yaml")
	require.NoError(t, os.WriteFile(config, []byte("columns: 2\nlocale: de\n"), 0644))

	// C1 is outside a two column grid.
	_, err := execute(t, "eval", "C1", "--config", config, "--set", "C1=1")
	assert.ErrorIs(t, err, gridcalc.ErrOutOfBounds)

	out, err := execute(t, "eval", "C1*1.5", "--config", config, "--columns", "3", "--set", "C1=1")
	require.NoError(t, err)
	assert.Equal(t, "1,5", strings.TrimSpace(out))
}
