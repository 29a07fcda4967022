package gridcalc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Recalc != RecalcDependents {
		t.Errorf("expected default recalc mode to be dependents, got %s", opts.Recalc)
	}
	if opts.Columns != 26 || opts.Rows != 100 {
		t.Errorf("expected a 26x100 grid, got %dx%d", opts.Columns, opts.Rows)
	}
	if !opts.ShouldRecalcOnStructureChange() {
		t.Error("expected structural edits to recalculate by default")
	}
}

func TestShouldRecalcOnStructureChange(t *testing.T) {
	off := false
	opts := Options{RecalcOnStructureChange: &off}
	if opts.ShouldRecalcOnStructureChange() {
		t.Error("expected explicit false to disable recalculation")
	}
}

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Options
		wantErr bool
	}{
		{
			name:    "partial file keeps defaults",
			content: "recalc: all\nrows: 10\n",
			want:    Options{Recalc: RecalcAll, Columns: 26, Rows: 10, Locale: "en"},
		},
		{
			name:    "locale",
			content: "locale: de\n",
			want:    Options{Recalc: RecalcDependents, Columns: 26, Rows: 100, Locale: "de"},
		},
		{
			name:    "unknown mode",
			content: "recalc: sometimes\n",
			wantErr: true,
		},
		{
			name:    "negative grid",
			content: "columns: -1\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			content: "recalc: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gridcalc.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadOptions(path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Recalc != tt.want.Recalc || got.Columns != tt.want.Columns ||
				got.Rows != tt.want.Rows || got.Locale != tt.want.Locale {
				t.Errorf("LoadOptions() = %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
