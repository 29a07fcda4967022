// Package gridcalc provides an in-memory spreadsheet with formula evaluation
// and automatic recalculation.
package gridcalc

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// RecalcMode selects which formula cells are re-evaluated after an edit.
type RecalcMode string

const (
	// RecalcDependents re-evaluates the formulas whose text mentions the
	// edited address. It is a single pass and does not follow chains.
	RecalcDependents RecalcMode = "dependents"
	// RecalcAll re-evaluates every formula in the sheet.
	RecalcAll RecalcMode = "all"
)

// Options configures a Workbook.
type Options struct {
	// Recalc specifies the recalculation mode after a single edit (dependents, all).
	Recalc RecalcMode `yaml:"recalc"`
	// Columns is the number of columns of the grid.
	Columns int `yaml:"columns"`
	// Rows is the number of rows of the grid.
	Rows int `yaml:"rows"`
	// Locale is the BCP 47 tag used to format numbers.
	Locale string `yaml:"locale"`
	// RecalcOnStructureChange specifies whether inserting or deleting rows
	// and columns recalculates every formula. When false, formula cells keep
	// the formatted value computed before the edit until their next
	// recalculation, even if the cells they read have moved.
	// If nil, defaults to true.
	RecalcOnStructureChange *bool `yaml:"recalc_on_structure_change"`
}

// DefaultOptions returns the options of a 26x100 English grid.
func DefaultOptions() Options {
	return Options{
		Recalc:  RecalcDependents,
		Columns: 26,
		Rows:    100,
		Locale:  "en",
	}
}

// ShouldRecalcOnStructureChange returns whether structural edits recalculate.
func (o Options) ShouldRecalcOnStructureChange() bool {
	if o.RecalcOnStructureChange != nil {
		return *o.RecalcOnStructureChange
	}
	return true
}

// WithDefaults returns o with every unset field taken from DefaultOptions.
func (o Options) WithDefaults() Options {
	// mergo only fails on mismatched types
	_ = mergo.Merge(&o, DefaultOptions())
	return o
}

// Validate checks that o describes a usable grid.
func (o Options) Validate() error {
	switch o.Recalc {
	case RecalcDependents, RecalcAll:
	default:
		return fmt.Errorf("%w: unknown recalc mode %q", ErrInvalidOptions, o.Recalc)
	}
	if o.Columns <= 0 || o.Rows <= 0 {
		return fmt.Errorf("%w: grid must have at least one row and column, got %dx%d", ErrInvalidOptions, o.Columns, o.Rows)
	}
	return nil
}

// LoadOptions reads options from a YAML file. Fields missing from the file
// keep their default values.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
