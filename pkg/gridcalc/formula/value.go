// Package formula evaluates spreadsheet formulas against a sheet and renders
// their results for display.
//
// A formula is either a single function call such as =SUM(A1:A3) or a single
// arithmetic expression such as =A1*2+1. Errors are returned as marker
// strings, never as Go errors.
package formula

import (
	"math"
	"regexp"
	"strconv"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Value is an evaluation result or function argument: float64, string or nil.
type Value any

// Marker strings stored in place of a result.
const (
	MarkerName           = "#NAME?"
	MarkerError          = "#ERROR!"
	MarkerNotImplemented = "#NOT_IMPLEMENTED"
	MarkerNaN            = "#NaN"
	MarkerInf            = "#INF"
	MarkerNegInf         = "#-INF"
)

var markers = map[string]struct{}{
	MarkerName:           {},
	MarkerError:          {},
	MarkerNotImplemented: {},
	MarkerNaN:            {},
	MarkerInf:            {},
	MarkerNegInf:         {},
}

// IsMarker reports whether v is one of the marker strings.
func IsMarker(v Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = markers[s]
	return ok
}

// CellReader gives read access to the cells of a sheet.
type CellReader interface {
	Cell(address string) (models.Cell, bool)
}

var numericLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber parses a decimal numeric literal such as "12", "-3.5" or "1e3".
func ParseNumber(s string) (float64, bool) {
	if !numericLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// toNumber converts a stored cell value to a number.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if n == "" {
			return 0, true
		}
		return ParseNumber(n)
	}
	return 0, false
}

// Dereference returns the value a formula sees for address: nil for an
// empty cell, the number for a number-typed cell, the raw value otherwise.
func Dereference(sheet CellReader, address string) Value {
	cell, ok := sheet.Cell(address)
	if !ok {
		return nil
	}
	if cell.Type == models.CellTypeNumber {
		if n, ok := toNumber(cell.Value); ok {
			return n
		}
		return math.NaN()
	}
	return cell.Value
}

// truthy follows the usual dynamic-language rules: nil, 0, NaN and "" are false.
func truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	case bool:
		return x
	}
	return true
}

// String renders v the way string concatenation does: nil is "",
// integral numbers have no fraction.
func String(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return numberString(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	}
	return ""
}

func numberString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
