package formula

import (
	"errors"
	"maps"
	"math"
	"slices"
	"strings"
)

// Function computes a value from already dereferenced arguments. Most
// functions ignore sheet.
type Function func(args []Value, sheet CellReader) (Value, error)

// ErrArgumentCount is returned by functions called with too few arguments.
var ErrArgumentCount = errors.New("not enough arguments")

var library = map[string]Function{
	"SUM":         sum,
	"AVERAGE":     average,
	"MAX":         maximum,
	"MIN":         minimum,
	"COUNT":       count,
	"TRIM":        stringFunc(strings.TrimSpace),
	"UPPER":       stringFunc(strings.ToUpper),
	"LOWER":       stringFunc(strings.ToLower),
	"CONCATENATE": concatenate,
	"IF":          ifFunc,
	"COUNTIF":     countIf,
	"ROUND":       round,
}

// Lookup returns the function registered under name (upper case).
func Lookup(name string) (Function, bool) {
	fn, ok := library[name]
	return fn, ok
}

// Names returns the registered function names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(library))
}

// numbers keeps only the arguments that are already numbers. Numeric
// strings are not coerced.
func numbers(args []Value) []float64 {
	var out []float64
	for _, a := range args {
		if n, ok := a.(float64); ok {
			out = append(out, n)
		}
	}
	return out
}

func sum(args []Value, _ CellReader) (Value, error) {
	total := 0.0
	for _, n := range numbers(args) {
		total += n
	}
	return total, nil
}

func average(args []Value, _ CellReader) (Value, error) {
	nums := numbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return total / float64(len(nums)), nil
}

func maximum(args []Value, _ CellReader) (Value, error) {
	nums := numbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	m := math.Inf(-1)
	for _, n := range nums {
		m = math.Max(m, n)
	}
	return m, nil
}

func minimum(args []Value, _ CellReader) (Value, error) {
	nums := numbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	m := math.Inf(1)
	for _, n := range nums {
		m = math.Min(m, n)
	}
	return m, nil
}

func count(args []Value, _ CellReader) (Value, error) {
	return float64(len(numbers(args))), nil
}

// stringFunc applies f to the first argument when it is a string and passes
// anything else through.
func stringFunc(f func(string) string) Function {
	return func(args []Value, _ CellReader) (Value, error) {
		if len(args) == 0 {
			return nil, nil
		}
		if s, ok := args[0].(string); ok {
			return f(s), nil
		}
		return args[0], nil
	}
}

func concatenate(args []Value, _ CellReader) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(String(a))
	}
	return b.String(), nil
}

func ifFunc(args []Value, _ CellReader) (Value, error) {
	if len(args) < 3 {
		return nil, ErrArgumentCount
	}
	if truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

// countIf counts the arguments strictly equal to the last one.
func countIf(args []Value, _ CellReader) (Value, error) {
	if len(args) < 2 {
		return nil, ErrArgumentCount
	}
	target := args[len(args)-1]
	n := 0
	for _, a := range args[:len(args)-1] {
		if strictEqual(a, target) {
			n++
		}
	}
	return float64(n), nil
}

func strictEqual(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	return false
}

// round rounds half toward positive infinity.
func round(args []Value, _ CellReader) (Value, error) {
	if len(args) < 1 {
		return nil, ErrArgumentCount
	}
	num, _ := args[0].(float64)
	decimals := 0.0
	if len(args) > 1 {
		decimals, _ = args[1].(float64)
	}
	factor := math.Pow(10, decimals)
	return math.Floor(num*factor+0.5) / factor, nil
}
