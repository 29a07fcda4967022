package formula

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"go.alis.build/alog"
)

// MaxRangeCells bounds the number of cells a single range argument may
// expand to.
const MaxRangeCells = 1 << 16

var (
	functionCall   = regexp.MustCompile(`^([A-Z_]+)\((.*)\)$`)
	cellReference  = regexp.MustCompile(`[A-Z]+\d+`)
	arithmeticOnly = regexp.MustCompile(`^[\d\s+\-*/().]+$`)
)

// Evaluate computes the value of text against sheet.
//
// Text that does not start with "=" is returned unchanged. Otherwise the
// result is a float64, a string, nil, or one of the markers MarkerName,
// MarkerError and MarkerNotImplemented.
func Evaluate(text string, sheet CellReader) Value {
	if !strings.HasPrefix(text, "=") {
		return text
	}
	expr := strings.ToUpper(strings.TrimSpace(text[1:]))

	if m := functionCall.FindStringSubmatch(expr); m != nil {
		return evalFunction(m[1], m[2], sheet)
	}
	return evalExpression(expr, sheet)
}

func evalFunction(name, argList string, sheet CellReader) Value {
	fn, ok := Lookup(name)
	if !ok {
		return MarkerName
	}
	args, err := parseArguments(argList, sheet)
	if err != nil {
		alog.Debugf(context.Background(), "formula %s: %v", name, err)
		return MarkerError
	}
	return call(name, fn, args, sheet)
}

// call invokes fn, turning a returned error or a panic into MarkerError.
func call(name string, fn Function, args []Value, sheet CellReader) (result Value) {
	defer func() {
		if r := recover(); r != nil {
			alog.Warnf(context.Background(), "formula %s panicked: %v", name, r)
			result = MarkerError
		}
	}()

	v, err := fn(args, sheet)
	if err != nil {
		alog.Debugf(context.Background(), "formula %s: %v", name, err)
		return MarkerError
	}
	return v
}

// parseArguments splits argList on commas and resolves each piece into one
// or more values.
func parseArguments(argList string, sheet CellReader) ([]Value, error) {
	if strings.TrimSpace(argList) == "" {
		return nil, nil
	}

	var args []Value
	for _, raw := range strings.Split(argList, ",") {
		arg := strings.TrimSpace(raw)
		switch {
		case strings.Contains(arg, ":"):
			if n := address.RangeSize(arg); n > MaxRangeCells {
				return nil, fmt.Errorf("range %s spans %d cells", arg, n)
			}
			for _, addr := range address.ExpandRange(arg) {
				args = append(args, Dereference(sheet, addr))
			}
		case address.IsCell(arg):
			args = append(args, Dereference(sheet, arg))
		case arg == "":
			args = append(args, 0.0)
		default:
			if n, ok := ParseNumber(arg); ok {
				args = append(args, n)
			} else if len(arg) >= 2 && strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
				args = append(args, arg[1:len(arg)-1])
			} else {
				args = append(args, arg)
			}
		}
	}
	return args, nil
}

// evalExpression substitutes every cell reference with its numeric value
// and evaluates the result when it is pure arithmetic.
func evalExpression(expr string, sheet CellReader) Value {
	substituted := cellReference.ReplaceAllStringFunc(expr, func(ref string) string {
		if n, ok := Dereference(sheet, ref).(float64); ok {
			return numberString(n)
		}
		return "0"
	})
	if !arithmeticOnly.MatchString(substituted) {
		return MarkerNotImplemented
	}

	v, err := evalArithmetic(substituted)
	if err != nil {
		alog.Debugf(context.Background(), "arithmetic %q: %v", substituted, err)
		return MarkerError
	}
	return v
}
