package formula

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MaxFractionDigits is the most fractional digits a formatted number shows.
const MaxFractionDigits = 10

// Formatter renders values for display using a locale's number format.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for the BCP 47 locale tag. An empty or
// unparsable tag falls back to English.
func NewFormatter(locale string) *Formatter {
	tag := language.English
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

var english = NewFormatter("en")

// Format renders v with the English number format.
func Format(v Value) string {
	return english.Format(v)
}

// Format renders v: numbers are grouped with at most MaxFractionDigits
// fractional digits, degenerate numbers become markers, strings are
// returned unchanged and nil is "".
func (f *Formatter) Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return f.number(x)
	case int:
		return f.number(float64(x))
	}
	return String(v)
}

func (f *Formatter) number(n float64) string {
	switch {
	case math.IsNaN(n):
		return MarkerNaN
	case math.IsInf(n, 1):
		return MarkerInf
	case math.IsInf(n, -1):
		return MarkerNegInf
	}
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(fractionDigits(n))))
}

// fractionDigits returns the number of fractional digits of the shortest
// decimal that round-trips to n, capped at MaxFractionDigits.
func fractionDigits(n float64) int {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return min(len(s)-i-1, MaxFractionDigits)
}
