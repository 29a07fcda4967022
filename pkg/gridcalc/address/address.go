// Package address converts between A1-style cell addresses and zero-based
// column/row coordinates.
package address

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
)

var (
	cellPattern    = regexp.MustCompile(`^[A-Z]+\d+$`)
	leadingLetters = regexp.MustCompile(`^[A-Z]+`)
	trailingDigits = regexp.MustCompile(`\d+$`)
	anyLetters     = regexp.MustCompile(`[A-Z]+`)
	anyDigits      = regexp.MustCompile(`\d+`)
)

// IsCell reports whether s is a single cell address such as "B12".
func IsCell(s string) bool {
	return cellPattern.MatchString(s)
}

// ColumnName returns the letters for a zero-based column index (0 is "A",
// 26 is "AA"). Negative indexes yield "".
func ColumnName(col int) string {
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// ColumnIndex returns the zero-based index of a column name, or -1 for "".
func ColumnIndex(letters string) int {
	return columnNumber(letters) - 1
}

// columnNumber returns the 1-based column number of letters (A=1), 0 for "".
func columnNumber(letters string) int {
	n := 0
	for _, ch := range letters {
		n = n*26 + int(ch-'A') + 1
	}
	return n
}

// Decode splits an address into zero-based column and row. It never fails:
// missing letters decode to column A and missing digits to row 1.
func Decode(address string) (col, row int) {
	if letters := leadingLetters.FindString(address); letters != "" {
		col = ColumnIndex(letters)
	}
	if digits := trailingDigits.FindString(address); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			row = n - 1
		}
	}
	return col, row
}

// Encode is the inverse of Decode.
func Encode(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// EncodePosition encodes a models.Position.
func EncodePosition(p models.Position) string {
	return Encode(p.Col, p.Row)
}

// DecodePosition decodes an address into a models.Position.
func DecodePosition(address string) models.Position {
	col, row := Decode(address)
	return models.Position{Col: col, Row: row}
}

// endpoint returns the 1-based column number and the row number of one side
// of a range expression. Missing parts are 0.
func endpoint(s string) (col, row int) {
	col = columnNumber(anyLetters.FindString(s))
	if digits := anyDigits.FindString(s); digits != "" {
		row, _ = strconv.Atoi(digits)
	}
	return col, row
}

func splitRange(expr string) (start, end string, ok bool) {
	parts := strings.Split(expr, ":")
	start = strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return start, "", false
	}
	end = strings.TrimSpace(parts[1])
	return start, end, end != ""
}

// ExpandRange lists the addresses covered by a range expression such as
// "A1:B3", column by column. An expression without ":" yields itself.
// Corners are not reordered: a range whose start lies after its end on
// either axis yields no addresses.
func ExpandRange(expr string) []string {
	start, end, ok := splitRange(expr)
	if !ok {
		return []string{start}
	}
	startCol, startRow := endpoint(start)
	endCol, endRow := endpoint(end)

	var cells []string
	for col := startCol; col <= endCol; col++ {
		name := ColumnName(col - 1)
		for row := startRow; row <= endRow; row++ {
			cells = append(cells, name+strconv.Itoa(row))
		}
	}
	return cells
}

// RangeSize returns len(ExpandRange(expr)) without building the list.
func RangeSize(expr string) int {
	start, end, ok := splitRange(expr)
	if !ok {
		return 1
	}
	startCol, startRow := endpoint(start)
	endCol, endRow := endpoint(end)
	if endCol < startCol || endRow < startRow {
		return 0
	}
	return (endCol - startCol + 1) * (endRow - startRow + 1)
}

// Parse strictly parses a single address, accepting "$" markers.
func Parse(address string) (col, row int, err error) {
	c, r, err := excelize.CellNameToCoordinates(strings.ReplaceAll(strings.TrimSpace(address), "$", ""))
	if err != nil {
		return 0, 0, fmt.Errorf("parse address %q: %w", address, err)
	}
	return c - 1, r - 1, nil
}

// ParseRange strictly parses "A1:B3" (or a single address) into a
// normalized models.Range.
func ParseRange(expr string) (models.Range, error) {
	parts := strings.Split(expr, ":")
	if len(parts) > 2 {
		return models.Range{}, fmt.Errorf("parse range %q: too many separators", expr)
	}
	startCol, startRow, err := Parse(parts[0])
	if err != nil {
		return models.Range{}, err
	}
	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		if endCol, endRow, err = Parse(parts[1]); err != nil {
			return models.Range{}, err
		}
	}
	r := models.Range{
		Start: models.Position{Col: startCol, Row: startRow},
		End:   models.Position{Col: endCol, Row: endRow},
	}
	return r.Normalize(), nil
}

// Addresses lists every address of r (normalized) row by row.
func Addresses(r models.Range) []string {
	n := r.Normalize()
	cells := make([]string, 0, r.Columns()*r.Rows())
	for row := n.Start.Row; row <= n.End.Row; row++ {
		for col := n.Start.Col; col <= n.End.Col; col++ {
			cells = append(cells, Encode(col, row))
		}
	}
	return cells
}
