package xlsx

// Excel stores column widths in characters of the default font and row
// heights in points. The UI works in pixels at 96 DPI.
const (
	// MaxDigitWidth is the pixel width of one character of the default font.
	MaxDigitWidth = 8
	// DefaultColumnWidth is the width of a column without explicit width.
	DefaultColumnWidth = 9.140625
	// DefaultRowHeight is the height in points of a row without explicit height.
	DefaultRowHeight = 15.0
	// PixelsPerInch and PointsPerInch relate row heights to pixels.
	PixelsPerInch = 96
	PointsPerInch = 72
)

// ColumnWidthToPixels converts a column width in characters to pixels.
func ColumnWidthToPixels(width float64) int {
	if width <= 0 {
		return 0
	}
	return int(width*MaxDigitWidth + 0.5)
}

// PixelsToColumnWidth converts pixels to a column width in characters.
func PixelsToColumnWidth(px int) float64 {
	return float64(px) / MaxDigitWidth
}

// RowHeightToPixels converts a row height in points to pixels.
func RowHeightToPixels(points float64) int {
	return int(points*PixelsPerInch/PointsPerInch + 0.5)
}

// PixelsToRowHeight converts pixels to a row height in points.
func PixelsToRowHeight(px int) float64 {
	return float64(px) * PointsPerInch / PixelsPerInch
}
