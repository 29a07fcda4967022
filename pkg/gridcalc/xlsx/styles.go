package xlsx

import (
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
)

// DefaultFontSize is the font size of the default Excel style.
const DefaultFontSize = 11

// ExtractStyles reads the styles of the cells of the grid that carry a
// non-default style.
func ExtractStyles(f *excelize.File, sheetName string, cols, rows int) (map[string]models.CellStyle, error) {
	styles := make(map[string]models.CellStyle)
	byID := make(map[int]models.CellStyle)

	for rowIdx := 0; rowIdx < rows; rowIdx++ {
		for colIdx := 0; colIdx < cols; colIdx++ {
			addr := address.Encode(colIdx, rowIdx)
			id, err := f.GetCellStyle(sheetName, addr)
			if err != nil {
				return nil, NewError(sheetName, "styles", err)
			}
			if id == 0 {
				continue
			}

			style, ok := byID[id]
			if !ok {
				xs, err := f.GetStyle(id)
				if err != nil {
					return nil, NewError(sheetName, "styles", err)
				}
				style = fromExcelStyle(xs)
				byID[id] = style
			}
			if !style.IsZero() {
				styles[addr] = style
			}
		}
	}
	return styles, nil
}

func fromExcelStyle(xs *excelize.Style) models.CellStyle {
	var s models.CellStyle
	if xs == nil {
		return s
	}

	if font := xs.Font; font != nil {
		if font.Bold {
			s.Bold = ptr(true)
		}
		if font.Italic {
			s.Italic = ptr(true)
		}
		if size := int(font.Size); size > 0 && size != DefaultFontSize {
			s.FontSize = ptr(size)
		}
		s.Color = cssColor(font.Color)
	}
	if xs.Fill.Type == "pattern" && xs.Fill.Pattern == 1 && len(xs.Fill.Color) > 0 {
		s.BackgroundColor = cssColor(xs.Fill.Color[0])
	}
	if xs.Alignment != nil {
		switch models.Align(xs.Alignment.Horizontal) {
		case models.AlignLeft, models.AlignCenter, models.AlignRight:
			s.Align = models.Align(xs.Alignment.Horizontal)
		}
	}
	return s
}

func toExcelStyle(s models.CellStyle) *excelize.Style {
	xs := &excelize.Style{}
	if s.Bold != nil || s.Italic != nil || s.FontSize != nil || s.Color != "" {
		font := &excelize.Font{Color: strings.TrimPrefix(s.Color, "#")}
		if s.Bold != nil {
			font.Bold = *s.Bold
		}
		if s.Italic != nil {
			font.Italic = *s.Italic
		}
		if s.FontSize != nil {
			font.Size = float64(*s.FontSize)
		}
		xs.Font = font
	}
	if s.BackgroundColor != "" {
		xs.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(s.BackgroundColor, "#")},
		}
	}
	if s.Align != "" {
		xs.Alignment = &excelize.Alignment{Horizontal: string(s.Align)}
	}
	return xs
}

// cssColor turns an RGB hex string into "#rrggbb". Anything else is dropped.
func cssColor(rgb string) string {
	if len(rgb) != 6 {
		return ""
	}
	return "#" + strings.ToLower(rgb)
}

func ptr[T any](v T) *T {
	return &v
}
