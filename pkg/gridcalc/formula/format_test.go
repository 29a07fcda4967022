package formula

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		input Value
		want  string
	}{
		{math.NaN(), MarkerNaN},
		{math.Inf(1), MarkerInf},
		{math.Inf(-1), MarkerNegInf},
		{20.0, "20"},
		{1234567.891, "1,234,567.891"},
		{-1234.5, "-1,234.5"},
		{0.1 + 0.2, "0.3"},
		{1.0 / 3.0, "0.3333333333"},
		{"text", "text"},
		{MarkerName, MarkerName},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := Format(tt.input); got != tt.want {
			t.Errorf("Format(%v) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatShortestDecimal(t *testing.T) {
	x, y := 1.1, 4.35
	tests := []struct {
		input float64
		want  string
	}{
		{x * x, "1.21"},
		{y * 100, "435"},
		{123456789.123, "123,456,789.123"},
		{0.0000000001, "0.0000000001"},
		{0.00000000004, "0"},
		{2.00000000006, "2.0000000001"},
	}

	for _, tt := range tests {
		if got := Format(tt.input); got != tt.want {
			t.Errorf("Format(%v) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatterLocale(t *testing.T) {
	if got := NewFormatter("de").Format(1234.5); got != "1.234,5" {
		t.Errorf("de Format(1234.5) = %q, expected %q", got, "1.234,5")
	}
	if got := NewFormatter("not a locale!").Format(1234.5); got != "1,234.5" {
		t.Errorf("fallback Format(1234.5) = %q, expected %q", got, "1,234.5")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input Value
		want  string
	}{
		{nil, ""},
		{2.0, "2"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
		{"s", "s"},
	}

	for _, tt := range tests {
		if got := String(tt.input); got != tt.want {
			t.Errorf("String(%v) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}
