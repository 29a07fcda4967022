package models

import (
	"maps"
	"slices"
)

// Sheet maps an A1-style address to its cell. A missing entry is an empty cell.
type Sheet map[string]Cell

// Cell returns the cell stored at address.
func (s Sheet) Cell(address string) (Cell, bool) {
	c, ok := s[address]
	return c, ok
}

// Addresses returns the occupied addresses in lexical order.
func (s Sheet) Addresses() []string {
	return slices.Sorted(maps.Keys(s))
}
