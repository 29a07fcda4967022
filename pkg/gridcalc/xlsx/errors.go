package xlsx

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the Excel file to import does not exist.
var ErrFileNotFound = errors.New("xlsx: no such workbook file")

// ErrInvalidFormat indicates the file could not be opened as an Excel workbook.
var ErrInvalidFormat = errors.New("xlsx: not an Excel workbook")

// ErrSheetNotFound indicates the workbook has no sheet of the given name.
var ErrSheetNotFound = errors.New("xlsx: no such sheet in workbook")

// Error represents a failure while reading or writing one part of a sheet.
type Error struct {
	SheetName string
	Component string // "cells", "styles", "layout"
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("xlsx: %s of sheet %q: %v", e.Component, e.SheetName, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error.
func NewError(sheetName, component string, err error) *Error {
	return &Error{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
