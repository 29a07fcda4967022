package gridcalc

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress indicates a malformed cell address or range.
var ErrInvalidAddress = errors.New("invalid address")

// ErrInvalidValue indicates a value of an unsupported type.
var ErrInvalidValue = errors.New("invalid value")

// ErrOutOfBounds indicates an address, row or column outside the grid.
var ErrOutOfBounds = errors.New("out of bounds")

// ErrNoSelection indicates an operation that needs a selected cell.
var ErrNoSelection = errors.New("no cell selected")

// ErrNoRange indicates an operation that needs a selected range.
var ErrNoRange = errors.New("no range selected")

// ErrEmptyFind indicates a find/replace with nothing to find.
var ErrEmptyFind = errors.New("find text is empty")

// ErrClipboardEmpty indicates a paste before any copy or cut.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// ErrSheetNotFound indicates an unknown saved sheet id.
var ErrSheetNotFound = errors.New("saved sheet not found")

// ErrInvalidOptions indicates options that cannot describe a grid.
var ErrInvalidOptions = errors.New("invalid options")

// OperationError represents a failed workbook operation.
type OperationError struct {
	Op      string // "set", "style", "select", "insert_row", ...
	Address string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Address, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, address string, err error) *OperationError {
	return &OperationError{
		Op:      op,
		Address: address,
		Err:     err,
	}
}
