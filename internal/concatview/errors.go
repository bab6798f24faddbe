package concatview

import (
	"errors"
	"fmt"
)

// Fatal conditions. They are raised with panic, wrapped in a *FatalError.
var (
	// ErrSaveUnsupported indicates Save was called on the concatenated view.
	ErrSaveUnsupported = errors.New("concatenated view cannot be saved")

	// ErrCellNotFound indicates the engine resolved a location to a cell the
	// notebook no longer has.
	ErrCellNotFound = errors.New("cell not found in notebook")
)

// FatalError is the panic value for broken adapter invariants.
type FatalError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("concatview: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(op string, err error) {
	panic(&FatalError{Op: op, Err: err})
}
