package notebook

import (
	"errors"
	"fmt"
)

// Errors returned by notebook operations.
var (
	// ErrClosed indicates the notebook has been closed.
	ErrClosed = errors.New("notebook closed")

	// ErrIndexOutOfRange indicates a cell index outside the notebook.
	ErrIndexOutOfRange = errors.New("cell index out of range")

	// ErrInvalidNotebook indicates the notebook file is not valid nbformat JSON.
	ErrInvalidNotebook = errors.New("invalid notebook")
)

// ParseError represents an error while decoding a notebook file.
type ParseError struct {
	// Path is the file (or source name) that failed to parse.
	Path string
	// Message describes the problem.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
