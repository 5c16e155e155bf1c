package config

import (
	"errors"
	"fmt"
)

var (
	// ErrEncode indicates no JSON representation could be produced
	ErrEncode = errors.New("encode configuration")

	// ErrRead indicates the configuration file could not be read
	ErrRead = errors.New("read configuration")

	// ErrParse indicates the input is not valid configuration JSON
	ErrParse = errors.New("parse configuration")

	// ErrMissingField indicates a required field is absent or null
	ErrMissingField = errors.New("missing required field")

	// ErrInvalid is returned by Validate
	ErrInvalid = errors.New("invalid configuration")
)

// Error wraps a configuration failure with the operation and, for file
// operations, the path involved.
type Error struct {
	Op   string // Operation that failed
	Path string // File path if applicable
	Err  error  // Underlying error, matches one of the Err* kinds
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
