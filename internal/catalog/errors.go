package catalog

import (
	"errors"
	"fmt"
)

// IOError reports a path that could not be read or written
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports content that is not a valid catalog document
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid catalog document: %v", e.Err)
	}
	return fmt.Sprintf("invalid catalog document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an expected file that does not exist, such as a missing rendering
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// OpCopy marks IOErrors raised while duplicating outputs to the copy directory
const OpCopy = "copy"

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsParse reports whether err is or wraps a ParseError
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsCopyFailure reports whether err was raised by the secondary copy step
func IsCopyFailure(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe) && ioe.Op == OpCopy
}
