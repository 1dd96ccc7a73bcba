// Package errs defines the error taxonomy shared by the data store.
//
// Three failure classes exist:
//   - ErrNotFound: a hard reference lookup missed (no temporal fallback)
//   - MalformedRecordError: file content violates the expected shape
//   - InvalidArgumentError: caller misuse
//
// A missing file or an empty trading day is not an error anywhere in the
// store; absence is data and is represented as an empty result.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missed hard reference lookup.
var ErrNotFound = errors.New("not found")

// MalformedRecordError reports file content that violates the expected
// record shape: wrong field count, unparsable number or date, or a
// non-monotonic bar time. Line is 1-based.
type MalformedRecordError struct {
	File string
	Line int
	Msg  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s:%d: %s", e.File, e.Line, e.Msg)
}

// Malformed builds a MalformedRecordError for the given file and line.
func Malformed(file string, line int, format string, args ...any) error {
	return &MalformedRecordError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgumentError reports caller misuse, e.g. a back-adjusted query
// for a ticker or an inverted date range.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Msg
}

// Invalidf builds an InvalidArgumentError.
func Invalidf(format string, args ...any) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, args...)}
}
