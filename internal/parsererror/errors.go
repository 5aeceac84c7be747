// Package parsererror defines the typed errors raised while turning a statement file into transactions.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrNoAmountStrategy means the column mapping resolved neither an amount column
// nor a debit/credit pair, so no row could ever produce a transaction.
var ErrNoAmountStrategy = errors.New("no amount column and no debit/credit columns")

// ErrEmptyFile is returned for files with no content once the byte-order mark is removed.
var ErrEmptyFile = errors.New("file is empty")

// ParseError represents a cell that could not be interpreted.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RowError records an unexpected failure on one data row.
// Row is 1-based with the header on row 1.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is a file-level failure: nothing in the file can be imported.
type InvalidFormatError struct {
	Source         string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	source := e.Source
	if source == "" {
		source = "<input>"
	}
	if e.ExpectedFormat != "" {
		return fmt.Sprintf("invalid format in '%s': %s. Expected: %s", source, e.Msg, e.ExpectedFormat)
	}
	return fmt.Sprintf("invalid format in '%s': %s", source, e.Msg)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// EmptyImportError is returned when a file was readable but yielded no valid transaction.
type EmptyImportError struct {
	Rows int
}

func (e *EmptyImportError) Error() string {
	return fmt.Sprintf("no valid transaction found in %d data rows", e.Rows)
}

// IsFileLevel reports whether err aborts a whole ingestion.
func IsFileLevel(err error) bool {
	var invalid *InvalidFormatError
	var empty *EmptyImportError
	return errors.As(err, &invalid) || errors.As(err, &empty) ||
		errors.Is(err, ErrNoAmountStrategy) || errors.Is(err, ErrEmptyFile)
}
