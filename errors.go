package easyquery

import (
	"errors"
	"fmt"
)

// Sentinel errors for the library's error taxonomy.
// These can be used with errors.Is() for error handling; the structured
// error types below all match their corresponding sentinel.
var (
	// ErrInvalidArgument indicates a malformed Query construction or
	// combination argument.
	ErrInvalidArgument = errors.New("easyquery: invalid argument")

	// ErrColumnNotFound indicates a requested column is absent from the table.
	ErrColumnNotFound = errors.New("easyquery: column not found")

	// ErrUnsupportedTableType indicates the table's shape matches no
	// registered backend.
	ErrUnsupportedTableType = errors.New("easyquery: unsupported table type")

	// ErrExpression indicates a string expression failed to parse or evaluate.
	ErrExpression = errors.New("easyquery: expression error")

	// ErrInvalidResultType indicates an expression expected to yield a
	// boolean mask yielded something else.
	ErrInvalidResultType = errors.New("easyquery: result is not boolean")

	// ErrResultLengthMismatch indicates a callable returned a mask whose
	// length differs from the table's row count.
	ErrResultLengthMismatch = errors.New("easyquery: result length mismatch")
)

// ColumnNotFoundError reports which column was missing.
type ColumnNotFoundError struct {
	// Column is the requested column name.
	Column string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("easyquery: column %q not found", e.Column)
}

// Is makes the error match ErrColumnNotFound under errors.Is().
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// UnsupportedTableTypeError reports the Go type that matched no backend.
type UnsupportedTableTypeError struct {
	// Table is the value whose shape could not be dispatched.
	Table any
}

// Error implements the error interface.
func (e *UnsupportedTableTypeError) Error() string {
	return fmt.Sprintf("easyquery: unsupported table type %T", e.Table)
}

// Is makes the error match ErrUnsupportedTableType under errors.Is().
func (e *UnsupportedTableTypeError) Is(target error) bool {
	return target == ErrUnsupportedTableType
}

// ExpressionError wraps a failure from the expression engine together with
// the original expression text for diagnostics.
type ExpressionError struct {
	// Expr is the expression as the caller wrote it.
	Expr string

	// Err is the underlying engine error.
	Err error
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("easyquery: expression %q: %v", e.Expr, e.Err)
}

// Unwrap implements error unwrapping for errors.Is() and errors.As().
func (e *ExpressionError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrExpression under errors.Is().
func (e *ExpressionError) Is(target error) bool {
	return target == ErrExpression
}

// InvalidResultTypeError reports a non-boolean value produced where a mask
// entry was required.
type InvalidResultTypeError struct {
	// Expr is the originating expression, empty for callable conditions.
	Expr string

	// Value is the offending result value.
	Value any
}

// Error implements the error interface.
func (e *InvalidResultTypeError) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("easyquery: expression %q produced non-boolean %T", e.Expr, e.Value)
	}
	return fmt.Sprintf("easyquery: condition produced non-boolean %T", e.Value)
}

// Is makes the error match ErrInvalidResultType under errors.Is().
func (e *InvalidResultTypeError) Is(target error) bool {
	return target == ErrInvalidResultType
}

// ResultLengthMismatchError reports a mask of the wrong length.
type ResultLengthMismatchError struct {
	// Want is the table's row count.
	Want int

	// Got is the length the condition produced.
	Got int
}

// Error implements the error interface.
func (e *ResultLengthMismatchError) Error() string {
	return fmt.Sprintf("easyquery: condition produced %d results for %d rows", e.Got, e.Want)
}

// Is makes the error match ErrResultLengthMismatch under errors.Is().
func (e *ResultLengthMismatchError) Is(target error) bool {
	return target == ErrResultLengthMismatch
}

// invalidArgumentf builds an InvalidArgument error with a formatted detail
// message that still matches ErrInvalidArgument under errors.Is().
func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
