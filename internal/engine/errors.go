package engine

import (
	"errors"
	"fmt"

	"tableDB/internal/storage"
)

// Sentinel errors for execution failures. Table lookups reuse the storage
// sentinels so callers can match either layer with errors.Is.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnCount    = storage.ErrColumnCount
	ErrUnsupported    = errors.New("unsupported command")
	ErrNotImplemented = errors.New("not implemented")
	// ErrConstraint is wrapped by the optional schema checks.
	ErrConstraint = errors.New("constraint violation")
)

type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table '%s' does not exist", e.Table)
}

func (e *TableNotFoundError) Unwrap() error { return storage.ErrTableNotFound }

type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table '%s' already exists", e.Table)
}

func (e *TableExistsError) Unwrap() error { return storage.ErrTableExists }

type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' does not exist in table '%s'", e.Column, e.Table)
}

func (e *ColumnNotFoundError) Unwrap() error { return ErrColumnNotFound }

// ColumnCountMismatchError reports an INSERT whose value list does not match
// the table's column count.
type ColumnCountMismatchError struct {
	Table    string
	Expected int
	Actual   int
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("column count doesn't match for table '%s': expected %d, got %d",
		e.Table, e.Expected, e.Actual)
}

func (e *ColumnCountMismatchError) Unwrap() error { return ErrColumnCount }

type UnsupportedCommandError struct {
	Keyword string
}

func (e *UnsupportedCommandError) Error() string {
	if e.Keyword == "" {
		return "unsupported command"
	}
	return fmt.Sprintf("unsupported command: %s", e.Keyword)
}

func (e *UnsupportedCommandError) Unwrap() error { return ErrUnsupported }

type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Feature)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// LengthExceededError is returned when length enforcement is on and a value
// has more characters than its column declares.
type LengthExceededError struct {
	Column string
	Limit  int
	Actual int
}

func (e *LengthExceededError) Error() string {
	return fmt.Sprintf("value for column '%s' is %d characters long, limit is %d", e.Column, e.Actual, e.Limit)
}

func (e *LengthExceededError) Unwrap() error { return ErrConstraint }

// DuplicateKeyError is returned when primary-key enforcement is on and a
// write would repeat an existing key.
type DuplicateKeyError struct {
	Table  string
	Column string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value %s for primary key '%s' in table '%s'", e.Value, e.Column, e.Table)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrConstraint }
