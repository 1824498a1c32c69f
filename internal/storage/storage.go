package storage

import (
	"errors"

	"tableDB/internal/sql"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableExists   = errors.New("table already exists")
	ErrRowIndex      = errors.New("row index out of range")
	ErrColumnCount   = errors.New("row does not match column count")
)

// Engine owns a set of tables and their rows.
//
// Table names are compared with sql.FoldName on every path. Rows are kept in
// insertion order and addressed by their position in that order.
//
// Implementations:
//   - memstore: the in-memory store used for a session
//   - filestore (elsewhere) persists a Snapshot and feeds Restore
type Engine interface {
	// CreateTable adds a new empty table. A name that already exists under
	// the collation fails with ErrTableExists.
	CreateTable(name string, cols []sql.Column) error

	// TableSchema returns the table's name and columns, without rows.
	TableSchema(name string) (*sql.Table, error)

	// ListTables returns every table schema in creation order.
	ListTables() []*sql.Table

	// InsertRow appends row. A missing table fails with ErrTableNotFound and
	// nothing changes.
	InsertRow(name string, row sql.Row) error

	// ReadRows returns a copy of the table's rows in order.
	ReadRows(name string) ([]sql.Row, error)

	// UpdateRow overwrites the row at index. An index outside the table
	// fails with ErrRowIndex and nothing changes.
	UpdateRow(name string, index int, row sql.Row) error

	// DeleteRow removes the row at index, shifting later rows down by one.
	DeleteRow(name string, index int) error

	// ClearRows removes every row and reports how many there were.
	ClearRows(name string) (int, error)

	// RowCount reports how many rows the table holds.
	RowCount(name string) (int, error)

	// Snapshot copies every table with its rows, in creation order.
	Snapshot() []*sql.Table

	// Restore replaces the whole store with tables.
	Restore(tables []*sql.Table) error
}
