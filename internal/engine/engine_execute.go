package engine

import (
	"fmt"

	"tableDB/internal/sql"
)

// StatementKind names what a Result came from.
type StatementKind string

const (
	KindSelect StatementKind = "SELECT"
	KindInsert StatementKind = "INSERT"
	KindUpdate StatementKind = "UPDATE"
	KindDelete StatementKind = "DELETE"
	KindCreate StatementKind = "CREATE TABLE"
	KindShow   StatementKind = "SHOW TABLES"
)

// TableResult is one rendered table of a read.
type TableResult struct {
	Name    string
	Columns []string
	Rows    []sql.Row
	// Heading prints the table name above the grid.
	Heading bool
}

// Result is the outcome of one statement: tables for reads, an affected-row
// count and status message for writes.
type Result struct {
	Kind     StatementKind
	Table    string
	Tables   []TableResult
	Affected int
	Message  string
}

// Mutated reports whether the statement changed the store.
func (r *Result) Mutated() bool {
	switch r.Kind {
	case KindCreate:
		return true
	case KindInsert, KindUpdate, KindDelete:
		return r.Affected > 0
	default:
		return false
	}
}

// Execute applies one parsed statement. Every write validates the whole
// statement before the first row is touched, so an error never leaves a
// partial change behind.
func (e *DBEngine) Execute(stmt sql.Statement) (*Result, error) {
	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	switch s := stmt.(type) {
	case *sql.SelectStmt:
		return e.executeSelect(s)
	case *sql.MultiSelectStmt:
		return e.executeMultiSelect(s)
	case *sql.JoinSelectStmt:
		return nil, &NotImplementedError{Feature: "JOIN"}
	case *sql.InsertStmt:
		return e.executeInsert(s)
	case *sql.UpdateStmt:
		return e.executeUpdate(s)
	case *sql.DeleteStmt:
		return e.executeDelete(s)
	case *sql.CreateTableStmt:
		return e.executeCreate(s)
	case *sql.ShowTablesStmt:
		return e.executeShow()
	case *sql.UnsupportedStmt:
		return nil, &UnsupportedCommandError{Keyword: s.Keyword}
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}
