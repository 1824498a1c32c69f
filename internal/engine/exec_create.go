package engine

import (
	"errors"
	"fmt"

	"tableDB/internal/sql"
	"tableDB/internal/storage"
)

// CreateTable creates a new table in the underlying storage engine.
func (e *DBEngine) CreateTable(name string, cols []sql.Column) error {
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	err := e.store.CreateTable(name, cols)
	if errors.Is(err, storage.ErrTableExists) {
		return &TableExistsError{Table: name}
	}
	return err
}

func (e *DBEngine) executeCreate(stmt *sql.CreateTableStmt) (*Result, error) {
	if err := e.CreateTable(stmt.TableName, stmt.Columns); err != nil {
		return nil, err
	}
	return &Result{
		Kind:    KindCreate,
		Table:   stmt.TableName,
		Message: fmt.Sprintf("Table '%s' created with %d columns", stmt.TableName, len(stmt.Columns)),
	}, nil
}
