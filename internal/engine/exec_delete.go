package engine

import (
	"fmt"

	"tableDB/internal/sql"
)

// executeDelete clears the table when there is no WHERE, otherwise removes
// every matching row.
func (e *DBEngine) executeDelete(stmt *sql.DeleteStmt) (*Result, error) {
	t, err := e.table(stmt.TableName)
	if err != nil {
		return nil, err
	}

	var deleted int
	if stmt.Where == nil {
		deleted, err = e.store.ClearRows(t.Name)
		if err != nil {
			return nil, fmt.Errorf("delete: %w", err)
		}
	} else {
		idx, err := column(t, stmt.Where.Column)
		if err != nil {
			return nil, err
		}
		rows, err := e.store.ReadRows(t.Name)
		if err != nil {
			return nil, err
		}

		targets := matchingIndexes(rows, idx, stmt.Where.Value)
		// back to front so earlier positions stay valid
		for i := len(targets) - 1; i >= 0; i-- {
			if err := e.store.DeleteRow(t.Name, targets[i]); err != nil {
				return nil, fmt.Errorf("delete: %w", err)
			}
		}
		deleted = len(targets)
	}

	return &Result{
		Kind:     KindDelete,
		Table:    t.Name,
		Affected: deleted,
		Message:  fmt.Sprintf("Successfully deleted %d rows from table '%s'", deleted, t.Name),
	}, nil
}
