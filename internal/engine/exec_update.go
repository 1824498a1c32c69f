package engine

import (
	"fmt"

	"tableDB/internal/sql"
)

// executeUpdate resolves the WHERE column and every SET column before any
// row is written.
func (e *DBEngine) executeUpdate(stmt *sql.UpdateStmt) (*Result, error) {
	t, err := e.table(stmt.TableName)
	if err != nil {
		return nil, err
	}

	whereIdx, err := column(t, stmt.Where.Column)
	if err != nil {
		return nil, err
	}
	assigns, err := e.resolveAssignments(t, stmt.Assignments)
	if err != nil {
		return nil, err
	}

	rows, err := e.store.ReadRows(t.Name)
	if err != nil {
		return nil, err
	}

	targets := matchingIndexes(rows, whereIdx, stmt.Where.Value)
	updated := applyUpdate(rows, targets, assigns)
	if err := e.checkPrimaryKeys(t, updated); err != nil {
		return nil, err
	}

	for _, i := range targets {
		if err := e.store.UpdateRow(t.Name, i, updated[i]); err != nil {
			return nil, fmt.Errorf("update: %w", err)
		}
	}

	return &Result{
		Kind:     KindUpdate,
		Table:    t.Name,
		Affected: len(targets),
		Message:  fmt.Sprintf("Successfully updated %d rows in table '%s'", len(targets), t.Name),
	}, nil
}
