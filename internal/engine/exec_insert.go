package engine

import (
	"fmt"

	"tableDB/internal/sql"
)

// executeInsert checks arity, then validates every literal in column order.
// The row is appended only after all checks pass.
func (e *DBEngine) executeInsert(stmt *sql.InsertStmt) (*Result, error) {
	t, err := e.table(stmt.TableName)
	if err != nil {
		return nil, err
	}

	if len(stmt.Values) != len(t.Columns) {
		return nil, &ColumnCountMismatchError{Table: t.Name, Expected: len(t.Columns), Actual: len(stmt.Values)}
	}

	row := make(sql.Row, len(t.Columns))
	for i, col := range t.Columns {
		v, err := literalValue(col, stmt.Values[i], true)
		if err != nil {
			return nil, err
		}
		if err := e.checkLength(col, v); err != nil {
			return nil, err
		}
		row[i] = v
	}

	if e.enforcePrimaryKeys {
		existing, err := e.store.ReadRows(t.Name)
		if err != nil {
			return nil, err
		}
		if err := e.checkPrimaryKeys(t, append(existing, row)); err != nil {
			return nil, err
		}
	}

	if err := e.store.InsertRow(t.Name, row); err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	return &Result{
		Kind:     KindInsert,
		Table:    t.Name,
		Affected: 1,
		Message:  fmt.Sprintf("Successfully inserted 1 row into table '%s'", t.Name),
	}, nil
}
