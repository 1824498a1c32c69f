package engine

import (
	"tableDB/internal/sql"
)

func (e *DBEngine) readTable(name string) (*sql.Table, []sql.Row, error) {
	t, err := e.table(name)
	if err != nil {
		return nil, nil, err
	}
	rows, err := e.store.ReadRows(t.Name)
	if err != nil {
		return nil, nil, err
	}
	return t, rows, nil
}

// executeSelect filters first (on the full column set) and then projects.
func (e *DBEngine) executeSelect(stmt *sql.SelectStmt) (*Result, error) {
	t, rows, err := e.readTable(stmt.TableName)
	if err != nil {
		return nil, err
	}

	rows, err = filterRows(t, rows, stmt.Where)
	if err != nil {
		return nil, err
	}

	cols, rows, err := projectColumns(t, rows, stmt.Columns)
	if err != nil {
		return nil, err
	}

	return &Result{
		Kind:     KindSelect,
		Table:    t.Name,
		Tables:   []TableResult{{Name: t.Name, Columns: cols, Rows: rows}},
		Affected: len(rows),
	}, nil
}

// executeMultiSelect renders each listed table on its own, in order. The
// first missing table fails the whole statement.
func (e *DBEngine) executeMultiSelect(stmt *sql.MultiSelectStmt) (*Result, error) {
	res := &Result{Kind: KindSelect}
	for _, name := range stmt.TableNames {
		t, rows, err := e.readTable(name)
		if err != nil {
			return nil, err
		}
		res.Tables = append(res.Tables, TableResult{
			Name:    t.Name,
			Columns: t.ColumnNames(),
			Rows:    rows,
			Heading: true,
		})
		res.Affected += len(rows)
	}
	return res, nil
}
