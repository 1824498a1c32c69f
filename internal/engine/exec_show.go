package engine

import (
	"strconv"
	"strings"

	"tableDB/internal/sql"
)

var showColumns = []string{"table", "columns", "rows"}

// executeShow lists every table with its column definitions and row count.
func (e *DBEngine) executeShow() (*Result, error) {
	tables := e.store.ListTables()

	rows := make([]sql.Row, 0, len(tables))
	for _, t := range tables {
		n, err := e.store.RowCount(t.Name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, sql.Row{
			sql.Text(t.Name),
			sql.Text(describeColumns(t.Columns)),
			sql.Text(strconv.Itoa(n)),
		})
	}

	return &Result{
		Kind:     KindShow,
		Tables:   []TableResult{{Name: "tables", Columns: showColumns, Rows: rows}},
		Affected: len(rows),
	}, nil
}

// describeColumns renders "id: Int PK, name: String(50)".
func describeColumns(cols []sql.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		s := c.Name + ": " + c.Type.String()
		if c.IsPrimaryKey {
			s += " PK"
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}
