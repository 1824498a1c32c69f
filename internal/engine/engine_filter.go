package engine

import (
	"tableDB/internal/sql"
)

// matches is the only comparison the language has: exact text equality.
// A NULL cell never matches, and neither does a NULL literal.
func matches(v sql.Value, lit sql.Literal) bool {
	if !v.Valid || lit.Null {
		return false
	}
	return v.S == lit.Text
}

// matchingIndexes returns the positions of rows whose column idx matches lit.
func matchingIndexes(rows []sql.Row, idx int, lit sql.Literal) []int {
	var out []int
	for i, row := range rows {
		if idx < len(row) && matches(row[idx], lit) {
			out = append(out, i)
		}
	}
	return out
}

// filterRows keeps the rows matching cond; a nil cond keeps everything.
func filterRows(t *sql.Table, rows []sql.Row, cond *sql.Condition) ([]sql.Row, error) {
	if cond == nil {
		return rows, nil
	}
	idx, err := column(t, cond.Column)
	if err != nil {
		return nil, err
	}

	out := make([]sql.Row, 0, len(rows))
	for _, i := range matchingIndexes(rows, idx, cond.Value) {
		out = append(out, rows[i])
	}
	return out, nil
}

// projectColumns returns only the requested columns (in that order).
// Header names keep their declared spelling.
func projectColumns(t *sql.Table, rows []sql.Row, requested []string) ([]string, []sql.Row, error) {
	if len(requested) == 0 {
		return t.ColumnNames(), rows, nil
	}

	indexes := make([]int, len(requested))
	outCols := make([]string, len(requested))
	for i, name := range requested {
		idx, err := column(t, name)
		if err != nil {
			return nil, nil, err
		}
		indexes[i] = idx
		outCols[i] = t.Columns[idx].Name
	}

	outRows := make([]sql.Row, 0, len(rows))
	for _, r := range rows {
		proj := make(sql.Row, len(indexes))
		for i, idx := range indexes {
			proj[i] = r[idx]
		}
		outRows = append(outRows, proj)
	}
	return outCols, outRows, nil
}
