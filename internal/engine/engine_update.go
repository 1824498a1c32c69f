package engine

import (
	"tableDB/internal/sql"
)

// assignment is a SET entry resolved to a column position.
type assignment struct {
	idx   int
	value sql.Value
}

// resolveAssignments resolves every SET column and converts its literal.
func (e *DBEngine) resolveAssignments(t *sql.Table, assigns []sql.Assignment) ([]assignment, error) {
	out := make([]assignment, 0, len(assigns))
	for _, a := range assigns {
		idx, err := column(t, a.Column)
		if err != nil {
			return nil, err
		}
		col := t.Columns[idx]
		v, err := literalValue(col, a.Value, e.validateUpdates)
		if err != nil {
			return nil, err
		}
		if err := e.checkLength(col, v); err != nil {
			return nil, err
		}
		out = append(out, assignment{idx: idx, value: v})
	}
	return out, nil
}

// applyUpdate returns a copy of rows with the assignments applied to the
// rows at the given positions. The input is left untouched.
func applyUpdate(rows []sql.Row, targets []int, assigns []assignment) []sql.Row {
	out := make([]sql.Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	for _, i := range targets {
		updated := rows[i].Clone()
		for _, a := range assigns {
			updated[a.idx] = a.value
		}
		out[i] = updated
	}
	return out
}
