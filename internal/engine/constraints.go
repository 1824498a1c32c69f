package engine

import (
	"unicode/utf8"

	"tableDB/internal/sql"
)

// checkLength applies the declared Char/String length when enforcement is on.
// Lengths count characters, not bytes.
func (e *DBEngine) checkLength(col sql.Column, v sql.Value) error {
	if !e.enforceLengths || !col.Type.HasLength() || !v.Valid {
		return nil
	}
	if n := utf8.RuneCountInString(v.S); n > col.Type.Length {
		return &LengthExceededError{Column: col.Name, Limit: col.Type.Length, Actual: n}
	}
	return nil
}

// checkPrimaryKeys reports the first primary-key column holding the same
// value twice across rows. NULL keys are ignored.
func (e *DBEngine) checkPrimaryKeys(t *sql.Table, rows []sql.Row) error {
	if !e.enforcePrimaryKeys {
		return nil
	}
	for idx, col := range t.Columns {
		if !col.IsPrimaryKey {
			continue
		}
		seen := make(map[string]bool, len(rows))
		for _, r := range rows {
			v := r[idx]
			if !v.Valid {
				continue
			}
			if seen[v.S] {
				return &DuplicateKeyError{Table: t.Name, Column: col.Name, Value: v.S}
			}
			seen[v.S] = true
		}
	}
	return nil
}

// literalValue turns a literal into a stored value, validating it against
// the column type when validate is set.
func literalValue(col sql.Column, lit sql.Literal, validate bool) (sql.Value, error) {
	if lit.Null {
		return sql.Null(), nil
	}
	if !validate {
		return sql.Text(lit.Text), nil
	}
	s, err := sql.Validate(col.Type, lit.Text)
	if err != nil {
		return sql.Value{}, err
	}
	return sql.Text(s), nil
}
