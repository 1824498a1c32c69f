package sql

import (
	"strings"
)

// parseSelect parses the three SELECT forms:
//
//	SELECT * FROM users;
//	SELECT id, name FROM users WHERE active = true;
//	SELECT * FROM users ORDER BY id;       (words after the table are ignored)
//	SELECT * FROM users AND orders;        (each table rendered on its own)
//	SELECT * FROM users JOIN orders ON ... (recognized, never executed)
func parseSelect(query string) (Statement, error) {
	g, err := selectParser.ParseString("", query)
	if err != nil {
		return nil, wrapGrammarError("SELECT", err)
	}

	if len(g.Joins) > 0 {
		joins := make([]Join, 0, len(g.Joins))
		for _, j := range g.Joins {
			joins = append(joins, Join{
				Kind:      strings.ToUpper(j.Kind),
				TableName: j.Table,
				On:        strings.Join(j.On, ""),
			})
		}
		return &JoinSelectStmt{TableName: g.From, Joins: joins}, nil
	}

	if len(g.And) > 0 {
		if !g.Star {
			return nil, parseErrorAt(g.Pos, "SELECT: column list is not supported with multiple tables")
		}
		if g.Where != nil {
			return nil, parseErrorAt(g.Where.Pos, "SELECT: WHERE is not supported with multiple tables")
		}
		names := make([]string, 0, len(g.And)+1)
		names = append(names, g.From)
		names = append(names, g.And...)
		return &MultiSelectStmt{TableNames: names}, nil
	}

	return &SelectStmt{
		TableName: g.From,
		Columns:   g.Columns,
		Where:     g.Where.condition(),
	}, nil
}
