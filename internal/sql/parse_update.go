package sql

// parseUpdate parses:
//
//	UPDATE tableName SET col1 = value1, col2 = value2 WHERE column = literal;
//
// WHERE is mandatory so a typo cannot rewrite every row.
func parseUpdate(query string) (Statement, error) {
	g, err := updateParser.ParseString("", query)
	if err != nil {
		return nil, wrapGrammarError("UPDATE", err)
	}

	if g.Where == nil {
		return nil, parseErrorAt(g.Pos, "UPDATE: missing WHERE clause")
	}

	assignments := make([]Assignment, 0, len(g.Set))
	for _, a := range g.Set {
		assignments = append(assignments, a.assignment())
	}

	return &UpdateStmt{
		TableName:   g.Table,
		Assignments: assignments,
		Where:       g.Where.condition(),
	}, nil
}
