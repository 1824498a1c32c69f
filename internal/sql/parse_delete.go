package sql

// parseDelete parses:
//
//	DELETE FROM tableName;
//	DELETE FROM tableName WHERE column = literal;
func parseDelete(query string) (Statement, error) {
	g, err := deleteParser.ParseString("", query)
	if err != nil {
		return nil, wrapGrammarError("DELETE", err)
	}

	return &DeleteStmt{
		TableName: g.Table,
		Where:     g.Where.condition(),
	}, nil
}
