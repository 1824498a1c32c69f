package sql

// parseInsert parses an INSERT INTO ... VALUES (...) statement.
// Example supported syntax:
//
//	INSERT INTO users VALUES (1, 'Alice', true);
//
// The parentheses may be omitted. Values are positional. An unquoted value
// runs to the next comma, so "Alice Smith" or "2024-01-01" need no quotes;
// a quoted value may contain commas.
func parseInsert(query string) (Statement, error) {
	g, err := insertParser.ParseString("", query)
	if err != nil {
		return nil, wrapGrammarError("INSERT", err)
	}

	return &InsertStmt{
		TableName: g.Table,
		Values:    g.literals(),
	}, nil
}
