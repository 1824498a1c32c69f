package sql

import (
	"strings"
)

// Parse classifies one raw command by its leading keyword (case-insensitive)
// and parses it into a typed Statement. A command whose leading keyword is
// not recognized parses to *UnsupportedStmt, not to an error.
func Parse(command string) (Statement, error) {
	q := strings.TrimSpace(command)

	switch keyword := leadingKeyword(q); keyword {
	case "SELECT":
		return parseSelect(q)
	case "INSERT":
		return parseInsert(q)
	case "UPDATE":
		return parseUpdate(q)
	case "DELETE":
		return parseDelete(q)
	case "CREATE":
		return parseCreateTable(q)
	case "SHOW":
		return parseShow(q)
	default:
		return &UnsupportedStmt{Keyword: keyword}, nil
	}
}

func parseShow(query string) (Statement, error) {
	if _, err := showParser.ParseString("", query); err != nil {
		return nil, wrapGrammarError("SHOW", err)
	}
	return &ShowTablesStmt{}, nil
}
