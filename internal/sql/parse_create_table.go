package sql

import (
	"strconv"
	"strings"
)

// parseCreateTable parses:
//
//	CREATE TABLE users (id INT PRIMARY KEY, name STRING(50), code CHAR(2), active BOOL);
func parseCreateTable(query string) (Statement, error) {
	g, err := createParser.ParseString("", query)
	if err != nil {
		return nil, wrapGrammarError("CREATE TABLE", err)
	}

	columns := make([]Column, 0, len(g.Columns))
	seen := make(map[string]bool, len(g.Columns))

	for _, def := range g.Columns {
		key := FoldName(def.Name)
		if seen[key] {
			return nil, parseErrorAt(def.Pos, "CREATE TABLE: duplicate column %q", def.Name)
		}
		seen[key] = true

		dt, err := columnType(def)
		if err != nil {
			return nil, err
		}

		columns = append(columns, Column{
			Name:         def.Name,
			Type:         dt,
			IsPrimaryKey: def.Primary,
		})
	}

	return &CreateTableStmt{
		TableName: g.Table,
		Columns:   columns,
	}, nil
}

func columnType(def *columnDefGrammar) (DataType, error) {
	typeStr := strings.ToUpper(def.Type)

	switch typeStr {
	case "INT", "INTEGER":
		if def.Length != nil {
			return DataType{}, parseErrorAt(def.Pos, "CREATE TABLE: %s takes no length", typeStr)
		}
		return Int(), nil
	case "BOOL", "BOOLEAN":
		if def.Length != nil {
			return DataType{}, parseErrorAt(def.Pos, "CREATE TABLE: %s takes no length", typeStr)
		}
		return Bool(), nil
	case "CHAR", "STRING", "VARCHAR", "TEXT":
		if def.Length == nil {
			return DataType{}, parseErrorAt(def.Pos, "CREATE TABLE: %s requires a length, e.g. %s(20)", typeStr, typeStr)
		}
		n, err := strconv.Atoi(*def.Length)
		if err != nil || n <= 0 {
			return DataType{}, parseErrorAt(def.Pos, "CREATE TABLE: invalid length %q for column %q", *def.Length, def.Name)
		}
		if typeStr == "CHAR" {
			return Char(n), nil
		}
		return Str(n), nil
	default:
		return DataType{}, parseErrorAt(def.Pos, "CREATE TABLE: unknown column type %q for column %q", def.Type, def.Name)
	}
}
