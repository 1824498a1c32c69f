package sql

// Statement is the common interface for all parsed commands.
type Statement interface {
	stmtNode()
}

// Literal is a raw value taken from a command, pending type validation.
// Text is trimmed and has one pair of surrounding quotes removed.
type Literal struct {
	Text string
	Null bool
}

// Condition is the only comparison the language supports: column = literal.
type Condition struct {
	Column string
	Value  Literal
}

// Assignment is one "column = literal" pair of an UPDATE ... SET list.
type Assignment struct {
	Column string
	Value  Literal
}

// SelectStmt reads a single table. Columns is empty for SELECT *.
type SelectStmt struct {
	TableName string
	Columns   []string
	Where     *Condition
}

// MultiSelectStmt is SELECT * FROM a AND b AND c: each table is rendered on
// its own, in order. No rows are combined.
type MultiSelectStmt struct {
	TableNames []string
}

// JoinSelectStmt is recognized so it can be refused explicitly.
type JoinSelectStmt struct {
	TableName string
	Joins     []Join
}

type Join struct {
	Kind      string // INNER, LEFT, ... or empty
	TableName string
	On        string
}

// InsertStmt appends one row; Values are positional.
type InsertStmt struct {
	TableName string
	Values    []Literal
}

// UpdateStmt always carries a WHERE condition.
type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       *Condition
}

// DeleteStmt with a nil Where clears the table.
type DeleteStmt struct {
	TableName string
	Where     *Condition
}

// CreateTableStmt represents a parsed CREATE TABLE statement.
type CreateTableStmt struct {
	TableName string
	Columns   []Column
}

// ShowTablesStmt lists every table with its columns and row count.
type ShowTablesStmt struct{}

// UnsupportedStmt is what any command with an unknown leading keyword parses to.
type UnsupportedStmt struct {
	Keyword string
}

func (*SelectStmt) stmtNode()      {}
func (*MultiSelectStmt) stmtNode() {}
func (*JoinSelectStmt) stmtNode()  {}
func (*InsertStmt) stmtNode()      {}
func (*UpdateStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}
func (*CreateTableStmt) stmtNode() {}
func (*ShowTablesStmt) stmtNode()  {}
func (*UnsupportedStmt) stmtNode() {}
