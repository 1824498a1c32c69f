package sql

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// commandLexer tokenizes one command. Words are plain identifiers; the
// grammar matches keywords against them case-insensitively, so a keyword is
// only reserved where the grammar expects it. Other catches any character
// the other rules miss, which lets unquoted values such as e-mail addresses
// or dates lex as a run of tokens.
var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Punct", Pattern: `[(),=*;.]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `\S`},
})

func buildParser[G any]() *participle.Parser[G] {
	return participle.MustBuild[G](
		participle.Lexer(commandLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(2),
	)
}

var (
	selectParser = buildParser[selectGrammar]()
	insertParser = buildParser[insertGrammar]()
	updateParser = buildParser[updateGrammar]()
	deleteParser = buildParser[deleteGrammar]()
	createParser = buildParser[createGrammar]()
	showParser   = buildParser[showGrammar]()
)

// rawText rebuilds the source text a literal was lexed from, whitespace
// included, and trims its ends.
func rawText(tokens []lexer.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return strings.TrimSpace(b.String())
}

// A literal is every token up to its delimiter. Each position has its own
// delimiters, hence one type per position.

// listValueGrammar is one value inside VALUES ( ... ).
type listValueGrammar struct {
	Tokens []lexer.Token
	Parts  []string `parser:"@( ~( ',' | ')' ) )+"`
}

// bareValueGrammar is one value of VALUES written without parentheses.
type bareValueGrammar struct {
	Tokens []lexer.Token
	Parts  []string `parser:"@( ~( ',' | ';' | '(' | ')' ) )+"`
}

// setValueGrammar is the right side of a SET assignment.
type setValueGrammar struct {
	Tokens []lexer.Token
	Parts  []string `parser:"@( ~( ',' | ';' | 'WHERE' ) )+"`
}

// conditionValueGrammar is the right side of a WHERE equality. A second
// '=' is not part of it.
type conditionValueGrammar struct {
	Tokens []lexer.Token
	Parts  []string `parser:"@( ~( ';' | '=' ) )+"`
}

type conditionGrammar struct {
	Pos    lexer.Position
	Column string                 `parser:"@Ident '='"`
	Value  *conditionValueGrammar `parser:"@@"`
}

type assignmentGrammar struct {
	Pos    lexer.Position
	Column string           `parser:"@Ident '='"`
	Value  *setValueGrammar `parser:"@@"`
}

type joinGrammar struct {
	Pos   lexer.Position
	Kind  string   `parser:"( @( 'INNER' | 'LEFT' | 'RIGHT' | 'FULL' | 'CROSS' ) )? ( 'OUTER' )? 'JOIN'"`
	Table string   `parser:"@Ident"`
	On    []string `parser:"( 'ON' @( ~( ';' | 'WHERE' ) )+ )?"`
}

// selectGrammar takes the first word after FROM as the table. Words after
// it that start neither a JOIN, an AND list nor a WHERE are ignored.
type selectGrammar struct {
	Pos     lexer.Position
	Star    bool              `parser:"'SELECT' ( @'*'"`
	Columns []string          `parser:"         | @Ident ( ',' @Ident )* )"`
	From    string            `parser:"'FROM' @Ident"`
	Joins   []*joinGrammar    `parser:"( @@+"`
	And     []string          `parser:"| ( 'AND' @Ident )+"`
	Ignored []string          `parser:"| @( ~( ';' | 'WHERE' | 'AND' | 'JOIN' ) )+ )?"`
	Where   *conditionGrammar `parser:"( 'WHERE' @@ )? ( ';' )?"`
}

type insertGrammar struct {
	Pos    lexer.Position
	Table  string              `parser:"'INSERT' 'INTO' @Ident 'VALUES'"`
	Values []*listValueGrammar `parser:"( '(' ( @@ ( ',' @@ )* )? ')'"`
	Bare   []*bareValueGrammar `parser:"| @@ ( ',' @@ )* ) ( ';' )?"`
}

type updateGrammar struct {
	Pos   lexer.Position
	Table string               `parser:"'UPDATE' @Ident 'SET'"`
	Set   []*assignmentGrammar `parser:"@@ ( ',' @@ )*"`
	Where *conditionGrammar    `parser:"( 'WHERE' @@ )? ( ';' )?"`
}

type deleteGrammar struct {
	Pos   lexer.Position
	Table string            `parser:"'DELETE' 'FROM' @Ident"`
	Where *conditionGrammar `parser:"( 'WHERE' @@ )? ( ';' )?"`
}

type columnDefGrammar struct {
	Pos     lexer.Position
	Name    string  `parser:"@Ident"`
	Type    string  `parser:"@Ident"`
	Length  *string `parser:"( '(' @Number ')' )?"`
	Primary bool    `parser:"( @'PRIMARY' 'KEY' )?"`
}

type createGrammar struct {
	Pos     lexer.Position
	Table   string              `parser:"'CREATE' 'TABLE' @Ident '('"`
	Columns []*columnDefGrammar `parser:"@@ ( ',' @@ )* ')' ( ';' )?"`
}

type showGrammar struct {
	Tables bool `parser:"'SHOW' @'TABLES' ( ';' )?"`
}
