package sql

import (
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
)

// leadingKeyword returns the first run of letters in q, upper-cased.
// "select*from t" yields "SELECT".
func leadingKeyword(q string) string {
	end := strings.IndexFunc(q, func(r rune) bool { return !unicode.IsLetter(r) })
	if end == -1 {
		end = len(q)
	}
	return strings.ToUpper(q[:end])
}

// literalOf turns the tokens of one value back into a Literal. An unquoted
// NULL (any case) is NULL; otherwise the trimmed text loses one pair of
// surrounding quotes.
func literalOf(tokens []lexer.Token) Literal {
	text := rawText(tokens)
	if strings.EqualFold(text, "NULL") {
		return Literal{Null: true}
	}
	return Literal{Text: Unquote(text)}
}

func (g *conditionGrammar) condition() *Condition {
	if g == nil {
		return nil
	}
	return &Condition{
		Column: strings.TrimSpace(g.Column),
		Value:  literalOf(g.Value.Tokens),
	}
}

func (g *assignmentGrammar) assignment() Assignment {
	return Assignment{
		Column: strings.TrimSpace(g.Column),
		Value:  literalOf(g.Value.Tokens),
	}
}

func (g *insertGrammar) literals() []Literal {
	out := make([]Literal, 0, len(g.Values)+len(g.Bare))
	for _, v := range g.Values {
		out = append(out, literalOf(v.Tokens))
	}
	for _, v := range g.Bare {
		out = append(out, literalOf(v.Tokens))
	}
	return out
}
