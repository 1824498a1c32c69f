package sql

import (
	"strconv"
	"strings"
)

// Validate checks literal against the declared type and returns the text to
// store.
//
//   - Int: must parse as a 32-bit integer.
//   - Bool: must be "true" or "false", any case.
//   - Char/String: one matching pair of surrounding quotes is removed; the
//     rest is kept verbatim. The declared length is not checked here.
//
// Accepted Int and Bool literals are returned exactly as written.
func Validate(t DataType, literal string) (string, error) {
	switch t.Kind {
	case TypeInt:
		if _, err := strconv.ParseInt(literal, 10, 32); err != nil {
			return "", &TypeError{Kind: IntegerParseError, Literal: literal, Expected: t}
		}
		return literal, nil
	case TypeBool:
		if !strings.EqualFold(literal, "true") && !strings.EqualFold(literal, "false") {
			return "", &TypeError{Kind: BooleanParseError, Literal: literal, Expected: t}
		}
		return literal, nil
	default:
		return Unquote(literal), nil
	}
}

// Unquote strips a single matching pair of ' or " from s, if present.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
