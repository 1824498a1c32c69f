package sql

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// ErrParse is wrapped by every ParseError.
	ErrParse = errors.New("parse error")
	// ErrType is wrapped by every TypeError.
	ErrType = errors.New("type validation error")
)

// ParseError reports a malformed command together with where it went wrong.
// Line and Column are 1-based; Offset is the byte offset into the command.
type ParseError struct {
	Line   int
	Column int
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (at %d:%d)", e.Msg, e.Line, e.Column)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return ErrParse }

func parseErrorAt(pos lexer.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Line:   pos.Line,
		Column: pos.Column,
		Offset: pos.Offset,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// wrapGrammarError turns a participle error into a ParseError, keeping its
// position. keyword prefixes the message the same way hand-built errors are.
func wrapGrammarError(keyword string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return parseErrorAt(perr.Position(), "%s: %s", keyword, perr.Message())
	}
	return &ParseError{Msg: fmt.Sprintf("%s: %v", keyword, err)}
}

// TypeErrorKind names the literal check that failed.
type TypeErrorKind int

const (
	IntegerParseError TypeErrorKind = iota
	BooleanParseError
)

func (k TypeErrorKind) String() string {
	switch k {
	case IntegerParseError:
		return "invalid integer value"
	case BooleanParseError:
		return "invalid boolean value"
	default:
		return "invalid value"
	}
}

// TypeError is returned by Validate when a literal does not fit its column type.
type TypeError struct {
	Kind     TypeErrorKind
	Literal  string
	Expected DataType
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s (expected %s)", e.Kind, e.Literal, e.Expected)
}

func (e *TypeError) Unwrap() error { return ErrType }
