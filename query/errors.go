package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedCharacter = errors.New("unsupported character")
	ErrMalformedOperator    = errors.New("malformed operator")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrMissingAlternative   = errors.New("missing alternative")
	ErrMalformedLiteral     = errors.New("malformed literal")
)

// LexErrorKind classifies lexer failures.
type LexErrorKind int

const (
	UnsupportedCharacter LexErrorKind = iota // character outside the grammar
	MalformedOperator                        // single '&' or '|'
)

func (k LexErrorKind) String() string {
	switch k {
	case UnsupportedCharacter:
		return "unsupported-character"
	case MalformedOperator:
		return "malformed-operator"
	default:
		return "unknown"
	}
}

// LexError is returned by the lexer when the input cannot be tokenized.
type LexError struct {
	Kind LexErrorKind
	Char rune
	Pos  int
}

func (e *LexError) Error() string {
	switch e.Kind {
	case MalformedOperator:
		return fmt.Sprintf("malformed operator %q at offset %d, expected %q", e.Char, e.Pos, string([]rune{e.Char, e.Char}))
	default:
		return fmt.Sprintf("unsupported character %q at offset %d", e.Char, e.Pos)
	}
}

func (e *LexError) Is(target error) bool {
	switch e.Kind {
	case UnsupportedCharacter:
		return target == ErrUnsupportedCharacter
	case MalformedOperator:
		return target == ErrMalformedOperator
	}
	return false
}

// Rule returns the short rule name used when reporting the error.
func (e *LexError) Rule() string { return e.Kind.String() }

// Offset returns the byte offset of the offending character.
func (e *LexError) Offset() int { return e.Pos }

// ParseErrorKind classifies parser failures.
type ParseErrorKind int

const (
	UnexpectedToken    ParseErrorKind = iota // a specific token kind was required
	MissingAlternative                       // none of a set of alternatives matched
	MalformedLiteral                         // numeric text that does not convert
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected-token"
	case MissingAlternative:
		return "missing-alternative"
	case MalformedLiteral:
		return "malformed-literal"
	default:
		return "unknown"
	}
}

// ParseError is returned by the parser when the token stream does not match
// the grammar.
type ParseError struct {
	Kind     ParseErrorKind
	Expected []TokenKind // set for UnexpectedToken
	Context  string      // set for MissingAlternative and MalformedLiteral
	Actual   Token
	Err      error // underlying conversion error for MalformedLiteral
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("expected %s, got %s at offset %d", joinKinds(e.Expected), e.Actual, e.Actual.Pos)
	case MissingAlternative:
		return fmt.Sprintf("expected %s, got %s at offset %d", e.Context, e.Actual, e.Actual.Pos)
	case MalformedLiteral:
		return fmt.Sprintf("malformed %s literal %q at offset %d: %v", e.Context, e.Actual.Text, e.Actual.Pos, e.Err)
	default:
		return fmt.Sprintf("parse error at offset %d", e.Actual.Pos)
	}
}

func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case UnexpectedToken:
		return target == ErrUnexpectedToken
	case MissingAlternative:
		return target == ErrMissingAlternative
	case MalformedLiteral:
		return target == ErrMalformedLiteral
	}
	return false
}

func (e *ParseError) Unwrap() error { return e.Err }

// Rule returns the short rule name used when reporting the error.
func (e *ParseError) Rule() string { return e.Kind.String() }

// Offset returns the byte offset of the offending token.
func (e *ParseError) Offset() int { return e.Actual.Pos }

func joinKinds(kinds []TokenKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = fmt.Sprintf("%q", k.String())
	}
	if len(names) == 1 {
		return names[0]
	}
	return "one of " + strings.Join(names, ", ")
}
