package query

import "fmt"

// TokenKind defines different kinds of tokens that can be produced by the lexer.
type TokenKind int

const (
	TokenName         TokenKind = iota // identifier
	TokenAll                           // '*'
	TokenColon                         // ':'
	TokenOpenCurly                     // '{'
	TokenCloseCurly                    // '}'
	TokenOpenParen                     // '('
	TokenCloseParen                    // ')'
	TokenOpenBracket                   // '['
	TokenCloseBracket                  // ']'
	TokenGe                            // '>='
	TokenGt                            // '>'
	TokenLe                            // '<='
	TokenLt                            // '<'
	TokenEq                            // '='
	TokenNe                            // '!='
	TokenAnd                           // '&&'
	TokenOr                            // '||'
	TokenLike                          // like
	TokenParam                         // $name
	TokenTrue                          // true
	TokenFalse                         // false
	TokenInt                           // 10
	TokenFloat                         // 1.5
	TokenString                        // "text" or 'text'
	TokenNull                          // null
	TokenComma                         // ','
	TokenOrder                         // order
	TokenHyphen                        // '-'
	TokenNot                           // '!'
	TokenEOF                           // end of input
)

var tokenKindNames = [...]string{
	TokenName:         "name",
	TokenAll:          "*",
	TokenColon:        ":",
	TokenOpenCurly:    "{",
	TokenCloseCurly:   "}",
	TokenOpenParen:    "(",
	TokenCloseParen:   ")",
	TokenOpenBracket:  "[",
	TokenCloseBracket: "]",
	TokenGe:           ">=",
	TokenGt:           ">",
	TokenLe:           "<=",
	TokenLt:           "<",
	TokenEq:           "=",
	TokenNe:           "!=",
	TokenAnd:          "&&",
	TokenOr:           "||",
	TokenLike:         "like",
	TokenParam:        "param",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenInt:          "int",
	TokenFloat:        "float",
	TokenString:       "string",
	TokenNull:         "null",
	TokenComma:        ",",
	TokenOrder:        "order",
	TokenHyphen:       "-",
	TokenNot:          "!",
	TokenEOF:          "EOF",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "unknown"
	}
	return tokenKindNames[k]
}

// keywords maps reserved words to their token kind.
// asc and desc are not reserved, they lex as plain names.
var keywords = map[string]TokenKind{
	"order": TokenOrder,
	"true":  TokenTrue,
	"false": TokenFalse,
	"like":  TokenLike,
	"null":  TokenNull,
}

// Token represents a single lexical token with kind, text, and position.
type Token struct {
	Kind TokenKind // kind of this token
	Text string    // the literal text (unquoted for strings, without '$' for params)
	Pos  int       // byte offset of the token start in the original input
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"
	case TokenName, TokenInt, TokenFloat:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	case TokenParam:
		return "$" + t.Text
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}
