package query

import (
	"strings"
	"unicode/utf8"
)

// Lexer is responsible for scanning the input string and producing tokens
// one at a time.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
}

// NewLexer returns a new Lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
	}
}

// NextToken scans and returns the next token. Once the input is exhausted
// every call returns an EOF token.
func (l *Lexer) NextToken() (Token, error) {
	for !l.end() && l.input[l.position] == ' ' {
		l.position++
	}
	if l.end() {
		return Token{Kind: TokenEOF, Pos: len(l.input)}, nil
	}

	start := l.position
	c := l.input[l.position]
	l.position++

	switch c {
	case '*':
		return l.single(TokenAll, start), nil
	case '{':
		return l.single(TokenOpenCurly, start), nil
	case '}':
		return l.single(TokenCloseCurly, start), nil
	case '(':
		return l.single(TokenOpenParen, start), nil
	case ')':
		return l.single(TokenCloseParen, start), nil
	case '[':
		return l.single(TokenOpenBracket, start), nil
	case ']':
		return l.single(TokenCloseBracket, start), nil
	case ':':
		return l.single(TokenColon, start), nil
	case ',':
		return l.single(TokenComma, start), nil
	case '=':
		return l.single(TokenEq, start), nil
	case '-':
		return l.single(TokenHyphen, start), nil
	case '>':
		return l.withEquals(TokenGt, TokenGe, start), nil
	case '<':
		return l.withEquals(TokenLt, TokenLe, start), nil
	case '!':
		return l.withEquals(TokenNot, TokenNe, start), nil
	case '&':
		return l.doubled('&', TokenAnd, start)
	case '|':
		return l.doubled('|', TokenOr, start)
	case '"', '\'':
		return l.lexString(c, start), nil
	case '$':
		return l.lexParam(start), nil
	}

	switch {
	case isLetter(c):
		return l.lexName(start), nil
	case isDigit(c):
		return l.lexNumber(start), nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[start:])
	return Token{}, &LexError{Kind: UnsupportedCharacter, Char: r, Pos: start}
}

// Position returns the byte offset of the next unread character.
func (l *Lexer) Position() int { return l.position }

func (l *Lexer) end() bool {
	return l.position >= len(l.input)
}

// peek returns the current unread byte, or 0 at end of input.
func (l *Lexer) peek() byte {
	if l.end() {
		return 0
	}
	return l.input[l.position]
}

func (l *Lexer) single(kind TokenKind, start int) Token {
	return Token{Kind: kind, Text: l.input[start:l.position], Pos: start}
}

// withEquals produces the two-character form when the next byte is '='.
func (l *Lexer) withEquals(one, two TokenKind, start int) Token {
	if l.peek() == '=' {
		l.position++
		return Token{Kind: two, Text: l.input[start:l.position], Pos: start}
	}
	return l.single(one, start)
}

// doubled handles '&&' and '||', which have no single-character form.
func (l *Lexer) doubled(c byte, kind TokenKind, start int) (Token, error) {
	if l.peek() != c {
		return Token{}, &LexError{Kind: MalformedOperator, Char: rune(c), Pos: start}
	}
	l.position++
	return Token{Kind: kind, Text: l.input[start:l.position], Pos: start}, nil
}

// lexName scans a letter followed by letters or underscores and maps
// reserved words to their own kinds.
func (l *Lexer) lexName(start int) Token {
	for !l.end() {
		c := l.input[l.position]
		if !isLetter(c) && c != '_' {
			break
		}
		l.position++
	}
	text := l.input[start:l.position]
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Text: text, Pos: start}
	}
	return Token{Kind: TokenName, Text: text, Pos: start}
}

// lexNumber scans digits and dots. Any dot makes the token a float; the text
// is kept as written, so "1.2.3" is a float token that fails conversion later.
func (l *Lexer) lexNumber(start int) Token {
	isFloat := false
	for !l.end() {
		c := l.input[l.position]
		if c == '.' {
			isFloat = true
		} else if !isDigit(c) {
			break
		}
		l.position++
	}
	kind := TokenInt
	if isFloat {
		kind = TokenFloat
	}
	return Token{Kind: kind, Text: l.input[start:l.position], Pos: start}
}

// lexString scans up to the closing quote. A backslash before the opening
// quote character escapes it; other bytes are copied as is. Input that ends
// before the closing quote yields what was read so far.
func (l *Lexer) lexString(quote byte, start int) Token {
	var sb strings.Builder
	for !l.end() {
		c := l.input[l.position]
		if c == quote {
			l.position++
			break
		}
		if c == '\\' && l.position+1 < len(l.input) && l.input[l.position+1] == quote {
			sb.WriteByte(quote)
			l.position += 2
			continue
		}
		sb.WriteByte(c)
		l.position++
	}
	return Token{Kind: TokenString, Text: sb.String(), Pos: start}
}

// lexParam scans the name after '$'. The '$' is not part of the text.
func (l *Lexer) lexParam(start int) Token {
	nameStart := l.position
	for !l.end() {
		c := l.input[l.position]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			break
		}
		l.position++
	}
	return Token{Kind: TokenParam, Text: l.input[nameStart:l.position], Pos: start}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
