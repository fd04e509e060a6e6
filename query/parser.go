package query

import (
	"strconv"
)

// Parser consumes tokens produced by the lexer and builds an AST.
// It keeps exactly one token of lookahead. A Parser parses its input once;
// create a new one for every query text.
type Parser struct {
	lexer *Lexer
	token Token // current lookahead
	err   error // error from priming the lookahead
}

// NewParser creates a parser for input and reads the first token.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.token, p.err = p.lexer.NextToken()
	return p
}

// Parse parses a complete query: a verb followed by the root item.
func (p *Parser) Parse() (*Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	op, err := p.match(TokenName)
	if err != nil {
		return nil, err
	}
	item, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	return &Node{Op: op, Item: item}, nil
}

// ParseExpression parses a bare filter expression such as "id = $id".
func (p *Parser) ParseExpression() (Exp, error) {
	if p.err != nil {
		return nil, p.err
	}
	exp, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(TokenEOF); err != nil {
		return nil, err
	}
	return exp, nil
}

// walk advances to the next token.
func (p *Parser) walk() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.token = tok
	return nil
}

// match consumes the current token if it has the given kind and returns its text.
func (p *Parser) match(kind TokenKind) (string, error) {
	if p.token.Kind != kind {
		return "", p.unexpected(kind)
	}
	text := p.token.Text
	if err := p.walk(); err != nil {
		return "", err
	}
	return text, nil
}

func (p *Parser) is(kind TokenKind) bool {
	return p.token.Kind == kind
}

// isName reports whether the current token is the plain name text.
func (p *Parser) isName(text string) bool {
	return p.token.Kind == TokenName && p.token.Text == text
}

func (p *Parser) unexpected(expected ...TokenKind) error {
	return &ParseError{Kind: UnexpectedToken, Expected: expected, Actual: p.token}
}

func (p *Parser) missing(context string) error {
	return &ParseError{Kind: MissingAlternative, Context: context, Actual: p.token}
}

// parseRoot parses: Name ['(' where ')'] [':' body]
// Without a body the root is a leaf and the input must end there.
func (p *Parser) parseRoot() (*Item, error) {
	name, err := p.match(TokenName)
	if err != nil {
		return nil, err
	}

	var where *Where
	if p.is(TokenOpenParen) {
		if err := p.walk(); err != nil {
			return nil, err
		}
		if where, err = p.parseWhere(); err != nil {
			return nil, err
		}
		if _, err := p.match(TokenCloseParen); err != nil {
			return nil, err
		}
	}

	item := &Item{Kind: ItemField, Name: name, Where: where}
	if p.is(TokenColon) {
		if err := p.walk(); err != nil {
			return nil, err
		}
		if err := p.parseBody(item); err != nil {
			return nil, err
		}
	}

	if _, err := p.match(TokenEOF); err != nil {
		return nil, err
	}
	return item, nil
}

// parseBody parses '{' items '}' or '[' items ']' into item.
func (p *Parser) parseBody(item *Item) error {
	var closing TokenKind
	switch p.token.Kind {
	case TokenOpenCurly:
		closing = TokenCloseCurly
	case TokenOpenBracket:
		closing = TokenCloseBracket
		item.IsArray = true
	default:
		return p.missing("object or array")
	}
	if err := p.walk(); err != nil {
		return err
	}

	children, err := p.parseItems()
	if err != nil {
		return err
	}
	if _, err := p.match(closing); err != nil {
		return err
	}
	item.Children = children
	return nil
}

// parseItems parses: item (',' item)*
func (p *Parser) parseItems() ([]*Item, error) {
	var items []*Item
	for {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if !p.is(TokenComma) {
			return items, nil
		}
		if err := p.walk(); err != nil {
			return nil, err
		}
	}
}

// parseItem parses: '*' | '!' Name | Name [where] [':' body]
func (p *Parser) parseItem() (*Item, error) {
	switch p.token.Kind {
	case TokenAll:
		if err := p.walk(); err != nil {
			return nil, err
		}
		return NewAllItem(), nil

	case TokenNot:
		if err := p.walk(); err != nil {
			return nil, err
		}
		name, err := p.match(TokenName)
		if err != nil {
			return nil, err
		}
		return NewIgnoreItem(name), nil
	}

	name, err := p.match(TokenName)
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}

	item := &Item{Kind: ItemField, Name: name, Where: where}
	if p.is(TokenColon) {
		if err := p.walk(); err != nil {
			return nil, err
		}
		if err := p.parseBody(item); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// parseWhere parses: [exp] [Order orders]
// It returns nil when neither part is present.
func (p *Parser) parseWhere() (*Where, error) {
	var (
		exp    Exp
		orders []*Order
		err    error
	)
	// an expression starts with '(' or a column
	if p.is(TokenOpenParen) || p.is(TokenName) {
		if exp, err = p.parseExp(); err != nil {
			return nil, err
		}
	}
	if p.is(TokenOrder) {
		if err := p.walk(); err != nil {
			return nil, err
		}
		if orders, err = p.parseOrders(); err != nil {
			return nil, err
		}
	}
	if exp == nil && orders == nil {
		return nil, nil
	}
	return &Where{Exp: exp, Orders: orders}, nil
}

// parseExp parses: term ('||' exp)?
// The recursion makes || right-associative.
func (p *Parser) parseExp() (Exp, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if !p.is(TokenOr) {
		return left, nil
	}
	if err := p.walk(); err != nil {
		return nil, err
	}
	right, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	return &LogicExp{Left: left, Op: LogicOr, Right: right}, nil
}

// parseTerm parses: factor ('&&' term)?
func (p *Parser) parseTerm() (Exp, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if !p.is(TokenAnd) {
		return left, nil
	}
	if err := p.walk(); err != nil {
		return nil, err
	}
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &LogicExp{Left: left, Op: LogicAnd, Right: right}, nil
}

// parseFactor parses: '(' exp ')' | Column compareOp right
func (p *Parser) parseFactor() (Exp, error) {
	if p.is(TokenOpenParen) {
		if err := p.walk(); err != nil {
			return nil, err
		}
		exp, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(TokenCloseParen); err != nil {
			return nil, err
		}
		return &NestExp{Exp: exp}, nil
	}

	column, err := p.parseColumn()
	if err != nil {
		return nil, err
	}
	op, err := p.parseCompareOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseRight()
	if err != nil {
		return nil, err
	}
	return &CompareExp{Left: column, Op: op, Right: right}, nil
}

func (p *Parser) parseColumn() (*Column, error) {
	name, err := p.match(TokenName)
	if err != nil {
		return nil, err
	}
	return &Column{Name: name}, nil
}

var compareOps = map[TokenKind]CompareOp{
	TokenEq:   CompareEq,
	TokenGt:   CompareGt,
	TokenGe:   CompareGe,
	TokenLt:   CompareLt,
	TokenLe:   CompareLe,
	TokenNe:   CompareNe,
	TokenLike: CompareLike,
}

func (p *Parser) parseCompareOp() (CompareOp, error) {
	op, ok := compareOps[p.token.Kind]
	if !ok {
		return 0, p.missing("compare operator")
	}
	if err := p.walk(); err != nil {
		return 0, err
	}
	return op, nil
}

// parseRight parses the right-hand side of a comparison.
func (p *Parser) parseRight() (Operand, error) {
	tok := p.token
	var operand Operand

	switch tok.Kind {
	case TokenName:
		operand = &Column{Name: tok.Text}
	case TokenParam:
		operand = &Param{Name: tok.Text}
	case TokenInt:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, &ParseError{Kind: MalformedLiteral, Context: "int", Actual: tok, Err: err}
		}
		operand = IntValue{Val: n}
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &ParseError{Kind: MalformedLiteral, Context: "float", Actual: tok, Err: err}
		}
		operand = FloatValue{Val: f}
	case TokenString:
		operand = StringValue{Val: tok.Text}
	case TokenTrue:
		operand = BoolValue{Val: true}
	case TokenFalse:
		operand = BoolValue{Val: false}
	case TokenNull:
		operand = NullValue{}
	default:
		return nil, p.missing("column, parameter or value")
	}

	if err := p.walk(); err != nil {
		return nil, err
	}
	return operand, nil
}

// parseOrders parses: order (',' order)*
func (p *Parser) parseOrders() ([]*Order, error) {
	var orders []*Order
	for {
		order, err := p.parseOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)

		if !p.is(TokenComma) {
			return orders, nil
		}
		if err := p.walk(); err != nil {
			return nil, err
		}
	}
}

// parseOrder parses: Column+ ('asc' | 'desc')?
// Consecutive names share the trailing direction, which defaults to asc.
func (p *Parser) parseOrder() (*Order, error) {
	order := &Order{Sort: SortAsc}
	if p.isName("asc") || p.isName("desc") {
		return nil, p.missing("order column")
	}
	for {
		if p.isName("asc") || p.isName("desc") {
			if p.token.Text == "desc" {
				order.Sort = SortDesc
			}
			if err := p.walk(); err != nil {
				return nil, err
			}
			return order, nil
		}

		column, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		order.Columns = append(order.Columns, column)

		if !p.is(TokenName) {
			return order, nil
		}
	}
}
