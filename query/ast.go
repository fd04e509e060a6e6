package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the root of a parsed query: a verb applied to a projection tree.
type Node struct {
	Op   string `json:"op"`   // verb, e.g. query, add, update, delete, count
	Item *Item  `json:"item"` // root item
}

func (n *Node) String() string {
	return n.Op + " " + n.Item.rootString()
}

// ItemKind defines the variants of a projection item.
type ItemKind int

const (
	ItemField  ItemKind = iota // named field, optionally filtered and projected
	ItemAll                    // '*'
	ItemIgnore                 // '!name'
)

func (k ItemKind) String() string {
	switch k {
	case ItemField:
		return "field"
	case ItemAll:
		return "all"
	case ItemIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Item is a node of the projection tree.
type Item struct {
	Kind     ItemKind `json:"kind"`
	Name     string   `json:"name,omitempty"`     // empty for ItemAll
	IsArray  bool     `json:"isArray,omitempty"`  // introduced by '[...]'
	Children []*Item  `json:"children,omitempty"` // declaration order, duplicates kept
	Where    *Where   `json:"where,omitempty"`    // nil when the item has no filter or order
}

// NewAllItem returns a wildcard item.
func NewAllItem() *Item {
	return &Item{Kind: ItemAll}
}

// NewIgnoreItem returns an item that suppresses the named field.
func NewIgnoreItem(name string) *Item {
	return &Item{Kind: ItemIgnore, Name: name}
}

// IsLeaf reports whether the item has no projection body.
func (i *Item) IsLeaf() bool {
	return len(i.Children) == 0
}

func (i *Item) String() string {
	switch i.Kind {
	case ItemAll:
		return "*"
	case ItemIgnore:
		return "!" + i.Name
	}
	var sb strings.Builder
	sb.WriteString(i.Name)
	if !i.Where.empty() {
		sb.WriteByte(' ')
		sb.WriteString(i.Where.String())
	}
	i.writeBody(&sb)
	return sb.String()
}

// rootString renders the root item, whose filter is always parenthesized.
func (i *Item) rootString() string {
	var sb strings.Builder
	sb.WriteString(i.Name)
	if !i.Where.empty() {
		sb.WriteByte('(')
		sb.WriteString(i.Where.String())
		sb.WriteByte(')')
	}
	i.writeBody(&sb)
	return sb.String()
}

func (i *Item) writeBody(sb *strings.Builder) {
	if i.IsLeaf() {
		return
	}
	lbrace, rbrace := "{", "}"
	if i.IsArray {
		lbrace, rbrace = "[", "]"
	}
	sb.WriteString(" : ")
	sb.WriteString(lbrace)
	for idx, child := range i.Children {
		if idx > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(child.String())
	}
	sb.WriteString(rbrace)
}

// Where holds the filter expression and ordering attached to an item.
type Where struct {
	Exp    Exp      `json:"exp,omitempty"`    // nil when absent
	Orders []*Order `json:"orders,omitempty"` // nil when absent
}

func (w *Where) empty() bool {
	return w == nil || (w.Exp == nil && len(w.Orders) == 0)
}

func (w *Where) String() string {
	if w == nil {
		return ""
	}
	var parts []string
	if w.Exp != nil {
		parts = append(parts, w.Exp.String())
	}
	if len(w.Orders) > 0 {
		orders := make([]string, len(w.Orders))
		for i, o := range w.Orders {
			orders[i] = o.String()
		}
		parts = append(parts, "order "+strings.Join(orders, ", "))
	}
	return strings.Join(parts, " ")
}

// ExpKind defines the variants of a filter expression.
type ExpKind int

const (
	ExpNest ExpKind = iota
	ExpLogic
	ExpCompare
	ExpNot
)

func (k ExpKind) String() string {
	switch k {
	case ExpNest:
		return "nest"
	case ExpLogic:
		return "logic"
	case ExpCompare:
		return "compare"
	case ExpNot:
		return "not"
	default:
		return "unknown"
	}
}

// Exp is a filter expression. The set of implementations is closed:
// *NestExp, *LogicExp, *CompareExp and *NotExp.
type Exp interface {
	Kind() ExpKind
	String() string
	isExp()
}

var (
	_ Exp = (*NestExp)(nil)
	_ Exp = (*LogicExp)(nil)
	_ Exp = (*CompareExp)(nil)
	_ Exp = (*NotExp)(nil)
)

// NestExp is a parenthesized sub-expression.
type NestExp struct {
	Exp Exp
}

func (*NestExp) isExp() {}
func (*NestExp) Kind() ExpKind { return ExpNest }
func (e *NestExp) String() string { return "(" + e.Exp.String() + ")" }

// LogicOp is a boolean connective.
type LogicOp int

const (
	LogicAnd LogicOp = iota
	LogicOr
)

func (op LogicOp) String() string {
	switch op {
	case LogicAnd:
		return "&&"
	case LogicOr:
		return "||"
	default:
		return "?"
	}
}

// LogicExp joins two expressions with && or ||.
type LogicExp struct {
	Left  Exp
	Op    LogicOp
	Right Exp
}

func (*LogicExp) isExp() {}
func (*LogicExp) Kind() ExpKind { return ExpLogic }
func (e *LogicExp) String() string {
	return logicOperand(e.Left, e.Op, true) + " " + e.Op.String() + " " + logicOperand(e.Right, e.Op, false)
}

// logicOperand parenthesizes a child when printing it bare would regroup it:
// || under &&, or a same-operator chain in left position.
func logicOperand(child Exp, parent LogicOp, left bool) string {
	l, ok := child.(*LogicExp)
	if !ok {
		return child.String()
	}
	if (parent == LogicAnd && l.Op == LogicOr) || (left && l.Op == parent) {
		return "(" + l.String() + ")"
	}
	return l.String()
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	CompareGe CompareOp = iota
	CompareGt
	CompareLe
	CompareLt
	CompareEq
	CompareNe
	CompareLike
)

func (op CompareOp) String() string {
	switch op {
	case CompareGe:
		return ">="
	case CompareGt:
		return ">"
	case CompareLe:
		return "<="
	case CompareLt:
		return "<"
	case CompareEq:
		return "="
	case CompareNe:
		return "!="
	case CompareLike:
		return "like"
	default:
		return "?"
	}
}

// CompareExp compares a column with a column, parameter or literal.
type CompareExp struct {
	Left  *Column
	Op    CompareOp
	Right Operand
}

func (*CompareExp) isExp() {}
func (*CompareExp) Kind() ExpKind { return ExpCompare }
func (e *CompareExp) String() string {
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}

// NotExp negates an expression. The grammar has no syntax for it; it exists
// for expressions built by callers.
type NotExp struct {
	Exp Exp
}

func (*NotExp) isExp() {}
func (*NotExp) Kind() ExpKind { return ExpNot }
func (e *NotExp) String() string { return "!(" + e.Exp.String() + ")" }

// Operand is the right-hand side of a comparison: *Column, *Param or a Value.
type Operand interface {
	String() string
	isOperand()
}

var (
	_ Operand = (*Column)(nil)
	_ Operand = (*Param)(nil)
	_ Operand = IntValue{}
	_ Operand = FloatValue{}
	_ Operand = StringValue{}
	_ Operand = BoolValue{}
	_ Operand = NullValue{}
)

// Column references a field.
type Column struct {
	Name string `json:"name"`
}

func (*Column) isOperand() {}
func (c *Column) String() string { return c.Name }

// Param is a placeholder resolved by the execution layer.
type Param struct {
	Name string `json:"name"`
}

func (*Param) isOperand() {}
func (p *Param) String() string { return "$" + p.Name }

// ValueKind defines the variants of a literal value.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueString
	ValueBool
	ValueNull
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	case ValueNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a literal. Implementations: IntValue, FloatValue, StringValue,
// BoolValue and NullValue.
type Value interface {
	Operand
	Kind() ValueKind
	// Interface returns the Go value: int64, float64, string, bool or nil.
	Interface() any
	isValue()
}

// IntValue represents an integer literal.
type IntValue struct {
	Val int64
}

func (IntValue) isOperand() {}
func (IntValue) isValue() {}
func (IntValue) Kind() ValueKind { return ValueInt }
func (v IntValue) Interface() any { return v.Val }
func (v IntValue) String() string { return strconv.FormatInt(v.Val, 10) }

// FloatValue represents a floating point literal.
type FloatValue struct {
	Val float64
}

func (FloatValue) isOperand() {}
func (FloatValue) isValue() {}
func (FloatValue) Kind() ValueKind { return ValueFloat }
func (v FloatValue) Interface() any { return v.Val }
func (v FloatValue) String() string {
	s := strconv.FormatFloat(v.Val, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// StringValue represents a quoted string literal.
type StringValue struct {
	Val string
}

func (StringValue) isOperand() {}
func (StringValue) isValue() {}
func (StringValue) Kind() ValueKind { return ValueString }
func (v StringValue) Interface() any { return v.Val }
func (v StringValue) String() string {
	return `"` + strings.ReplaceAll(v.Val, `"`, `\"`) + `"`
}

// BoolValue represents true or false.
type BoolValue struct {
	Val bool
}

func (BoolValue) isOperand() {}
func (BoolValue) isValue() {}
func (BoolValue) Kind() ValueKind { return ValueBool }
func (v BoolValue) Interface() any { return v.Val }
func (v BoolValue) String() string { return strconv.FormatBool(v.Val) }

// NullValue represents null.
type NullValue struct{}

func (NullValue) isOperand() {}
func (NullValue) isValue() {}
func (NullValue) Kind() ValueKind { return ValueNull }
func (NullValue) Interface() any { return nil }
func (NullValue) String() string { return "null" }

// Sort is the direction of an order entry.
type Sort int

const (
	SortAsc Sort = iota
	SortDesc
)

func (s Sort) String() string {
	if s == SortDesc {
		return "desc"
	}
	return "asc"
}

// Order is one entry of an order clause. All columns share the direction.
type Order struct {
	Columns []*Column `json:"columns"`
	Sort    Sort      `json:"sort"`
}

func (o *Order) String() string {
	names := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		names[i] = c.Name
	}
	return fmt.Sprintf("%s %s", strings.Join(names, " "), o.Sort)
}
