package formatter

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/orql/query"
)

const indent = "  "

type treeWriter struct {
	sb strings.Builder
}

func (w *treeWriter) line(depth int, label, text string) {
	w.sb.WriteString(strings.Repeat(indent, depth))
	w.sb.WriteString(lineStyle.Sprint(label))
	if text != "" {
		w.sb.WriteByte(' ')
		w.sb.WriteString(text)
	}
	w.sb.WriteByte('\n')
}

// FormatNode renders a parsed query as an indented tree, one AST node per line.
func FormatNode(node *query.Node) string {
	var w treeWriter
	w.line(0, "op", fileStyle.Sprint(node.Op))
	w.item(1, node.Item)
	return w.sb.String()
}

// FormatExp renders a filter expression as an indented tree.
func FormatExp(exp query.Exp) string {
	var w treeWriter
	w.exp(0, exp)
	return w.sb.String()
}

func (w *treeWriter) item(depth int, item *query.Item) {
	switch item.Kind {
	case query.ItemAll:
		w.line(depth, "all", "*")
		return
	case query.ItemIgnore:
		w.line(depth, "ignore", item.Name)
		return
	case query.ItemField:
		shape := ""
		if !item.IsLeaf() {
			shape = "{}"
			if item.IsArray {
				shape = "[]"
			}
		}
		w.line(depth, "field", strings.TrimSpace(item.Name+" "+shape))
	default:
		panic(fmt.Sprintf("formatter: unknown item kind %v", item.Kind))
	}

	if item.Where != nil {
		if item.Where.Exp != nil {
			w.line(depth+1, "where", "")
			w.exp(depth+2, item.Where.Exp)
		}
		for _, order := range item.Where.Orders {
			w.line(depth+1, "order", order.String())
		}
	}
	for _, child := range item.Children {
		w.item(depth+1, child)
	}
}

func (w *treeWriter) exp(depth int, exp query.Exp) {
	switch e := exp.(type) {
	case *query.NestExp:
		w.line(depth, "nest", "")
		w.exp(depth+1, e.Exp)
	case *query.NotExp:
		w.line(depth, "not", "")
		w.exp(depth+1, e.Exp)
	case *query.LogicExp:
		w.line(depth, "logic", e.Op.String())
		w.exp(depth+1, e.Left)
		w.exp(depth+1, e.Right)
	case *query.CompareExp:
		w.line(depth, "compare", fmt.Sprintf("%s %s %s", e.Left, e.Op, operand(e.Right)))
	default:
		panic(fmt.Sprintf("formatter: unknown expression %T", exp))
	}
}

func operand(op query.Operand) string {
	switch o := op.(type) {
	case *query.Column:
		return "column " + o.Name
	case *query.Param:
		return "param " + o.Name
	case query.Value:
		return o.Kind().String() + " " + o.String()
	default:
		panic(fmt.Sprintf("formatter: unknown operand %T", op))
	}
}
