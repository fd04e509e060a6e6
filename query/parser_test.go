package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *Node {
	t.Helper()
	node, err := NewParser(input).Parse()
	require.NoError(t, err, input)
	return node
}

func whereExp(t *testing.T, input string) Exp {
	t.Helper()
	node := mustParse(t, input)
	require.NotNil(t, node.Item.Where)
	require.NotNil(t, node.Item.Where.Exp)
	return node.Item.Where.Exp
}

func TestParser_Ops(t *testing.T) {
	t.Parallel()
	for _, op := range []string{"query", "count", "add", "update", "delete"} {
		node := mustParse(t, op+" user: [id, name]")
		assert.Equal(t, op, node.Op)
	}
}

func TestParser_Root(t *testing.T) {
	t.Parallel()

	array := mustParse(t, "query user : [id, name]")
	assert.Equal(t, "user", array.Item.Name)
	assert.True(t, array.Item.IsArray)
	require.Len(t, array.Item.Children, 2)
	assert.Equal(t, "id", array.Item.Children[0].Name)
	assert.Equal(t, "name", array.Item.Children[1].Name)

	object := mustParse(t, "query user : {id, name}")
	assert.False(t, object.Item.IsArray)
	require.Len(t, object.Item.Children, 2)
	assert.Equal(t, "id", object.Item.Children[0].Name)
	assert.Equal(t, "name", object.Item.Children[1].Name)
}

func TestParser_LeafRoot(t *testing.T) {
	t.Parallel()

	node := mustParse(t, "delete user(id = $id)")
	assert.True(t, node.Item.IsLeaf())
	assert.False(t, node.Item.IsArray)
	require.NotNil(t, node.Item.Where)

	node = mustParse(t, "count user")
	assert.True(t, node.Item.IsLeaf())
	assert.Nil(t, node.Item.Where)

	node = mustParse(t, "query user()")
	assert.Nil(t, node.Item.Where)
}

func TestParser_Children(t *testing.T) {
	t.Parallel()
	node := mustParse(t, "query user : [*, !password]")
	require.Len(t, node.Item.Children, 2)

	all, password := node.Item.Children[0], node.Item.Children[1]
	assert.Equal(t, ItemAll, all.Kind)
	assert.Empty(t, all.Name)
	assert.Equal(t, ItemIgnore, password.Kind)
	assert.Equal(t, "password", password.Name)
}

func TestParser_DuplicateChildrenKept(t *testing.T) {
	t.Parallel()
	node := mustParse(t, "query user : {id, id, *, *}")
	require.Len(t, node.Item.Children, 4)
	assert.Equal(t, ItemField, node.Item.Children[1].Kind)
	assert.Equal(t, ItemAll, node.Item.Children[3].Kind)
}

func TestParser_BelongsTo(t *testing.T) {
	t.Parallel()
	node := mustParse(t, "query user : [id, name, role : {id, name}]")
	role := node.Item.Children[2]
	assert.Equal(t, "role", role.Name)
	assert.False(t, role.IsArray)
	assert.Len(t, role.Children, 2)
}

func TestParser_HasMany(t *testing.T) {
	t.Parallel()
	node := mustParse(t, "query user : {id, posts : [title, comments : [*]]}")
	posts := node.Item.Children[1]
	assert.True(t, posts.IsArray)
	require.Len(t, posts.Children, 2)
	comments := posts.Children[1]
	assert.True(t, comments.IsArray)
	assert.Equal(t, ItemAll, comments.Children[0].Kind)
}

func TestParser_NestedItemWhere(t *testing.T) {
	t.Parallel()

	node := mustParse(t, "query user : {id, posts published = true order id desc : [title]}")
	posts := node.Item.Children[1]
	require.NotNil(t, posts.Where)

	cmp, ok := posts.Where.Exp.(*CompareExp)
	require.True(t, ok)
	assert.Equal(t, "published", cmp.Left.Name)
	assert.Equal(t, BoolValue{Val: true}, cmp.Right)
	require.Len(t, posts.Where.Orders, 1)
	assert.Equal(t, SortDesc, posts.Where.Orders[0].Sort)
	assert.True(t, posts.IsArray)

	// a parenthesized item filter is a nested expression
	node = mustParse(t, "query user : {posts(id = 1) : [*]}")
	_, ok = node.Item.Children[0].Where.Exp.(*NestExp)
	assert.True(t, ok)
}

func TestParser_ExpEqParam(t *testing.T) {
	t.Parallel()
	exp := whereExp(t, "query user(id = $id) : {*, !password}")

	cmp, ok := exp.(*CompareExp)
	require.True(t, ok)
	assert.Equal(t, ExpCompare, cmp.Kind())
	assert.Equal(t, "id", cmp.Left.Name)
	assert.Equal(t, CompareEq, cmp.Op)

	param, ok := cmp.Right.(*Param)
	require.True(t, ok)
	assert.Equal(t, "id", param.Name)
}

func TestParser_ExpEqValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		literal string
		want    any
		kind    ValueKind
	}{
		{"true", true, ValueBool},
		{"false", false, ValueBool},
		{"1", int64(1), ValueInt},
		{"null", nil, ValueNull},
		{"1.5", 1.5, ValueFloat},
		{`"bob"`, "bob", ValueString},
		{`'bob'`, "bob", ValueString},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			exp := whereExp(t, "query user(id = "+tt.literal+") : {*, !password}")
			cmp := exp.(*CompareExp)

			value, ok := cmp.Right.(Value)
			require.True(t, ok)
			assert.Equal(t, tt.kind, value.Kind())
			assert.Equal(t, tt.want, value.Interface())
		})
	}
}

func TestParser_ExpRightColumn(t *testing.T) {
	t.Parallel()
	cmp := whereExp(t, "query user(createdAt < updatedAt) : {*}").(*CompareExp)
	column, ok := cmp.Right.(*Column)
	require.True(t, ok)
	assert.Equal(t, "updatedAt", column.Name)
}

func TestParser_CompareOps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op   string
		want CompareOp
	}{
		{"=", CompareEq},
		{"!=", CompareNe},
		{">", CompareGt},
		{">=", CompareGe},
		{"<", CompareLt},
		{"<=", CompareLe},
		{"like", CompareLike},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			cmp := whereExp(t, "query user(name "+tt.op+" $v) : {*}").(*CompareExp)
			assert.Equal(t, tt.want, cmp.Op)
		})
	}
}

func TestParser_ExpLogic(t *testing.T) {
	t.Parallel()

	and, ok := whereExp(t, "query user(id = 1 && name = 2) : {*, !password}").(*LogicExp)
	require.True(t, ok)
	assert.Equal(t, LogicAnd, and.Op)

	left := and.Left.(*CompareExp)
	right := and.Right.(*CompareExp)
	assert.Equal(t, "id", left.Left.Name)
	assert.Equal(t, CompareEq, left.Op)
	assert.Equal(t, IntValue{Val: 1}, left.Right)
	assert.Equal(t, "name", right.Left.Name)
	assert.Equal(t, CompareEq, right.Op)
	assert.Equal(t, IntValue{Val: 2}, right.Right)

	or, ok := whereExp(t, "query user(id = 1 || name = 2) : {*, !password}").(*LogicExp)
	require.True(t, ok)
	assert.Equal(t, LogicOr, or.Op)
}

func TestParser_ExpLogicPriority(t *testing.T) {
	t.Parallel()
	exp := whereExp(t, "query user(id = 1 && name = 2 || id = 3 && name = 4) : {*, !password}").(*LogicExp)
	assert.Equal(t, LogicOr, exp.Op)
	assert.Equal(t, LogicAnd, exp.Left.(*LogicExp).Op)
	assert.Equal(t, LogicAnd, exp.Right.(*LogicExp).Op)
}

func TestParser_ExpRightAssociative(t *testing.T) {
	t.Parallel()

	exp := whereExp(t, "query user(a = 1 || b = 2 || c = 3) : {*}").(*LogicExp)
	assert.Equal(t, "a", exp.Left.(*CompareExp).Left.Name)
	inner, ok := exp.Right.(*LogicExp)
	require.True(t, ok)
	assert.Equal(t, LogicOr, inner.Op)
	assert.Equal(t, "b", inner.Left.(*CompareExp).Left.Name)
	assert.Equal(t, "c", inner.Right.(*CompareExp).Left.Name)

	exp = whereExp(t, "query user(a = 1 && b = 2 && c = 3) : {*}").(*LogicExp)
	inner, ok = exp.Right.(*LogicExp)
	require.True(t, ok)
	assert.Equal(t, LogicAnd, inner.Op)
}

func TestParser_NestExp(t *testing.T) {
	t.Parallel()

	nest, ok := whereExp(t, "query user((id = $id)): {*}").(*NestExp)
	require.True(t, ok)
	cmp, ok := nest.Exp.(*CompareExp)
	require.True(t, ok)
	assert.Equal(t, "id", cmp.Left.Name)

	and := whereExp(t, "query user((a = 1 || b = 2) && c = 3) : {*}").(*LogicExp)
	assert.Equal(t, LogicAnd, and.Op)
	grouped := and.Left.(*NestExp)
	assert.Equal(t, LogicOr, grouped.Exp.(*LogicExp).Op)
}

func TestParser_Order(t *testing.T) {
	t.Parallel()

	node := mustParse(t, "query user(order id) : {*}")
	require.Len(t, node.Item.Where.Orders, 1)
	order := node.Item.Where.Orders[0]
	require.Len(t, order.Columns, 1)
	assert.Equal(t, "id", order.Columns[0].Name)
	assert.Equal(t, SortAsc, order.Sort)
	assert.Nil(t, node.Item.Where.Exp)

	multi := mustParse(t, "query user(order id name, name desc) : {*}").Item.Where.Orders
	require.Len(t, multi, 2)
	assert.Len(t, multi[0].Columns, 2)
	assert.Equal(t, SortAsc, multi[0].Sort)
	assert.Len(t, multi[1].Columns, 1)
	assert.Equal(t, SortDesc, multi[1].Sort)

	shared := mustParse(t, "query user(order id name desc) : {*}").Item.Where.Orders
	require.Len(t, shared, 1)
	assert.Len(t, shared[0].Columns, 2)
	assert.Equal(t, SortDesc, shared[0].Sort)

	split := mustParse(t, "query user(order id, name desc) : {*}").Item.Where.Orders
	require.Len(t, split, 2)
	assert.Equal(t, SortAsc, split[0].Sort)
	assert.Equal(t, SortDesc, split[1].Sort)
}

func TestParser_ExpAndOrder(t *testing.T) {
	t.Parallel()
	where := mustParse(t, "query user(age > 18 order name asc) : [*]").Item.Where
	require.NotNil(t, where.Exp)
	require.Len(t, where.Orders, 1)
	assert.Equal(t, "name", where.Orders[0].Columns[0].Name)
}

func TestParser_ParseExpression(t *testing.T) {
	t.Parallel()

	exp, err := NewParser("id = $id").ParseExpression()
	require.NoError(t, err)
	cmp, ok := exp.(*CompareExp)
	require.True(t, ok)
	assert.Equal(t, "id", cmp.Right.(*Param).Name)

	exp, err = NewParser("(a = 1 || b = 2) && c like 'x%'").ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, ExpLogic, exp.Kind())

	_, err = NewParser("id = $id )").ParseExpression()
	assert.ErrorIs(t, err, ErrUnexpectedToken)
}

func TestParser_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		sentinel error
		pos      int
	}{
		{"empty", "", ErrUnexpectedToken, 0},
		{"missing root", "query", ErrUnexpectedToken, 5},
		{"missing body", "query user :", ErrMissingAlternative, 12},
		{"body not braced", "query user : id", ErrMissingAlternative, 13},
		{"item body not braced", "query user : {role : id}", ErrMissingAlternative, 21},
		{"unclosed object", "query user : {id", ErrUnexpectedToken, 16},
		{"wrong closer", "query user : {id]", ErrUnexpectedToken, 16},
		{"trailing after leaf", "query user id", ErrUnexpectedToken, 11},
		{"trailing after body", "query user : {id} x", ErrUnexpectedToken, 18},
		{"unclosed where", "query user(id = 1 : {*}", ErrUnexpectedToken, 18},
		{"missing compare op", "query user(id 1) : {*}", ErrMissingAlternative, 14},
		{"missing right", "query user(id = ) : {*}", ErrMissingAlternative, 16},
		{"value on left", "query user(1 = id) : {*}", ErrUnexpectedToken, 11},
		{"ignore without name", "query user : {!}", ErrUnexpectedToken, 15},
		{"order without column", "query user(order) : {*}", ErrUnexpectedToken, 16},
		{"order direction only", "query user(order desc) : {*}", ErrMissingAlternative, 17},
		{"malformed float", "query user(id = 1.2.3) : {*}", ErrMalformedLiteral, 16},
		{"int overflow", "query user(id = 99999999999999999999) : {*}", ErrMalformedLiteral, 16},
		{"lex error", "query user(id = 1 & name = 2) : {*}", ErrMalformedOperator, 18},
		{"unsupported char", "query user # : {*}", ErrUnsupportedCharacter, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewParser(tt.input).Parse()
			require.Error(t, err)
			assert.Nil(t, node)
			assert.ErrorIs(t, err, tt.sentinel)

			var positioned interface{ Offset() int }
			require.True(t, errors.As(err, &positioned))
			assert.Equal(t, tt.pos, positioned.Offset())
		})
	}
}

func TestParser_UnexpectedTokenDetail(t *testing.T) {
	t.Parallel()
	_, err := NewParser("query user : {id").Parse()

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, UnexpectedToken, parseErr.Kind)
	assert.Equal(t, []TokenKind{TokenCloseCurly}, parseErr.Expected)
	assert.Equal(t, TokenEOF, parseErr.Actual.Kind)
	assert.Equal(t, `expected "}", got EOF at offset 16`, err.Error())
}

func TestParser_UnterminatedStringIsLenient(t *testing.T) {
	t.Parallel()
	exp, err := NewParser(`name = "bob`).ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, StringValue{Val: "bob"}, exp.(*CompareExp).Right)
}

func TestNode_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"query user : [id, name]", "query user : [id, name]"},
		{"query user(id=$id):{*,!password}", "query user(id = $id) : {*, !password}"},
		{"delete user(id = 1)", "delete user(id = 1)"},
		{"query user(order id name, age desc) : {*}", "query user(order id name asc, age desc) : {*}"},
		{"query user : {posts title like 'a%' order id : [*]}", `query user : {posts title like "a%" order id asc : [*]}`},
		{"query user((a = 1 || b = 2.5) && c = null) : {*}", "query user((a = 1 || b = 2.5) && c = null) : {*}"},
		{"query user(a = 1 && b = true || c = false) : {*}", "query user(a = 1 && b = true || c = false) : {*}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := mustParse(t, tt.input)
			assert.Equal(t, tt.want, node.String())

			// printed form parses back to the same tree
			again := mustParse(t, node.String())
			assert.Equal(t, node, again)
		})
	}
}

func TestLogicExp_StringKeepsGrouping(t *testing.T) {
	t.Parallel()
	a := &CompareExp{Left: &Column{Name: "a"}, Op: CompareEq, Right: IntValue{Val: 1}}
	b := &CompareExp{Left: &Column{Name: "b"}, Op: CompareEq, Right: IntValue{Val: 2}}
	c := &CompareExp{Left: &Column{Name: "c"}, Op: CompareEq, Right: IntValue{Val: 3}}

	leftChain := &LogicExp{Left: &LogicExp{Left: a, Op: LogicOr, Right: b}, Op: LogicOr, Right: c}
	assert.Equal(t, "(a = 1 || b = 2) || c = 3", leftChain.String())

	orUnderAnd := &LogicExp{Left: a, Op: LogicAnd, Right: &LogicExp{Left: b, Op: LogicOr, Right: c}}
	assert.Equal(t, "a = 1 && (b = 2 || c = 3)", orUnderAnd.String())

	not := &NotExp{Exp: a}
	assert.Equal(t, ExpNot, not.Kind())
	assert.Equal(t, "!(a = 1)", not.String())
}

func TestNode_JSON(t *testing.T) {
	t.Parallel()
	node := mustParse(t, "query user(id = $id && age > 18) : [*, !password]")

	data, err := json.Marshal(node)
	require.NoError(t, err)

	want := `{"op":"query","item":{"kind":"field","name":"user","isArray":true,` +
		`"children":[{"kind":"all"},{"kind":"ignore","name":"password"}],` +
		`"where":{"exp":{"kind":"logic",` +
		`"left":{"kind":"compare","left":{"kind":"column","name":"id"},"op":"=","right":{"kind":"param","name":"id"}},` +
		`"op":"&&",` +
		`"right":{"kind":"compare","left":{"kind":"column","name":"age"},"op":">","right":{"kind":"int","value":18}}}}}}`
	assert.JSONEq(t, want, string(data))
}

func TestParams(t *testing.T) {
	t.Parallel()
	exp := whereExp(t, "query user(id = $id && (name = $name || alias = $name) && age > minAge) : {*}")
	assert.Equal(t, []string{"id", "name"}, Params(exp))
	assert.Equal(t, []string{"id", "name", "alias", "age", "minAge"}, Columns(exp))

	node := mustParse(t, "query user(id = $id) : {posts author = $author : [*], roles name = $id : [*]}")
	assert.Equal(t, []string{"id", "author"}, NodeParams(node))
}

func TestInspect_SkipChildren(t *testing.T) {
	t.Parallel()
	exp := whereExp(t, "query user((a = 1 && b = 2) || c = 3) : {*}")

	var visited []ExpKind
	Inspect(exp, func(e Exp) bool {
		visited = append(visited, e.Kind())
		return e.Kind() != ExpNest
	})
	assert.Equal(t, []ExpKind{ExpLogic, ExpNest, ExpCompare}, visited)
}
