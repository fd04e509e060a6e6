package formatter

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/orql/check"
	"github.com/gnoswap-labs/orql/query"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	issues := []check.Issue{
		{
			Rule:     "unexpected-token",
			Filename: "users.orql",
			Line:     2,
			Column:   15,
			Query:    "query user : {",
			Message:  `expected "name", got EOF at offset 14`,
		},
		{
			Rule:     "malformed-operator",
			Filename: "users.orql",
			Line:     12,
			Column:   19,
			Query:    "query user(id = 1 & x = 2)",
			Message:  `malformed operator '&' at offset 18, expected "&&"`,
		},
	}

	expected := `error: unexpected-token
 --> users.orql:2:15
  |
2 | query user : {
  |               ^
  = expected "name", got EOF at offset 14

error: malformed-operator
  --> users.orql:12:19
   |
12 | query user(id = 1 & x = 2)
   |                   ^
   = malformed operator '&' at offset 18, expected "&&"

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues))
}

func TestGenerateFormattedIssue_Tabs(t *testing.T) {
	t.Parallel()
	issues := []check.Issue{{
		Rule:     "unsupported-character",
		Filename: "tabs.orql",
		Line:     1,
		Column:   6,
		Query:    "query\tuser",
		Message:  `unsupported character '\t' at offset 5`,
	}}

	expected := `error: unsupported-character
 --> tabs.orql:1:6
  |
1 | query   user
  |      ^
  = unsupported character '\t' at offset 5

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues))
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"query", 1, 0},
		{"query", 3, 2},
		{"query", 6, 5},
		{"\tquery", 2, 8},
		{"ab\tc", 4, 8},
		{"ab", 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateVisualColumn(tt.line, tt.column), "%q:%d", tt.line, tt.column)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "no issues found in 3 file(s)\n", Summary(0, 3))
	assert.Equal(t, "found 2 issue(s) in 1 file(s)\n", Summary(2, 1))
}

func TestFormatNode(t *testing.T) {
	t.Parallel()
	node, err := query.NewParser("query user(id = $id order name desc) : [*, !password, posts published = true : {title}]").Parse()
	require.NoError(t, err)

	expected := `op query
  field user []
    where
      compare id = param id
    order name desc
    all *
    ignore password
    field posts {}
      where
        compare published = bool true
      field title
`
	assert.Equal(t, expected, FormatNode(node))
}

func TestFormatExp(t *testing.T) {
	t.Parallel()
	exp, err := query.NewParser("(a = 1 || b = 'x') && c != null && d < e").ParseExpression()
	require.NoError(t, err)

	expected := `logic &&
  nest
    logic ||
      compare a = int 1
      compare b = string "x"
  logic &&
    compare c != null null
    compare d < column e
`
	assert.Equal(t, expected, FormatExp(exp))

	not := &query.NotExp{Exp: &query.CompareExp{
		Left:  &query.Column{Name: "f"},
		Op:    query.CompareGe,
		Right: query.FloatValue{Val: 2},
	}}
	assert.Equal(t, "not\n  compare f >= float 2.0\n", FormatExp(not))
}
