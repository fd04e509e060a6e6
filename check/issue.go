package check

import (
	"errors"
	"fmt"
)

// RuleParseError is reported for failures that carry no rule of their own.
const RuleParseError = "parse-error"

// Issue represents a query that failed to lex or parse.
type Issue struct {
	Rule     string `json:"rule"` // error kind, e.g. "unexpected-token"
	Filename string `json:"filename"`
	Line     int    `json:"line"`   // 1-based
	Column   int    `json:"column"` // 1-based byte column
	Query    string `json:"query"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", i.Filename, i.Line, i.Column, i.Rule, i.Message)
}

// positioned is implemented by *query.LexError and *query.ParseError.
type positioned interface {
	Rule() string
	Offset() int
}

// NewIssue describes err, returned while parsing q, as an issue of filename.
func NewIssue(filename string, q Query, err error) Issue {
	issue := Issue{
		Rule:     RuleParseError,
		Filename: filename,
		Line:     q.Line,
		Column:   1,
		Query:    q.Text,
		Message:  err.Error(),
	}
	var p positioned
	if errors.As(err, &p) {
		issue.Rule = p.Rule()
		issue.Column = p.Offset() + 1
	}
	return issue
}
