package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/orql/check"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
)

const issueTemplate = `{{header .Rule .Padding .Filename .Line .Column}}
{{gutter .Padding}}
{{snippet .Query .Line .LineNumWidth}}
{{caret .Query .Column .Padding}}
{{message .Message .Padding}}

`

var funcMap = template.FuncMap{
	"header":  header,
	"gutter":  gutter,
	"snippet": snippet,
	"caret":   caret,
	"message": message,
}

var issueTmpl = template.Must(template.New("issue").Funcs(funcMap).Parse(issueTemplate))

// IssueData is the data an issue is rendered from.
type IssueData struct {
	Rule         string
	Filename     string
	Line         int
	Column       int
	Query        string
	Message      string
	LineNumWidth int
	Padding      string
}

// GenerateFormattedIssue renders issues rust-style, with a caret under the
// offending column of each query.
func GenerateFormattedIssue(issues []check.Issue) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue))
	}
	return builder.String()
}

func buildIssue(issue check.Issue) string {
	width := len(fmt.Sprintf("%d", issue.Line))
	data := IssueData{
		Rule:         issue.Rule,
		Filename:     issue.Filename,
		Line:         issue.Line,
		Column:       issue.Column,
		Query:        issue.Query,
		Message:      issue.Message,
		LineNumWidth: width,
		Padding:      strings.Repeat(" ", width+1),
	}

	var buf bytes.Buffer
	if err := issueTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// Summary renders the closing line of a check run.
func Summary(issues, files int) string {
	if issues == 0 {
		return okStyle.Sprintf("no issues found in %d file(s)\n", files)
	}
	return errorStyle.Sprintf("found %d issue(s) in %d file(s)\n", issues, files)
}

// utils functions used in the text templates

func header(rule, padding, filename string, line, column int) string {
	return errorStyle.Sprint("error: ") + ruleStyle.Sprint(rule) + "\n" +
		lineStyle.Sprintf("%s--> ", padding[1:]) + fileStyle.Sprintf("%s:%d:%d", filename, line, column)
}

func gutter(padding string) string {
	return lineStyle.Sprintf("%s|", padding)
}

func snippet(query string, line, width int) string {
	return lineStyle.Sprintf("%*d | ", width, line) + expandTabs(query)
}

func caret(query string, column int, padding string) string {
	return lineStyle.Sprintf("%s| ", padding) + strings.Repeat(" ", calculateVisualColumn(query, column)) + messageStyle.Sprint("^")
}

func message(msg, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprint(msg)
}

// calculateVisualColumn returns the display offset of the 1-based byte
// column in line, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	// columns past the end point just after the last character
	if column-1 > len(line) {
		visualColumn += column - 1 - len(line)
	}
	return visualColumn
}

// expandTabs replaces tab characters with spaces, considering a tab width of 8
func expandTabs(line string) string {
	var expanded strings.Builder
	column := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			column += spaceCount
			continue
		}
		expanded.WriteRune(ch)
		column++
	}
	return expanded.String()
}
