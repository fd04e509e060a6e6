// Package check reports the queries of .orql files that fail to parse.
//
// A query file holds one query per line. Blank lines and lines starting with
// '#' are skipped.
package check

import (
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql/query"
)

// Checker checks query files and sources.
type Checker interface {
	CheckFile(filename string) ([]Issue, error)
	CheckSource(filename string, source []byte) ([]Issue, error)
}

// Parser parses one query. *orql.Engine satisfies it.
type Parser interface {
	Parse(text string) (*query.Node, error)
}

type parserFunc func(string) (*query.Node, error)

func (f parserFunc) Parse(text string) (*query.Node, error) { return f(text) }

// Engine checks every query of a file with a Parser.
type Engine struct {
	parser Parser
	logger *zap.Logger
}

var _ Checker = (*Engine)(nil)

// NewEngine creates a checker. A nil parser parses without caching.
func NewEngine(parser Parser, logger *zap.Logger) *Engine {
	if parser == nil {
		parser = parserFunc(func(text string) (*query.Node, error) {
			return query.NewParser(text).Parse()
		})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{parser: parser, logger: logger}
}

// CheckFile reads filename and checks its queries.
func (e *Engine) CheckFile(filename string) ([]Issue, error) {
	src, err := ReadSource(filename)
	if err != nil {
		return nil, err
	}
	return e.check(filename, src), nil
}

// CheckSource checks the queries of source, reporting them under filename.
func (e *Engine) CheckSource(filename string, source []byte) ([]Issue, error) {
	return e.check(filename, NewSource(source)), nil
}

func (e *Engine) check(filename string, src *SourceCode) []Issue {
	var issues []Issue
	for _, q := range src.Queries {
		if _, err := e.parser.Parse(q.Text); err != nil {
			issues = append(issues, NewIssue(filename, q, err))
		}
	}
	e.logger.Debug("checked file",
		zap.String("file", filename),
		zap.Int("queries", len(src.Queries)),
		zap.Int("issues", len(issues)))
	return issues
}
