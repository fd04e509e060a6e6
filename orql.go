// Package orql is the memoizing front end of the ORQL query language.
// It parses query and expression text with package query and caches the
// results by raw text, so repeated calls with the same text return the
// same tree.
package orql

import (
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql/internal/cache"
	"github.com/gnoswap-labs/orql/query"
)

// Engine parses ORQL text and memoizes successful results.
// Cached trees are shared between callers and must not be modified.
type Engine struct {
	nodes  *cache.Cache[*query.Node]
	exps   *cache.Cache[query.Exp]
	logger *zap.Logger
}

// NewEngine creates an engine whose query and expression caches each hold at
// most capacity entries. A capacity of zero means unbounded.
func NewEngine(capacity int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		nodes:  cache.New[*query.Node](capacity, logger.Named("nodes")),
		exps:   cache.New[query.Exp](capacity, logger.Named("exps")),
		logger: logger,
	}
}

// Parse parses a complete query. Parsing the same text again returns the
// same *query.Node.
func (e *Engine) Parse(text string) (*query.Node, error) {
	return e.nodes.GetOrBuild(text, func() (*query.Node, error) {
		return query.NewParser(text).Parse()
	})
}

// ParseExpression parses a bare filter expression such as "id = $id".
// Parsing the same text again returns the same query.Exp.
func (e *Engine) ParseExpression(text string) (query.Exp, error) {
	return e.exps.GetOrBuild(text, func() (query.Exp, error) {
		return query.NewParser(text).ParseExpression()
	})
}

// Stats reports the activity of the query and expression caches.
func (e *Engine) Stats() (nodes, exps cache.Stats) {
	return e.nodes.Stats(), e.exps.Stats()
}

// Reset empties both caches.
func (e *Engine) Reset() {
	e.nodes.Purge()
	e.exps.Purge()
	e.logger.Debug("engine caches reset")
}

var defaultEngine = NewEngine(0, nil)

// Parse parses text with the package default engine.
func Parse(text string) (*query.Node, error) {
	return defaultEngine.Parse(text)
}

// ParseExpression parses an expression with the package default engine.
func ParseExpression(text string) (query.Exp, error) {
	return defaultEngine.ParseExpression(text)
}
