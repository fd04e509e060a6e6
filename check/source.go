package check

import (
	"fmt"
	"os"
	"strings"
)

// Query is one query line of a source file.
type Query struct {
	Line int    // 1-based line number
	Text string // query text, without line terminator
}

// SourceCode stores the content of a query file.
type SourceCode struct {
	Lines   []string
	Queries []Query
}

// ReadSource reads a query file.
func ReadSource(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return NewSource(content), nil
}

// NewSource splits content into lines and collects its queries.
// Blank lines and lines whose first non-space character is '#' are skipped.
func NewSource(content []byte) *SourceCode {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	src := &SourceCode{Lines: lines}
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		src.Queries = append(src.Queries, Query{Line: i + 1, Text: line})
	}
	return src
}
