/*
Package query provides the lexer, parser and abstract syntax tree for ORQL,
a compact language describing CRUD-style operations over hierarchically
related records.

# Overview

A query names a verb, a root record, an optional filter and a projection:

	query user(id = $id) : {*, !password, role : {id, name}}

The package turns that text into a validated AST. It does not execute
queries or check them against a schema.

# Token Types

The lexer recognizes:

  - Names: ASCII letters, then letters or '_'. The words order, true, false,
    like and null are reserved.
  - Numbers: digits with any number of '.'; a '.' makes it a float.
  - Strings: "..." or '...'; a backslash escapes the opening quote only.
  - Parameters: $name, the '$' is not part of the token text.
  - Punctuation: * : , { } ( ) [ ] - and the operators
    = != > >= < <= && || !

Only the space character separates tokens. Tabs and newlines are rejected.

# Grammar

	node       := Name root
	root       := Name ['(' where ')'] [':' body]
	body       := '{' items '}' | '[' items ']'
	items      := item (',' item)*
	item       := '*' | '!' Name | Name [where] [':' body]
	where      := [exp] [order orders]
	exp        := term ('||' exp)?
	term       := factor ('&&' term)?
	factor     := '(' exp ')' | Column compareOp right
	compareOp  := '=' | '>' | '>=' | '<' | '<=' | '!=' | 'like'
	right      := Column | Param | Int | Float | String | true | false | null
	orders     := order (',' order)*
	order      := Column+ ('asc' | 'desc')?

&& binds tighter than ||, and both group to the right. Parentheses are kept
in the tree as *NestExp.

# Usage Example

	node, err := query.NewParser("query user : [id, name]").Parse()
	if err != nil {
		// *LexError or *ParseError
	}

	exp, err := query.NewParser("age > 18 && name like $name").ParseExpression()

Parsers are single use and do not cache. The orql package at the module root
wraps them with a memoizing cache.
*/
package query
