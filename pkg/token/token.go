// Package token defines the token types produced by the SQL lexer.
//
// Structural keywords that drive layout decisions are defined as constants
// (IDs 0-999) for switch performance. Every other reserved word lexes as
// KEYWORD. Vendor keywords are registered dynamically via Register().
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT        // identifier
	QUOTED_IDENT // "col", `col`
	NUMBER       // 123, 45.67, 1e10, 0x1F
	STRING       // 'hello', E'x', $$body$$
	PARAM        // ?, $1, :name, @name
	MACRO        // {{ ref('x') }}
	KEYWORD      // reserved word without layout meaning

	// Comments
	LINE_COMMENT  // -- comment
	BLOCK_COMMENT // /* comment */

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	DPIPE    // ||
	EQ       // =
	NE       // != or <>
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	CAST     // ::
	OPERATOR // any other operator: ->, ->>, =>, ~, &, |, ^, #, ...

	// Punctuation
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]

	// Structural keywords (alphabetical)
	ADD
	ALL
	ALTER
	AND
	BETWEEN
	BY
	CASE
	COLUMN
	CROSS
	DELETE
	DISTINCT
	ELSE
	END
	EXCEPT
	FETCH
	FROM
	FULL
	GROUP
	HAVING
	INNER
	INSERT
	INTERSECT
	INTO
	JOIN
	LEFT
	LIMIT
	NATURAL
	OFFSET
	OR
	ORDER
	OUTER
	RIGHT
	SELECT
	SET
	TABLE
	UNION
	UPDATE
	VALUES
	WHEN
	WHERE
	WINDOW
	XOR

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:        "IDENT",
	QUOTED_IDENT: "QUOTED_IDENT",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	PARAM:        "PARAM",
	MACRO:        "MACRO",
	KEYWORD:      "KEYWORD",

	LINE_COMMENT:  "LINE_COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",

	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	DPIPE:    "||",
	EQ:       "=",
	NE:       "!=",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	CAST:     "::",
	OPERATOR: "OPERATOR",

	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",

	ADD:       "ADD",
	ALL:       "ALL",
	ALTER:     "ALTER",
	AND:       "AND",
	BETWEEN:   "BETWEEN",
	BY:        "BY",
	CASE:      "CASE",
	COLUMN:    "COLUMN",
	CROSS:     "CROSS",
	DELETE:    "DELETE",
	DISTINCT:  "DISTINCT",
	ELSE:      "ELSE",
	END:       "END",
	EXCEPT:    "EXCEPT",
	FETCH:     "FETCH",
	FROM:      "FROM",
	FULL:      "FULL",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTERSECT: "INTERSECT",
	INTO:      "INTO",
	JOIN:      "JOIN",
	LEFT:      "LEFT",
	LIMIT:     "LIMIT",
	NATURAL:   "NATURAL",
	OFFSET:    "OFFSET",
	OR:        "OR",
	ORDER:     "ORDER",
	OUTER:     "OUTER",
	RIGHT:     "RIGHT",
	SELECT:    "SELECT",
	SET:       "SET",
	TABLE:     "TABLE",
	UNION:     "UNION",
	UPDATE:    "UPDATE",
	VALUES:    "VALUES",
	WHEN:      "WHEN",
	WHERE:     "WHERE",
	WINDOW:    "WINDOW",
	XOR:       "XOR",
}

// keywords maps lowercase structural keywords to their token types.
var keywords = map[string]TokenType{
	"add":       ADD,
	"all":       ALL,
	"alter":     ALTER,
	"and":       AND,
	"between":   BETWEEN,
	"by":        BY,
	"case":      CASE,
	"column":    COLUMN,
	"cross":     CROSS,
	"delete":    DELETE,
	"distinct":  DISTINCT,
	"else":      ELSE,
	"end":       END,
	"except":    EXCEPT,
	"fetch":     FETCH,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"having":    HAVING,
	"inner":     INNER,
	"insert":    INSERT,
	"intersect": INTERSECT,
	"into":      INTO,
	"join":      JOIN,
	"left":      LEFT,
	"limit":     LIMIT,
	"natural":   NATURAL,
	"offset":    OFFSET,
	"or":        OR,
	"order":     ORDER,
	"outer":     OUTER,
	"right":     RIGHT,
	"select":    SELECT,
	"set":       SET,
	"table":     TABLE,
	"union":     UNION,
	"update":    UPDATE,
	"values":    VALUES,
	"when":      WHEN,
	"where":     WHERE,
	"window":    WINDOW,
	"xor":       XOR,
}

// reserved lists words that are upper-cased but carry no layout meaning.
var reserved = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		any array as asc auto_increment begin cascade cast check collate
		commit constraint create current current_date current_time
		current_timestamp database default deferrable desc describe do
		drop each exists explain false filter first following for foreign
		function grant groups if ilike in index is key lateral last like
		lock materialized merge not nothing null nulls on only over
		partition preceding primary procedure range recursive references
		replace revoke rollback row rows schema sequence show similar
		some temporary temp then ties to top transaction trigger true
		truncate unbounded unique unlogged unnest using view with within
		without`) {
		reserved[w] = struct{}{}
	}
}

// LookupIdent returns the token type for the given lowercase word.
// Structural keywords map to their own type, reserved words to KEYWORD,
// anything else to IDENT.
// Dynamic keywords are checked separately via LookupDynamicKeyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if _, ok := reserved[ident]; ok {
		return KEYWORD
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword of any kind.
func IsKeyword(t TokenType) bool {
	return t == KEYWORD || (t >= ADD && t <= XOR) || IsDynamic(t)
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= OPERATOR
}

// IsComment returns true for line and block comments.
func IsComment(t TokenType) bool {
	return t == LINE_COMMENT || t == BLOCK_COMMENT
}

// Token represents a lexical token with position information.
//
// Literal holds the exact source text of the token, quotes and
// delimiters included.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position // first byte
	End     Position // one past the last byte
	Spaced  bool     // whitespace or a comment precedes the token
}
