package lexer

import (
	"fmt"

	"github.com/leapstack-labs/sqlpretty/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
	ErrUnterminatedDollar  = "unterminated dollar-quoted string"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnterminatedMacro   = "unterminated template expression"
)
