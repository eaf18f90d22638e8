package format

import (
	"fmt"

	"github.com/leapstack-labs/sqlpretty/pkg/token"
)

// SyntaxError reports input the formatter cannot lay out.
type SyntaxError struct {
	Pos     token.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ErrUnbalancedParen is the message for a ')' without a matching '('.
const ErrUnbalancedParen = "unexpected ')' without matching '('"
