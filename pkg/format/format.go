package format

import (
	"strings"

	"github.com/leapstack-labs/sqlpretty/pkg/lexer"
	"github.com/leapstack-labs/sqlpretty/pkg/token"
)

// Format lays out SQL text with fixed rules: upper-cased reserved words,
// one clause per line with an indented body, and short parenthesised or
// CASE blocks kept on one line.
//
// Formatting converges in one pass: Format(Format(x)) == Format(x).
// Lexical errors (*lexer.LexError) and a ')' without a matching '('
// (*SyntaxError) are returned as errors; anything else is laid out
// as well as the token stream allows.
func Format(sql string) (string, error) {
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return "", err
	}
	// Drop the trailing EOF.
	tokens = tokens[:len(tokens)-1]

	f := &formatter{
		tokens: tokens,
		p:      newPrinter(),
	}
	if err := f.run(); err != nil {
		return "", err
	}
	return f.p.String(), nil
}

// block is an open ( [ or CASE.
type block struct {
	kind   token.TokenType
	inline bool
	clause token.TokenType // clause active when the block opened
}

type formatter struct {
	tokens []token.Token
	pos    int
	p      *Printer

	blocks         []block
	clause         token.TokenType // first word of the innermost clause
	pendingBetween bool
}

func (f *formatter) run() error {
	for f.pos < len(f.tokens) {
		if err := f.step(); err != nil {
			return err
		}
	}
	return nil
}

func (f *formatter) inline() bool {
	return len(f.blocks) > 0 && f.blocks[len(f.blocks)-1].inline
}

func (f *formatter) topBlock() (block, bool) {
	if len(f.blocks) == 0 {
		return block{}, false
	}
	return f.blocks[len(f.blocks)-1], true
}

// step lays out the token at f.pos and advances past everything it used.
func (f *formatter) step() error {
	i := f.pos
	tok := f.tokens[i]

	switch tok.Type {
	case token.LINE_COMMENT:
		f.pos++
		f.lineComment(i)
		return nil
	case token.BLOCK_COMMENT:
		f.pos++
		f.blockComment(i)
		return nil
	case token.LPAREN:
		f.pos++
		f.openParen(i)
		return nil
	case token.RPAREN:
		f.pos++
		return f.closeParen(i)
	case token.LBRACKET:
		f.pos++
		f.attach(i)
		f.p.write("[")
		f.p.glue()
		f.blocks = append(f.blocks, block{kind: token.LBRACKET, inline: true, clause: f.clause})
		return nil
	case token.RBRACKET:
		f.pos++
		if b, ok := f.topBlock(); ok && b.kind == token.LBRACKET {
			f.blocks = f.blocks[:len(f.blocks)-1]
		}
		f.p.glue()
		f.p.write("]")
		f.p.space()
		return nil
	case token.COMMA:
		f.pos++
		f.p.glue()
		f.p.write(",")
		if f.inline() || f.clause == token.LIMIT {
			f.p.space()
			return nil
		}
		f.breakLine(i)
		return nil
	case token.DOT, token.CAST:
		f.pos++
		f.p.glue()
		f.p.write(tok.Literal)
		// "a.1" would lex back as a followed by the number .1
		if tok.Type == token.DOT && f.pos < len(f.tokens) && f.tokens[f.pos].Type == token.NUMBER {
			f.p.space()
			return nil
		}
		f.p.glue()
		return nil
	case token.SEMICOLON:
		f.pos++
		f.p.glue()
		f.p.write(";")
		f.blocks = f.blocks[:0]
		f.p.resetIndent()
		f.clause = token.EOF
		f.pendingBetween = false
		f.trailingComment(i)
		f.p.blankLine()
		return nil
	case token.PLUS, token.MINUS:
		f.pos++
		f.additive(i)
		return nil
	}

	if token.IsOperator(tok.Type) {
		f.pos++
		f.p.write(tok.Literal)
		f.p.space()
		return nil
	}

	kind, n := f.classify(i)
	f.pos += n
	last := f.pos - 1

	switch {
	case tok.Type == token.CASE && kind != kindWord:
		f.openCase(i)
		return nil
	case tok.Type == token.END && kind != kindWord:
		f.closeCase()
		return nil
	case tok.Type == token.BETWEEN:
		f.pendingBetween = true
	}

	switch kind {
	case kindWord:
		f.p.write(tok.Literal)
		f.p.space()
	case kindKeyword:
		f.p.keyword(tok.Literal)
		f.p.space()
	case kindTopLevel:
		if f.inline() {
			f.phrase(i, n)
			return nil
		}
		f.pendingBetween = false
		f.p.dedentTopLevel()
		f.p.writeln()
		f.phrase(i, n)
		f.p.indentTopLevel()
		f.clause = tok.Type
		f.breakLine(last)
	case kindSetOp:
		if f.inline() {
			f.phrase(i, n)
			return nil
		}
		f.pendingBetween = false
		f.p.dedentTopLevel()
		f.p.writeln()
		f.phrase(i, n)
		f.clause = tok.Type
		f.breakLine(last)
	case kindNewline, kindJoin:
		if f.inline() || (tok.Type == token.AND && f.pendingBetween) {
			f.pendingBetween = false
			f.phrase(i, n)
			return nil
		}
		f.p.writeln()
		f.phrase(i, n)
	}
	return nil
}

// phrase writes n keywords starting at i, upper-cased and single-spaced.
func (f *formatter) phrase(i, n int) {
	for _, tok := range f.tokens[i : i+n] {
		f.p.keyword(tok.Literal)
		f.p.space()
	}
}

// breakLine ends the line after the token at last, first pulling up a
// comment that follows it on the same source line.
func (f *formatter) breakLine(last int) {
	f.trailingComment(last)
	f.p.writeln()
}

func (f *formatter) trailingComment(last int) {
	if f.pos >= len(f.tokens) {
		return
	}
	next := f.tokens[f.pos]
	if !token.IsComment(next.Type) || !token.SameLine(f.tokens[last].End, next.Pos) {
		return
	}
	f.pos++
	f.p.space()
	f.p.write(commentText(next))
	if next.Type == token.LINE_COMMENT {
		f.p.writeln()
	}
}

// sameLineAsPrev reports whether the token at i starts on the line where
// the previous token ended, and that token is still the last thing written.
func (f *formatter) sameLineAsPrev(i int) bool {
	return i > 0 && !f.p.atLineStart && token.SameLine(f.tokens[i-1].End, f.tokens[i].Pos)
}

func (f *formatter) lineComment(i int) {
	if f.sameLineAsPrev(i) {
		f.p.space()
	} else {
		f.p.writeln()
	}
	f.p.write(commentText(f.tokens[i]))
	f.p.writeln()
}

func (f *formatter) blockComment(i int) {
	if f.sameLineAsPrev(i) {
		f.p.space()
		f.p.write(f.tokens[i].Literal)
		f.p.space()
		return
	}
	f.p.writeln()
	f.p.write(f.tokens[i].Literal)
	f.p.writeln()
}

func commentText(tok token.Token) string {
	return strings.TrimRight(tok.Literal, " \t\r")
}

// attach glues an opening bracket to a directly preceding name, as in
// count(*) or arr[1].
func (f *formatter) attach(i int) {
	if i == 0 || f.tokens[i].Spaced {
		return
	}
	switch prev := f.tokens[i-1].Type; {
	case prev == token.IDENT, prev == token.QUOTED_IDENT, prev == token.PARAM,
		prev == token.MACRO, prev == token.RPAREN, prev == token.RBRACKET,
		token.IsKeyword(prev):
		f.p.glue()
	}
}

func (f *formatter) openParen(i int) {
	inline := f.inline() || f.isInlineBlock(i)
	f.attach(i)
	f.p.write("(")
	f.p.glue()
	f.blocks = append(f.blocks, block{kind: token.LPAREN, inline: inline, clause: f.clause})
	if !inline {
		f.p.indentBlock()
		f.breakLine(i)
	}
}

func (f *formatter) closeParen(i int) error {
	open := -1
	for k := len(f.blocks) - 1; k >= 0; k-- {
		if f.blocks[k].kind == token.LPAREN {
			open = k
			break
		}
	}
	if open < 0 {
		return &SyntaxError{Pos: f.tokens[i].Pos, Message: ErrUnbalancedParen}
	}

	// Unclosed CASE and [ blocks inside the parens end with them.
	for k := len(f.blocks) - 1; k > open; k-- {
		if !f.blocks[k].inline {
			f.p.dedentBlock()
		}
	}
	b := f.blocks[open]
	f.blocks = f.blocks[:open]
	f.clause = b.clause
	f.pendingBetween = false

	if b.inline {
		f.p.glue()
	} else {
		f.p.dedentBlock()
		f.p.writeln()
	}
	f.p.write(")")
	f.p.space()
	return nil
}

func (f *formatter) openCase(i int) {
	inline := f.inline() || f.isInlineBlock(i)
	f.p.keyword(f.tokens[i].Literal)
	f.p.space()
	f.blocks = append(f.blocks, block{kind: token.CASE, inline: inline, clause: f.clause})
	if !inline {
		f.p.indentBlock()
	}
}

// closeCase ends the innermost CASE. An END that closes no CASE is an
// ordinary keyword.
func (f *formatter) closeCase() {
	b, ok := f.topBlock()
	if !ok || b.kind != token.CASE {
		f.p.keyword("END")
		f.p.space()
		return
	}
	f.blocks = f.blocks[:len(f.blocks)-1]
	f.clause = b.clause
	if !b.inline {
		f.p.dedentBlock()
		f.p.writeln()
	}
	f.p.keyword("END")
	f.p.space()
}

// additive writes + or -, binding it to its operand when it is unary.
func (f *formatter) additive(i int) {
	tok := f.tokens[i]
	if !f.isUnary(i) {
		f.p.write(tok.Literal)
		f.p.space()
		return
	}
	// Keep "- -x" apart so it never reads back as a comment.
	if j := f.prevIndex(i); j >= 0 && f.tokens[j].Type == token.MINUS && tok.Type == token.MINUS {
		f.p.space()
	}
	f.p.write(tok.Literal)
	f.p.glue()
}

func (f *formatter) isUnary(i int) bool {
	j := f.prevIndex(i)
	if j < 0 {
		return true
	}
	prev := f.tokens[j].Type
	switch {
	case token.IsOperator(prev):
		return true
	case prev == token.LPAREN, prev == token.LBRACKET, prev == token.COMMA, prev == token.SEMICOLON:
		return true
	case prev == token.END:
		return false
	case token.IsKeyword(prev):
		kind, _ := f.classify(j)
		return kind != kindWord
	}
	return false
}
