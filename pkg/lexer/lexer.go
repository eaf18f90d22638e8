// Package lexer splits SQL text into tokens for the formatter.
//
// Unlike a parser front end, the lexer keeps every token's exact source
// text (quotes, prefixes and comment delimiters included) so the formatter
// can re-emit it verbatim. Only whitespace is dropped; comments are tokens.
package lexer

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/sqlpretty/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input string
	pos   int  // offset of ch
	ch    byte // current char, 0 at end of input
	line  int  // line of ch (1-based)
	col   int  // column of ch (1-based)
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 1}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

// atEOF reports whether the whole input has been consumed. NUL bytes in
// the input are ordinary characters, so ch == 0 is not an EOF test.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
	if l.atEOF() {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

// readN advances n characters.
func (l *Lexer) readN(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// peekChar returns the character n bytes ahead without advancing.
func (l *Lexer) peekChar(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// NextToken returns the next token. At end of input it returns an EOF
// token; calling it again keeps returning EOF.
func (l *Lexer) NextToken() (token.Token, error) {
	spaced := l.skipWhitespace()
	pos := l.currentPos()

	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos, End: pos, Spaced: spaced}, nil
	}

	typ, err := l.scan(pos)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Literal: l.input[pos.Offset:l.pos], Pos: pos, End: l.currentPos()}, err
	}

	tok := token.Token{
		Type:    typ,
		Literal: l.input[pos.Offset:l.pos],
		Pos:     pos,
		End:     l.currentPos(),
		Spaced:  spaced,
	}
	if tok.Type == token.IDENT {
		tok.Type = lookupWord(tok.Literal)
	}
	return tok, nil
}

// lookupWord classifies a bare word: structural keyword, reserved word,
// registered vendor keyword or identifier.
func lookupWord(word string) token.TokenType {
	lower := strings.ToLower(word)
	if t := token.LookupIdent(lower); t != token.IDENT {
		return t
	}
	if t, ok := token.LookupDynamicKeyword(lower); ok {
		return t
	}
	return token.IDENT
}

// skipWhitespace skips whitespace and reports whether any was found.
func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
		skipped = true
	}
	return skipped
}

// scan consumes one token starting at pos and returns its type.
//
//nolint:gocyclo // a flat switch over the first byte reads best
func (l *Lexer) scan(pos token.Position) (token.TokenType, error) {
	switch l.ch {
	case '-':
		switch {
		case l.peekChar(1) == '-':
			l.readLineComment()
			return token.LINE_COMMENT, nil
		case l.hasPrefix("->>"):
			l.readN(3)
			return token.OPERATOR, nil
		case l.peekChar(1) == '>':
			l.readN(2)
			return token.OPERATOR, nil
		}
		l.readChar()
		return token.MINUS, nil
	case '/':
		if l.peekChar(1) == '*' {
			return token.BLOCK_COMMENT, l.readBlockComment(pos)
		}
		l.readChar()
		return token.SLASH, nil
	case '#':
		// MySQL line comment unless it starts a Postgres JSON path operator.
		switch l.peekChar(1) {
		case '-':
			l.readN(2)
			return token.OPERATOR, nil
		case '>':
			l.readChar()
			l.readOperatorTail()
			return token.OPERATOR, nil
		}
		l.readLineComment()
		return token.LINE_COMMENT, nil
	case '+':
		return l.single(token.PLUS)
	case '*':
		return l.single(token.STAR)
	case '%':
		return l.single(token.PERCENT)
	case '=':
		if l.peekChar(1) == '>' {
			l.readN(2)
			return token.OPERATOR, nil
		}
		return l.single(token.EQ)
	case '<':
		switch {
		case l.hasPrefix("<=>"):
			l.readN(3)
			return token.OPERATOR, nil
		case l.peekChar(1) == '=':
			l.readN(2)
			return token.LE, nil
		case l.peekChar(1) == '>':
			l.readN(2)
			return token.NE, nil
		case l.peekChar(1) == '<' || l.peekChar(1) == '@':
			l.readN(2)
			return token.OPERATOR, nil
		}
		return l.single(token.LT)
	case '>':
		switch l.peekChar(1) {
		case '=':
			l.readN(2)
			return token.GE, nil
		case '>':
			l.readN(2)
			return token.OPERATOR, nil
		}
		return l.single(token.GT)
	case '!':
		if l.peekChar(1) == '=' {
			l.readN(2)
			return token.NE, nil
		}
		l.readChar()
		l.readOperatorTail()
		return token.OPERATOR, nil
	case '|':
		if l.peekChar(1) == '|' {
			l.readN(2)
			return token.DPIPE, nil
		}
		return l.single(token.OPERATOR)
	case '&', '~', '^':
		l.readChar()
		l.readOperatorTail()
		return token.OPERATOR, nil
	case '@':
		if l.peekChar(1) == '@' || isIdentStart(l.peekChar(1)) {
			l.readChar()
			for l.ch == '@' {
				l.readChar()
			}
			l.readIdentifier()
			return token.PARAM, nil
		}
		l.readChar()
		l.readOperatorTail()
		return token.OPERATOR, nil
	case '?':
		return l.single(token.PARAM)
	case ':':
		switch {
		case l.peekChar(1) == ':':
			l.readN(2)
			return token.CAST, nil
		case l.peekChar(1) == '=':
			l.readN(2)
			return token.OPERATOR, nil
		case isIdentStart(l.peekChar(1)):
			l.readChar()
			l.readIdentifier()
			return token.PARAM, nil
		}
		return l.single(token.OPERATOR)
	case '$':
		if isDigit(l.peekChar(1)) {
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
			return token.PARAM, nil
		}
		if tag, ok := l.dollarTag(); ok {
			return token.STRING, l.readDollarString(pos, tag)
		}
		return l.single(token.ILLEGAL)
	case '.':
		if isDigit(l.peekChar(1)) {
			l.readNumber()
			return token.NUMBER, nil
		}
		return l.single(token.DOT)
	case ',':
		return l.single(token.COMMA)
	case ';':
		return l.single(token.SEMICOLON)
	case '(':
		return l.single(token.LPAREN)
	case ')':
		return l.single(token.RPAREN)
	case '[':
		return l.single(token.LBRACKET)
	case ']':
		return l.single(token.RBRACKET)
	case '{':
		if l.peekChar(1) == '{' {
			return token.MACRO, l.readMacro(pos)
		}
		return l.single(token.ILLEGAL)
	case '\'':
		return token.STRING, l.readQuoted(pos, '\'', true, ErrUnterminatedString)
	case '"':
		return token.QUOTED_IDENT, l.readQuoted(pos, '"', false, ErrUnterminatedIdent)
	case '`':
		return token.QUOTED_IDENT, l.readQuoted(pos, '`', false, ErrUnterminatedIdent)
	}

	switch {
	case isIdentStart(l.ch):
		word := l.readIdentifier()
		// Prefixed string literals: N'..', E'..', X'..', B'..'
		if l.ch == '\'' && len(word) == 1 && strings.ContainsAny(word, "nNeExXbB") {
			return token.STRING, l.readQuoted(pos, '\'', true, ErrUnterminatedString)
		}
		return token.IDENT, nil
	case isDigit(l.ch):
		l.readNumber()
		return token.NUMBER, nil
	}
	return l.single(token.ILLEGAL)
}

func (l *Lexer) single(t token.TokenType) (token.TokenType, error) {
	l.readChar()
	return t, nil
}

// readOperatorTail extends an operator over following operator characters
// (e.g. "~*", "!~*", "#>>", "&&", "@>").
func (l *Lexer) readOperatorTail() {
	for !l.atEOF() && strings.IndexByte("~*&|^#@!<>=", l.ch) >= 0 {
		l.readChar()
	}
}

// readLineComment consumes until end of line, excluding the newline.
func (l *Lexer) readLineComment() {
	for !l.atEOF() && l.ch != '\n' {
		if l.ch == '\r' && l.peekChar(1) == '\n' {
			return
		}
		l.readChar()
	}
}

// readBlockComment consumes a /* ... */ comment.
func (l *Lexer) readBlockComment(start token.Position) error {
	l.readN(2)
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar(1) == '/' {
			l.readN(2)
			return nil
		}
		l.readChar()
	}
	return &LexError{Pos: start, Message: ErrUnterminatedComment}
}

// readQuoted consumes a quoted literal starting at the current quote
// character. Doubled quotes are always an escape; backslash escapes are
// honored for string literals.
func (l *Lexer) readQuoted(start token.Position, quote byte, backslash bool, msg string) error {
	l.readChar() // opening quote
	for !l.atEOF() {
		switch {
		case backslash && l.ch == '\\':
			l.readN(2)
		case l.ch == quote && l.peekChar(1) == quote:
			l.readN(2)
		case l.ch == quote:
			l.readChar()
			return nil
		default:
			l.readChar()
		}
	}
	return &LexError{Pos: start, Message: msg}
}

// dollarTag returns the $tag$ delimiter at the current position, if any.
func (l *Lexer) dollarTag() (string, bool) {
	i := 1
	for l.pos+i < len(l.input) {
		c := l.input[l.pos+i]
		if c == '$' {
			return l.input[l.pos : l.pos+i+1], true
		}
		if !(isLetter(c) || c == '_' || (i > 1 && isDigit(c))) {
			return "", false
		}
		i++
	}
	return "", false
}

// readDollarString consumes $tag$ ... $tag$.
func (l *Lexer) readDollarString(start token.Position, tag string) error {
	l.readN(len(tag))
	for !l.atEOF() {
		if l.ch == '$' && l.hasPrefix(tag) {
			l.readN(len(tag))
			return nil
		}
		l.readChar()
	}
	return &LexError{Pos: start, Message: ErrUnterminatedDollar}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() && isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, scientific or hex).
func (l *Lexer) readNumber() {
	if l.ch == '0' && (l.peekChar(1) == 'x' || l.peekChar(1) == 'X') && isHexDigit(l.peekChar(2)) {
		l.readN(2)
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar(1)) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent only when digits follow, so "1end" stays NUMBER IDENT.
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar(2))) {
			l.readN(2)
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
}

// readMacro scans a {{ ... }} template expression.
// Handles nested braces and skips over quoted strings to avoid
// miscounting braces inside string literals.
func (l *Lexer) readMacro(start token.Position) error {
	l.readN(2)

	depth := 1
	for !l.atEOF() {
		switch {
		case l.ch == '\'' || l.ch == '"':
			l.skipQuotedInMacro(l.ch)
		case l.ch == '{' && l.peekChar(1) == '{':
			depth++
			l.readN(2)
		case l.ch == '}' && l.peekChar(1) == '}':
			depth--
			l.readN(2)
			if depth == 0 {
				return nil
			}
		default:
			l.readChar()
		}
	}
	return &LexError{Pos: start, Message: ErrUnterminatedMacro}
}

// skipQuotedInMacro skips over a quoted string inside a macro.
func (l *Lexer) skipQuotedInMacro(quote byte) {
	l.readChar()
	for !l.atEOF() {
		if l.ch == quote {
			l.readChar()
			return
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
}

// Tokenize returns all tokens from the input, ending with EOF.
// It stops at the first lexical error.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isLetter(ch byte) bool {
	return ch < utf8RuneSelf && unicode.IsLetter(rune(ch))
}

// utf8RuneSelf is the first byte value of multi-byte UTF-8 sequences.
const utf8RuneSelf = 0x80

// isIdentStart accepts ASCII letters, underscore and any byte of a
// multi-byte UTF-8 sequence, so non-ASCII identifiers stay whole.
func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch >= utf8RuneSelf
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
