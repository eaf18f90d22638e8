package format

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlpretty/pkg/token"
)

// Vendor clause keywords outside the builtin token set.
var (
	tokenQualify   = token.Register("QUALIFY")
	tokenReturning = token.Register("RETURNING")
)

// layoutKind is what a word (or phrase) does to the layout.
type layoutKind int

const (
	kindWord     layoutKind = iota // written verbatim
	kindKeyword                    // upper-cased, no line break
	kindTopLevel                   // clause: own line, indented body
	kindSetOp                      // set operator: own line, no indent
	kindNewline                    // AND, OR, WHEN, ...: starts a body line
	kindJoin                       // join forms: starts a body line
)

// phrase is a keyword sequence with a layout role.
type phrase struct {
	words []token.TokenType
	kind  layoutKind
}

func (ph phrase) matches(tokens []token.Token, i int) bool {
	if i+len(ph.words) > len(tokens) {
		return false
	}
	for k, w := range ph.words {
		if tokens[i+k].Type != w {
			return false
		}
	}
	return true
}

func seq(words ...token.TokenType) []token.TokenType { return words }

// phrases is ordered longest first so "LEFT OUTER JOIN" wins over "LEFT".
var phrases = []phrase{
	{seq(token.SELECT), kindTopLevel},
	{seq(token.FROM), kindTopLevel},
	{seq(token.WHERE), kindTopLevel},
	{seq(token.GROUP, token.BY), kindTopLevel},
	{seq(token.ORDER, token.BY), kindTopLevel},
	{seq(token.HAVING), kindTopLevel},
	{seq(token.LIMIT), kindTopLevel},
	{seq(token.OFFSET), kindTopLevel},
	{seq(token.FETCH), kindTopLevel},
	{seq(tokenQualify), kindTopLevel},
	{seq(token.WINDOW), kindTopLevel},
	{seq(token.INSERT, token.INTO), kindTopLevel},
	{seq(token.INSERT), kindTopLevel},
	{seq(token.UPDATE), kindTopLevel},
	{seq(token.DELETE, token.FROM), kindTopLevel},
	{seq(token.DELETE), kindTopLevel},
	{seq(token.SET), kindTopLevel},
	{seq(token.VALUES), kindTopLevel},
	{seq(tokenReturning), kindTopLevel},
	{seq(token.ALTER, token.TABLE), kindTopLevel},
	{seq(token.ALTER, token.COLUMN), kindTopLevel},
	{seq(token.ADD), kindTopLevel},

	{seq(token.UNION, token.ALL), kindSetOp},
	{seq(token.UNION, token.DISTINCT), kindSetOp},
	{seq(token.UNION), kindSetOp},
	{seq(token.INTERSECT, token.ALL), kindSetOp},
	{seq(token.INTERSECT), kindSetOp},
	{seq(token.EXCEPT, token.ALL), kindSetOp},
	{seq(token.EXCEPT), kindSetOp},

	{seq(token.AND), kindNewline},
	{seq(token.OR), kindNewline},
	{seq(token.XOR), kindNewline},
	{seq(token.WHEN), kindNewline},
	{seq(token.ELSE), kindNewline},

	{seq(token.JOIN), kindJoin},
	{seq(token.INNER, token.JOIN), kindJoin},
	{seq(token.CROSS, token.JOIN), kindJoin},
	{seq(token.LEFT, token.JOIN), kindJoin},
	{seq(token.LEFT, token.OUTER, token.JOIN), kindJoin},
	{seq(token.RIGHT, token.JOIN), kindJoin},
	{seq(token.RIGHT, token.OUTER, token.JOIN), kindJoin},
	{seq(token.FULL, token.JOIN), kindJoin},
	{seq(token.FULL, token.OUTER, token.JOIN), kindJoin},
	{seq(token.NATURAL, token.JOIN), kindJoin},
	{seq(token.NATURAL, token.LEFT, token.JOIN), kindJoin},
	{seq(token.NATURAL, token.RIGHT, token.JOIN), kindJoin},
}

func init() {
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i].words) > len(phrases[j].words)
	})
}

// maxInlineLength is the longest block content kept on one line.
const maxInlineLength = 50

// classify returns the layout role of the token at i and how many tokens
// the matched phrase spans. It looks only at the token stream, never at
// printer state, so the same input always yields the same decisions.
func (f *formatter) classify(i int) (layoutKind, int) {
	tok := f.tokens[i]

	// t.order, s.select: a qualified name, whatever it spells.
	if j := f.prevIndex(i); j >= 0 && f.tokens[j].Type == token.DOT {
		return kindWord, 1
	}

	for _, ph := range phrases {
		if !ph.matches(f.tokens, i) {
			continue
		}
		switch {
		case ph.kind == kindTopLevel && f.demoted(i):
			return kindKeyword, 1
		case ph.kind == kindSetOp && f.afterStar(i):
			return kindKeyword, 1 // SELECT * EXCEPT (col)
		}
		return ph.kind, len(ph.words)
	}

	if token.IsKeyword(tok.Type) {
		return kindKeyword, 1
	}
	return kindWord, 1
}

// demoted reports whether a clause keyword is really part of another
// construct: ON DELETE CASCADE, FOR UPDATE, DO UPDATE SET, ON UPDATE SET NULL.
func (f *formatter) demoted(i int) bool {
	j := f.prevIndex(i)
	if j < 0 {
		return false
	}
	prev := f.tokens[j]
	if prev.Type == token.KEYWORD {
		switch strings.ToUpper(prev.Literal) {
		case "ON", "FOR", "DO":
			return true
		}
	}
	if f.tokens[i].Type == token.SET && (prev.Type == token.UPDATE || prev.Type == token.DELETE) {
		return f.demoted(j)
	}
	return false
}

func (f *formatter) afterStar(i int) bool {
	j := f.prevIndex(i)
	return j >= 0 && f.tokens[j].Type == token.STAR
}

// prevIndex returns the index of the closest non-comment token before i,
// or -1.
func (f *formatter) prevIndex(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !token.IsComment(f.tokens[j].Type) {
			return j
		}
	}
	return -1
}

// opensBlock reports whether the token at i starts a ( or CASE block.
func (f *formatter) opensBlock(i int) bool {
	switch f.tokens[i].Type {
	case token.LPAREN:
		return true
	case token.CASE:
		kind, _ := f.classify(i)
		return kind != kindWord
	}
	return false
}

// isInlineBlock reports whether the block opened at i is short enough,
// and simple enough, to stay on one line.
func (f *formatter) isInlineBlock(i int) bool {
	length, level := 0, 0
	for j := i; j < len(f.tokens); j++ {
		tok := f.tokens[j]
		length += len([]rune(tok.Literal))
		if length > maxInlineLength {
			return false
		}

		switch tok.Type {
		case token.SEMICOLON, token.LINE_COMMENT, token.BLOCK_COMMENT:
			return false
		case token.RPAREN:
			if level--; level == 0 {
				return true
			}
			continue
		case token.END:
			if kind, _ := f.classify(j); kind != kindWord {
				if level--; level == 0 {
					return true
				}
			}
			continue
		}

		if f.opensBlock(j) {
			level++
			continue
		}
		switch kind, _ := f.classify(j); kind {
		case kindTopLevel, kindSetOp, kindJoin:
			return false
		}
	}
	return false
}
