// Package highlight colors SQL text for the terminal using chroma.
package highlight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
)

// Defaults used when no option overrides them.
const (
	DefaultLanguage  = "sql"
	DefaultStyle     = "monokai"
	DefaultFormatter = "terminal256"
)

// IllegalTokenError is returned in strict mode when the lexer meets text
// it cannot classify.
type IllegalTokenError struct {
	Offset int
	Value  string
}

func (e *IllegalTokenError) Error() string {
	return fmt.Sprintf("illegal token %q at offset %d", e.Value, e.Offset)
}

// Chroma highlights SQL with a chroma lexer, style and formatter.
//
// By default tokens the lexer cannot classify are emitted as plain text.
type Chroma struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
	strict    bool
}

// Option configures a Chroma highlighter.
type Option func(*Chroma) error

// WithStyle selects a registered chroma style.
func WithStyle(name string) Option {
	return func(c *Chroma) error {
		style, ok := styles.Registry[name]
		if !ok {
			style, ok = styles.Registry[strings.ToLower(name)]
		}
		if !ok {
			return fmt.Errorf("unknown style %q", name)
		}
		c.style = style
		return nil
	}
}

// WithFormatter selects a registered chroma formatter.
func WithFormatter(name string) Option {
	return func(c *Chroma) error {
		f, ok := formatters.Registry[name]
		if !ok {
			return fmt.Errorf("unknown formatter %q", name)
		}
		c.formatter = f
		return nil
	}
}

// WithLexer replaces the SQL lexer.
func WithLexer(l chroma.Lexer) Option {
	return func(c *Chroma) error {
		if l == nil {
			return errors.New("nil lexer")
		}
		c.lexer = l
		return nil
	}
}

// Strict makes unclassifiable tokens an error instead of plain text.
func Strict() Option {
	return func(c *Chroma) error {
		c.strict = true
		return nil
	}
}

// New creates a highlighter for SQL.
func New(opts ...Option) (*Chroma, error) {
	l := lexers.Get(DefaultLanguage)
	if l == nil {
		return nil, errors.Errorf("no chroma lexer for %q", DefaultLanguage)
	}
	c := &Chroma{
		lexer:     chroma.Coalesce(l),
		style:     styles.Get(DefaultStyle),
		formatter: formatters.Get(DefaultFormatter),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Highlight returns sql wrapped in the formatter's escape sequences.
// Stripping the escapes yields sql unchanged.
func (c *Chroma) Highlight(sql string) (string, error) {
	if sql == "" {
		return "", nil
	}

	// Line endings are left alone; strings and comments keep their \r\n.
	it, err := c.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, sql)
	if err != nil {
		return "", errors.Wrap(err, "tokenise")
	}

	tokens, err := c.classify(it.Tokens())
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := c.formatter.Format(&sb, c.style, chroma.Literator(tokens...)); err != nil {
		return "", errors.Wrap(err, "format tokens")
	}

	out := sb.String()
	// Lexers may append a newline the input did not have.
	if !strings.HasSuffix(sql, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, nil
}

func (c *Chroma) classify(tokens []chroma.Token) ([]chroma.Token, error) {
	offset := 0
	for i, tok := range tokens {
		if tok.Type == chroma.Error {
			if c.strict {
				return nil, &IllegalTokenError{Offset: offset, Value: tok.Value}
			}
			tokens[i].Type = chroma.Text
		}
		offset += len(tok.Value)
	}
	return tokens, nil
}

// FormatterFor picks the chroma formatter matching a terminal color profile.
func FormatterFor(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return "noop"
	}
}

// Styles returns the names of all registered styles, sorted.
func Styles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

// Formatters returns the names of all registered formatters, sorted.
func Formatters() []string {
	names := formatters.Names()
	sort.Strings(names)
	return names
}

// StyleColors describes a style by the colors it gives common SQL tokens,
// for listings.
func StyleColors(name string) (keyword, str, number, comment string) {
	style := styles.Get(name)
	colour := func(t chroma.TokenType) string {
		e := style.Get(t)
		if !e.Colour.IsSet() {
			return ""
		}
		return e.Colour.String()
	}
	return colour(chroma.Keyword), colour(chroma.LiteralString), colour(chroma.LiteralNumber), colour(chroma.Comment)
}
