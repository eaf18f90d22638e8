package highlight

import (
	"regexp"
	"testing"

	"github.com/alecthomas/chroma"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formatted = "SELECT\n  *\nFROM\n  foo\nWHERE\n  id = 1"

type fakeLexer struct {
	tokens []chroma.Token
}

func (f fakeLexer) Config() *chroma.Config {
	return &chroma.Config{Name: "fake"}
}

func (f fakeLexer) Tokenise(*chroma.TokeniseOptions, string) (chroma.Iterator, error) {
	return chroma.Literator(f.tokens...), nil
}

var sgrPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// styleBefore returns the last non-reset escape sequence written directly
// before word, or "" when the word is unstyled.
func styleBefore(t *testing.T, out, word string) string {
	t.Helper()
	re := regexp.MustCompile(`((?:\x1b\[[0-9;]*m)*)` + regexp.QuoteMeta(word))
	m := re.FindStringSubmatch(out)
	require.NotNil(t, m, "%q not found in output", word)

	style := ""
	for _, seq := range sgrPattern.FindAllString(m[1], -1) {
		if seq != "\x1b[0m" {
			style = seq
		}
	}
	return style
}

func TestHighlight_Empty(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	got, err := h.Highlight("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestHighlight_Keywords(t *testing.T) {
	h, err := New(WithFormatter("terminal256"))
	require.NoError(t, err)

	got, err := h.Highlight(formatted)
	require.NoError(t, err)

	assert.Equal(t, formatted, ansi.Strip(got))
	assert.Contains(t, got, "\x1b[")

	selectStyle := styleBefore(t, got, "SELECT")
	assert.NotEmpty(t, selectStyle)
	assert.Equal(t, selectStyle, styleBefore(t, got, "FROM"))
	assert.Equal(t, selectStyle, styleBefore(t, got, "WHERE"))
	assert.NotEqual(t, selectStyle, styleBefore(t, got, "foo"))
}

func TestHighlight_NoopFormatter(t *testing.T) {
	h, err := New(WithFormatter("noop"))
	require.NoError(t, err)

	inputs := []string{
		formatted,
		"SELECT\n  a \\ b",
		"SELECT\n  'ünïcödé' -- ☃",
		"SELECT\n  \x00",
		"{{ ref('x') }}\n",
		"SELECT\n  'a\r\nb'",
		"SELECT\r\n  1 /* x\r\n */",
	}
	for _, input := range inputs {
		got, err := h.Highlight(input)
		require.NoError(t, err, input)
		assert.Equal(t, input, got)
	}
}

func TestHighlight_IllegalTokens(t *testing.T) {
	lexer := fakeLexer{tokens: []chroma.Token{
		{Type: chroma.Keyword, Value: "SELECT"},
		{Type: chroma.Text, Value: " "},
		{Type: chroma.Error, Value: "\\"},
	}}

	t.Run("tolerated as text", func(t *testing.T) {
		h, err := New(WithLexer(lexer), WithFormatter("terminal256"))
		require.NoError(t, err)

		got, err := h.Highlight("SELECT \\")
		require.NoError(t, err)
		assert.Equal(t, "SELECT \\", ansi.Strip(got))

		plain, err := New(WithLexer(fakeLexer{tokens: []chroma.Token{
			{Type: chroma.Keyword, Value: "SELECT"},
			{Type: chroma.Text, Value: " "},
			{Type: chroma.Text, Value: "\\"},
		}}), WithFormatter("terminal256"))
		require.NoError(t, err)

		want, err := plain.Highlight("SELECT \\")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("strict", func(t *testing.T) {
		h, err := New(WithLexer(lexer), Strict())
		require.NoError(t, err)

		_, err = h.Highlight("SELECT \\")
		require.Error(t, err)

		var illegal *IllegalTokenError
		require.ErrorAs(t, err, &illegal)
		assert.Equal(t, 7, illegal.Offset)
		assert.Equal(t, "\\", illegal.Value)
	})
}

func TestNew_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "defaults"},
		{name: "known style", opts: []Option{WithStyle("github")}},
		{name: "unknown style", opts: []Option{WithStyle("nope")}, wantErr: `unknown style "nope"`},
		{name: "unknown formatter", opts: []Option{WithFormatter("html5")}, wantErr: `unknown formatter "html5"`},
		{name: "nil lexer", opts: []Option{WithLexer(nil)}, wantErr: "nil lexer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.opts...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestFormatterFor(t *testing.T) {
	tests := []struct {
		profile termenv.Profile
		want    string
	}{
		{termenv.Ascii, "noop"},
		{termenv.ANSI, "terminal"},
		{termenv.ANSI256, "terminal256"},
		{termenv.TrueColor, "terminal16m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			name := FormatterFor(tt.profile)
			assert.Equal(t, tt.want, name)
			assert.Contains(t, Formatters(), name)
		})
	}
}

func TestStyles(t *testing.T) {
	names := Styles()
	assert.Contains(t, names, DefaultStyle)
	assert.IsNonDecreasing(t, names)

	keyword, _, _, _ := StyleColors(DefaultStyle)
	assert.NotEmpty(t, keyword)
}

func TestStyleBefore(t *testing.T) {
	out := "\x1b[38;5;81mSELECT\x1b[0m \x1b[0m\x1b[38;5;81mFROM\x1b[0m foo"

	assert.Equal(t, "\x1b[38;5;81m", styleBefore(t, out, "SELECT"))
	assert.Equal(t, "\x1b[38;5;81m", styleBefore(t, out, "FROM"))
	assert.Equal(t, "", styleBefore(t, out, "foo"))
}
