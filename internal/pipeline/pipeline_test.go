package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpretty/internal/testutil"
	"github.com/leapstack-labs/sqlpretty/pkg/format"
)

func newTestPipeline(t *testing.T, h Highlighter) *Pipeline {
	t.Helper()
	return New(Config{
		Highlighter: h,
		Logger:      testutil.NewTestLogger(t),
	})
}

func requirePipelineError(t *testing.T, err error, kind Kind, state State) *Error {
	t.Helper()
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, kind, perr.Kind)
	assert.Equal(t, state, perr.State)
	return perr
}

func TestRun_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "select",
			input:    "select * from foo where id=1",
			expected: "SELECT\n  *\nFROM\n  foo\nWHERE\n  id = 1\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "\n",
		},
		{
			name:     "whitespace input",
			input:    "\n\n  \n",
			expected: "\n",
		},
		{
			name:     "unclosed paren is tolerated",
			input:    "select * from (foo",
			expected: "SELECT\n  *\nFROM\n  (\n    foo\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, nil)
			var out bytes.Buffer

			err := p.Run(context.Background(), strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
			assert.Equal(t, StateDone, p.State())
		})
	}
}

func TestRun_HighlighterSeesFormattedText(t *testing.T) {
	var seen string
	h := HighlighterFunc(func(sql string) (string, error) {
		seen = sql
		return "<" + sql + ">", nil
	})
	p := newTestPipeline(t, h)
	var out bytes.Buffer

	require.NoError(t, p.Run(context.Background(), strings.NewReader("select 1"), &out))
	assert.Equal(t, "SELECT\n  1", seen)
	assert.Equal(t, "<SELECT\n  1>\n", out.String())
}

func TestRun_Idempotent(t *testing.T) {
	input := "select a, b from t where a in (select a from u) and b between 1 and 2 order by a"

	var first bytes.Buffer
	require.NoError(t, newTestPipeline(t, nil).Run(context.Background(), strings.NewReader(input), &first))

	var second bytes.Buffer
	require.NoError(t, newTestPipeline(t, nil).Run(context.Background(), strings.NewReader(first.String()), &second))

	assert.Equal(t, first.String(), second.String())
}

func TestRun_ReadFailure(t *testing.T) {
	boom := errors.New("boom")
	p := newTestPipeline(t, nil)
	var out bytes.Buffer

	err := p.Run(context.Background(), iotest.ErrReader(boom), &out)
	perr := requirePipelineError(t, err, IOFailure, StateCollecting)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "io_failure: read input: boom", perr.Error())
	assert.Equal(t, StateFailed, p.State())
	assert.Empty(t, out.String())
}

func TestRun_FormatFailure(t *testing.T) {
	p := newTestPipeline(t, nil)
	var out bytes.Buffer

	err := p.Run(context.Background(), strings.NewReader("select * from foo)"), &out)
	perr := requirePipelineError(t, err, FormatFailure, StateFormatting)
	assert.Equal(t, "format_failure: format sql: syntax error at line 1, column 18: unexpected ')' without matching '('", perr.Error())

	var syntaxErr *format.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.Empty(t, out.String())
}

func TestRun_HighlightFailure(t *testing.T) {
	tests := []struct {
		name string
		h    Highlighter
		want string
	}{
		{
			name: "error",
			h: HighlighterFunc(func(string) (string, error) {
				return "", errors.New("out of colors")
			}),
			want: "unexpected_failure: highlight sql: out of colors",
		},
		{
			name: "panic",
			h: HighlighterFunc(func(string) (string, error) {
				panic("lexer exploded")
			}),
			want: "unexpected_failure: highlight sql: highlighter panic: lexer exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, tt.h)
			var out bytes.Buffer

			err := p.Run(context.Background(), strings.NewReader("select 1"), &out)
			perr := requirePipelineError(t, err, UnexpectedFailure, StateHighlighting)
			assert.Equal(t, tt.want, perr.Error())
			assert.Empty(t, out.String())
		})
	}
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestRun_WriteFailure(t *testing.T) {
	disk := errors.New("disk full")
	p := newTestPipeline(t, nil)

	err := p.Run(context.Background(), strings.NewReader("select 1"), errWriter{err: disk})
	requirePipelineError(t, err, IOFailure, StateEmitting)
	assert.ErrorIs(t, err, disk)
}

func TestRun_BrokenPipe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("EPIPE semantics differ on windows")
	}

	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	defer func() { _ = w.Close() }()

	p := newTestPipeline(t, nil)
	err = p.Run(context.Background(), strings.NewReader("select 1"), w)
	requirePipelineError(t, err, IOFailure, StateEmitting)
	assert.ErrorIs(t, err, syscall.EPIPE)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, nil)
	var out bytes.Buffer

	err := p.Run(ctx, strings.NewReader("select 1"), &out)
	requirePipelineError(t, err, UnexpectedFailure, StateCollecting)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRun_NotReusable(t *testing.T) {
	p := newTestPipeline(t, nil)
	var out bytes.Buffer
	require.NoError(t, p.Run(context.Background(), strings.NewReader("select 1"), &out))

	err := p.Run(context.Background(), strings.NewReader("select 2"), &out)
	requirePipelineError(t, err, UnexpectedFailure, StateDone)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
		terminal bool
	}{
		{StateStart, "start", false},
		{StateCollecting, "collecting", false},
		{StateFormatting, "formatting", false},
		{StateHighlighting, "highlighting", false},
		{StateEmitting, "emitting", false},
		{StateDone, "done", true},
		{StateFailed, "failed", true},
		{State(42), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}
}

func TestRun_LogsTransitions(t *testing.T) {
	logger, rec := testutil.NewLogRecorder()
	p := New(Config{Logger: logger})

	var out bytes.Buffer
	require.NoError(t, p.Run(context.Background(), strings.NewReader("select 1"), &out))

	logged := rec.String()
	for _, s := range []string{"collecting", "formatting", "highlighting", "emitting", "done"} {
		assert.Contains(t, logged, "to="+s)
	}
	assert.NotContains(t, logged, "pipeline failed")
	assert.Contains(t, logged, `msg="pipeline finished" state=done`)
}

func TestRun_LogsFailure(t *testing.T) {
	logger, rec := testutil.NewLogRecorder()
	p := New(Config{Logger: logger})

	var out bytes.Buffer
	err := p.Run(context.Background(), strings.NewReader("select 1)"), &out)
	requirePipelineError(t, err, FormatFailure, StateFormatting)

	assert.Contains(t, rec.String(), "pipeline failed")
	assert.Contains(t, rec.String(), "kind=format_failure")
	assert.Contains(t, rec.String(), `msg="pipeline finished" state=failed`)
	assert.Empty(t, out.String())
}
