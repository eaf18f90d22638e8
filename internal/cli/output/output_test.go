package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_Profile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("COLORTERM", "")

	tests := []struct {
		name  string
		mode  ColorMode
		isTTY bool
		want  termenv.Profile
	}{
		{"never on terminal", ModeNever, true, termenv.Ascii},
		{"auto on terminal", ModeAuto, true, termenv.ANSI256},
		{"auto piped", ModeAuto, false, termenv.Ascii},
		{"always piped", ModeAlways, false, termenv.ANSI256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.Profile())
		})
	}
}

func TestRenderer_ProfileEnv(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")

	t.Run("NO_COLOR disables auto", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeAuto)
		assert.Equal(t, termenv.Ascii, r.Profile())
	})

	t.Run("CLICOLOR_FORCE enables auto when piped", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CLICOLOR_FORCE", "1")
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeAuto)
		assert.NotEqual(t, termenv.Ascii, r.Profile())
	})
}

func TestRenderer_Error(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeNever)

	r.Error(errors.New("io_failure: read input: boom"))
	assert.Equal(t, "Error: io_failure: read input: boom\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestRenderer_Table(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeNever)

	r.Table(table.Row{"Name", "Keyword"}, []table.Row{{"monokai", "#66d9ef"}})
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "monokai")
	assert.Contains(t, out.String(), "#66d9ef")
}

func TestRenderer_Accessors(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeAuto)

	r.Error(errors.New("boom"))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error: boom\n", errOut.String())
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeAuto, r.Mode())
}
