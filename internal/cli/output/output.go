// Package output provides terminal-aware rendering for the CLI.
//
// The Renderer decides whether stdout gets color (and how much) and
// renders diagnostics and tables for humans.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode selects when output is colored.
type ColorMode string

// Color modes.
const (
	ModeAuto   ColorMode = "auto"   // color when the stream is a terminal
	ModeAlways ColorMode = "always" // color even when piped
	ModeNever  ColorMode = "never"
)

// Renderer handles output for one command invocation.
type Renderer struct {
	out      io.Writer
	errOut   io.Writer
	isTTY    bool
	errIsTTY bool
	mode     ColorMode
	errStyle lipgloss.Style
}

// NewRenderer creates a renderer, detecting terminals from the writers.
func NewRenderer(out, errOut io.Writer, mode ColorMode) *Renderer {
	return newRenderer(out, errOut, isTerminal(out), isTerminal(errOut), mode)
}

// NewRendererWithTTY creates a renderer with explicit terminal state for
// both streams.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode ColorMode) *Renderer {
	return newRenderer(out, errOut, isTTY, isTTY, mode)
}

func newRenderer(out, errOut io.Writer, isTTY, errIsTTY bool, mode ColorMode) *Renderer {
	r := &Renderer{
		out:      out,
		errOut:   errOut,
		isTTY:    isTTY,
		errIsTTY: errIsTTY,
		mode:     mode,
	}

	lr := lipgloss.NewRenderer(errOut)
	lr.SetColorProfile(r.profile(errOut, errIsTTY))
	r.errStyle = lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Mode returns the color mode.
func (r *Renderer) Mode() ColorMode { return r.mode }

// Profile returns the color profile for stdout.
func (r *Renderer) Profile() termenv.Profile {
	return r.profile(r.out, r.isTTY)
}

// profile resolves the color mode against a stream. In auto mode the
// environment decides, so NO_COLOR and CLICOLOR_FORCE are honored.
func (r *Renderer) profile(w io.Writer, isTTY bool) termenv.Profile {
	switch r.mode {
	case ModeNever:
		return termenv.Ascii
	case ModeAlways:
		p := termenv.NewOutput(w, termenv.WithTTY(true)).ColorProfile()
		if p == termenv.Ascii {
			p = termenv.ANSI256
		}
		return p
	default:
		return termenv.NewOutput(w, termenv.WithTTY(isTTY)).EnvColorProfile()
	}
}

// Error writes a one-line diagnostic to stderr: "Error: <err>".
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintf(r.errOut, "%s %v\n", r.errStyle.Render("Error:"), err)
}

// Table renders rows under header to stdout.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	if r.Profile() == termenv.Ascii {
		t.SetStyle(table.StyleDefault)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}
