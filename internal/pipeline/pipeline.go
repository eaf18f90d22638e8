// Package pipeline runs the stdin-to-stdout flow: collect the input,
// format it, highlight it and emit it.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/leapstack-labs/sqlpretty/pkg/format"
)

// Formatter lays out raw SQL text.
type Formatter interface {
	Format(raw string) (string, error)
}

// Highlighter decorates formatted SQL for display.
type Highlighter interface {
	Highlight(sql string) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(raw string) (string, error)

// Format calls f(raw).
func (f FormatterFunc) Format(raw string) (string, error) { return f(raw) }

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc func(sql string) (string, error)

// Highlight calls f(sql).
func (f HighlighterFunc) Highlight(sql string) (string, error) { return f(sql) }

// Plain is a Highlighter that returns its input unchanged.
var Plain = HighlighterFunc(func(sql string) (string, error) { return sql, nil })

// Config holds pipeline collaborators.
type Config struct {
	// Formatter defaults to format.Format.
	Formatter Formatter
	// Highlighter defaults to Plain.
	Highlighter Highlighter
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Pipeline is a single run of the formatter. It is not reusable.
type Pipeline struct {
	formatter   Formatter
	highlighter Highlighter
	logger      *slog.Logger
	state       State
}

// New creates a pipeline in the start state.
func New(cfg Config) *Pipeline {
	p := &Pipeline{
		formatter:   cfg.Formatter,
		highlighter: cfg.Highlighter,
		logger:      cfg.Logger,
	}
	if p.formatter == nil {
		p.formatter = FormatterFunc(format.Format)
	}
	if p.highlighter == nil {
		p.highlighter = Plain
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// State returns the stage the pipeline has reached.
func (p *Pipeline) State() State {
	return p.state
}

// Run reads all of r, formats and highlights it, and writes the result
// followed by a newline to w. Nothing is written unless every earlier
// stage succeeded. Failures are returned as *Error.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	if p.state != StateStart {
		return &Error{Kind: UnexpectedFailure, State: p.state, Action: "start pipeline", Err: errors.New("pipeline already ran")}
	}

	p.enter(StateCollecting)
	raw, err := Collect(r)
	if err != nil {
		return p.fail(IOFailure, "read input", err)
	}
	p.logger.Debug("input collected", "bytes", len(raw))

	if err := p.next(ctx, StateFormatting); err != nil {
		return err
	}
	formatted, err := p.formatter.Format(raw)
	if err != nil {
		return p.fail(FormatFailure, "format sql", errors.WithStack(err))
	}

	if err := p.next(ctx, StateHighlighting); err != nil {
		return err
	}
	highlighted, err := p.highlight(formatted)
	if err != nil {
		return p.fail(UnexpectedFailure, "highlight sql", err)
	}

	if err := p.next(ctx, StateEmitting); err != nil {
		return err
	}
	if err := Emit(w, highlighted); err != nil {
		return p.fail(IOFailure, "write output", err)
	}

	p.enter(StateDone)
	return nil
}

func (p *Pipeline) highlight(sql string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("highlighter panic: %v", r)
		}
	}()
	out, err = p.highlighter.Highlight(sql)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return out, nil
}

// next moves to s unless the context is done.
func (p *Pipeline) next(ctx context.Context, s State) error {
	if err := ctx.Err(); err != nil {
		return p.fail(UnexpectedFailure, "enter "+s.String(), errors.WithStack(err))
	}
	p.enter(s)
	return nil
}

func (p *Pipeline) enter(s State) {
	p.logger.Debug("pipeline state", "from", p.state, "to", s)
	p.state = s
	if s.Terminal() {
		p.logger.Debug("pipeline finished", "state", s)
	}
}

func (p *Pipeline) fail(kind Kind, action string, err error) error {
	failed := p.state
	p.enter(StateFailed)
	p.logger.Debug("pipeline failed", "state", failed, "kind", kind, "error", err)
	return &Error{Kind: kind, State: failed, Action: action, Err: err}
}
