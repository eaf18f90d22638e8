// Package format lays out SQL text in a canonical, indented form.
package format

import (
	"bytes"
	"strings"
)

const indentSize = 2

// indentKind distinguishes clause-body indentation from block indentation
// so that a closing paren can unwind every clause opened inside it.
type indentKind int

const (
	indentTopLevel indentKind = iota
	indentBlock
)

// Printer handles SQL output with indentation and spacing.
//
// Spaces are never written eagerly: space() only requests one before the
// next write on the same line, so lines never carry trailing blanks.
type Printer struct {
	output       *bytes.Buffer
	indents      []indentKind
	atLineStart  bool
	pendingSpace bool
}

func newPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output without trailing whitespace.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), " \t\r\n")
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	switch {
	case p.atLineStart:
		p.writeIndent()
	case p.pendingSpace:
		p.output.WriteByte(' ')
	}
	p.output.WriteString(s)
	p.atLineStart = false
	p.pendingSpace = false
}

// writeln ends the current line. It is a no-op at the start of a line,
// so consecutive layout breaks never produce empty lines.
func (p *Printer) writeln() {
	if !p.atLineStart {
		p.output.WriteByte('\n')
		p.atLineStart = true
	}
	p.pendingSpace = false
}

// blankLine ends the current line and leaves one empty line after it.
func (p *Printer) blankLine() {
	p.writeln()
	if p.output.Len() > 0 && !bytes.HasSuffix(p.output.Bytes(), []byte("\n\n")) {
		p.output.WriteByte('\n')
	}
}

func (p *Printer) writeIndent() {
	for i := 0; i < len(p.indents)*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

// space requests a separating space before the next write.
func (p *Printer) space() {
	p.pendingSpace = true
}

// glue cancels a requested space so the next write attaches directly.
func (p *Printer) glue() {
	p.pendingSpace = false
}

func (p *Printer) indentTopLevel() {
	p.indents = append(p.indents, indentTopLevel)
}

func (p *Printer) indentBlock() {
	p.indents = append(p.indents, indentBlock)
}

// dedentTopLevel drops one clause-body level if that is the innermost one.
func (p *Printer) dedentTopLevel() {
	if n := len(p.indents); n > 0 && p.indents[n-1] == indentTopLevel {
		p.indents = p.indents[:n-1]
	}
}

// dedentBlock drops every clause-body level opened inside the innermost
// block, then the block level itself.
func (p *Printer) dedentBlock() {
	for len(p.indents) > 0 {
		last := p.indents[len(p.indents)-1]
		p.indents = p.indents[:len(p.indents)-1]
		if last == indentBlock {
			return
		}
	}
}

func (p *Printer) resetIndent() {
	p.indents = p.indents[:0]
}
