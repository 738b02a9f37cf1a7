// Package printer accumulates generated source text and keeps track of the
// current nesting depth, so callers never deal with indentation themselves.
package printer

import (
	"strings"
)

// DefaultIndent is the indentation unit used by New.
const DefaultIndent = "    "

// Printer is a line-oriented text sink with automatic indentation.
//
// A line is started with Print or Println; the indentation for the current
// depth is written once at the start of the line. PrintNoIndent continues
// the current line as is.
type Printer struct {
	sb          strings.Builder
	unit        string
	depth       int
	atLineStart bool
}

func New() *Printer {
	return NewWithIndent(DefaultIndent)
}

func NewWithIndent(unit string) *Printer {
	return &Printer{unit: unit, atLineStart: true}
}

// PushIndent increases the nesting depth by one level.
func (p *Printer) PushIndent() {
	p.depth++
}

// PopIndent decreases the nesting depth by one level. Popping at depth zero
// is a programming error and panics.
func (p *Printer) PopIndent() {
	if p.depth == 0 {
		panic("printer: PopIndent called without matching PushIndent")
	}
	p.depth--
}

func (p *Printer) Depth() int {
	return p.depth
}

// Println writes parts followed by a newline. Called with no parts at the
// start of a line it produces an empty line without trailing whitespace.
func (p *Printer) Println(parts ...string) {
	p.Print(parts...)
	p.sb.WriteByte('\n')
	p.atLineStart = true
}

// Print writes parts on the current line, indenting first if the line has
// not been started yet.
func (p *Printer) Print(parts ...string) {
	if p.atLineStart && !allEmpty(parts) {
		p.writeIndent()
	}
	p.PrintNoIndent(parts...)
}

// PrintNoIndent writes parts without any indentation and without a newline.
func (p *Printer) PrintNoIndent(parts ...string) {
	for _, part := range parts {
		if part == "" {
			continue
		}
		p.sb.WriteString(part)
		p.atLineStart = false
	}
}

func (p *Printer) String() string {
	return p.sb.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.sb.WriteString(p.unit)
	}
	p.atLineStart = false
}

func allEmpty(parts []string) bool {
	for _, part := range parts {
		if part != "" {
			return false
		}
	}
	return true
}
