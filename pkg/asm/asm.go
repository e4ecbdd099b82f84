// Package asm accumulates generated assembly.
//
// A Program is append-only: a data section of constant directives and a
// text section of instructions, labels and directives, serialized in that
// order.
package asm

import (
	"fmt"
	"io"
	"strings"
)

// Program is the output artifact of one compilation run.
type Program struct {
	Data []string
	Text []string

	verbatim []int // Text indices added by Raw
}

// AddData appends a data-section directive.
func (p *Program) AddData(format string, args ...any) {
	p.Data = append(p.Data, fmt.Sprintf(format, args...))
}

// Emit appends one indented instruction.
func (p *Program) Emit(format string, args ...any) {
	p.Text = append(p.Text, "\t"+fmt.Sprintf(format, args...))
}

// Label appends a label definition.
func (p *Program) Label(name string) {
	p.Text = append(p.Text, name+":")
}

// Raw appends a text line unchanged. Raw lines are user supplied and are
// reported by VerbatimLines.
func (p *Program) Raw(line string) {
	p.verbatim = append(p.verbatim, len(p.Text))
	p.Text = append(p.Text, line)
}

// VerbatimLines returns the 1-based line numbers, in the serialized
// program, of the lines added by Raw.
func (p *Program) VerbatimLines() map[int]bool {
	lines := make(map[int]bool, len(p.verbatim))
	base := len(p.Data) + 2 // ".data" and ".text"
	for _, i := range p.verbatim {
		lines[base+i+1] = true
	}
	return lines
}

// Blank appends an empty separator line.
func (p *Program) Blank() {
	p.Text = append(p.Text, "")
}

// Instructions counts text lines that are neither labels nor blank.
func (p *Program) Instructions() int {
	n := 0
	for _, line := range p.Text {
		if strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, "\t.") {
			n++
		}
	}
	return n
}

// WriteTo serializes the program: ".data", its directives, ".text", its
// lines.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(line string) error {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		return err
	}

	if err := write(".data"); err != nil {
		return total, err
	}
	for _, line := range p.Data {
		if err := write(line); err != nil {
			return total, err
		}
	}
	if err := write(".text"); err != nil {
		return total, err
	}
	for _, line := range p.Text {
		if err := write(line); err != nil {
			return total, err
		}
	}
	return total, nil
}

func (p *Program) String() string {
	var sb strings.Builder
	_, _ = p.WriteTo(&sb)
	return sb.String()
}
