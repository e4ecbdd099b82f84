// Package source models the input program as indentation-structured lines.
//
// Nesting is expressed only by leading tabs; a block is the maximal run of
// lines at or below a given depth.
package source

import "strings"

// Lines is the immutable input program, indexed 0..N-1.
type Lines []string

// Split breaks text into lines on '\n'. A trailing '\r' is dropped from
// each line.
func Split(text string) Lines {
	raw := strings.Split(text, "\n")
	lines := make(Lines, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Block is an inclusive line range. Start > End means empty.
type Block struct {
	Start int
	End   int
}

func (b Block) Empty() bool { return b.Start > b.End }

func (b Block) Len() int {
	if b.Empty() {
		return 0
	}
	return b.End - b.Start + 1
}

func (b Block) Contains(i int) bool { return i >= b.Start && i <= b.End }

// Depth returns the number of leading tab characters of line.
func Depth(line string) int {
	n := 0
	for n < len(line) && line[n] == '\t' {
		n++
	}
	return n
}

// Blank reports whether line holds only whitespace.
func Blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// FindBlock returns the maximal range beginning at start whose lines all
// have depth >= level. The range stops at the first shallower line or at
// end of input, and is empty when start itself is shallower.
func (l Lines) FindBlock(level, start int) Block {
	for i := start; i < len(l); i++ {
		if Depth(l[i]) < level {
			return Block{Start: start, End: i - 1}
		}
	}
	return Block{Start: start, End: len(l) - 1}
}
