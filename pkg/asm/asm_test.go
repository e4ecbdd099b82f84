package asm

import (
	"errors"
	"testing"
)

func TestProgramSerialization(t *testing.T) {
	var p Program
	p.AddData(`const_%d: .asciz "%s"`, 0, "hi")
	p.Emit(".global %s", "f")
	p.Label("f")
	p.Emit("movl $%d, %%ebx", 1)
	p.Raw("\tnop")
	p.Blank()

	want := ".data\n" +
		"const_0: .asciz \"hi\"\n" +
		".text\n" +
		"\t.global f\n" +
		"f:\n" +
		"\tmovl $1, %ebx\n" +
		"\tnop\n" +
		"\n"
	if got := p.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
	if n := p.Instructions(); n != 2 {
		t.Errorf("Instructions() = %d, want 2", n)
	}

	// "\tnop" is the 7th serialized line.
	if v := p.VerbatimLines(); len(v) != 1 || !v[7] {
		t.Errorf("VerbatimLines() = %v, want map[7:true]", v)
	}
}

func TestEmptyProgram(t *testing.T) {
	var p Program
	if got := p.String(); got != ".data\n.text\n" {
		t.Errorf("empty program = %q", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteToPropagatesErrors(t *testing.T) {
	var p Program
	p.Emit("ret")
	if _, err := p.WriteTo(failingWriter{}); err == nil {
		t.Error("expected write error")
	}
}
