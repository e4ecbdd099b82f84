// Package i386 implements 32-bit x86 code generation.
//
// Design: single-accumulator lowering straight to AT&T assembly text, no IR.
// Every operand is evaluated into %ebx; %eax carries return values and the
// left side of comparisons; %edx is the argument scratch pointer. Variables
// are addressed relative to %esp, so the symbol table tracks every word the
// generated code pushes.
package i386

import (
	"fmt"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/asm"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

// Register conventions
const (
	ValueReg   = "%ebx"
	ReturnReg  = "%eax"
	CompareReg = "%eax"
	ScratchReg = "%edx"
	StackReg   = "%esp"
	FrameReg   = "%ebp"
)

// Generator compiles the functions of one source program. Label and string
// constant counters live here and only grow for the lifetime of the
// Generator, so one Generator is one compilation run.
type Generator struct {
	lines  source.Lines
	prog   *asm.Program
	scope  *symtab.Scope
	labels int
	consts int
}

func NewGenerator(lines source.Lines) *Generator {
	return &Generator{lines: lines}
}

// Generate emits assembly for funcs in order. On error no program is
// returned.
func (g *Generator) Generate(funcs []*frontend.Function) (*asm.Program, error) {
	logger.Debug("Generating i386 assembly", "functions", len(funcs))

	g.prog = &asm.Program{}
	for _, fn := range funcs {
		if err := g.generateFunction(fn); err != nil {
			logger.Error("Failed to generate function", "arch", "i386", "name", fn.Name, "error", err)
			g.prog = nil
			return nil, err
		}
	}

	prog := g.prog
	g.prog = nil
	logger.Info("i386 code generation complete", "functions", len(funcs), "instructions", prog.Instructions())
	return prog, nil
}

// newLabel allocates the next label id.
func (g *Generator) newLabel() int {
	id := g.labels
	g.labels++
	return id
}

func labelName(id int) string {
	return fmt.Sprintf(".L%d", id)
}

// newConst allocates a string constant in the data section.
func (g *Generator) newConst(text string) string {
	name := fmt.Sprintf("const_%d", g.consts)
	g.consts++
	g.prog.AddData(`%s: .asciz "%s"`, name, text)
	return name
}

func (g *Generator) emit(format string, args ...any) {
	g.prog.Emit(format, args...)
}
