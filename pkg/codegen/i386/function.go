package i386

import (
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

// generateFunction emits one function: prologue, parameter binding, body,
// default-return epilogue.
//
// Stack at entry to the body:
//
//	... [arg1] [arg0] [ret addr] [saved %ebp] [saved %ebx] <- %esp = %ebp
func (g *Generator) generateFunction(fn *frontend.Function) error {
	start := len(g.prog.Text)

	g.scope = symtab.New()
	defer func() { g.scope = nil }()
	for _, p := range fn.Params {
		g.scope.BindParam(p.Name, p.Kind)
	}

	g.emit(".global %s", fn.Name)
	g.prog.Label(fn.Name)
	g.emit("pushl %s", FrameReg)
	g.emit("pushl %s", ValueReg)
	g.emit("movl %s, %s", StackReg, FrameReg)

	if err := g.compileBlock(fn.Body, 1); err != nil {
		return err
	}

	g.emit("movl %s, %s", FrameReg, StackReg)
	g.emit("popl %s", ValueReg)
	g.emit("popl %s", FrameReg)
	g.emit("movl $0, %s", ReturnReg)
	g.emit("ret")
	g.prog.Blank()

	logger.LogCodeGen("i386", fn.Name, len(g.prog.Text)-start)
	return nil
}

// emitReturn leaves the function from inside a block whose frame holds
// localBytes of stack.
func (g *Generator) emitReturn(localBytes int) {
	g.emit("movl %s, %s", ValueReg, ReturnReg)
	g.release(localBytes)
	g.emit("movl %s, %s", FrameReg, StackReg)
	g.emit("popl %s", ValueReg)
	g.emit("popl %s", FrameReg)
	g.emit("ret")
}

// release pops n bytes of block-local stack.
func (g *Generator) release(n int) {
	if n > 0 {
		g.emit("addl $%d, %s", n, StackReg)
	}
}
