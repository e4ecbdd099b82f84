package i386

import (
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

// lowerCall emits a call. Arguments are evaluated right to left and stored
// at 4*i above the callee's %esp, where the callee's parameter slots expect
// them. The return value is left in %eax.
func (g *Generator) lowerCall(call frontend.CallExpr) error {
	sym := call.Symbol()
	if len(call.Args) == 0 {
		g.emit("call %s", sym)
		return nil
	}
	if hasNestedCall(call.Args) {
		return g.lowerCallReserved(call)
	}

	size := len(call.Args) * symtab.WordSize
	g.emit("movl %s, %s", StackReg, ScratchReg)
	g.emit("subl $%d, %s", size, ScratchReg)
	for i := len(call.Args) - 1; i >= 0; i-- {
		if err := g.lowerOperand(call.Args[i]); err != nil {
			return err
		}
		g.emit("movl %s, %d(%s)", ValueReg, i*symtab.WordSize, ScratchReg)
	}
	g.emit("subl $%d, %s", size, StackReg)
	g.emit("call %s", sym)
	g.emit("addl $%d, %s", size, StackReg)
	return nil
}

// lowerCallReserved is used when an argument is itself a call. The argument
// area is reserved up front, so the inner call can neither clobber %edx nor
// overwrite arguments already stored below %esp.
func (g *Generator) lowerCallReserved(call frontend.CallExpr) error {
	frame := g.scope.Enter()
	defer frame.Exit()

	slots := make([]symtab.Variable, len(call.Args))
	for i := len(call.Args) - 1; i >= 0; i-- {
		slots[i] = frame.Reserve()
	}
	g.emit("subl $%d, %s", frame.Bytes(), StackReg)

	for i := len(call.Args) - 1; i >= 0; i-- {
		if err := g.lowerOperand(call.Args[i]); err != nil {
			return err
		}
		g.emit("movl %s, %s", ValueReg, g.scope.AddressOf(slots[i]))
	}
	g.emit("call %s", call.Symbol())
	g.emit("addl $%d, %s", frame.Bytes(), StackReg)
	return nil
}

func hasNestedCall(args []string) bool {
	for _, arg := range args {
		if op, err := frontend.ClassifyOperand(arg); err == nil {
			if _, ok := op.(frontend.CallExpr); ok {
				return true
			}
		}
	}
	return false
}
