package i386

import (
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

// lowerOperand evaluates operand text into the value register.
func (g *Generator) lowerOperand(text string) error {
	op, err := frontend.ClassifyOperand(text)
	if err != nil {
		return err
	}

	switch o := op.(type) {
	case frontend.AddressOf:
		v, err := g.scope.Lookup(o.Name)
		if err != nil {
			return err
		}
		g.emit("leal %s, %s", g.scope.AddressOf(v), ValueReg)

	case frontend.VarRef:
		v, err := g.scope.Lookup(o.Name)
		if err != nil {
			return err
		}
		if v.Kind == symtab.Char {
			g.emit("movzbl %s, %s # %s", g.scope.AddressOf(v), ValueReg, v.Name)
		} else {
			g.emit("movl %s, %s # %s", g.scope.AddressOf(v), ValueReg, v.Name)
		}

	case frontend.StringLit:
		name := g.newConst(o.Text)
		g.emit("movl $%s, %s", name, ValueReg)

	case frontend.CallExpr:
		if err := g.lowerCall(o); err != nil {
			return err
		}
		g.emit("movl %s, %s", ReturnReg, ValueReg)

	case frontend.IntLit:
		g.emit("movl $%d, %s", o.Value, ValueReg)
	}
	return nil
}
