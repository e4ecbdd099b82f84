package i386

import (
	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

// compileBlock compiles the lines of block at nesting level. Locals declared
// directly in the block are released when it falls through; nested if and
// asm bodies are consumed whole and scanning resumes after them.
func (g *Generator) compileBlock(block source.Block, level int) error {
	frame := g.scope.Enter()
	defer frame.Exit()

	for i := block.Start; i <= block.End; {
		line := g.lines[i]

		switch st := frontend.ClassifyLine(line).(type) {
		case frontend.Comment:

		case frontend.Declaration:
			frame.Declare(st.Name, st.Kind)
			g.emit("subl $%d, %s # %s", symtab.WordSize, StackReg, st.Name)

		case frontend.AsmMarker:
			body := g.lines.FindBlock(level+1, i+1)
			if err := g.splice(body); err != nil {
				return err
			}
			i = body.End + 1
			continue

		case frontend.Assignment:
			if err := g.assign(st); err != nil {
				return diag.AtLine(err, i)
			}

		case frontend.CallStatement:
			if err := g.lowerCall(st.Call); err != nil {
				return diag.AtLine(err, i)
			}

		case frontend.IfStatement:
			body := g.lines.FindBlock(level+1, i+1)
			if err := g.compileIf(st.Condition, body, level+1); err != nil {
				return diag.AtLine(err, i)
			}
			i = body.End + 1
			continue

		case frontend.Return:
			if err := g.lowerOperand(st.Value); err != nil {
				return diag.AtLine(err, i)
			}
			g.emitReturn(frame.Bytes())

		case frontend.Unknown:
			if !source.Blank(line) {
				logger.LogSkippedLine(i+1, st.Text)
			}
		}
		i++
	}

	g.release(frame.Bytes())
	return nil
}

// assign lowers `x = value`. Compound forms are recognized but produce no
// code.
func (g *Generator) assign(a frontend.Assignment) error {
	if a.Op != "=" {
		logger.Debug("Compound assignment not lowered", "target", a.Target, "op", a.Op)
		return nil
	}

	target, err := g.scope.Lookup(a.Target)
	if err != nil {
		return err
	}
	if err := g.lowerOperand(a.Value); err != nil {
		return err
	}
	if target.Kind == symtab.Char {
		g.emit("movb %%bl, %s # %s", g.scope.AddressOf(target), target.Name)
	} else {
		g.emit("movl %s, %s # %s", ValueReg, g.scope.AddressOf(target), target.Name)
	}
	return nil
}
