package i386

import (
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

// Conditional jumps taken when "left op right" holds.
var jumpIf = map[string]string{
	"==": "je",
	"!=": "jne",
	"<":  "jl",
	"<=": "jle",
	">":  "jg",
	">=": "jge",
}

// Conditional jumps taken when "left op right" fails.
var jumpUnless = map[string]string{
	"==": "jne",
	"!=": "je",
	"<":  "jge",
	"<=": "jg",
	">":  "jle",
	">=": "jl",
}

// compileIf lowers an if statement to a short-circuit branch graph.
//
// For groups g0 || g1 || ... each AND-term but the last exits to the
// group's failure label on failure. The last term of a non-final group
// jumps into the body on success; the last term of the final group exits
// past the body on failure.
func (g *Generator) compileIf(text string, body source.Block, level int) error {
	cond, err := frontend.ParseCondition(text)
	if err != nil {
		return err
	}

	bodyEnd := labelName(g.newLabel())
	bodyStart := labelName(g.newLabel())

	for gi, group := range cond.Groups {
		final := gi == len(cond.Groups)-1
		fail := bodyEnd
		if !final {
			fail = labelName(g.newLabel())
		}

		for ti, term := range group {
			var err error
			switch {
			case ti < len(group)-1:
				err = g.compare(term, jumpUnless, fail)
			case !final:
				err = g.compare(term, jumpIf, bodyStart)
			default:
				err = g.compare(term, jumpUnless, bodyEnd)
			}
			if err != nil {
				return err
			}
		}

		if !final {
			g.prog.Label(fail)
		}
	}

	g.prog.Label(bodyStart)
	if err := g.compileBlock(body, level); err != nil {
		return err
	}
	g.prog.Label(bodyEnd)
	return nil
}

// compare evaluates one comparison and branches to target using the jump
// table for the wanted polarity. The left value is spilled to a temporary
// slot while the right one is evaluated.
func (g *Generator) compare(cmp frontend.Comparison, jumps map[string]string, target string) error {
	if err := g.lowerOperand(cmp.Left); err != nil {
		return err
	}

	tmp := g.scope.Enter()
	defer tmp.Exit()
	spill := tmp.Reserve()
	g.emit("subl $%d, %s", symtab.WordSize, StackReg)
	g.emit("movl %s, %s", ValueReg, g.scope.AddressOf(spill))

	if err := g.lowerOperand(cmp.Right); err != nil {
		return err
	}

	g.emit("movl %s, %s", g.scope.AddressOf(spill), CompareReg)
	g.emit("addl $%d, %s", symtab.WordSize, StackReg)
	tmp.Exit()

	g.emit("cmpl %s, %s", ValueReg, CompareReg)
	g.emit("%s %s", jumps[cmp.Op], target)
	return nil
}
