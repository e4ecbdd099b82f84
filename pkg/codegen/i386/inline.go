package i386

import (
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
)

// splice copies an asm: block into the text section, replacing each ^name
// with the variable's current stack address.
func (g *Generator) splice(block source.Block) error {
	for i := block.Start; i <= block.End; i++ {
		line := strings.TrimSpace(g.lines[i])

		var sb strings.Builder
		last := 0
		for _, ref := range frontend.AsmReferences(line) {
			addr, err := g.scope.Address(ref.Name)
			if err != nil {
				return diag.AtLine(err, i)
			}
			sb.WriteString(line[last:ref.Start])
			sb.WriteString(addr)
			last = ref.End
		}
		sb.WriteString(line[last:])

		g.prog.Raw("\t" + sb.String())
	}
	return nil
}
