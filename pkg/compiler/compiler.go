// Package compiler runs the PySharp pipeline: function discovery, i386 code
// generation and optional validation of the emitted assembly.
package compiler

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/asm"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/codegen/i386"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/frontend"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
)

// Options controls one compilation run.
type Options struct {
	// Validate runs the assembly validator over the generated program.
	Validate bool
	// File names the source in error messages.
	File string
}

// Compile translates a whole program. On any error the result is nil.
func Compile(lines source.Lines, opts Options) (*asm.Program, error) {
	start := time.Now()

	logger.LogPhase("discovery")
	funcs, err := frontend.Discover(lines)
	if err != nil {
		return nil, fail("discovery", opts.File, err)
	}
	logger.LogPhaseComplete("discovery")

	logger.LogPhase("codegen")
	prog, err := i386.NewGenerator(lines).Generate(funcs)
	if err != nil {
		return nil, fail("codegen", opts.File, err)
	}
	logger.LogPhaseComplete("codegen")

	if opts.Validate {
		logger.LogPhase("validation")
		if err := i386.ValidateGenerated(prog); err != nil {
			return nil, fail("validation", opts.File, fmt.Errorf("generated assembly is invalid: %w", err))
		}
		logger.LogPhaseComplete("validation")
	}

	logger.Debug("Compiled program",
		"file", opts.File,
		"functions", len(funcs),
		"instructions", prog.Instructions(),
		"duration", time.Since(start).String())
	return prog, nil
}

// CompileString is Compile for source text.
func CompileString(text string, opts Options) (*asm.Program, error) {
	return Compile(source.Split(text), opts)
}

func fail(phase, file string, err error) error {
	err = diag.InFile(err, file)
	logger.LogError(phase, file, diag.LineOf(err), err.Error())
	return err
}
