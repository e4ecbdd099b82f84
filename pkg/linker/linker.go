// Package linker handles object file generation and linking.
//
// Design: the system assembler and linker do the work. Commands are built
// separately from running them so the argument lists can be inspected.
package linker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
)

// Toolchain names the external tools and their fixed flags.
type Toolchain struct {
	Assembler      string
	AssemblerFlags []string
	Linker         string
	LinkerFlags    []string
}

// DefaultToolchain targets 32-bit x86 with GNU as and gcc as the link
// driver, so the C library is available to ^name calls.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Assembler:      "as",
		AssemblerFlags: []string{"--32"},
		Linker:         "gcc",
		LinkerFlags:    []string{"-m32"},
	}
}

// AssembleArgs returns the assembler argument list for one file.
func (t Toolchain) AssembleArgs(asmPath, objPath string) []string {
	args := append([]string{}, t.AssemblerFlags...)
	return append(args, "-o", objPath, asmPath)
}

// AssembleCommand builds, without running, the assembler command.
func (t Toolchain) AssembleCommand(ctx context.Context, asmPath, objPath string) *exec.Cmd {
	return exec.CommandContext(ctx, t.Assembler, t.AssembleArgs(asmPath, objPath)...)
}

// Assemble generates an object file from assembly.
func (t Toolchain) Assemble(ctx context.Context, asmPath, objPath string) error {
	logger.LogAssembleStart(asmPath)
	return run(t.AssembleCommand(ctx, asmPath, objPath))
}

// Linker links object files into an executable
type Linker struct {
	toolchain Toolchain
	objects   []string
	output    string
}

func New(toolchain Toolchain, output string) *Linker {
	return &Linker{
		toolchain: toolchain,
		output:    output,
	}
}

func (l *Linker) AddObject(path string) {
	l.objects = append(l.objects, path)
}

// Objects returns the object files added so far.
func (l *Linker) Objects() []string {
	return l.objects
}

// Args returns the linker argument list.
func (l *Linker) Args() []string {
	args := append([]string{}, l.toolchain.LinkerFlags...)
	args = append(args, "-o", l.output)
	return append(args, l.objects...)
}

// Command builds, without running, the link command.
func (l *Linker) Command(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, l.toolchain.Linker, l.Args()...)
}

// Link produces the final executable
func (l *Linker) Link(ctx context.Context) error {
	if len(l.objects) == 0 {
		return fmt.Errorf("link %s: no object files", l.output)
	}
	logger.LogLinkingStart(len(l.objects))
	if err := run(l.Command(ctx)); err != nil {
		return err
	}
	logger.LogLinkingComplete(l.output)
	return nil
}

// run executes cmd, folding its combined output into the error.
func run(cmd *exec.Cmd) error {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Debug("Running tool", "cmd", cmd.String())
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%s: %w\n%s", cmd.Path, err, msg)
		}
		return fmt.Errorf("%s: %w", cmd.Path, err)
	}
	return nil
}
