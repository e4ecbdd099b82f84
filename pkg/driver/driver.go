// Package driver turns source files into assembly files and executables.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/compiler"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/config"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/linker"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
)

// Driver compiles files according to a project configuration.
type Driver struct {
	Config    *config.Config
	Toolchain linker.Toolchain
}

func New(cfg *config.Config) *Driver {
	return &Driver{Config: cfg, Toolchain: ToolchainFor(cfg)}
}

// ToolchainFor maps the [toolchain] section onto a linker.Toolchain.
func ToolchainFor(cfg *config.Config) linker.Toolchain {
	return linker.Toolchain{
		Assembler:      cfg.Toolchain.Assembler,
		AssemblerFlags: cfg.Toolchain.AssemblerFlags,
		Linker:         cfg.Toolchain.Linker,
		LinkerFlags:    cfg.Toolchain.LinkerFlags,
	}
}

// OutputPath is where the assembly for src is written.
func (d *Driver) OutputPath(src string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".s"
	if d.Config.Compile.OutputDir != "" {
		return filepath.Join(d.Config.Compile.OutputDir, name)
	}
	return filepath.Join(filepath.Dir(src), name)
}

// CompileFile compiles one source file and writes its assembly. Nothing
// is written when compilation fails.
func (d *Driver) CompileFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger.LogFileProcessing(path)
	log := logger.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	prog, err := compiler.Compile(source.Split(string(data)), compiler.Options{
		Validate: d.Config.Compile.Validate,
		File:     path,
	})
	if err != nil {
		return "", err
	}

	out := d.OutputPath(path)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(prog.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write assembly: %w", err)
	}
	log.Info("Wrote assembly", "output", out, "instructions", prog.Instructions())
	return out, nil
}

// CompileFiles compiles paths concurrently, each as an independent run.
// The result is index-aligned with paths. The first error cancels the
// files not yet started.
func (d *Driver) CompileFiles(ctx context.Context, paths []string) ([]string, error) {
	start := time.Now()
	outs := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			out, err := d.CompileFile(ctx, path)
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}
	err := g.Wait()
	logger.LogCompilerComplete(err == nil, time.Since(start).String())
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// Build compiles, assembles and links paths into the executable output.
func (d *Driver) Build(ctx context.Context, paths []string, output string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}
	asmFiles, err := d.CompileFiles(ctx, paths)
	if err != nil {
		return err
	}

	objects := make([]string, len(asmFiles))
	g, gctx := errgroup.WithContext(ctx)
	for i, asmPath := range asmFiles {
		i, asmPath := i, asmPath
		objects[i] = strings.TrimSuffix(asmPath, ".s") + ".o"
		g.Go(func() error {
			if err := d.Toolchain.Assemble(gctx, asmPath, objects[i]); err != nil {
				return fmt.Errorf("assemble %s: %w", asmPath, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l := linker.New(d.Toolchain, output)
	for _, obj := range objects {
		l.AddObject(obj)
	}
	if err := l.Link(ctx); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}
