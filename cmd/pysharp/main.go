// Package main implements the PySharp compiler binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/samber/do"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/config"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/driver"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	cmd := os.Args[1]
	switch cmd {
	case "compile":
		err = compile(ctx, os.Args[2:])
	case "build":
		err = build(ctx, os.Args[2:])
	case "init":
		err = initProject(os.Args[2:])
	case "version":
		fmt.Printf("pysharp compiler version %s\n", version)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `PySharp Compiler - Compile PySharp to 32-bit x86 assembly

Usage:
    pysharp compile <files...> [-o dir]    Compile each file to a .s file
    pysharp build <files...> -o <exe>      Compile, assemble and link
    pysharp init [dir]                     Write a default pysharp.toml
    pysharp version                        Show compiler version
    pysharp help                           Show this help message

Options:
    -o <path>       Output directory (compile) or executable (build)
    -no-validate    Skip validation of the generated assembly
    -v              Verbose output

Settings not given on the command line come from the nearest pysharp.toml.`)
}

type options struct {
	output     string
	noValidate bool
	verbose    bool
}

// parseArgs parses flags that may appear before, between or after the
// input files.
func parseArgs(name string, args []string) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.output, "o", "", "output path")
	fs.BoolVar(&opts.noValidate, "no-validate", false, "skip assembly validation")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")

	var files []string
	for {
		if err := fs.Parse(args); err != nil {
			return opts, nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		files = append(files, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(files) == 0 {
		return opts, nil, errors.New("no input files")
	}
	return opts, files, nil
}

// setup loads the project configuration for the first input, applies the
// command line on top of it and resolves the driver.
func setup(opts options, files []string) (*driver.Driver, error) {
	cfg, err := config.LoadProject(filepath.Dir(files[0]))
	if err != nil {
		return nil, err
	}
	if opts.noValidate {
		cfg.Compile.Validate = false
	}

	lc := cfg.Logger()
	if opts.verbose {
		lc.Level = logger.LevelDebug
	}
	if err := logger.Init(lc); err != nil {
		return nil, err
	}

	return do.Invoke[*driver.Driver](driver.NewContainer(cfg))
}

func compile(ctx context.Context, args []string) error {
	opts, files, err := parseArgs("compile", args)
	if err != nil {
		return err
	}
	d, err := setup(opts, files)
	if err != nil {
		return err
	}
	if opts.output != "" {
		d.Config.Compile.OutputDir = opts.output
	}

	logger.LogCompilerStart(files)
	outs, err := d.CompileFiles(ctx, files)
	if err != nil {
		return err
	}
	for _, out := range outs {
		fmt.Println(out)
	}
	return nil
}

func build(ctx context.Context, args []string) error {
	opts, files, err := parseArgs("build", args)
	if err != nil {
		return err
	}
	if opts.output == "" {
		return errors.New("build requires -o <executable>")
	}
	d, err := setup(opts, files)
	if err != nil {
		return err
	}

	logger.LogCompilerStart(files)
	if err := d.Build(ctx, files, opts.output); err != nil {
		return err
	}
	fmt.Println(opts.output)
	return nil
}

func initProject(args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}
