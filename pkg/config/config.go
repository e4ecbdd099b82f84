// Package config reads and writes pysharp.toml project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
)

// FileName is the project configuration file looked up by FindProjectRoot.
const FileName = "pysharp.toml"

// Config is the contents of pysharp.toml.
type Config struct {
	Compile   CompileConfig   `toml:"compile"`
	Toolchain ToolchainConfig `toml:"toolchain"`
	Log       LogConfig       `toml:"log"`
}

// CompileConfig controls code generation.
type CompileConfig struct {
	Validate  bool   `toml:"validate"`
	OutputDir string `toml:"output_dir"` // empty: next to the source
}

// ToolchainConfig names the system assembler and linker.
type ToolchainConfig struct {
	Assembler      string   `toml:"assembler"`
	AssemblerFlags []string `toml:"assembler_flags"`
	Linker         string   `toml:"linker"`
	LinkerFlags    []string `toml:"linker_flags"`
}

// LogConfig maps onto logger.Config.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no pysharp.toml exists.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{Validate: true},
		Toolchain: ToolchainConfig{
			Assembler:      "as",
			AssemblerFlags: []string{"--32"},
			Linker:         "gcc",
			LinkerFlags:    []string{"-m32"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("No project configuration, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	logger.Debug("Loaded project configuration", "path", path)
	return cfg, nil
}

// Save writes c as TOML to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the values Load cannot check by type alone.
func (c *Config) Validate() error {
	if c.Toolchain.Assembler == "" {
		return errors.New("toolchain.assembler is empty")
	}
	if c.Toolchain.Linker == "" {
		return errors.New("toolchain.linker is empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Logger converts the [log] section to a logger configuration.
func (c *Config) Logger() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(c.Log.Level)
	lc.Format = c.Log.Format
	return lc
}

// FindProjectRoot walks up from dir to the first directory containing
// pysharp.toml.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", FileName)
		}
		dir = parent
	}
}

// LoadProject loads the configuration of the project enclosing dir, or the
// defaults when dir is not inside a project.
func LoadProject(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(root, FileName))
}
