package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverridesPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
[compile]
output_dir = "build"

[toolchain]
linker = "ld"
linker_flags = ["-m", "elf_i386"]

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Compile.OutputDir != "build" {
		t.Errorf("OutputDir = %q, want build", cfg.Compile.OutputDir)
	}
	if !cfg.Compile.Validate {
		t.Error("absent validate key must keep its default")
	}
	if cfg.Toolchain.Assembler != "as" {
		t.Errorf("Assembler = %q, want default", cfg.Toolchain.Assembler)
	}
	if cfg.Toolchain.Linker != "ld" {
		t.Errorf("Linker = %q, want ld", cfg.Toolchain.Linker)
	}
	if !reflect.DeepEqual(cfg.Toolchain.LinkerFlags, []string{"-m", "elf_i386"}) {
		t.Errorf("LinkerFlags = %v", cfg.Toolchain.LinkerFlags)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[compile\nvalidate = true", "failed to parse"},
		{"type", "[compile]\nvalidate = \"yes\"", "failed to parse"},
		{"level", "[log]\nlevel = \"loud\"", "unknown log level"},
		{"format", "[log]\nformat = \"xml\"", "unknown log format"},
		{"assembler", "[toolchain]\nassembler = \"\"", "assembler is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)

			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Compile.Validate = false
	cfg.Toolchain.AssemblerFlags = []string{"--32", "-g"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("got %+v, want %+v", loaded, cfg)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, FileName), "")

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot failed: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}
}

func TestLoadProjectOutsideProject(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if cfg.Toolchain.Linker != "gcc" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}

	lc := cfg.Logger()
	if lc.Level != logger.LevelWarn || lc.Format != "json" {
		t.Errorf("Logger() = %+v", lc)
	}
}
