package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInitWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelWarn, Format: "json", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	defer InitDev()

	Info("hidden")
	LogError("codegen", "a.pys", 3, "unknown variable")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	for _, want := range []string{`"phase":"codegen"`, `"file":"a.pys"`, `"line":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: LevelInfo, Format: "text", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	defer InitDev()

	With("file", "a.pys").Info("Wrote assembly", "output", "a.s")

	out := buf.String()
	for _, want := range []string{"file=a.pys", "output=a.s", `msg="Wrote assembly"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
