// Package i386 - Tests for assembly validator
package i386

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/asm"
)

func asmText(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func function(body ...string) string {
	lines := []string{
		".text",
		"\t.global _test",
		"_test:",
		"\tpushl %ebp",
		"\tpushl %ebx",
		"\tmovl %esp, %ebp",
	}
	lines = append(lines, body...)
	lines = append(lines,
		"\tmovl %ebp, %esp",
		"\tpopl %ebx",
		"\tpopl %ebp",
		"\tmovl $0, %eax",
		"\tret",
	)
	return asmText(lines...)
}

func TestValidatorValidCode(t *testing.T) {
	validAsm := function(
		"\tsubl $4, %esp # x",
		"\tmovl $1, %ebx",
		"\tmovl %ebx, 0(%esp) # x",
		"\tmovzbl 0(%esp), %ebx",
		"\tmovb %bl, 0(%esp)",
		"\tleal 0(%esp), %ebx",
		"\tcmpl %ebx, %eax",
		"\tjne .L0",
		".L0:",
		"\taddl $4, %esp",
	)

	validator := NewValidator()
	if err := validator.Validate(validAsm); err != nil {
		t.Errorf("Valid assembly failed validation: %v", err)
	}
	if len(validator.Warnings()) != 0 {
		t.Errorf("Unexpected warnings: %v", validator.Warnings())
	}
}

func TestValidatorSkipsDataSection(t *testing.T) {
	prog := asmText(
		".data",
		`const_0: .asciz "%d %s done:"`,
	) + function("\tmovl $const_0, %ebx")

	if err := ValidateProgram(prog); err != nil {
		t.Errorf("String constants must not be validated as code: %v", err)
	}
}

func TestValidatorInvalidRegister(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("\tmovl %rax, %ebx"))
	if err == nil {
		t.Fatal("Expected error for invalid register, got nil")
	}

	if !strings.Contains(err.Error(), "invalid register: %rax") {
		t.Errorf("Expected 'invalid register' error, got: %v", err)
	}
}

func TestValidatorMemoryToMemory(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("\tmovl 0(%esp), 4(%esp)"))
	if err == nil {
		t.Fatal("Expected error for memory-to-memory move, got nil")
	}
	if !strings.Contains(err.Error(), "memory-to-memory") {
		t.Errorf("Expected memory-to-memory error, got: %v", err)
	}
}

func TestValidatorCalleeSavedRegisters(t *testing.T) {
	unbalancedAsm := asmText(
		".text",
		"_test:",
		"\tpushl %ebp",
		"\tpushl %ebx",
		"\tpopl %ebx",
		"\tret",
	)

	validator := NewValidator()
	err := validator.Validate(unbalancedAsm)
	if err == nil {
		t.Fatal("Expected error for unbalanced push, got nil")
	}
	if !strings.Contains(err.Error(), "callee-saved registers not restored in _test") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidatorPopWithoutPush(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(asmText(".text", "_test:", "\tpopl %ebx", "\tret"))
	if err == nil || !strings.Contains(err.Error(), "pop without matching push") {
		t.Errorf("Expected pop error, got: %v", err)
	}
}

func TestValidatorStackNotRestored(t *testing.T) {
	leakyAsm := asmText(
		".text",
		"_test:",
		"\tsubl $8, %esp",
		"\tret",
	)

	validator := NewValidator()
	err := validator.Validate(leakyAsm)
	if err == nil || !strings.Contains(err.Error(), "stack not restored before ret in _test: 8 bytes") {
		t.Errorf("Expected stack error, got: %v", err)
	}
}

func TestValidatorStackRaisedAboveFrame(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("\taddl $4, %esp"))
	if err == nil || !strings.Contains(err.Error(), "stack pointer raised above the frame") {
		t.Errorf("Expected frame error, got: %v", err)
	}
}

func TestValidatorFrameResetByEpilogue(t *testing.T) {
	// A return from inside a block leaves its locals to movl %ebp, %esp.
	validAsm := function(
		"\tsubl $12, %esp",
		"\tmovl %ebx, %eax",
		"\tmovl %ebp, %esp",
		"\tpopl %ebx",
		"\tpopl %ebp",
		"\tret",
	)

	if err := ValidateProgram(validAsm); err != nil {
		t.Errorf("Early return failed validation: %v", err)
	}
}

func TestValidatorInvalidScaleFactor(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("\tmovl (%eax,%ebx,3), %ecx"))
	if err == nil {
		t.Fatal("Expected error for invalid scale factor, got nil")
	}

	if !strings.Contains(err.Error(), "scale factor") {
		t.Errorf("Expected 'scale factor' error, got: %v", err)
	}
}

func TestValidatorImmediateAsDestination(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("\tmovl %eax, $42"))
	if err == nil {
		t.Fatal("Expected error for immediate as destination, got nil")
	}
	if !strings.Contains(err.Error(), "immediate value cannot be destination") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidatorLabelFormat(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("bad label:"))
	if err == nil || !strings.Contains(err.Error(), "invalid label format") {
		t.Errorf("Expected label error, got: %v", err)
	}
}

func TestValidatorUnknownMnemonicWarns(t *testing.T) {
	validator := NewValidator()
	if err := validator.Validate(function("\tfrobnicate %eax")); err != nil {
		t.Fatalf("Unknown mnemonics must not fail validation: %v", err)
	}

	warns := validator.Warnings()
	if len(warns) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warns))
	}
	if warns[0].Line != 7 {
		t.Errorf("Warning line = %d, want 7", warns[0].Line)
	}
}

func TestValidatorErrorLine(t *testing.T) {
	validator := NewValidator()
	err := validator.Validate(function("\tnop", "\tmovl %r9d, %eax"))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "line 8: invalid register") {
		t.Errorf("Expected error on line 8, got: %v", err)
	}
}

func TestValidateGeneratedInlineRegisters(t *testing.T) {
	var prog asm.Program
	prog.AddData(`const_0: .asciz "x"`)
	prog.Label("_test")
	prog.Emit("pushl %%ebp")
	prog.Raw("\tmovd %xmm0, %eax")
	prog.Raw("\tmovl %gs:20, %eax")
	prog.Emit("popl %%ebp")
	prog.Emit("ret")

	if err := ValidateGenerated(&prog); err != nil {
		t.Fatalf("Inline registers must not fail validation: %v", err)
	}

	// The same register outside an asm: block is still an error.
	prog.Emit("movd %%xmm1, %%eax")
	err := ValidateGenerated(&prog)
	if err == nil || !strings.Contains(err.Error(), "invalid register: %xmm1") {
		t.Errorf("Expected invalid register error, got: %v", err)
	}
}

func TestValidatorSegmentRegisters(t *testing.T) {
	if err := ValidateProgram(function("\tmovl %gs:20, %eax")); err != nil {
		t.Errorf("Segment register rejected: %v", err)
	}
}
