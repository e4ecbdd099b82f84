// Package i386 - Assembly validation and correctness verification
package i386

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/asm"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
)

// ValidationError represents an assembly validation error
type ValidationError struct {
	Line    int
	Message string
	Code    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s\n  %s", e.Line, e.Message, e.Code)
}

// Validator validates generated i386 assembly
type Validator struct {
	errors   []ValidationError
	warns    []ValidationError
	verbatim map[int]bool // lines copied from asm: blocks
}

// NewValidator creates a new assembly validator
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
		warns:  make([]ValidationError, 0),
	}
}

var (
	regPattern     = regexp.MustCompile(`%[a-z0-9]+`)
	scaledPattern  = regexp.MustCompile(`\(%[a-z0-9]*,%[a-z0-9]+,(\d+)\)`)
	espAdjustRe    = regexp.MustCompile(`^(addl|subl)\s+\$(-?\d+),\s*%esp$`)
	validRegisters = map[string]bool{
		"%eax": true, "%ebx": true, "%ecx": true, "%edx": true,
		"%esi": true, "%edi": true, "%ebp": true, "%esp": true,
		"%ax": true, "%bx": true, "%cx": true, "%dx": true,
		"%si": true, "%di": true, "%bp": true, "%sp": true,
		"%al": true, "%ah": true, "%bl": true, "%bh": true,
		"%cl": true, "%ch": true, "%dl": true, "%dh": true,
		"%cs": true, "%ds": true, "%es": true, "%fs": true, "%gs": true, "%ss": true,
	}
	knownMnemonics = []string{
		"mov", "lea", "push", "pop", "add", "sub", "imul", "mul", "idiv", "div",
		"cltd", "cdq", "cmp", "test", "set", "jmp", "je", "jne", "jl", "jle",
		"jg", "jge", "ja", "jae", "jb", "jbe", "jz", "jnz", "call", "ret",
		"and", "or", "xor", "not", "neg", "shl", "shr", "sal", "sar", "inc",
		"dec", "leave", "enter", "int", "nop", "xchg",
	}
)

// Validate performs validation on the text section of a program. It
// accepts either the full serialized program or just the text lines; data
// directives are skipped so string constants are never parsed as code.
func (v *Validator) Validate(assembly string) error {
	lines := textSection(strings.Split(assembly, "\n"))

	v.validateSyntax(lines)
	v.validateRegisters(lines)
	v.validateFrames(lines)
	v.validateInstructionValidity(lines)
	v.validateMemoryAddressing(lines)

	if len(v.errors) > 0 {
		return v.formatErrors()
	}

	if len(v.warns) > 0 {
		v.logWarnings()
	}

	return nil
}

// Warnings returns the warnings of the last Validate call.
func (v *Validator) Warnings() []ValidationError {
	return v.warns
}

// validateSyntax checks labels and mnemonics
func (v *Validator) validateSyntax(lines []string) {
	for i, raw := range lines {
		line := code(raw)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			if strings.ContainsAny(line, " \t") {
				v.addError(i+1, "invalid label format (contains spaces)", raw)
			}
			continue
		}

		if strings.HasPrefix(raw, "\t") && !isValidInstruction(line) {
			v.addWarn(i+1, "unrecognized instruction", raw)
		}
	}
}

// validateRegisters rejects registers that are not general purpose or
// segment registers. Inline assembly may name any register the assembler
// accepts, so there it only warns.
func (v *Validator) validateRegisters(lines []string) {
	for i, raw := range lines {
		for _, reg := range regPattern.FindAllString(code(raw), -1) {
			switch {
			case validRegisters[reg]:
			case v.verbatim[i+1]:
				v.addWarn(i+1, fmt.Sprintf("unchecked register: %s", reg), raw)
			default:
				v.addError(i+1, fmt.Sprintf("invalid register: %s", reg), raw)
			}
		}
	}
}

// validateFrames checks, up to the first ret of each function, that every
// pushed register was popped and that %esp is back at the frame base.
func (v *Validator) validateFrames(lines []string) {
	inFunction := false
	functionName := ""
	var pushed []string
	extra := 0

	for i, raw := range lines {
		line := code(raw)

		if isFunctionLabel(raw) {
			inFunction = true
			functionName = strings.TrimSuffix(line, ":")
			pushed = pushed[:0]
			extra = 0
			continue
		}
		if !inFunction || line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch {
		case fields[0] == "pushl" && len(fields) > 1:
			pushed = append(pushed, fields[1])
		case fields[0] == "popl" && len(fields) > 1:
			if len(pushed) == 0 {
				v.addError(i+1, "pop without matching push", raw)
				continue
			}
			if top := pushed[len(pushed)-1]; top != fields[1] {
				v.addWarn(i+1, fmt.Sprintf("pop into %s of value pushed from %s", fields[1], top), raw)
			}
			pushed = pushed[:len(pushed)-1]
		case line == "movl %ebp, %esp":
			extra = 0
		case espAdjustRe.MatchString(line):
			m := espAdjustRe.FindStringSubmatch(line)
			n, _ := strconv.Atoi(m[2])
			if m[1] == "subl" {
				extra += n
			} else {
				extra -= n
			}
			if extra < 0 {
				v.addError(i+1, "stack pointer raised above the frame", raw)
			}
		case fields[0] == "ret":
			if len(pushed) > 0 {
				v.addError(i+1, fmt.Sprintf("callee-saved registers not restored in %s: %v", functionName, pushed), raw)
			}
			if extra != 0 {
				v.addError(i+1, fmt.Sprintf("stack not restored before ret in %s: %d bytes", functionName, extra), raw)
			}
			inFunction = false
		}
	}
}

// validateInstructionValidity checks for invalid operand combinations
func (v *Validator) validateInstructionValidity(lines []string) {
	for i, raw := range lines {
		line := code(raw)
		mnemonic, operands := splitInstruction(line)
		if len(operands) < 2 {
			continue
		}

		dest := operands[len(operands)-1]
		if strings.HasPrefix(dest, "$") && mnemonic != "enter" {
			v.addError(i+1, "immediate value cannot be destination", raw)
		}

		if strings.HasPrefix(mnemonic, "mov") && isMemoryOperand(operands[0]) && isMemoryOperand(dest) {
			v.addError(i+1, "x86 doesn't support memory-to-memory moves", raw)
		}
	}
}

// validateMemoryAddressing checks memory addressing mode correctness
func (v *Validator) validateMemoryAddressing(lines []string) {
	for i, raw := range lines {
		for _, match := range scaledPattern.FindAllStringSubmatch(code(raw), -1) {
			switch match[1] {
			case "1", "2", "4", "8":
			default:
				v.addError(i+1, fmt.Sprintf("invalid scale factor: %s (must be 1, 2, 4, or 8)", match[1]), raw)
			}
		}
	}
}

// Helper functions

func (v *Validator) addError(line int, msg, code string) {
	v.errors = append(v.errors, ValidationError{Line: line, Message: msg, Code: code})
}

func (v *Validator) addWarn(line int, msg, code string) {
	v.warns = append(v.warns, ValidationError{Line: line, Message: msg, Code: code})
}

func (v *Validator) formatErrors() error {
	var sb strings.Builder
	sb.WriteString("Assembly validation failed:\n")
	for _, err := range v.errors {
		sb.WriteString("  " + err.Error() + "\n")
	}
	return fmt.Errorf("%s", sb.String())
}

func (v *Validator) logWarnings() {
	for _, warn := range v.warns {
		logger.Warn("Assembly validation warning", "line", warn.Line, "msg", warn.Message)
	}
}

// textSection blanks every line up to and including ".text", keeping line
// numbers intact. Input without a ".text" line is returned unchanged.
func textSection(lines []string) []string {
	for i, line := range lines {
		if strings.TrimSpace(line) == ".text" {
			out := make([]string, len(lines))
			copy(out[i+1:], lines[i+1:])
			return out
		}
	}
	return lines
}

// code strips the comment and surrounding whitespace from a line.
func code(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func isFunctionLabel(raw string) bool {
	return !strings.HasPrefix(raw, "\t") && !strings.HasPrefix(raw, ".") && strings.HasSuffix(code(raw), ":")
}

func isValidInstruction(line string) bool {
	if strings.HasPrefix(line, ".") {
		return true
	}
	for _, inst := range knownMnemonics {
		if strings.HasPrefix(line, inst) {
			return true
		}
	}
	return false
}

// splitInstruction separates the mnemonic from its comma separated
// operands, keeping commas inside parentheses.
func splitInstruction(line string) (string, []string) {
	cut := strings.IndexAny(line, " \t")
	if cut < 0 {
		return line, nil
	}
	mnemonic, rest := line[:cut], line[cut+1:]
	var operands []string
	depth, last := 0, 0
	for i, c := range rest {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				operands = append(operands, strings.TrimSpace(rest[last:i]))
				last = i + 1
			}
		}
	}
	operands = append(operands, strings.TrimSpace(rest[last:]))
	return mnemonic, operands
}

func isMemoryOperand(operand string) bool {
	return strings.Contains(operand, "(") && strings.Contains(operand, ")")
}

// ValidateProgram validates an entire generated program
func ValidateProgram(assembly string) error {
	validator := NewValidator()
	return validator.Validate(assembly)
}

// ValidateGenerated validates prog, treating lines spliced from asm: blocks
// as user code.
func ValidateGenerated(prog *asm.Program) error {
	validator := NewValidator()
	validator.verbatim = prog.VerbatimLines()
	return validator.Validate(prog.String())
}
