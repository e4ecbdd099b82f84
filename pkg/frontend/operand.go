package frontend

import (
	"strconv"
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
)

// Operand is a classified value-producing expression.
type Operand interface {
	operand()
}

// AddressOf is `^name`: the address of a variable.
type AddressOf struct {
	Name string
}

// VarRef is a bare variable name.
type VarRef struct {
	Name string
}

// StringLit holds the literal's text between the quotes, unescaped.
type StringLit struct {
	Text string
}

// CallExpr is `name(args)` or, with Mangled set, `^name(args)`.
type CallExpr struct {
	Name    string
	Mangled bool
	Args    []string
	Text    string
}

// Symbol is the assembly symbol the call targets.
func (c CallExpr) Symbol() string {
	if c.Mangled {
		return "_" + c.Name
	}
	return c.Name
}

type IntLit struct {
	Value int32
}

func (AddressOf) operand() {}
func (VarRef) operand()    {}
func (StringLit) operand() {}
func (CallExpr) operand()  {}
func (IntLit) operand()    {}

// ClassifyOperand classifies operand text in priority order: address-of,
// variable, string literal, call, integer literal.
func ClassifyOperand(text string) (Operand, error) {
	text = strings.TrimSpace(text)

	if m := addressOfRe.FindStringSubmatch(text); m != nil {
		return AddressOf{Name: m[1]}, nil
	}
	if identRe.MatchString(text) {
		return VarRef{Name: text}, nil
	}
	if m := stringLitRe.FindStringSubmatch(text); m != nil {
		return StringLit{Text: m[1]}, nil
	}
	if call, ok := parseCall(text); ok {
		return call, nil
	}
	if intLitRe.MatchString(text) {
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, diag.Newf(diag.ErrUnclassifiableOperand, text, "integer out of 32-bit range")
		}
		return IntLit{Value: int32(v)}, nil
	}
	return nil, diag.New(diag.ErrUnclassifiableOperand, text)
}

func parseCall(text string) (CallExpr, bool) {
	m := callRe.FindStringSubmatch(text)
	if m == nil {
		return CallExpr{}, false
	}
	return CallExpr{
		Name:    m[2],
		Mangled: m[1] == "^",
		Args:    SplitArgs(m[3]),
		Text:    text,
	}, true
}

// SplitArgs splits an argument list on commas outside parentheses and
// double-quoted strings. Inside a string a backslash escapes the next
// character. Empty arguments are dropped.
func SplitArgs(list string) []string {
	var args []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			args = append(args, s)
		}
	}

	depth, last, quoted := 0, 0, false
	for i := 0; i < len(list); i++ {
		switch c := list[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			add(list[last:i])
			last = i + 1
		}
	}
	add(list[last:])
	return args
}
