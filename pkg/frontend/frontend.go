// Package frontend classifies PySharp source text.
//
// Design: every line is classified once into a small tagged union, in a
// fixed priority order. There is no AST; the code generator walks lines
// and blocks directly and asks the frontend what each one is.
package frontend

import (
	"regexp"
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

const identPattern = `[A-Za-z][A-Za-z0-9_]*`

var (
	identRe       = regexp.MustCompile(`^` + identPattern + `$`)
	declRe        = regexp.MustCompile(`^(int|char|str)[ ]+(` + identPattern + `)\s*$`)
	asmRe         = regexp.MustCompile(`^asm:\s*$`)
	assignRe      = regexp.MustCompile(`^(` + identPattern + `)\s*(\+\+|\+=|=)`)
	callRe        = regexp.MustCompile(`^(\^)?(` + identPattern + `)[ ]*\((.*)\)$`)
	ifRe          = regexp.MustCompile(`^if[ ]*\((.*)\)[ ]*:\s*$`)
	retRe         = regexp.MustCompile(`^ret[ ]+(.+)$`)
	addressOfRe   = regexp.MustCompile(`^\^(` + identPattern + `)$`)
	stringLitRe   = regexp.MustCompile(`^"(.*)"$`)
	intLitRe      = regexp.MustCompile(`^[+-]?[0-9]+$`)
	asmVariableRe = regexp.MustCompile(`\^(` + identPattern + `)`)
)

// Stmt is one classified source line.
type Stmt interface {
	stmt()
}

type Comment struct{}

type Declaration struct {
	Kind symtab.Kind
	Name string
}

type AsmMarker struct{}

// Assignment covers `x = v`, `x += v` and `x++`. Only "=" carries a Value
// that the code generator lowers.
type Assignment struct {
	Target string
	Op     string
	Value  string
}

type CallStatement struct {
	Call CallExpr
}

type IfStatement struct {
	Condition string
}

type Return struct {
	Value string
}

// Unknown is any line that matches nothing; it compiles to nothing.
type Unknown struct {
	Text string
}

func (Comment) stmt()       {}
func (Declaration) stmt()   {}
func (AsmMarker) stmt()     {}
func (Assignment) stmt()    {}
func (CallStatement) stmt() {}
func (IfStatement) stmt()   {}
func (Return) stmt()        {}
func (Unknown) stmt()       {}

// ClassifyLine classifies a raw source line. The first matching kind wins:
// comment, declaration, asm marker, assignment, call, if, return.
func ClassifyLine(line string) Stmt {
	text := strings.TrimSpace(line)

	if strings.HasPrefix(text, "#") {
		return Comment{}
	}
	if m := declRe.FindStringSubmatch(text); m != nil {
		kind, _ := symtab.ParseKind(m[1])
		return Declaration{Kind: kind, Name: m[2]}
	}
	if asmRe.MatchString(text) {
		return AsmMarker{}
	}
	if m := assignRe.FindStringSubmatchIndex(text); m != nil {
		op := text[m[4]:m[5]]
		rest := text[m[1]:]
		// "x == y" is a comparison, not an assignment.
		if !(op == "=" && strings.HasPrefix(rest, "=")) {
			a := Assignment{Target: text[m[2]:m[3]], Op: op}
			if op == "=" {
				a.Value = strings.TrimSpace(rest)
			}
			return a
		}
	}
	if call, ok := parseCall(text); ok {
		return CallStatement{Call: call}
	}
	if m := ifRe.FindStringSubmatch(text); m != nil {
		return IfStatement{Condition: strings.TrimSpace(m[1])}
	}
	if m := retRe.FindStringSubmatch(text); m != nil {
		return Return{Value: strings.TrimSpace(m[1])}
	}
	return Unknown{Text: text}
}

// AsmReference is one ^name marker inside an inline-assembly line.
type AsmReference struct {
	Name       string
	Start, End int
}

// AsmReferences lists the ^name markers of an inline-assembly line.
func AsmReferences(line string) []AsmReference {
	var refs []AsmReference
	for _, m := range asmVariableRe.FindAllStringSubmatchIndex(line, -1) {
		refs = append(refs, AsmReference{Name: line[m[2]:m[3]], Start: m[0], End: m[1]})
	}
	return refs
}
