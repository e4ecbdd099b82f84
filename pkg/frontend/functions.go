package frontend

import (
	"regexp"
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/logger"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/source"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/symtab"
)

var (
	signatureRe = regexp.MustCompile(`^def[ ]+(` + identPattern + `)[ ]*\((.*)\)[ ]*:\s*$`)
	paramRe     = regexp.MustCompile(`^\s*(int|char|str)[ ]+(` + identPattern + `)\s*$`)
)

// EntrySymbol is the symbol emitted for the source function "main".
const EntrySymbol = "_main"

// Param is one typed function parameter.
type Param struct {
	Kind symtab.Kind
	Name string
}

// Function is one top-level function definition.
type Function struct {
	Name   string // assembly symbol
	Source string // name as written
	Line   int    // signature line index
	Params []Param
	Body   source.Block
}

// MangleName returns the assembly symbol for a source function name.
func MangleName(name string) string {
	if name == "main" {
		return EntrySymbol
	}
	return name
}

// ParseSignature parses `def name(type a, type b):`. It reports false if
// line is not a well-formed signature.
func ParseSignature(line string) (name string, params []Param, ok bool) {
	m := signatureRe.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	list := strings.TrimSpace(m[2])
	if list == "" {
		return m[1], nil, true
	}
	for _, part := range strings.Split(list, ",") {
		pm := paramRe.FindStringSubmatch(part)
		if pm == nil {
			return "", nil, false
		}
		kind, _ := symtab.ParseKind(pm[1])
		params = append(params, Param{Kind: kind, Name: pm[2]})
	}
	return m[1], params, true
}

// Discover finds every top-level function in source order. A body runs
// from the line after the signature to the last line before the next
// non-blank depth-0 line.
func Discover(lines source.Lines) ([]*Function, error) {
	var funcs []*Function
	seen := make(map[string]bool)
	var current *Function

	closeAt := func(end int) {
		if current != nil {
			current.Body.End = end
			funcs = append(funcs, current)
			current = nil
		}
	}

	for i, line := range lines {
		if source.Depth(line) > 0 || source.Blank(line) {
			continue
		}
		closeAt(i - 1)

		name, params, ok := ParseSignature(line)
		if !ok {
			continue
		}
		symbol := MangleName(name)
		if seen[symbol] {
			err := diag.New(diag.ErrDuplicateFunctionName, symbol)
			return nil, diag.AtLine(err, i)
		}
		seen[symbol] = true

		current = &Function{
			Name:   symbol,
			Source: name,
			Line:   i,
			Params: params,
			Body:   source.Block{Start: i + 1},
		}
		logger.LogFunctionDiscovered(symbol, len(params), i+1)
	}
	closeAt(len(lines) - 1)

	return funcs, nil
}
