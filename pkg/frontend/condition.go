package frontend

import (
	"strings"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
)

// Comparison operators, longest first so "<=" wins over "<".
var comparisonOps = []string{"==", "!=", "<=", ">=", "<", ">"}

// Comparison is one binary comparison term of a condition.
type Comparison struct {
	Op    string
	Left  string
	Right string
}

// Condition is an OR of AND-groups of comparisons.
type Condition struct {
	Groups [][]Comparison
}

// ParseCondition parses the text between "if(" and "):".
//
// Only top-level "||" and "&&" split the condition. A term wrapped in
// parentheses is unwrapped, but a term whose parenthesized body still holds
// a boolean operator is rejected: grouping is not interpreted.
func ParseCondition(text string) (Condition, error) {
	var cond Condition
	for _, group := range splitTopLevel(text, "||") {
		var terms []Comparison
		for _, term := range splitTopLevel(group, "&&") {
			cmp, err := parseComparison(term)
			if err != nil {
				return Condition{}, err
			}
			terms = append(terms, cmp)
		}
		cond.Groups = append(cond.Groups, terms)
	}
	return cond, nil
}

func parseComparison(term string) (Comparison, error) {
	text := unwrapParens(strings.TrimSpace(term))
	if text == "" {
		return Comparison{}, diag.Newf(diag.ErrMalformedCondition, term, "empty term")
	}
	if len(splitTopLevel(text, "||")) > 1 || len(splitTopLevel(text, "&&")) > 1 {
		return Comparison{}, diag.Newf(diag.ErrMalformedCondition, term, "nested boolean grouping is not supported")
	}

	pos, op := findOperator(text)
	if pos < 0 {
		return Comparison{}, diag.Newf(diag.ErrMalformedCondition, term, "no comparison operator")
	}
	left := strings.TrimSpace(text[:pos])
	right := strings.TrimSpace(text[pos+len(op):])
	if left == "" || right == "" {
		return Comparison{}, diag.Newf(diag.ErrMalformedCondition, term, "missing operand")
	}
	return Comparison{Op: op, Left: left, Right: right}, nil
}

// splitTopLevel splits s on sep where sep occurs outside parentheses and
// strings.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth, last, quoted := 0, 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[last:i])
			last = i + len(sep)
			i += len(sep) - 1
		}
	}
	return append(parts, s[last:])
}

// findOperator returns the first top-level comparison operator in s.
func findOperator(s string) (int, string) {
	depth, quoted := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0:
			for _, op := range comparisonOps {
				if strings.HasPrefix(s[i:], op) {
					return i, op
				}
			}
		}
	}
	return -1, ""
}

// unwrapParens strips parentheses that enclose the whole of s.
func unwrapParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && closingParen(s) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// closingParen returns the index of the parenthesis matching s[0].
func closingParen(s string) int {
	depth, quoted := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
