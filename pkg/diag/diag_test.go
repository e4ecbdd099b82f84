package diag

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrUnknownVariableReference, "x"), `unknown variable reference "x"`},
		{&Error{Kind: ErrMalformedCondition, Subject: "a", Detail: "no comparison operator", Line: 4},
			`line 4: malformed condition "a": no comparison operator`},
		{&Error{Kind: ErrDuplicateFunctionName, Subject: "f", File: "m.pys", Line: 9},
			`m.pys:9: duplicate function name "f"`},
		{&Error{Kind: ErrUnclassifiableOperand, File: "m.pys"}, `m.pys: unclassifiable operand`},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestPositioning(t *testing.T) {
	err := AtLine(New(ErrUnknownVariableReference, "x"), 2)
	if LineOf(err) != 3 {
		t.Errorf("LineOf = %d, want 3", LineOf(err))
	}

	// The innermost position wins.
	err = AtLine(err, 0)
	if LineOf(err) != 3 {
		t.Errorf("AtLine overwrote an existing line: %d", LineOf(err))
	}

	wrapped := InFile(fmt.Errorf("compile: %w", err), "a.pys")
	if !errors.Is(wrapped, ErrUnknownVariableReference) {
		t.Error("wrapped error lost its kind")
	}
	var de *Error
	if !errors.As(wrapped, &de) || de.File != "a.pys" {
		t.Errorf("InFile did not reach the wrapped error: %v", wrapped)
	}
}

func TestPlainErrorsPassThrough(t *testing.T) {
	plain := errors.New("boom")
	if AtLine(plain, 5) != plain || InFile(plain, "x") != plain {
		t.Error("non-diag errors must be returned unchanged")
	}
	if LineOf(plain) != 0 {
		t.Error("LineOf of a plain error must be 0")
	}
}
