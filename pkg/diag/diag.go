// Package diag defines the compiler's error taxonomy.
//
// Every failure is unrecoverable at the point it is raised: the whole
// compilation run aborts and no assembly is handed back.
package diag

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrDuplicateFunctionName    = errors.New("duplicate function name")
	ErrUnknownVariableReference = errors.New("unknown variable reference")
	ErrUnclassifiableOperand    = errors.New("unclassifiable operand")
	ErrMalformedCondition       = errors.New("malformed condition")
)

// Error is a positioned compilation error.
type Error struct {
	Kind    error
	File    string
	Line    int // 1-based, 0 when not yet known
	Subject string
	Detail  string
}

// New returns an unpositioned error of the given kind about subject.
func New(kind error, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Newf is New with a formatted detail message.
func Newf(kind error, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Subject != "" {
		msg += fmt.Sprintf(" %q", e.Subject)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// AtLine attaches a 0-based source line index to err if it is a *Error
// without a position. Other errors are returned unchanged.
func AtLine(err error, index int) error {
	var de *Error
	if errors.As(err, &de) && de.Line == 0 {
		de.Line = index + 1
	}
	return err
}

// InFile attaches a file name to err if it is a *Error without one.
func InFile(err error, file string) error {
	var de *Error
	if errors.As(err, &de) && de.File == "" {
		de.File = file
	}
	return err
}

// LineOf reports the 1-based line of err, or 0.
func LineOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Line
	}
	return 0
}
