package interpreter

import (
	"fmt"
	"strings"

	"yamlscript/interpreter-go/pkg/ast"
)

// ErrorKind classifies evaluation failures. Kinds are themselves errors so
// callers can test with errors.Is(err, interpreter.UnboundName).
type ErrorKind string

const (
	MalformedProgram       ErrorKind = "MalformedProgram"
	UnboundName            ErrorKind = "UnboundName"
	UnresolvedIndirectCall ErrorKind = "UnresolvedIndirectCall"
	UnknownFunction        ErrorKind = "UnknownFunction"
	HostCallFailed         ErrorKind = "HostCallFailed"
	DepthExceeded          ErrorKind = "DepthExceeded"
)

func (k ErrorKind) Error() string { return string(k) }

// Error is the single error type raised by evaluation. It is created at the
// point of detection and returned unchanged through every enclosing Eval.
type Error struct {
	Kind    ErrorKind
	Name    string
	Span    ast.Span
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if !e.Span.IsZero() {
		fmt.Fprintf(&b, " (at %s)", e.Span)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind ErrorKind, span ast.Span, name string, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Span: span, Message: fmt.Sprintf(format, args...)}
}

func malformed(span ast.Span, format string, args ...any) *Error {
	return newError(MalformedProgram, span, "", format, args...)
}
