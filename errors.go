package simplec

import (
	"fmt"
	"os"
)

// SyntaxError is the error thrown by the parser on the first grammar
// mismatch. The parser never recovers from one: the driver that
// catches it exits the process with a nonzero status, per spec.md §6.
type SyntaxError struct {
	Lexeme string
	AtEOF  bool
	Pos    Location
}

func (e SyntaxError) Error() string {
	if e.AtEOF {
		return "syntax error at end of file"
	}
	return fmt.Sprintf("syntax error at '%s'", e.Lexeme)
}

// Reporter collects diagnostics written by Report during checking,
// so callers (tests, the CLI) can inspect what was printed without
// scraping stderr. It mirrors spec.md §6's single report(format,
// name?) function.
type Reporter struct {
	Out      *os.File
	Messages []string
}

// NewReporter returns a Reporter writing to w (os.Stderr in
// production; nil in tests, which only read Messages).
func NewReporter(w *os.File) *Reporter {
	return &Reporter{Out: w}
}

// Report formats msg with args (interpolated into %s, per spec.md §6)
// and writes it to the reporter's stream, recording it for inspection.
func (r *Reporter) Report(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Messages = append(r.Messages, msg)
	if r.Out != nil {
		fmt.Fprintln(r.Out, msg)
	}
}

// Diagnostic message templates, spec.md §7.
const (
	msgRedefinition  = "redefinition of '%s'"
	msgRedeclaration = "redeclaration of '%s'"
	msgConflicting   = "conflicting types for '%s'"
	msgUndeclared    = "'%s' undeclared"
	msgVoidObject    = "'%s' has type void"

	msgInvalidReturn      = "invalid return type"
	msgInvalidTest        = "invalid type for test expression"
	msgLvalueRequired     = "lvalue required in expression"
	msgInvalidBinaryOp    = "invalid operands to binary %s"
	msgInvalidUnaryOp     = "invalid operand to unary %s"
	msgNotAFunction       = "called object is not a function"
	msgInvalidArguments   = "invalid arguments to called function"
)
