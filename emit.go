package simplec

import (
	"fmt"
	"io"
)

// emitter is a thin wrapper over an io.Writer providing the
// tab-indented instruction/label writing helpers the code generator
// needs. Grounded on the teacher's outputWriter (gen.go), which wraps
// a strings.Builder with write/writel/writei helpers; here we write
// straight through to the CLI's io.Writer since assembly output is a
// single forward pass with no tree to re-indent.
type emitter struct {
	w io.Writer
}

func newEmitter(w io.Writer) *emitter {
	return &emitter{w: w}
}

// Label writes "name:\n".
func (e *emitter) Label(name fmt.Stringer) {
	fmt.Fprintf(e.w, "%s:\n", name)
}

// Inst writes a tab-indented instruction line: "\tOP\tARGS\n".
func (e *emitter) Inst(op, args string) {
	if args == "" {
		fmt.Fprintf(e.w, "\t%s\n", op)
		return
	}
	fmt.Fprintf(e.w, "\t%s\t%s\n", op, args)
}

// Instf is Inst with a formatted argument string.
func (e *emitter) Instf(op, format string, args ...any) {
	e.Inst(op, fmt.Sprintf(format, args...))
}

// Directive writes a tab-indented assembler directive, e.g.
// ".globl\tname".
func (e *emitter) Directive(format string, args ...any) {
	fmt.Fprintf(e.w, "\t%s\n", fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (e *emitter) Blank() {
	fmt.Fprintln(e.w)
}

// Raw writes s verbatim, no indentation or trailing newline added.
func (e *emitter) Raw(s string) {
	fmt.Fprint(e.w, s)
}
