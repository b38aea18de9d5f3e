package simplec

import "fmt"

// Location is a 1-based line/column position in the source, paired
// with a 0-based cursor counting runes. Grounded on the teacher's pos.go
// Location/Span types; the original C++ lexer only reports the
// offending lexeme, so carrying a Location is an enrichment, not a
// contract requirement (spec.md §6 doesn't mention positions at all).
type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
