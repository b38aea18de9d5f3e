package simplec

import "strconv"

// Label is an assembler label of the form ".L<n>", generated by a
// monotonically increasing counter (spec.md §4.4).
type Label struct {
	id int
}

func (l Label) String() string {
	return ".L" + strconv.Itoa(l.id)
}
