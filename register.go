package simplec

// Register is one physical general-purpose register, named at each of
// the three operand widths Simple C needs (1/4/8 bytes). It holds a
// weak, bidirectional binding to the Expr currently resident in it:
// when node is non-nil, node's own register field points back here.
// Grounded on original_source/phase6/generator.cpp's Register class
// and spec.md §9's "cyclic register<->node links" note, modeled here
// as a pair of plain pointers rather than owning references — eviction
// (assign) writes through both sides to nil atomically.
type Register struct {
	name8, name32, name64 string
	node                  Expr
}

// Name returns this register's name at the given operand size in
// bytes (1, 4, or 8).
func (r *Register) Name(size int) string {
	switch size {
	case 1:
		return r.name8
	case 4:
		return r.name32
	default:
		return r.name64
	}
}

func newRegisterFile() (pool []*Register, params []*Register) {
	rax := &Register{name64: "%rax", name32: "%eax", name8: "%al"}
	rdi := &Register{name64: "%rdi", name32: "%edi", name8: "%dil"}
	rsi := &Register{name64: "%rsi", name32: "%esi", name8: "%sil"}
	rdx := &Register{name64: "%rdx", name32: "%edx", name8: "%dl"}
	rcx := &Register{name64: "%rcx", name32: "%ecx", name8: "%cl"}
	r8 := &Register{name64: "%r8", name32: "%r8d", name8: "%r8b"}
	r9 := &Register{name64: "%r9", name32: "%r9d", name8: "%r9b"}
	r10 := &Register{name64: "%r10", name32: "%r10d", name8: "%r10b"}
	r11 := &Register{name64: "%r11", name32: "%r11d", name8: "%r11b"}

	pool = []*Register{rax, rdi, rsi, rdx, rcx, r8, r9, r10, r11}
	params = []*Register{rdi, rsi, rdx, rcx, r8, r9}
	return pool, params
}
