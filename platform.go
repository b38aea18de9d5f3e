package simplec

// Platform selects the target object format, which only affects the
// global symbol prefix/suffix (spec.md §6): ELF systems use no
// prefix, Mach-O systems prefix globals with "_".
type Platform int

const (
	PlatformELF Platform = iota
	PlatformMachO
)

// ParsePlatform maps a CLI/target string to a Platform, defaulting to
// ELF for anything unrecognized.
func ParsePlatform(name string) Platform {
	if name == "macho" {
		return PlatformMachO
	}
	return PlatformELF
}

func (p Platform) GlobalPrefix() string {
	if p == PlatformMachO {
		return "_"
	}
	return ""
}

func (p Platform) GlobalSuffix() string {
	return ""
}

const (
	// StackAlignment is the required alignment, in bytes, of %rsp at
	// a call instruction.
	StackAlignment = 16
	// NumParamRegs is the number of integer/pointer arguments passed
	// in registers under the System V AMD64 ABI.
	NumParamRegs = 6
	// SizeofParam is the size, in bytes, of one stack-passed argument
	// slot.
	SizeofParam = 8
	// SizeofReg is the width, in bytes, of one saved register slot
	// (used to compute the stack-passed parameter area's starting
	// offset, just past the saved %rbp and return address).
	SizeofReg = 8
)
