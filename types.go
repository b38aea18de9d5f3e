package simplec

import (
	"strconv"
	"strings"
)

// Specifier is the base type keyword of a Simple C declaration.
type Specifier int

const (
	specifierError Specifier = iota
	Int
	Char
	Long
	Void
	// character is the specifier the parser assigns to a character
	// literal. It is numerically distinct from Char: original_source's
	// primaryExpression types a CHARACTER token as Type(CHARACTER), not
	// Type(CHAR). See SPEC_FULL.md §6/§8.
	character
)

func (s Specifier) String() string {
	switch s {
	case Int:
		return "int"
	case Char:
		return "char"
	case Long:
		return "long"
	case Void:
		return "void"
	case character:
		return "char"
	default:
		return "<error>"
	}
}

// declarator is the shape of a Type: a scalar, an array, a function, or
// the distinguished error type that absorbs all further checks.
type declarator int

const (
	declScalar declarator = iota
	declArray
	declFunction
	declError
)

// Type models one Simple C type: a declarator plus its specifier,
// indirection (pointer depth), and declarator-specific payload (array
// length, or a function's parameter list).
//
// Parameters is nil to mean "unspecified" (a bare declaration like
// f()) and non-nil (possibly empty) for a definition or prototype.
type Type struct {
	declarator declarator
	Specifier  Specifier
	Indirection int
	Length      uint64
	Parameters  *[]Type
}

// ErrorType is the distinguished error type. It equals itself and
// absorbs all checks: every checker rule returns it instead of
// cascading a diagnostic from an already-erroneous operand.
var ErrorType = Type{declarator: declError}

// ScalarType builds a scalar type: specifier with the given pointer
// indirection.
func ScalarType(spec Specifier, indirection int) Type {
	return Type{declarator: declScalar, Specifier: spec, Indirection: indirection}
}

// ArrayType builds a fixed-size array type.
func ArrayType(spec Specifier, indirection int, length uint64) Type {
	return Type{declarator: declArray, Specifier: spec, Indirection: indirection, Length: length}
}

// FunctionType builds a function type. params is nil for an
// unspecified parameter list (a bare declaration), and a non-nil slice
// (possibly empty) for a definition or prototype.
func FunctionType(spec Specifier, indirection int, params *[]Type) Type {
	return Type{declarator: declFunction, Specifier: spec, Indirection: indirection, Parameters: params}
}

func (t Type) IsScalar() bool   { return t.declarator == declScalar }
func (t Type) IsArray() bool    { return t.declarator == declArray }
func (t Type) IsFunction() bool { return t.declarator == declFunction }
func (t Type) IsError() bool    { return t.declarator == declError }

// Promote implements array-to-pointer decay. Every other type
// promotes to itself. Promotion is applied wherever an r-value is
// expected: binary operators, indexing, function arguments, and
// dereference.
func (t Type) Promote() Type {
	if t.declarator != declArray {
		return t
	}
	return ScalarType(t.Specifier, t.Indirection+1)
}

// IsPointer reports whether t, after promotion, has nonzero
// indirection.
func (t Type) IsPointer() bool {
	p := t.Promote()
	return p.declarator == declScalar && p.Indirection >= 1
}

// IsNumeric reports whether t is one of INT, CHAR, LONG (including the
// CHARACTER literal specifier, per the original source's treatment of
// character-literal types) with zero indirection. Arrays never
// qualify, even element-wise, since IsNumeric does not promote.
func (t Type) IsNumeric() bool {
	if t.declarator != declScalar || t.Indirection != 0 {
		return false
	}
	switch t.Specifier {
	case Int, Char, Long, character:
		return true
	default:
		return false
	}
}

// IsPredicate reports whether t, after promotion, is scalar — i.e.
// suitable for a boolean test (numeric or pointer).
func (t Type) IsPredicate() bool {
	p := t.Promote()
	if p.declarator != declScalar {
		return false
	}
	return p.IsNumeric() || p.Indirection >= 1
}

// IsCompatibleWith reports whether two types, after promotion, are
// either both pointers to the same specifier with the same
// indirection, or both numeric.
func (t Type) IsCompatibleWith(other Type) bool {
	a, b := t.Promote(), other.Promote()
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	if a.declarator == declScalar && b.declarator == declScalar && a.Indirection >= 1 && b.Indirection >= 1 {
		return a.Specifier == b.Specifier && a.Indirection == b.Indirection
	}
	return false
}

// Equal implements the equality rules of spec.md §3: declarator must
// match; ERROR equals itself unconditionally; SCALAR compares
// specifier+indirection; ARRAY additionally compares length; FUNCTION
// additionally compares parameter lists element-wise, treating either
// side's unspecified list as compatible with anything.
func (t Type) Equal(other Type) bool {
	if t.declarator != other.declarator {
		return false
	}
	if t.declarator == declError {
		return true
	}
	if t.Specifier != other.Specifier || t.Indirection != other.Indirection {
		return false
	}
	switch t.declarator {
	case declScalar:
		return true
	case declArray:
		return t.Length == other.Length
	case declFunction:
		if t.Parameters == nil || other.Parameters == nil {
			return true
		}
		a, b := *t.Parameters, *other.Parameters
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Size returns the byte size of t, used only by code generation.
// CHAR (and the character-literal specifier) is 1, INT is 4, LONG and
// every pointer are 8, and ARRAY(T[N]) is N times its element size.
func (t Type) Size() int {
	if t.declarator == declArray {
		elem := ScalarType(t.Specifier, t.Indirection)
		return int(t.Length) * elem.Size()
	}
	if t.Indirection > 0 {
		return 8
	}
	switch t.Specifier {
	case Char, character:
		return 1
	case Int:
		return 4
	case Long:
		return 8
	case Void:
		return 0
	}
	return 0
}

// String renders t for diagnostics, e.g. "int", "int*", "int[3]",
// "char()". Grounded on original_source/phase3/type.cpp's
// operator<<.
func (t Type) String() string {
	if t.IsError() {
		return "<error>"
	}
	var b strings.Builder
	b.WriteString(t.Specifier.String())
	for i := 0; i < t.Indirection; i++ {
		b.WriteByte('*')
	}
	switch t.declarator {
	case declArray:
		b.WriteByte('[')
		b.WriteString(strconv.FormatUint(t.Length, 10))
		b.WriteByte(']')
	case declFunction:
		b.WriteString("()")
	}
	return b.String()
}
