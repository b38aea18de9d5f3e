package simplec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestChecker() (*Checker, *Reporter) {
	r := NewReporter(nil)
	c := NewChecker(r)
	c.OpenScope()
	return c, r
}

func TestDeclareVariableRejectsVoidObject(t *testing.T) {
	c, r := newTestChecker()
	c.DeclareVariable("v", ScalarType(Void, 0))
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "has type void")
}

func TestDeclareVariableAllowsVoidPointer(t *testing.T) {
	c, r := newTestChecker()
	c.DeclareVariable("v", ScalarType(Void, 1))
	require.Empty(t, r.Messages)
}

func TestDeclareVariableRedeclarationInNestedScope(t *testing.T) {
	c, r := newTestChecker()

	c.OpenScope()
	c.DeclareVariable("x", ScalarType(Int, 0))
	c.DeclareVariable("x", ScalarType(Int, 0))
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "redeclaration")
}

func TestDeclareVariableConflictingAtOutermost(t *testing.T) {
	c, r := newTestChecker()
	c.DeclareVariable("x", ScalarType(Int, 0))
	c.DeclareVariable("x", ScalarType(Char, 0))
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "conflicting")
}

func TestDeclareFunctionMatchingPrototypeIsSilent(t *testing.T) {
	c, r := newTestChecker()
	typ := FunctionType(Int, 0, nil)
	c.DeclareFunction("f", typ)
	c.DeclareFunction("f", typ)
	require.Empty(t, r.Messages)
}

func TestDefineFunctionAfterDefinitionIsRedefinition(t *testing.T) {
	c, r := newTestChecker()
	params := []Type{}
	typ := FunctionType(Int, 0, &params)
	c.DefineFunction("f", typ)
	c.DefineFunction("f", typ)
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "redefinition")
}

func TestCheckIdentifierUndeclaredInsertsIntoInnermostFrame(t *testing.T) {
	c, r := newTestChecker()
	c.OpenScope()

	sym := c.CheckIdentifier("ghost")
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "undeclared")
	require.True(t, sym.Type.IsError())

	// Reproduced per spec.md §9: the ERROR symbol lands in the
	// innermost frame, not the outermost one.
	require.Nil(t, c.scope.FindOutermost("ghost"))
	require.NotNil(t, c.scope.Find("ghost"))

	// A second reference in the same scope is now silently resolved,
	// suppressing a cascading diagnostic.
	again := c.CheckIdentifier("ghost")
	require.Len(t, r.Messages, 1)
	require.Same(t, sym, again)
}

func TestCheckAdditionPointerPlusInt(t *testing.T) {
	c, _ := newTestChecker()
	result := c.CheckAddition(ScalarType(Int, 1), ScalarType(Int, 0))
	require.True(t, result.IsPointer())
	require.Equal(t, Int, result.Specifier)
}

func TestCheckAdditionVoidPointerRejected(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckAddition(ScalarType(Void, 1), ScalarType(Int, 0))
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
}

func TestCheckSubtractionPointerMinusPointerIsLong(t *testing.T) {
	c, _ := newTestChecker()
	result := c.CheckSubtraction(ScalarType(Int, 1), ScalarType(Int, 1))
	require.True(t, result.Equal(ScalarType(Long, 0)))
}

func TestCheckSubtractionMismatchedPointerSpecifiers(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckSubtraction(ScalarType(Int, 1), ScalarType(Char, 1))
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
}

func TestCheckDereferenceVoidPointerRejected(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckDereference(ScalarType(Void, 1))
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
}

func TestCheckDereferenceOrdinaryPointer(t *testing.T) {
	c, _ := newTestChecker()
	result := c.CheckDereference(ScalarType(Int, 1))
	require.True(t, result.Equal(ScalarType(Int, 0)))
}

func TestCheckAddressRequiresLvalue(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckAddress(ScalarType(Int, 0), false)
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "lvalue")
}

func TestCheckIndexRejectsVoidPointerBase(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckIndex(ScalarType(Void, 1), ScalarType(Int, 0))
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
}

func TestCheckFunctionUnspecifiedArityIsLenient(t *testing.T) {
	c, r := newTestChecker()
	typ := FunctionType(Int, 0, nil)
	result := c.CheckFunction(typ, []Type{ScalarType(Int, 0), ScalarType(Int, 0), ScalarType(Int, 0)})
	require.True(t, result.Equal(ScalarType(Int, 0)))
	require.Empty(t, r.Messages, "an unspecified parameter list accepts any arity")
}

func TestCheckFunctionArityMismatch(t *testing.T) {
	c, r := newTestChecker()
	params := []Type{ScalarType(Int, 0)}
	typ := FunctionType(Int, 0, &params)
	result := c.CheckFunction(typ, nil)
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "invalid arguments")
}

func TestCheckFunctionNotCallable(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckFunction(ScalarType(Int, 0), nil)
	require.True(t, result.IsError())
	require.Contains(t, r.Messages[0], "not a function")
}

func TestCheckSizeOfRejectsFunction(t *testing.T) {
	c, r := newTestChecker()
	result := c.CheckSizeOf(FunctionType(Int, 0, nil))
	require.True(t, result.IsError())
	require.Len(t, r.Messages, 1)
}

func TestCheckSizeOfAcceptsScalar(t *testing.T) {
	c, _ := newTestChecker()
	result := c.CheckSizeOf(ScalarType(Long, 0))
	require.True(t, result.Equal(ScalarType(Long, 0)))
}

func TestCheckAssignmentRequiresLvalueAndCompatibility(t *testing.T) {
	c, r := newTestChecker()
	c.CheckAssignment(ScalarType(Int, 0), ScalarType(Int, 0), false)
	require.Len(t, r.Messages, 1)
	require.Contains(t, r.Messages[0], "lvalue")

	c2, r2 := newTestChecker()
	c2.CheckAssignment(ScalarType(Int, 1), ScalarType(Char, 1), true)
	require.Len(t, r2.Messages, 1)
	require.Contains(t, r2.Messages[0], "invalid operands")
}

func TestErrorPropagationSuppressesCascadingDiagnostics(t *testing.T) {
	c, r := newTestChecker()
	errResult := c.CheckDereference(ScalarType(Void, 1))
	require.True(t, errResult.IsError())
	require.Len(t, r.Messages, 1)

	// Using the ERROR type as an operand must not raise a second
	// diagnostic.
	c.CheckAddition(errResult, ScalarType(Int, 0))
	require.Len(t, r.Messages, 1)
}
