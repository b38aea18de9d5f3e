package simplec

// Checker holds the semantic-analysis state: the scope stack and the
// diagnostic reporter. The parser holds an exclusive reference to one
// Checker and calls its check* functions synchronously as each
// production reduces (spec.md §9 "Mutually recursive parser &
// checker"). Grounded on original_source/phase4/checker.{h,cpp}.
type Checker struct {
	scope    *Scope
	reporter *Reporter
}

// NewChecker returns a Checker with an empty scope stack.
func NewChecker(reporter *Reporter) *Checker {
	return &Checker{scope: NewScope(), reporter: reporter}
}

func (c *Checker) OpenScope()         { c.scope.OpenScope() }
func (c *Checker) CloseScope() []*Symbol { return c.scope.CloseScope() }
func (c *Checker) Outermost() []*Symbol  { return c.scope.Outermost() }

// DeclareFunction declares name with type in the outermost scope. A
// prior declaration with an incompatible type is reported as
// conflicting; a matching prior declaration is a silent no-op.
func (c *Checker) DeclareFunction(name string, typ Type) *Symbol {
	if sym := c.scope.FindOutermost(name); sym != nil {
		if !typ.Equal(sym.Type) {
			c.reporter.Report(msgConflicting, name)
		}
		return sym
	}
	sym := newSymbol(name, typ)
	c.scope.InsertOutermost(sym)
	return sym
}

// DefineFunction defines name with type in the outermost scope,
// always replacing any previous declaration or definition. A previous
// *definition* (a function symbol with a specified parameter list) is
// reported as a redefinition; a previous declaration with a different
// type is reported as conflicting.
func (c *Checker) DefineFunction(name string, typ Type) *Symbol {
	if sym := c.scope.FindOutermost(name); sym != nil {
		if sym.Type.IsFunction() && sym.Type.Parameters != nil {
			c.reporter.Report(msgRedefinition, name)
		} else if !typ.Equal(sym.Type) {
			c.reporter.Report(msgConflicting, name)
		}
		c.scope.RemoveOutermost(name)
	}
	sym := newSymbol(name, typ)
	c.scope.InsertOutermost(sym)
	return sym
}

// DeclareVariable declares name with type in the current scope. A
// void non-pointer object is rejected. A redeclaration in a nested
// (non-outermost) scope is reported and discarded; a redeclaration in
// the outermost scope with a differing type is reported as
// conflicting.
func (c *Checker) DeclareVariable(name string, typ Type) *Symbol {
	if sym := c.scope.Find(name); sym != nil {
		if !c.scope.AtOutermost() {
			c.reporter.Report(msgRedeclaration, name)
		} else if !typ.Equal(sym.Type) {
			c.reporter.Report(msgConflicting, name)
		}
		return sym
	}

	if typ.Specifier == Void && typ.Indirection == 0 {
		c.reporter.Report(msgVoidObject, name)
	}
	sym := newSymbol(name, typ)
	c.scope.Insert(sym)
	return sym
}

// CheckIdentifier looks up name and reports it as undeclared if
// absent, inserting an ERROR-typed symbol into the *current*
// (innermost) frame to suppress cascading errors for this name within
// the current scope. This is the original's "checkIdentifier inserts
// into the innermost frame" locality, kept intentionally (spec.md §9,
// SPEC_FULL.md §6/§8) even though it can mask a legitimate outer
// declaration of the same name later in the same scope.
func (c *Checker) CheckIdentifier(name string) *Symbol {
	if sym := c.scope.Lookup(name); sym != nil {
		return sym
	}
	c.reporter.Report(msgUndeclared, name)
	sym := newSymbol(name, ErrorType)
	c.scope.Insert(sym)
	return sym
}

func (c *Checker) CheckIfStatement(t Type) Type    { return c.checkPredicateStatement(t) }
func (c *Checker) CheckWhileLoop(t Type) Type      { return c.checkPredicateStatement(t) }
func (c *Checker) CheckForLoop(t Type) Type        { return c.checkPredicateStatement(t) }

func (c *Checker) checkPredicateStatement(t Type) Type {
	if t.IsError() {
		return ErrorType
	}
	if !t.IsPredicate() {
		c.reporter.Report(msgInvalidTest)
		return ErrorType
	}
	return t
}

func (c *Checker) CheckReturn(t, returnType Type) Type {
	if t.IsError() {
		return ErrorType
	}
	if !t.IsCompatibleWith(returnType) {
		c.reporter.Report(msgInvalidReturn)
	}
	return t
}

func (c *Checker) CheckLogicalOr(left, right Type) Type {
	return c.checkLogical(left, right, "||")
}

func (c *Checker) CheckLogicalAnd(left, right Type) Type {
	return c.checkLogical(left, right, "&&")
}

func (c *Checker) checkLogical(left, right Type, op string) Type {
	if left.IsError() || right.IsError() {
		return ErrorType
	}
	if left.IsPredicate() && right.IsPredicate() {
		return ScalarType(Int, 0)
	}
	c.reporter.Report(msgInvalidBinaryOp, op)
	return ErrorType
}

func (c *Checker) CheckNot(t Type) Type {
	if t.IsError() {
		return ErrorType
	}
	if !t.IsPredicate() {
		c.reporter.Report(msgInvalidUnaryOp, "!")
		return ErrorType
	}
	return ScalarType(Int, 0)
}

func (c *Checker) CheckMultiplication(left, right Type) Type {
	return c.checkArithBinary(left, right, "*")
}

func (c *Checker) CheckDivision(left, right Type) Type {
	return c.checkArithBinary(left, right, "/")
}

func (c *Checker) CheckModulus(left, right Type) Type {
	return c.checkArithBinary(left, right, "%")
}

func (c *Checker) checkArithBinary(left, right Type, op string) Type {
	if left.IsError() || right.IsError() {
		return ErrorType
	}
	if !left.IsNumeric() || !right.IsNumeric() {
		c.reporter.Report(msgInvalidBinaryOp, op)
		return ErrorType
	}
	if left.Specifier == Long || right.Specifier == Long {
		return ScalarType(Long, 0)
	}
	return ScalarType(Int, 0)
}

func (c *Checker) CheckNegate(t Type) Type {
	if t.IsError() {
		return ErrorType
	}
	if !t.IsNumeric() {
		c.reporter.Report(msgInvalidUnaryOp, "-")
		return ErrorType
	}
	return ScalarType(t.Specifier, 0)
}

func (c *Checker) CheckLessThan(left, right Type) Type {
	return c.checkRelational(left, right, "<")
}
func (c *Checker) CheckGreaterThan(left, right Type) Type {
	return c.checkRelational(left, right, ">")
}
func (c *Checker) CheckLessThanOrEqual(left, right Type) Type {
	return c.checkRelational(left, right, "<=")
}
func (c *Checker) CheckGreaterThanOrEqual(left, right Type) Type {
	return c.checkRelational(left, right, ">=")
}

func (c *Checker) checkRelational(left, right Type, op string) Type {
	if left.IsError() || right.IsError() {
		return ErrorType
	}
	lp, rp := left.Promote(), right.Promote()
	if left.IsNumeric() && right.IsNumeric() {
		return ScalarType(Int, 0)
	}
	if lp.Specifier == rp.Specifier && lp.Indirection == rp.Indirection {
		return ScalarType(Int, 0)
	}
	c.reporter.Report(msgInvalidBinaryOp, op)
	return ErrorType
}

func (c *Checker) CheckEqual(left, right Type) Type    { return c.checkEquality(left, right, "==") }
func (c *Checker) CheckNotEqual(left, right Type) Type { return c.checkEquality(left, right, "!=") }

func (c *Checker) checkEquality(left, right Type, op string) Type {
	if left.IsError() || right.IsError() {
		return ErrorType
	}
	if !left.IsCompatibleWith(right) {
		c.reporter.Report(msgInvalidBinaryOp, op)
		return ErrorType
	}
	return ScalarType(Int, 0)
}

func (c *Checker) CheckAddition(left, right Type) Type {
	return c.checkAdditive(left, right, "+", true)
}

func (c *Checker) CheckSubtraction(left, right Type) Type {
	return c.checkAdditive(left, right, "-", false)
}

func (c *Checker) checkAdditive(left, right Type, op string, isAdd bool) Type {
	if left.IsError() || right.IsError() {
		return ErrorType
	}
	lp, rp := left.Promote(), right.Promote()

	if lp.IsNumeric() && rp.IsNumeric() {
		if lp.Specifier == Long || rp.Specifier == Long {
			return ScalarType(Long, 0)
		}
		return ScalarType(Int, 0)
	}
	if lp.IsPointer() && rp.IsNumeric() {
		if lp.Specifier == Void && lp.Indirection == 1 {
			c.reporter.Report(msgInvalidBinaryOp, op)
			return ErrorType
		}
		return ScalarType(lp.Specifier, lp.Indirection)
	}
	if isAdd && lp.IsNumeric() && rp.IsPointer() {
		if rp.Specifier == Void && rp.Indirection == 1 {
			c.reporter.Report(msgInvalidBinaryOp, op)
			return ErrorType
		}
		return ScalarType(rp.Specifier, rp.Indirection)
	}
	if !isAdd && lp.IsPointer() && rp.IsPointer() {
		bothVoid1 := lp.Specifier == Void && lp.Indirection == 1
		if bothVoid1 || lp.Specifier != rp.Specifier || lp.Indirection != rp.Indirection {
			c.reporter.Report(msgInvalidBinaryOp, op)
			return ErrorType
		}
		return ScalarType(Long, 0)
	}

	c.reporter.Report(msgInvalidBinaryOp, op)
	return ErrorType
}

func (c *Checker) CheckDereference(t Type) Type {
	if t.IsError() {
		return ErrorType
	}
	p := t.Promote()
	if p.IsPointer() && !(p.Specifier == Void && p.Indirection == 1) {
		return ScalarType(p.Specifier, p.Indirection-1)
	}
	c.reporter.Report(msgInvalidUnaryOp, "*")
	return ErrorType
}

func (c *Checker) CheckAddress(t Type, lvalue bool) Type {
	if t.IsError() {
		return ErrorType
	}
	if !lvalue {
		c.reporter.Report(msgLvalueRequired)
		return ErrorType
	}
	return ScalarType(t.Specifier, t.Indirection+1)
}

func (c *Checker) CheckIndex(left, right Type) Type {
	if left.IsError() || right.IsError() {
		return ErrorType
	}
	lp, rp := left.Promote(), right.Promote()
	if !lp.IsPointer() || (lp.Specifier == Void && lp.Indirection == 1) || !rp.IsNumeric() {
		c.reporter.Report(msgInvalidBinaryOp, "[]")
		return ErrorType
	}
	return ScalarType(lp.Specifier, lp.Indirection-1)
}

func (c *Checker) CheckSizeOf(t Type) Type {
	if t.IsError() {
		return ErrorType
	}
	if t.IsPredicate() {
		return ScalarType(Long, 0)
	}
	c.reporter.Report(msgInvalidUnaryOp, "sizeof")
	return ErrorType
}

// CheckFunction checks a call: left is the callee's type, args the
// checked argument types in source order.
func (c *Checker) CheckFunction(left Type, args []Type) Type {
	if left.IsError() {
		return ErrorType
	}
	if !left.IsFunction() {
		c.reporter.Report(msgNotAFunction)
		return ErrorType
	}

	if left.Parameters == nil {
		for _, arg := range args {
			if arg.IsError() {
				return ErrorType
			}
			if !arg.Promote().IsPredicate() {
				c.reporter.Report(msgInvalidArguments)
				return ErrorType
			}
		}
	} else {
		params := *left.Parameters
		if len(args) != len(params) {
			c.reporter.Report(msgInvalidArguments)
			return ErrorType
		}
		for i, arg := range args {
			if arg.IsError() {
				return ErrorType
			}
			if !arg.Promote().IsPredicate() || !arg.IsCompatibleWith(params[i]) {
				c.reporter.Report(msgInvalidArguments)
				return ErrorType
			}
		}
	}
	return ScalarType(left.Specifier, left.Indirection)
}

// CheckAssignment validates `lhs = rhs`; it reports but never
// computes a result type (assignment is a statement, not an
// expression, in Simple C's grammar).
func (c *Checker) CheckAssignment(left, right Type, lvalue bool) {
	if left.IsError() || right.IsError() {
		return
	}
	if !lvalue {
		c.reporter.Report(msgLvalueRequired)
		return
	}
	if !left.IsCompatibleWith(right) {
		c.reporter.Report(msgInvalidBinaryOp, "=")
	}
}
