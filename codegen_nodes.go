package simplec

// generateExpr walks e once, emitting its code and leaving it bound
// to either a register or a spill slot. Dispatch is a type switch over
// the tagged AST (spec.md §9's "Polymorphic AST" note), replacing the
// original's per-class virtual Expression::generate().
func generateExpr(c *Codegen, e Expr) {
	switch n := e.(type) {
	case *Number, *StringLit, *Identifier:
		// Literals and identifiers need no code to "arrive" at a
		// value; they render directly as operands.

	case *Call:
		generateCall(c, n)
	case *Not:
		generateUnaryCompare(c, &n.unaryExpr, "sete")
	case *Negate:
		generateNegate(c, n)
	case *Dereference:
		generateDereference(c, n)
	case *Address:
		generateAddress(c, n)
	case *SizeOf:
		// sizeof is computed at check time; nothing to evaluate.
	case *Cast:
		generateCast(c, n)

	case *Add:
		generateArith(c, &n.binaryExpr, "add")
	case *Subtract:
		generateArith(c, &n.binaryExpr, "sub")
	case *Multiply:
		generateArith(c, &n.binaryExpr, "imul")
	case *Divide:
		generateDivRem(c, &n.binaryExpr, true)
	case *Remainder:
		generateDivRem(c, &n.binaryExpr, false)

	case *LessThan:
		generateCompare(c, &n.binaryExpr, "setl")
	case *GreaterThan:
		generateCompare(c, &n.binaryExpr, "setg")
	case *LessOrEqual:
		generateCompare(c, &n.binaryExpr, "setle")
	case *GreaterOrEqual:
		generateCompare(c, &n.binaryExpr, "setge")
	case *Equal:
		generateCompare(c, &n.binaryExpr, "sete")
	case *NotEqual:
		generateCompare(c, &n.binaryExpr, "setne")

	case *Index:
		generateIndex(c, n)

	case *LogicalAnd:
		generateLogicalAnd(c, n)
	case *LogicalOr:
		generateLogicalOr(c, n)

	default:
		panic("simplec: unhandled expression node in generateExpr")
	}
}

func generateCall(c *Codegen, call *Call) {
	args := call.Args

	for i := len(args) - 1; i >= 0; i-- {
		generateExpr(c, args[i])
	}

	numBytes := 0
	if len(args) > NumParamRegs {
		numBytes = align((len(args)-NumParamRegs)*SizeofParam, StackAlignment)
		if numBytes > 0 {
			c.out.Instf("subq", "$%d, %%rsp", numBytes)
		}
	}

	for i := len(args) - 1; i >= 0; i-- {
		if i >= NumParamRegs {
			numBytes += SizeofParam
			c.load(args[i], c.registers[0]) // rax
			c.out.Inst("pushq", "%rax")
		} else {
			c.load(args[i], c.paramRegs[i])
		}
		c.assign(args[i], nil)
	}

	for _, r := range c.registers {
		c.load(nil, r)
	}

	if call.Callee.Symbol.Type.Parameters == nil {
		c.out.Instf("movl", "$0, %%eax")
	}

	c.out.Instf("call", "%s%s", c.platform.GlobalPrefix(), call.Callee.Symbol.Name)

	if numBytes > 0 {
		c.out.Instf("addq", "$%d, %%rsp", numBytes)
	}

	c.assign(call, c.registers[0]) // rax
}

func generateArith(c *Codegen, b *binaryExpr, op string) {
	generateExpr(c, b.Left)
	generateExpr(c, b.Right)
	if b.Left.exprState().register == nil {
		c.load(b.Left, c.getreg())
	}
	size := b.Left.Type().Size()
	c.out.Instf(op+suffix(size), "%s, %s", c.operand(b.Right), c.operand(b.Left))
	c.assign(b.Right, nil)
	c.assign(b, b.Left.exprState().register)
}

func generateDivRem(c *Codegen, b *binaryExpr, wantQuotient bool) {
	rax, rdx, rcx := c.registers[0], c.registers[3], c.registers[4]

	generateExpr(c, b.Left)
	generateExpr(c, b.Right)

	if b.Left.exprState().register == nil {
		c.load(b.Left, rax)
	}
	c.load(nil, rdx)
	if b.Right.exprState().register == nil {
		c.load(b.Right, rcx)
	}

	if b.Left.Type().Size() == 4 {
		c.out.Inst("cltd", "")
	} else {
		c.out.Inst("cqto", "")
	}

	c.out.Instf("idiv"+suffix(b.Right.Type().Size()), "%s", c.operand(b.Right))

	c.assign(b.Right, nil)
	c.assign(b.Left, nil)

	if wantQuotient {
		c.assign(b, rax)
	} else {
		c.assign(b, rdx)
	}
}

// generateCompare matches original_source/phase6/generator.cpp's
// comparison generators exactly, including the deliberate double call
// to getreg(): the result register is bound via the first call, and a
// second, unbound call supplies the byte-register name for `setcc`.
// Because the result register is already bound, the second call always
// names a different, free register; `movzbl` then copies its low byte
// into the result register — reproduced verbatim per spec.md §9.
func generateCompare(c *Codegen, b *binaryExpr, setcc string) {
	generateExpr(c, b.Left)
	generateExpr(c, b.Right)

	if b.Left.exprState().register == nil {
		c.load(b.Left, c.getreg())
	}

	c.out.Instf("cmp"+suffix(b.Left.Type().Size()), "%s, %s", c.operand(b.Right), c.operand(b.Left))

	c.assign(b.Right, nil)
	c.assign(b.Left, nil)

	c.assign(b, c.getreg())

	byteReg := c.getreg().Name(1)
	c.out.Inst(setcc, byteReg)
	c.out.Instf("movzbl", "%s, %s", byteReg, c.operand(b))
}

func generateUnaryCompare(c *Codegen, u *unaryExpr, setcc string) {
	generateExpr(c, u.Operand)

	if u.Operand.exprState().register == nil {
		c.load(u.Operand, c.getreg())
	}

	c.out.Instf("cmp"+suffix(u.Operand.Type().Size()), "$0, %s", c.operand(u.Operand))
	c.assign(u.Operand, nil)

	c.assign(u, c.getreg())

	byteReg := c.getreg().Name(1)
	c.out.Inst(setcc, byteReg)
	c.out.Instf("movzbl", "%s, %s", byteReg, c.operand(u))
}

func generateNegate(c *Codegen, n *Negate) {
	generateExpr(c, n.Operand)
	if n.Operand.exprState().register == nil {
		c.load(n.Operand, c.getreg())
	}
	c.out.Instf("neg"+suffix(n.Operand.Type().Size()), "%s", c.operand(n.Operand))
	c.assign(n, n.Operand.exprState().register)
}

// asDereference reports whether e is (after stripping nothing — Simple
// C has no parenthesized-node wrapper in the AST) a *Dereference node,
// returning that node.
func asDereference(e Expr) (*Dereference, bool) {
	d, ok := e.(*Dereference)
	return d, ok
}

func generateAddress(c *Codegen, a *Address) {
	if d, ok := asDereference(a.Operand); ok {
		generateExpr(c, d.Operand)
		if d.Operand.exprState().register == nil {
			c.load(d.Operand, c.getreg())
		}
		c.assign(a, d.Operand.exprState().register)
		return
	}

	c.assign(a, c.getreg())
	c.out.Instf("leaq", "%s, %s", c.operand(a.Operand), c.operand(a))
}

func generateDereference(c *Codegen, d *Dereference) {
	generateExpr(c, d.Operand)
	if d.Operand.exprState().register == nil {
		c.load(d.Operand, c.getreg())
	}
	size := d.Type().Size()
	c.out.Instf("mov"+suffix(size), "(%s), %s", c.operand(d.Operand), c.operand(d.Operand))
	c.assign(d, d.Operand.exprState().register)
}

func generateCast(c *Codegen, cast *Cast) {
	source := cast.Operand.Type().Size()
	target := cast.To.Size()
	generateExpr(c, cast.Operand)

	if source >= target {
		c.load(cast.Operand, c.getreg())
		c.assign(cast, cast.Operand.exprState().register)
		return
	}

	reg := c.getreg()
	c.assign(cast, reg)
	switch {
	case source == 1 && target == 4:
		c.out.Instf("movsbl", "%s, %s", c.operand(cast.Operand), reg.Name(target))
	case source == 1 && target == 8:
		c.out.Instf("movsbq", "%s, %s", c.operand(cast.Operand), reg.Name(target))
	default:
		c.out.Instf("movslq", "%s, %s", c.operand(cast.Operand), reg.Name(target))
	}
}

func generateIndex(c *Codegen, idx *Index) {
	// a[i] is sugar for *(a + i). Matching Add::generate's naive
	// treatment of pointer arithmetic (no scaling by element size —
	// this is the naive back-end spec.md §1 describes), the base and
	// index are simply added and then dereferenced.
	generateExpr(c, idx.Left)
	generateExpr(c, idx.Right)

	if idx.Left.exprState().register == nil {
		c.load(idx.Left, c.getreg())
	}
	c.out.Instf("add"+suffix(idx.Left.Type().Size()), "%s, %s", c.operand(idx.Right), c.operand(idx.Left))
	c.assign(idx.Right, nil)

	elemSize := idx.Type().Size()
	c.out.Instf("mov"+suffix(elemSize), "(%s), %s", c.operand(idx.Left), c.operand(idx.Left))
	c.assign(idx, idx.Left.exprState().register)
}

func generateLogicalAnd(c *Codegen, n *LogicalAnd) {
	success := c.newLabel()
	failure := c.newLabel()

	testExpr(c, n.Left, success, false)
	testExpr(c, n.Right, success, false)

	c.assign(n, c.getreg())
	c.out.Instf("movl", "$1, %s", c.operand(n))
	c.out.Instf("jmp", "%s", failure)

	c.out.Label(success)
	c.out.Instf("movl", "$0, %s", c.operand(n))
	c.out.Label(failure)
}

func generateLogicalOr(c *Codegen, n *LogicalOr) {
	success := c.newLabel()
	failure := c.newLabel()

	testExpr(c, n.Left, success, true)
	testExpr(c, n.Right, success, true)

	c.assign(n, c.getreg())
	c.out.Instf("movl", "$0, %s", c.operand(n))
	c.out.Instf("jmp", "%s", failure)

	c.out.Label(success)
	c.out.Instf("movl", "$1, %s", c.operand(n))
	c.out.Label(failure)
}

// testExpr generates e, ensures it is register-resident, and emits a
// conditional branch to label based on ifTrue. It always evicts e
// afterward.
func testExpr(c *Codegen, e Expr, label Label, ifTrue bool) {
	generateExpr(c, e)
	if e.exprState().register == nil {
		c.load(e, c.getreg())
	}
	c.out.Instf("cmp"+suffix(e.Type().Size()), "$0, %s", c.operand(e))
	if ifTrue {
		c.out.Instf("jne", "%s", label)
	} else {
		c.out.Instf("je", "%s", label)
	}
	c.assign(e, nil)
}

// generateStmt walks one statement. It is responsible for the
// invariant of spec.md §5 / §8: at the end of every top-level
// statement, every pool register is unbound.
func generateStmt(c *Codegen, s Stmt) {
	switch n := s.(type) {
	case *Block:
		for _, stmt := range n.Stmts {
			generateStmt(c, stmt)
		}
	case *Simple:
		generateExpr(c, n.Expr)
		c.assign(n.Expr, nil)
	case *Assignment:
		generateAssignment(c, n)
	case *Return:
		generateReturn(c, n)
	case *While:
		generateWhile(c, n)
	case *For:
		generateFor(c, n)
	case *If:
		generateIf(c, n)
	default:
		panic("simplec: unhandled statement node in generateStmt")
	}
}

func generateAssignment(c *Codegen, a *Assignment) {
	generateExpr(c, a.Right)

	if d, ok := asDereference(a.Left); ok {
		generateExpr(c, d.Operand)

		if d.Operand.exprState().register == nil {
			c.load(d.Operand, c.getreg())
		}
		if a.Right.exprState().register == nil {
			c.load(a.Right, c.getreg())
		}

		size := d.Type().Size()
		c.out.Instf("mov"+suffix(size), "%s, (%s)", c.operand(a.Right), c.operand(d.Operand))

		c.assign(a.Right, nil)
		c.assign(d.Operand, nil)
		return
	}

	if a.Right.exprState().register == nil {
		c.load(a.Right, c.getreg())
	}

	size := a.Left.Type().Size()
	c.out.Instf("mov"+suffix(size), "%s, %s", c.operand(a.Right), c.operand(a.Left))

	c.assign(a.Right, nil)
	c.assign(a.Left, nil)
}

func generateReturn(c *Codegen, r *Return) {
	generateExpr(c, r.Expr)
	c.load(r.Expr, c.registers[0]) // rax
	c.out.Instf("jmp", "%s.exit", c.funcName)
	c.assign(r.Expr, nil)
}

func generateWhile(c *Codegen, w *While) {
	loop, exit := c.newLabel(), c.newLabel()

	c.out.Label(loop)
	testExpr(c, w.Expr, exit, false)
	generateStmt(c, w.Stmt)
	c.out.Instf("jmp", "%s", loop)
	c.out.Label(exit)
}

func generateFor(c *Codegen, f *For) {
	loop, exit := c.newLabel(), c.newLabel()

	if f.Init != nil {
		generateStmt(c, f.Init)
	}

	c.out.Label(loop)
	testExpr(c, f.Expr, exit, false)
	generateStmt(c, f.Stmt)
	if f.Incr != nil {
		generateStmt(c, f.Incr)
	}
	c.out.Instf("jmp", "%s", loop)
	c.out.Label(exit)
}

func generateIf(c *Codegen, n *If) {
	skip, exit := c.newLabel(), c.newLabel()

	testExpr(c, n.Expr, skip, false)
	generateStmt(c, n.Then)

	if n.Else != nil {
		c.out.Instf("jmp", "%s", exit)
		c.out.Label(skip)
		generateStmt(c, n.Else)
		c.out.Label(exit)
	} else {
		c.out.Label(skip)
	}
}

// Generate emits the whole translation unit: a leading .text section,
// every function definition in source order, then the deferred
// globals and interned strings (see GenerateGlobals).
func Generate(c *Codegen, functions []*Function, outermost []*Symbol) {
	c.out.Directive(".text")
	c.out.Blank()
	for _, fn := range functions {
		GenerateFunction(c, fn)
	}
	GenerateGlobals(c, outermost)
}

// GenerateFunction emits one function's prologue, body, and epilogue.
// The frame size is the lowest offset assigned to a local, a
// register-passed parameter, or a spill slot, rounded up to a multiple
// of StackAlignment.
func GenerateFunction(c *Codegen, fn *Function) {
	paramOffset := 2 * SizeofReg
	c.funcName = fn.Name

	c.offset = assignOffsets(fn, paramOffset)

	prefix := c.platform.GlobalPrefix()
	c.out.Label(rawLabel(prefix + fn.Name))
	c.out.Inst("pushq", "%rbp")
	c.out.Instf("movq", "%%rsp, %%rbp")
	c.out.Instf("subq", "$%s.size, %%rsp", fn.Name)

	n := len(fn.ParamSyms)
	if n > NumParamRegs {
		n = NumParamRegs
	}
	for i := 0; i < n; i++ {
		sym := fn.ParamSyms[i]
		size := sym.Type.Size()
		c.out.Instf("mov"+suffix(size), "%s, %d(%%rbp)", c.paramRegs[i].Name(size), sym.Offset)
	}

	generateStmt(c, fn.Body)

	c.out.Blank()
	c.out.Label(rawLabel(prefix + fn.Name + ".exit"))
	c.out.Instf("movq", "%%rbp, %%rsp")
	c.out.Inst("popq", "%rbp")
	c.out.Inst("ret", "")
	c.out.Blank()

	frameSize := -(c.offset - align(c.offset, StackAlignment))
	c.out.Instf(".set", "%s.size, %d", fn.Name, frameSize)
	c.out.Instf(".globl", "%s%s", prefix, fn.Name)
	c.out.Blank()
}

type rawLabel string

func (r rawLabel) String() string { return string(r) }

// assignOffsets walks fn's declared symbols (parameters first, then
// nested-block locals in declaration order). The first NumParamRegs
// parameters and every local get decreasing negative %rbp-relative
// offsets starting from 0; any later parameter gets its caller-pushed
// slot, counting up from paramOffset. It returns the lowest offset
// assigned, mirroring original_source/phase6/generator.cpp's
// Function::generate.
func assignOffsets(fn *Function, paramOffset int) int {
	offset := 0
	assign := func(sym *Symbol) {
		offset -= sym.Type.Size()
		sym.Offset = offset
	}
	for i, sym := range fn.ParamSyms {
		if i < NumParamRegs {
			assign(sym)
		} else {
			sym.Offset = paramOffset
			paramOffset += SizeofParam
		}
	}
	var walk func(b *Block)
	walk = func(b *Block) {
		for _, sym := range b.Decls {
			assign(sym)
		}
		for _, s := range b.Stmts {
			switch n := s.(type) {
			case *Block:
				walk(n)
			case *While:
				if inner, ok := n.Stmt.(*Block); ok {
					walk(inner)
				}
			case *For:
				if inner, ok := n.Stmt.(*Block); ok {
					walk(inner)
				}
			case *If:
				if inner, ok := n.Then.(*Block); ok {
					walk(inner)
				}
				if n.Else != nil {
					if inner, ok := n.Else.(*Block); ok {
						walk(inner)
					}
				}
			}
		}
	}
	walk(fn.Body)
	return offset
}

// GenerateGlobals emits .comm declarations for every non-function
// outermost-scope symbol, then the .data section with every interned
// string literal, in first-use order. Deferred to run after every
// function body, per original_source/phase6/generator.cpp's
// "extra functionality: putting all the global declarations at the
// end" and SPEC_FULL.md §6.
func GenerateGlobals(c *Codegen, outermost []*Symbol) {
	prefix := c.platform.GlobalPrefix()
	for _, sym := range outermost {
		if sym.Type.IsFunction() {
			continue
		}
		c.out.Instf(".comm", "%s%s, %d", prefix, sym.Name, sym.Type.Size())
	}

	c.out.Directive(".data")
	for _, value := range c.stringOrder {
		label := c.strings[value]
		c.out.Raw(label.String() + ":\t.asciz\t\"" + escapeString(value) + "\"\n")
	}
}

// escapeString renders a string literal's already-lexed contents
// (including its surrounding quotes) as a GNU-as .asciz payload. Since
// the lexer keeps the original escape sequences verbatim, this is the
// identity function with the surrounding quotes stripped.
func escapeString(lexeme string) string {
	if len(lexeme) >= 2 {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}
