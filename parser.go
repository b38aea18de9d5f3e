package simplec

import "strconv"

// Parser is a single-lookahead, recursive-descent parser over a
// Lexer's token stream. It drives a Checker synchronously: every
// production that introduces or uses a name calls straight into the
// checker and folds the returned Type into the node it builds, per
// spec.md §9's "mutually recursive parser & checker" design note.
// There is no error recovery — the first grammar mismatch panics a
// SyntaxError, unwound by Parse to a single return point, observably
// equivalent to original_source/phase4/parser.cpp's direct exit().
type Parser struct {
	lex     *Lexer
	tok     Token
	checker *Checker

	currentReturnType Type
	outermost         []*Symbol
}

// NewParser returns a Parser reading tokens from lex and checking
// against checker.
func NewParser(lex *Lexer, checker *Checker) *Parser {
	return &Parser{lex: lex, checker: checker}
}

func (p *Parser) advance() { p.tok = p.lex.Next() }

func (p *Parser) check(k Kind) bool { return p.tok.Kind == k }

func (p *Parser) match(k Kind) bool {
	if p.tok.Kind == k {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k Kind) Token {
	if p.tok.Kind != k {
		p.fail()
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *Parser) fail() {
	panic(SyntaxError{Lexeme: p.tok.Lexeme, AtEOF: p.tok.Kind == Done, Pos: p.tok.Pos})
}

func (p *Parser) expectIdent() string {
	return p.expect(Id).Lexeme
}

// Parse consumes the whole token stream and returns the function
// definitions in source order. Declarations-only (prototypes and
// global variables) are folded into the checker's outermost scope as
// a side effect and are not returned as nodes of their own — spec.md
// §3 has no AST node for a bare declaration.
func (p *Parser) Parse() (functions []*Function, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	p.checker.OpenScope()
	p.advance()
	for !p.check(Done) {
		if fn := p.globalDeclaration(); fn != nil {
			functions = append(functions, fn)
		}
	}
	p.outermost = p.checker.CloseScope()
	return functions, nil
}

// Outermost exposes the file-scope symbols closed at the end of Parse,
// needed by the driver to emit global .comm declarations after code
// generation.
func (p *Parser) Outermost() []*Symbol { return p.outermost }

func (p *Parser) specifier() Specifier {
	switch p.tok.Kind {
	case IntKw:
		p.advance()
		return Int
	case CharKw:
		p.advance()
		return Char
	case LongKw:
		p.advance()
		return Long
	case VoidKw:
		p.advance()
		return Void
	default:
		p.fail()
		panic("unreachable")
	}
}

func (p *Parser) isSpecifierStart() bool {
	switch p.tok.Kind {
	case IntKw, CharKw, LongKw, VoidKw:
		return true
	default:
		return false
	}
}

func (p *Parser) pointers() int {
	n := 0
	for p.match(Kind('*')) {
		n++
	}
	return n
}

// globalDeclaration parses one top-level specifier-led declaration:
// either a comma-separated list of variable declarators (optionally
// arrays) terminated by ';', or a single function declarator — a
// prototype (';') or a definition (a '{'-led body), returned as a
// *Function.
func (p *Parser) globalDeclaration() *Function {
	spec := p.specifier()
	ind := p.pointers()
	name := p.expectIdent()

	if p.check(Kind('(')) {
		return p.functionDeclarator(spec, ind, name)
	}

	p.variableDeclaratorTail(spec, ind, name)
	for p.match(Kind(',')) {
		ind2 := p.pointers()
		name2 := p.expectIdent()
		p.variableDeclaratorTail(spec, ind2, name2)
	}
	p.expect(Kind(';'))
	return nil
}

func (p *Parser) variableDeclaratorTail(spec Specifier, ind int, name string) {
	if p.match(Kind('[')) {
		numTok := p.expect(Num)
		length, err := strconv.ParseUint(numTok.Lexeme, 10, 64)
		if err != nil {
			p.fail()
		}
		p.expect(Kind(']'))
		p.checker.DeclareVariable(name, ArrayType(spec, ind, length))
		return
	}
	p.checker.DeclareVariable(name, ScalarType(spec, ind))
}

func (p *Parser) functionDeclarator(spec Specifier, ind int, name string) *Function {
	p.expect(Kind('('))
	params, paramSpecs := p.parameterTypeList()
	p.expect(Kind(')'))

	typ := FunctionType(spec, ind, params)

	if p.match(Kind(';')) {
		p.checker.DeclareFunction(name, typ)
		return nil
	}

	p.checker.DefineFunction(name, typ)

	p.checker.OpenScope()
	paramSyms := make([]*Symbol, len(paramSpecs))
	for i, ps := range paramSpecs {
		paramSyms[i] = p.checker.DeclareVariable(ps.name, ps.typ)
	}

	savedReturn := p.currentReturnType
	p.currentReturnType = ScalarType(spec, ind)
	body := p.block()
	p.currentReturnType = savedReturn

	p.checker.CloseScope()

	return &Function{Name: name, Type: typ, ParamSyms: paramSyms, Body: body}
}

type paramSpec struct {
	name string
	typ  Type
}

// parameterTypeList parses a parameter list. An empty list (`()`)
// means unspecified (Parameters == nil); `(void)` means specified and
// empty; anything else is a comma-separated list of `specifier
// pointers id`.
func (p *Parser) parameterTypeList() (*[]Type, []paramSpec) {
	if p.check(Kind(')')) {
		return nil, nil
	}
	if p.check(VoidKw) {
		p.advance()
		if p.check(Kind(')')) {
			empty := []Type{}
			return &empty, nil
		}
		// `void` was actually this parameter's specifier (e.g. an
		// invalid `void x` parameter) — let the checker catch the
		// void-object error rather than treating it as the `(void)`
		// marker.
		ind := p.pointers()
		name := p.expectIdent()
		types := []Type{ScalarType(Void, ind)}
		specs := []paramSpec{{name: name, typ: ScalarType(Void, ind)}}
		for p.match(Kind(',')) {
			t, s := p.parameter()
			types = append(types, t)
			specs = append(specs, s)
		}
		return &types, specs
	}

	t, s := p.parameter()
	types := []Type{t}
	specs := []paramSpec{s}
	for p.match(Kind(',')) {
		t, s := p.parameter()
		types = append(types, t)
		specs = append(specs, s)
	}
	return &types, specs
}

func (p *Parser) parameter() (Type, paramSpec) {
	spec := p.specifier()
	ind := p.pointers()
	name := p.expectIdent()
	typ := ScalarType(spec, ind)
	return typ, paramSpec{name: name, typ: typ}
}

// block parses `{ declaration* statement* }`, assuming the caller has
// already opened the scope its declarations belong in (the function's
// own scope for a function body; a fresh nested scope for any other
// compound statement).
func (p *Parser) block() *Block {
	p.expect(Kind('{'))

	var decls []*Symbol
	for p.isSpecifierStart() {
		decls = append(decls, p.localDeclaration()...)
	}

	var stmts []Stmt
	for !p.check(Kind('}')) {
		stmts = append(stmts, p.statement())
	}
	p.expect(Kind('}'))

	return &Block{Decls: decls, Stmts: stmts}
}

func (p *Parser) localDeclaration() []*Symbol {
	spec := p.specifier()
	ind := p.pointers()
	name := p.expectIdent()

	var syms []*Symbol
	syms = append(syms, p.localDeclaratorTail(spec, ind, name))
	for p.match(Kind(',')) {
		ind2 := p.pointers()
		name2 := p.expectIdent()
		syms = append(syms, p.localDeclaratorTail(spec, ind2, name2))
	}
	p.expect(Kind(';'))
	return syms
}

func (p *Parser) localDeclaratorTail(spec Specifier, ind int, name string) *Symbol {
	if p.match(Kind('[')) {
		numTok := p.expect(Num)
		length, err := strconv.ParseUint(numTok.Lexeme, 10, 64)
		if err != nil {
			p.fail()
		}
		p.expect(Kind(']'))
		return p.checker.DeclareVariable(name, ArrayType(spec, ind, length))
	}
	return p.checker.DeclareVariable(name, ScalarType(spec, ind))
}

// nestedBlock opens a fresh scope for a `{ ... }` used as a statement
// (as opposed to a function body, whose scope the caller already
// owns).
func (p *Parser) nestedBlock() *Block {
	p.checker.OpenScope()
	b := p.block()
	b.Decls = p.checker.CloseScope()
	return b
}

// statement parses one statement production of spec.md §4.2.
func (p *Parser) statement() Stmt {
	switch p.tok.Kind {
	case Kind('{'):
		return p.nestedBlock()
	case ReturnKw:
		return p.returnStatement()
	case WhileKw:
		return p.whileStatement()
	case ForKw:
		return p.forStatement()
	case IfKw:
		return p.ifStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) returnStatement() Stmt {
	p.advance()
	expr, typ, _ := p.expression()
	p.checker.CheckReturn(typ, p.currentReturnType)
	expr = p.adapt(expr, typ, p.currentReturnType)
	p.expect(Kind(';'))
	return &Return{Expr: expr}
}

func (p *Parser) whileStatement() Stmt {
	p.advance()
	p.expect(Kind('('))
	expr, typ, _ := p.expression()
	p.checker.CheckWhileLoop(typ)
	p.expect(Kind(')'))
	stmt := p.statement()
	return &While{Expr: expr, Stmt: stmt}
}

// forStatement parses `for ( assignment-or-empty ; expression ;
// assignment-or-empty ) statement`. Simple C's init/incr clauses are
// always assignment-statements (possibly of a bare expression with no
// `=`), never declarations.
func (p *Parser) forStatement() Stmt {
	p.advance()
	p.expect(Kind('('))

	var init Stmt
	if !p.check(Kind(';')) {
		init = p.simpleOrAssignment()
	}
	p.expect(Kind(';'))

	expr, typ, _ := p.expression()
	p.checker.CheckForLoop(typ)
	p.expect(Kind(';'))

	var incr Stmt
	if !p.check(Kind(')')) {
		incr = p.simpleOrAssignment()
	}
	p.expect(Kind(')'))

	stmt := p.statement()
	return &For{Init: init, Expr: expr, Incr: incr, Stmt: stmt}
}

func (p *Parser) ifStatement() Stmt {
	p.advance()
	p.expect(Kind('('))
	expr, typ, _ := p.expression()
	p.checker.CheckIfStatement(typ)
	p.expect(Kind(')'))
	then := p.statement()

	var elseStmt Stmt
	if p.match(Else) {
		elseStmt = p.statement()
	}
	return &If{Expr: expr, Then: then, Else: elseStmt}
}

// expressionStatement parses `expression ;` or `expression = expression
// ;`, ending in ';'.
func (p *Parser) expressionStatement() Stmt {
	s := p.simpleOrAssignment()
	p.expect(Kind(';'))
	return s
}

// simpleOrAssignment parses one assignment-or-bare-expression without
// its trailing ';' — shared by expression statements and for's
// init/incr clauses.
func (p *Parser) simpleOrAssignment() Stmt {
	left, leftType, lvalue := p.expression()
	if p.match(Kind('=')) {
		right, rightType, _ := p.expression()
		p.checker.CheckAssignment(leftType, rightType, lvalue)
		right = p.adapt(right, rightType, leftType)
		return &Assignment{Left: left, Right: right}
	}
	return &Simple{Expr: left}
}

// adapt wraps e in a Cast to target when both are numeric scalars of
// different widths (e.g. an int expression assigned to a long
// variable, or vice versa), so the code generator always sees
// matching operand widths. Pointers are never wrapped: every pointer
// is 8 bytes regardless of pointee, so width never differs.
func (p *Parser) adapt(e Expr, from, to Type) Expr {
	if from.IsError() || to.IsError() {
		return e
	}
	if from.Size() == to.Size() {
		return e
	}
	fp, tp := from.Promote(), to.Promote()
	if fp.IsPointer() || tp.IsPointer() || !fp.IsNumeric() || !tp.IsNumeric() {
		return e
	}
	return &Cast{unaryExpr: unaryExpr{Operand: e}, To: ScalarType(to.Specifier, to.Indirection)}
}

// expression returns the parsed node, its checked type, and whether it
// is an lvalue, so `=` and a parenthesized `&` operand can be
// validated. The binary precedence levels never yield an lvalue; the
// flag is derived from the resulting node: a scalar identifier, a
// dereference, or an index expression.
func (p *Parser) expression() (Expr, Type, bool) {
	e, t, _ := p.logicalOr()
	switch n := e.(type) {
	case *Identifier:
		return e, t, n.Symbol.Type.IsScalar()
	case *Dereference, *Index:
		return e, t, true
	}
	return e, t, false
}

func (p *Parser) logicalOr() (Expr, Type, bool) {
	left, leftType, _ := p.logicalAnd()
	for p.match(Or) {
		right, rightType, _ := p.logicalAnd()
		typ := p.checker.CheckLogicalOr(leftType, rightType)
		left = &LogicalOr{binaryExpr{Left: left, Right: right, typ: typ}}
		leftType = typ
	}
	return left, leftType, false
}

func (p *Parser) logicalAnd() (Expr, Type, bool) {
	left, leftType, _ := p.equality()
	for p.match(And) {
		right, rightType, _ := p.equality()
		typ := p.checker.CheckLogicalAnd(leftType, rightType)
		left = &LogicalAnd{binaryExpr{Left: left, Right: right, typ: typ}}
		leftType = typ
	}
	return left, leftType, false
}

func (p *Parser) equality() (Expr, Type, bool) {
	left, leftType, _ := p.relational()
	for {
		switch p.tok.Kind {
		case Eql:
			p.advance()
			right, rightType, _ := p.relational()
			typ := p.checker.CheckEqual(leftType, rightType)
			left = &Equal{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Neq:
			p.advance()
			right, rightType, _ := p.relational()
			typ := p.checker.CheckNotEqual(leftType, rightType)
			left = &NotEqual{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		default:
			return left, leftType, false
		}
	}
}

func (p *Parser) relational() (Expr, Type, bool) {
	left, leftType, _ := p.additive()
	for {
		switch p.tok.Kind {
		case Kind('<'):
			p.advance()
			right, rightType, _ := p.additive()
			typ := p.checker.CheckLessThan(leftType, rightType)
			left = &LessThan{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Kind('>'):
			p.advance()
			right, rightType, _ := p.additive()
			typ := p.checker.CheckGreaterThan(leftType, rightType)
			left = &GreaterThan{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Leq:
			p.advance()
			right, rightType, _ := p.additive()
			typ := p.checker.CheckLessThanOrEqual(leftType, rightType)
			left = &LessOrEqual{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Geq:
			p.advance()
			right, rightType, _ := p.additive()
			typ := p.checker.CheckGreaterThanOrEqual(leftType, rightType)
			left = &GreaterOrEqual{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		default:
			return left, leftType, false
		}
	}
}

func (p *Parser) additive() (Expr, Type, bool) {
	left, leftType, _ := p.term()
	for {
		switch p.tok.Kind {
		case Kind('+'):
			p.advance()
			right, rightType, _ := p.term()
			typ := p.checker.CheckAddition(leftType, rightType)
			left = &Add{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Kind('-'):
			p.advance()
			right, rightType, _ := p.term()
			typ := p.checker.CheckSubtraction(leftType, rightType)
			left = &Subtract{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		default:
			return left, leftType, false
		}
	}
}

func (p *Parser) term() (Expr, Type, bool) {
	left, leftType, _ := p.unary()
	for {
		switch p.tok.Kind {
		case Kind('*'):
			p.advance()
			right, rightType, _ := p.unary()
			typ := p.checker.CheckMultiplication(leftType, rightType)
			left = &Multiply{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Kind('/'):
			p.advance()
			right, rightType, _ := p.unary()
			typ := p.checker.CheckDivision(leftType, rightType)
			left = &Divide{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		case Kind('%'):
			p.advance()
			right, rightType, _ := p.unary()
			typ := p.checker.CheckModulus(leftType, rightType)
			left = &Remainder{binaryExpr{Left: left, Right: right, typ: typ}}
			leftType = typ
		default:
			return left, leftType, false
		}
	}
}

func (p *Parser) unary() (Expr, Type, bool) {
	switch p.tok.Kind {
	case Kind('!'):
		p.advance()
		operand, operandType, _ := p.unary()
		typ := p.checker.CheckNot(operandType)
		return &Not{unaryExpr{Operand: operand, typ: typ}}, typ, false

	case Kind('-'):
		p.advance()
		operand, operandType, _ := p.unary()
		typ := p.checker.CheckNegate(operandType)
		return &Negate{unaryExpr{Operand: operand, typ: typ}}, typ, false

	case Kind('*'):
		p.advance()
		operand, operandType, _ := p.unary()
		typ := p.checker.CheckDereference(operandType)
		return &Dereference{unaryExpr{Operand: operand, typ: typ}}, typ, true

	case Kind('&'):
		p.advance()
		operand, operandType, lvalue := p.unary()
		typ := p.checker.CheckAddress(operandType, lvalue)
		return &Address{unaryExpr{Operand: operand, typ: typ}}, typ, false

	case Sizeof:
		return p.sizeOfExpression()

	default:
		return p.postfix()
	}
}

// sizeOfExpression parses `sizeof ( type-name )`, `sizeof (
// expression )` or `sizeof unary-expression`. Inside parentheses, an
// operand that starts with a specifier keyword is a type-name and
// anything else is an expression; postfix operators after the closing
// parenthesis are not applied to the operand.
// sizeof is always a compile-time constant (spec.md §4.3): the
// operand is checked for validity but only its size is kept, folded
// directly into a Number node rather than a SizeOf node the code
// generator would have to evaluate at runtime.
func (p *Parser) sizeOfExpression() (Expr, Type, bool) {
	p.advance()
	if p.match(Kind('(')) {
		var operandType Type
		if p.isSpecifierStart() {
			spec := p.specifier()
			ind := p.pointers()
			operandType = ScalarType(spec, ind)
		} else {
			_, operandType, _ = p.expression()
		}
		p.expect(Kind(')'))
		typ := p.checker.CheckSizeOf(operandType)
		return p.foldSizeOf(operandType, typ), typ, false
	}
	_, operandType, _ := p.unary()
	typ := p.checker.CheckSizeOf(operandType)
	return p.foldSizeOf(operandType, typ), typ, false
}

func (p *Parser) foldSizeOf(operandType, resultType Type) Expr {
	size := uint64(0)
	if !resultType.IsError() {
		size = uint64(operandType.Size())
	}
	return &Number{Value: size, typ: resultType}
}

func (p *Parser) postfix() (Expr, Type, bool) {
	expr, typ, lvalue := p.primary()
	for {
		switch p.tok.Kind {
		case Kind('['):
			p.advance()
			index, indexType, _ := p.expression()
			p.expect(Kind(']'))
			resultType := p.checker.CheckIndex(typ, indexType)
			expr = &Index{binaryExpr{Left: expr, Right: index, typ: resultType}}
			typ = resultType
			lvalue = true

		case Kind('('):
			id, isID := expr.(*Identifier)
			if !isID {
				p.fail()
			}
			p.advance()
			var args []Expr
			var argTypes []Type
			if !p.check(Kind(')')) {
				a, t, _ := p.expression()
				args = append(args, a)
				argTypes = append(argTypes, t)
				for p.match(Kind(',')) {
					a, t, _ := p.expression()
					args = append(args, a)
					argTypes = append(argTypes, t)
				}
			}
			p.expect(Kind(')'))
			calleeType := typ
			resultType := p.checker.CheckFunction(calleeType, argTypes)
			if calleeType.Parameters != nil && len(*calleeType.Parameters) == len(args) {
				params := *calleeType.Parameters
				for i := range args {
					args[i] = p.adapt(args[i], argTypes[i], params[i])
				}
			}
			expr = &Call{Callee: id, Args: args, typ: resultType}
			typ = resultType
			lvalue = false

		default:
			return expr, typ, lvalue
		}
	}
}

func (p *Parser) primary() (Expr, Type, bool) {
	switch p.tok.Kind {
	case Id:
		name := p.tok.Lexeme
		p.advance()
		sym := p.checker.CheckIdentifier(name)
		return &Identifier{Symbol: sym}, sym.Type, sym.Type.IsScalar()

	case Num:
		lexeme := p.tok.Lexeme
		p.advance()
		value, err := strconv.ParseUint(lexeme, 10, 64)
		if err != nil {
			p.fail()
		}
		typ := ScalarType(Int, 0)
		if value > 2147483647 {
			typ = ScalarType(Long, 0)
		}
		return &Number{Value: value, typ: typ}, typ, false

	case Character:
		lexeme := p.tok.Lexeme
		p.advance()
		typ := ScalarType(character, 0)
		return &Number{Value: uint64(decodeCharLiteral(lexeme)), typ: typ}, typ, false

	case StringTok:
		lexeme := p.tok.Lexeme
		p.advance()
		return &StringLit{Value: lexeme}, ScalarType(Char, 1), false

	case Kind('('):
		p.advance()
		expr, typ, lvalue := p.expression()
		p.expect(Kind(')'))
		return expr, typ, lvalue

	default:
		p.fail()
		panic("unreachable")
	}
}

// decodeCharLiteral extracts the byte value of a character literal's
// lexeme (including its surrounding quotes), handling the escape
// sequences Simple C's lexer passes through verbatim.
func decodeCharLiteral(lexeme string) byte {
	inner := lexeme
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	if len(inner) == 0 {
		return 0
	}
	if inner[0] != '\\' || len(inner) == 1 {
		return inner[0]
	}
	switch inner[1] {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return inner[1]
	}
}
