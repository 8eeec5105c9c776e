// Package compiler lowers a parsed Remi program (ast.Stmt trees) into
// a flat ir.Op stream plus the accumulated compiler state (the data
// section and the function symbol table) that the codegen backends
// consume alongside it. It is a visitor in the same shape as the
// teacher's bytecode ASTCompiler: it walks the tree once, emitting
// operations into a growing slice as it goes, and recovers from a
// panic raised deep in an expression visitor so a single malformed
// statement does not require threading an error return through every
// visitor method.
package compiler

import (
	"remi/ast"
	"remi/ir"
)

// StorageClass distinguishes a spellcard defined in this translation
// unit from one only declared via invite.
type StorageClass int

const (
	Internal StorageClass = iota
	External
)

// FunctionSymbol is one entry of the spellcard symbol table.
type FunctionSymbol struct {
	Params     []string
	ReturnType string
	Storage    StorageClass
}

// Program is the complete result of lowering: the flat op stream plus
// every piece of state the codegen backends need alongside it.
type Program struct {
	Ops []ir.Op

	// DataSection is "eternal_value": the concatenation of every
	// interned string literal, each NUL-terminated, in first-seen
	// order.
	DataSection []byte

	// StringOffsets is "eternal": original string to its data
	// offset, used to deduplicate repeated literals (see DESIGN.md
	// for why this implementation dedupes rather than leaving the
	// map write-only, which spec.md's design notes flag as
	// underspecified).
	StringOffsets map[string]int

	// Functions is "spellcard": every function name known to the
	// program, whether defined here or only invited.
	Functions map[string]FunctionSymbol

	// FunctionScopes is "spellcard_scope": each function's final
	// Scope, kept for potential per-function symbol lookup by a
	// future pass. No backend reads this today.
	FunctionScopes map[string]*Scope
}

// program is the mutable lowering context shared by every function's
// Builder within one call to Lower.
type program struct {
	dataSection   []byte
	stringOffsets map[string]int
	functions     map[string]FunctionSymbol
	scopes        map[string]*Scope
}

// intern deduplicates a string literal into the data section,
// returning the byte offset of its first character.
func (p *program) intern(s string) int {
	if offset, ok := p.stringOffsets[s]; ok {
		return offset
	}
	offset := len(p.dataSection)
	p.dataSection = append(p.dataSection, []byte(s)...)
	p.dataSection = append(p.dataSection, 0)
	p.stringOffsets[s] = offset
	return offset
}

// Builder lowers one function body, sharing the program-wide state
// (string interning, function symbol table) with every other Builder
// created during the same Lower call.
type Builder struct {
	scope *Scope
	prog  *program
	ops   []ir.Op
}

func (b *Builder) emit(op ir.Op) {
	b.ops = append(b.ops, op)
}

// Lower lowers an entire program's top-level statements into a
// Program. Only ast.Invite and ast.SpellCard are valid at the top
// level; anything else is a TopLevelStatement error.
func Lower(statements []ast.Stmt) (prog Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			default:
				panic(r)
			}
		}
	}()

	p := &program{
		stringOffsets: make(map[string]int),
		functions:     make(map[string]FunctionSymbol),
		scopes:        make(map[string]*Scope),
	}
	registerFunctions(p, statements)

	var ops []ir.Op
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case ast.Invite:
			ops = append(ops, ir.Invite{Name: s.Name})
		case ast.SpellCard:
			ops = append(ops, lowerFunction(p, s)...)
		default:
			panic(TopLevelStatement{Kind: topLevelKindName(stmt)})
		}
	}

	return Program{
		Ops:            ops,
		DataSection:    p.dataSection,
		StringOffsets:  p.stringOffsets,
		Functions:      p.functions,
		FunctionScopes: p.scopes,
	}, nil
}

func topLevelKindName(stmt ast.Stmt) string {
	switch stmt.(type) {
	case ast.ExpressionStmt:
		return "an expression statement"
	case ast.Eternal:
		return "an eternal declaration"
	case ast.Vow:
		return "a vow declaration"
	case ast.Assignment:
		return "an assignment"
	case ast.Foreseen:
		return "a foreseen statement"
	case ast.Until:
		return "an until statement"
	case ast.Offer:
		return "an offer statement"
	default:
		return "this statement"
	}
}

// registerFunctions populates the spellcard symbol table with every
// top-level invite (External) and spellcard (Internal) declaration, in
// a first pass, so call sites anywhere in the program — including
// forward references to a spellcard defined later in the file —
// resolve. An invite inside a spellcard body is registered by
// VisitInvite when that body is lowered, so only calls lowered after
// it resolve.
func registerFunctions(p *program, statements []ast.Stmt) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case ast.Invite:
			p.functions[s.Name] = FunctionSymbol{Storage: External}
		case ast.SpellCard:
			params := make([]string, len(s.Args))
			for i, a := range s.Args {
				params[i] = a.Name
			}
			p.functions[s.Name] = FunctionSymbol{Params: params, ReturnType: s.ReturnType, Storage: Internal}
		}
	}
}

// lowerFunction lowers one spellcard into its ir.Function header,
// a StackAlloc sized to the final slot count, its parameter-binding
// prologue, and its body, in that order — the body must be fully
// walked first to know how many slots the function needs.
func lowerFunction(p *program, sc ast.SpellCard) []ir.Op {
	scope := NewScope()
	p.scopes[sc.Name] = scope
	b := &Builder{scope: scope, prog: p}

	paramSlots := make([]int, len(sc.Args))
	for i, arg := range sc.Args {
		slot, err := scope.Declare(arg.Name)
		if err != nil {
			panic(err)
		}
		paramSlots[i] = slot
	}

	var body []ir.Op
	for _, stmt := range sc.Body {
		stmt.Accept(b)
	}
	body = b.ops

	ops := []ir.Op{ir.Function{Name: sc.Name}}
	if n := scope.NumSlots(); n > 0 {
		ops = append(ops, ir.StackAlloc{Count: n})
	}
	for i, slot := range paramSlots {
		ops = append(ops, ir.ParamAssign{ParamIndex: i, Slot: slot})
	}
	ops = append(ops, body...)
	return ops
}

// --- ast.StmtVisitor ---

func (b *Builder) VisitExpressionStmt(s ast.ExpressionStmt) any {
	s.Expr.Accept(b)
	return nil
}

func (b *Builder) VisitInvite(s ast.Invite) any {
	b.emit(ir.Invite{Name: s.Name})
	if _, ok := b.prog.functions[s.Name]; !ok {
		b.prog.functions[s.Name] = FunctionSymbol{Storage: External}
	}
	return nil
}

func (b *Builder) VisitEternal(s ast.Eternal) any {
	if _, err := b.scope.Declare(s.Name); err != nil {
		panic(err)
	}
	return nil
}

func (b *Builder) VisitVow(s ast.Vow) any {
	if _, err := b.scope.Declare(s.Name); err != nil {
		panic(err)
	}
	return nil
}

func (b *Builder) VisitAssignment(s ast.Assignment) any {
	slot, ok := b.scope.Resolve(s.Name)
	if !ok {
		panic(UndefinedVariable{Name: s.Name})
	}
	value := s.Value.Accept(b).(ir.Arg)
	b.emit(ir.EternalAssign{Offset: slot, Arg: value})
	return nil
}

func (b *Builder) VisitForeseen(s ast.Foreseen) any {
	cond := s.Condition.Accept(b).(ir.Arg)

	if s.Else == nil {
		end := b.scope.NewLabel()
		b.emit(ir.JmpIfNot{Name: end, Arg: cond})
		for _, stmt := range s.Then {
			stmt.Accept(b)
		}
		b.emit(ir.Label{Name: end})
		return nil
	}

	otherwise := b.scope.NewLabel()
	end := b.scope.NewLabel()
	b.emit(ir.JmpIfNot{Name: otherwise, Arg: cond})
	for _, stmt := range s.Then {
		stmt.Accept(b)
	}
	b.emit(ir.Jmp{Name: end})
	b.emit(ir.Label{Name: otherwise})
	for _, stmt := range s.Else {
		stmt.Accept(b)
	}
	b.emit(ir.Label{Name: end})
	return nil
}

func (b *Builder) VisitUntil(s ast.Until) any {
	start := b.scope.NewLabel()
	end := b.scope.NewLabel()

	b.emit(ir.Label{Name: start})
	cond := s.Condition.Accept(b).(ir.Arg)
	b.emit(ir.JmpIfNot{Name: end, Arg: cond})
	for _, stmt := range s.Body {
		stmt.Accept(b)
	}
	b.emit(ir.Jmp{Name: start})
	b.emit(ir.Label{Name: end})
	return nil
}

// VisitSpellCard is unreachable in a well-formed program: lowerFunction
// only ever walks a spellcard's Body, and the parser's grammar has no
// production for a nested spellcard inside one. Reaching this method
// means the AST contains a nested SpellCard statement regardless.
func (b *Builder) VisitSpellCard(s ast.SpellCard) any {
	panic(TopLevelStatement{Kind: "a nested spellcard definition"})
}

func (b *Builder) VisitOffer(s ast.Offer) any {
	if s.Value == nil {
		b.emit(ir.Ret{HasArg: false})
		return nil
	}
	value := s.Value.Accept(b).(ir.Arg)
	b.emit(ir.Ret{Arg: value, HasArg: true})
	return nil
}

// --- ast.ExpressionVisitor ---
//
// Every expression visitor returns an ir.Arg describing where its
// result lives. Literal and Variable carry their own Arg and do not
// allocate; Unary, Binary, and Call each allocate one fresh slot for
// their result, emit their sub-expressions' ops first, then emit the
// op that writes into the new slot.

func (b *Builder) VisitLiteral(lit ast.Literal) any {
	if lit.Value.Kind == ast.StringValue {
		offset := b.prog.intern(lit.Value.Str)
		return ir.DataOffset(offset)
	}
	return ir.Literal(lit.Value)
}

func (b *Builder) VisitVariable(v ast.Variable) any {
	slot, ok := b.scope.Resolve(v.Name)
	if !ok {
		panic(UndefinedVariable{Name: v.Name})
	}
	return ir.Local(slot)
}

func (b *Builder) VisitUnary(u ast.Unary) any {
	arg := u.Arg.Accept(b).(ir.Arg)
	slot := b.scope.AllocTemp()
	b.emit(ir.UnaryNot{Offset: slot, Arg: arg})
	return ir.Local(slot)
}

func (b *Builder) VisitBinary(bin ast.Binary) any {
	if !supportedBinOp(bin.Op) {
		panic(UnsupportedOperator{Op: binOpName(bin.Op)})
	}
	left := bin.Left.Accept(b).(ir.Arg)
	right := bin.Right.Accept(b).(ir.Arg)
	slot := b.scope.AllocTemp()
	b.emit(ir.BinOp{BinOp: bin.Op, Offset: slot, Lhs: left, Rhs: right})
	return ir.Local(slot)
}

func (b *Builder) VisitCall(c ast.Call) any {
	if _, ok := b.prog.functions[c.Function]; !ok {
		panic(UnknownFunction{Name: c.Function})
	}
	args := make([]ir.Arg, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Accept(b).(ir.Arg)
	}
	slot := b.scope.AllocTemp()
	b.emit(ir.Call{Result: slot, Name: c.Function, Args: args})
	return ir.Local(slot)
}

func supportedBinOp(op ast.BinOp) bool {
	switch op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Equal, ast.Greater, ast.Less:
		return true
	default:
		return false
	}
}

func binOpName(op ast.BinOp) string {
	switch op {
	case ast.NotEqual:
		return "!="
	case ast.LessEqual:
		return "<="
	case ast.GreaterEqual:
		return ">="
	case ast.LogicalOr:
		return "||"
	case ast.LogicalAnd:
		return "&&"
	case ast.BitOr:
		return "|"
	case ast.BitAnd:
		return "&"
	default:
		return "<unknown operator>"
	}
}
