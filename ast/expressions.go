// expressions.go contains all expression AST nodes. An expression
// always evaluates to a value.
package ast

// UnaryOp enumerates the unary operators the parser can produce. Only
// Not currently exists in the grammar.
type UnaryOp int

const (
	Not UnaryOp = iota
)

// BinOp enumerates binary operators. Add through Less are lowered to
// IR. NotEqual, LessEqual and GreaterEqual are parsed into Binary
// nodes, but a Binary node carrying one of them fails lowering with an
// UnsupportedOperator error (see compiler/errors.go). LogicalOr,
// LogicalAnd, BitOr and BitAnd match operators the lexer recognizes,
// but the parser never produces them.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Equal
	Greater
	Less

	NotEqual
	LessEqual
	GreaterEqual
	LogicalOr
	LogicalAnd
	BitOr
	BitAnd
)

// Literal is a literal value in the source: an integer or a string.
type Literal struct {
	Value Value
}

func (l Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(l) }

// Variable is a reference to a previously declared name.
type Variable struct {
	Name string
}

func (e Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(e) }

// Unary applies a prefix operator to a single operand, e.g. "!ready".
type Unary struct {
	Op  UnaryOp
	Arg Expression
}

func (u Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }

// Binary applies an infix operator to two operands, e.g. "a + b".
type Binary struct {
	Op    BinOp
	Left  Expression
	Right Expression
}

func (b Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Call invokes a named function with a list of argument expressions.
type Call struct {
	Function string
	Args     []Expression
}

func (c Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }
