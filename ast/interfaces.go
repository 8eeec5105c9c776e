// interfaces.go defines the visitor interfaces that any code walking
// the expression and statement trees must implement, and the base
// Expression/Stmt interfaces every AST node satisfies. This follows
// the same visitor design the rest of the pipeline (lowering, the
// textual dump) relies on to add behaviour without touching the node
// types themselves.
package ast

// ExpressionVisitor operates on every Expression node. A lowering
// pass, a pretty-printer, or (hypothetically) a type checker all
// implement this interface.
type ExpressionVisitor interface {
	VisitLiteral(lit Literal) any
	VisitVariable(v Variable) any
	VisitUnary(u Unary) any
	VisitBinary(b Binary) any
	VisitCall(c Call) any
}

// StmtVisitor operates on every Stmt node.
type StmtVisitor interface {
	VisitExpressionStmt(s ExpressionStmt) any
	VisitInvite(s Invite) any
	VisitEternal(s Eternal) any
	VisitVow(s Vow) any
	VisitAssignment(s Assignment) any
	VisitForeseen(s Foreseen) any
	VisitUntil(s Until) any
	VisitSpellCard(s SpellCard) any
	VisitOffer(s Offer) any
}

// Expression is the base interface for all expression nodes. Accept
// dispatches to the matching method on an ExpressionVisitor.
type Expression interface {
	Accept(v ExpressionVisitor) any
}

// Stmt is the base interface for all statement nodes.
type Stmt interface {
	Accept(v StmtVisitor) any
}
