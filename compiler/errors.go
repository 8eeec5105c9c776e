package compiler

import "fmt"

// UndefinedVariable is raised when an expression or assignment
// references a name that was never declared with eternal/vow or as a
// spellcard parameter in the enclosing function.
type UndefinedVariable struct {
	Name string
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

// UnknownFunction is raised when a call expression names a function
// that is neither defined by a spellcard nor declared by an invite.
type UnknownFunction struct {
	Name string
}

func (e UnknownFunction) Error() string {
	return fmt.Sprintf("call to undefined spellcard '%s'", e.Name)
}

// TypeMismatch is reserved for a future type-checking pass. Nothing
// in the lowering pass currently raises it: annotations are parsed
// and carried through but never validated against the values they
// describe.
type TypeMismatch struct {
	Expected string
	Got      string
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// UnsupportedOperator is raised when a Binary node carries one of the
// operators the parser accepts but the lowering pass does not yet
// implement (see ast.BinOp).
type UnsupportedOperator struct {
	Op string
}

func (e UnsupportedOperator) Error() string {
	return fmt.Sprintf("operator %s is not supported by the lowering pass", e.Op)
}

// Redeclared is raised when eternal/vow declares a name already bound
// in the same function scope.
type Redeclared struct {
	Name string
}

func (e Redeclared) Error() string {
	return fmt.Sprintf("redeclaration of '%s' in the same scope", e.Name)
}

// TopLevelStatement is raised when a statement that is only valid
// inside a spellcard body (or at least not at the top level) appears
// directly in the program's top-level sequence. The grammar allows it
// syntactically; lowering is where the restriction is enforced.
type TopLevelStatement struct {
	Kind string
}

func (e TopLevelStatement) Error() string {
	return fmt.Sprintf("%s is not allowed at the top level", e.Kind)
}
