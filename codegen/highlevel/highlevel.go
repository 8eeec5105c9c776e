// Package highlevel implements the embedded high-level backend: a
// subset source-level emitter targeting a dynamic, JavaScript-like
// host. It supports straight-line code only — the control-flow ops
// (Label, Jmp, JmpIfNot) have no structured equivalent in the
// generated source and are reported as codegen.Unsupported, matching
// spec.md's description of this backend as a "subset" emitter.
package highlevel

import (
	"fmt"
	"strings"

	"remi/ast"
	"remi/codegen"
	"remi/compiler"
	"remi/ir"
)

func init() {
	codegen.Register("javascript", Backend{})
}

// Backend implements codegen.Backend for the javascript target.
type Backend struct{}

func (Backend) Emit(prog compiler.Program) (string, error) {
	e := &emitter{prog: prog, out: &strings.Builder{}}
	return e.run()
}

type emitter struct {
	prog       compiler.Program
	out        *strings.Builder
	paramCount int
}

func (e *emitter) line(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
	e.out.WriteByte('\n')
}

func (e *emitter) run() (string, error) {
	e.writePrologue()

	for _, op := range e.prog.Ops {
		if err := e.writeOp(op); err != nil {
			return "", err
		}
	}

	if _, ok := e.prog.Functions["main"]; ok {
		e.line("main();")
	}

	return e.out.String(), nil
}

func (e *emitter) writePrologue() {
	e.line("const ETERNAL_VALUE = new Uint8Array([%s]);", dataLiteral(e.prog.DataSection))
	e.line("function readString(offset) {")
	e.line("  let end = offset;")
	e.line("  while (ETERNAL_VALUE[end] !== 0) end++;")
	e.line("  return new TextDecoder().decode(ETERNAL_VALUE.slice(offset, end));")
	e.line("}")
	e.line("")
}

func dataLiteral(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, ",")
}

func (e *emitter) writeOp(op ir.Op) error {
	switch v := op.(type) {
	case ir.Invite:
		e.line("// external: %s", v.Name)
	case ir.Function:
		sym := e.prog.Functions[v.Name]
		e.paramCount = len(sym.Params)
		e.line("function %s(%s) {", v.Name, jsParamList(e.paramCount))
	case ir.StackAlloc:
		names := make([]string, v.Count)
		for i := range names {
			names[i] = fmt.Sprintf("s%d", i)
		}
		e.line("  let %s;", strings.Join(names, ", "))
	case ir.ParamAssign:
		e.line("  s%d = p%d;", v.Slot, v.ParamIndex)
	case ir.EternalAssign:
		e.line("  s%d = %s;", v.Offset, exprFor(v.Arg))
	case ir.UnaryNot:
		e.line("  s%d = !(%s) ? 1 : 0;", v.Offset, exprFor(v.Arg))
	case ir.BinOp:
		expr, err := binOpExpr(v)
		if err != nil {
			return err
		}
		e.line("  s%d = %s;", v.Offset, expr)
	case ir.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprFor(a)
		}
		e.line("  s%d = %s(%s);", v.Result, v.Name, strings.Join(args, ", "))
	case ir.Ret:
		if !v.HasArg {
			e.line("  return;")
			return nil
		}
		e.line("  return %s;", exprFor(v.Arg))
	case ir.Label:
		return codegen.Unsupported{Op: fmt.Sprintf("Label(%s)", v.Name)}
	case ir.Jmp:
		return codegen.Unsupported{Op: fmt.Sprintf("Jmp(%s)", v.Name)}
	case ir.JmpIfNot:
		return codegen.Unsupported{Op: fmt.Sprintf("JmpIfNot(%s)", v.Name)}
	default:
		return codegen.Unsupported{Op: fmt.Sprintf("%T", op)}
	}
	return nil
}

func jsParamList(n int) string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	return strings.Join(names, ", ")
}

func exprFor(a ir.Arg) string {
	switch a.Kind {
	case ir.LocalArg:
		return fmt.Sprintf("s%d", a.Slot)
	case ir.LiteralArg:
		return fmt.Sprintf("%d", a.Value.I32)
	case ir.DataOffsetArg:
		return fmt.Sprintf("readString(%d)", a.Offset)
	default:
		return "undefined"
	}
}

func binOpExpr(op ir.BinOp) (string, error) {
	lhs, rhs := exprFor(op.Lhs), exprFor(op.Rhs)
	switch op.BinOp {
	case ast.Add:
		return fmt.Sprintf("(%s + %s)", lhs, rhs), nil
	case ast.Sub:
		return fmt.Sprintf("(%s - %s)", lhs, rhs), nil
	case ast.Mul:
		return fmt.Sprintf("(%s * %s)", lhs, rhs), nil
	case ast.Div:
		return fmt.Sprintf("Math.trunc(%s / %s)", lhs, rhs), nil
	case ast.Equal:
		return fmt.Sprintf("(%s === %s ? 1 : 0)", lhs, rhs), nil
	case ast.Greater:
		return fmt.Sprintf("(%s > %s ? 1 : 0)", lhs, rhs), nil
	case ast.Less:
		return fmt.Sprintf("(%s < %s ? 1 : 0)", lhs, rhs), nil
	default:
		return "", codegen.Unsupported{Op: fmt.Sprintf("BinOp(%v)", op.BinOp)}
	}
}
