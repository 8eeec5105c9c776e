// Package textir implements the textual-IR backend: a
// human-readable dump of a compiler.Program, used for debugging the
// lowering pass and for the "ir" CLI target. It never fails — every
// ir.Op has a deterministic one-line rendering.
package textir

import (
	"fmt"
	"strings"

	"remi/ast"
	"remi/codegen"
	"remi/compiler"
	"remi/ir"
)

func init() {
	codegen.Register("ir", Backend{})
}

// Backend implements codegen.Backend for the textual IR target.
type Backend struct{}

// Emit renders prog as a four-line header, a hex dump of the data
// section, and one line per IR op.
func (Backend) Emit(prog compiler.Program) (string, error) {
	var out strings.Builder

	fmt.Fprintf(&out, "; remi textual IR dump\n")
	fmt.Fprintf(&out, "; functions: %d\n", countFunctions(prog))
	fmt.Fprintf(&out, "; data bytes: %d\n", len(prog.DataSection))
	fmt.Fprintf(&out, "; ops: %d\n", len(prog.Ops))

	out.WriteString("Data:\n")
	writeDataSection(&out, prog.DataSection)

	out.WriteString("Text:\n")
	for _, op := range prog.Ops {
		out.WriteString(renderOp(op))
		out.WriteString("\n")
	}

	return out.String(), nil
}

func countFunctions(prog compiler.Program) int {
	n := 0
	for _, op := range prog.Ops {
		if _, ok := op.(ir.Function); ok {
			n++
		}
	}
	return n
}

// writeDataSection dumps data in rows of eight hex bytes, each row
// prefixed with its base offset.
func writeDataSection(out *strings.Builder, data []byte) {
	for base := 0; base < len(data); base += 8 {
		end := base + 8
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(out, "  %06x:", base)
		for _, b := range data[base:end] {
			fmt.Fprintf(out, " %02x", b)
		}
		out.WriteString("\n")
	}
}

func renderArg(a ir.Arg) string {
	switch a.Kind {
	case ir.LocalArg:
		return fmt.Sprintf("Local(%d)", a.Slot)
	case ir.LiteralArg:
		return fmt.Sprintf("Literal(%s)", renderValue(a.Value))
	case ir.DataOffsetArg:
		return fmt.Sprintf("DataOffset(%d)", a.Offset)
	default:
		return "<invalid arg>"
	}
}

func renderValue(v ast.Value) string {
	switch v.Kind {
	case ast.I32Value:
		return fmt.Sprintf("I32(%d)", v.I32)
	case ast.StringValue:
		return fmt.Sprintf("String(%q)", v.Str)
	default:
		return "<invalid value>"
	}
}

func renderBinOp(op ast.BinOp) string {
	switch op {
	case ast.Add:
		return "Add"
	case ast.Sub:
		return "Sub"
	case ast.Mul:
		return "Mul"
	case ast.Div:
		return "Div"
	case ast.Equal:
		return "Equal"
	case ast.Greater:
		return "Greater"
	case ast.Less:
		return "Less"
	default:
		return "Unsupported"
	}
}

func renderOp(op ir.Op) string {
	switch v := op.(type) {
	case ir.Function:
		return fmt.Sprintf("Function(%q)", v.Name)
	case ir.StackAlloc:
		return fmt.Sprintf("StackAlloc(%d)", v.Count)
	case ir.Invite:
		return fmt.Sprintf("Invite{name: %q}", v.Name)
	case ir.Label:
		return fmt.Sprintf("Label(%q)", v.Name)
	case ir.EternalAssign:
		return fmt.Sprintf("EternalAssign{offset: %d, arg: %s}", v.Offset, renderArg(v.Arg))
	case ir.ParamAssign:
		return fmt.Sprintf("ParamAssign{param_index: %d, slot: %d}", v.ParamIndex, v.Slot)
	case ir.UnaryNot:
		return fmt.Sprintf("UnaryNot{offset: %d, arg: %s}", v.Offset, renderArg(v.Arg))
	case ir.BinOp:
		return fmt.Sprintf("BinOp{%s, offset: %d, lhs: %s, rhs: %s}", renderBinOp(v.BinOp), v.Offset, renderArg(v.Lhs), renderArg(v.Rhs))
	case ir.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = renderArg(a)
		}
		return fmt.Sprintf("Call{result: %d, name: %q, args: [%s]}", v.Result, v.Name, strings.Join(args, ", "))
	case ir.Ret:
		if !v.HasArg {
			return "Ret(None)"
		}
		return fmt.Sprintf("Ret(Some(%s))", renderArg(v.Arg))
	case ir.Jmp:
		return fmt.Sprintf("Jmp{name: %q}", v.Name)
	case ir.JmpIfNot:
		return fmt.Sprintf("JmpIfNot{name: %q, arg: %s}", v.Name, renderArg(v.Arg))
	default:
		return fmt.Sprintf("<unknown op %T>", op)
	}
}
