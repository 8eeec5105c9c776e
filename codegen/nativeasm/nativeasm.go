// Package nativeasm holds the x86-64 codegen shared by the two
// native backends (codegen/linuxamd64, codegen/winamd64). The two
// targets differ only in their calling convention and the flat
// assembler's target-specific header directives; everything else —
// instruction selection, the fixed three-register scratch convention
// (rax for the current value, rbx for a binary op's right-hand side,
// rcx for comparison results and moves), stack-slot addressing, and
// control-flow lowering to labels — is identical, so it lives here
// once and both backends parameterize it with an ABI value.
package nativeasm

import (
	"fmt"
	"strings"

	"remi/ast"
	"remi/codegen"
	"remi/compiler"
	"remi/ir"
)

// ABI describes everything that differs between the System V and
// Microsoft x64 calling conventions, plus the flat-assembler header
// directives each target expects.
type ABI struct {
	// FormatLine is the assembler's "format ..." directive, e.g.
	// "format elf64" or "format ms64 coff".
	FormatLine string
	// DataSectionLine and TextSectionLine are the section directives
	// that precede the data and code, respectively.
	DataSectionLine string
	TextSectionLine string
	// ArgRegisters lists the integer argument registers in order.
	ArgRegisters []string
	// ShadowSpace is the number of bytes the caller must reserve
	// before a call, beyond any stack-spilled arguments (32 on
	// Windows x64, 0 on System V).
	ShadowSpace int
	// AlwaysPublic names symbols that must be declared public even
	// if nothing in the program invites them (Windows requires the
	// entry point "main" to be public for the linker to find it).
	AlwaysPublic []string
}

// Emit lowers prog into flat-assembler text for the given ABI.
func Emit(prog compiler.Program, abi ABI) (string, error) {
	e := &emitter{abi: abi, out: &strings.Builder{}}
	return e.run(prog)
}

type emitter struct {
	abi  ABI
	out  *strings.Builder
	frame int
}

func (e *emitter) line(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
	e.out.WriteByte('\n')
}

func align16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

func slotAddr(slot int) string {
	return fmt.Sprintf("[rbp-%d]", 8*(slot+1))
}

func (e *emitter) run(prog compiler.Program) (string, error) {
	e.line(e.abi.FormatLine)
	e.line("")

	e.writeDeclarations(prog)
	e.line("")

	e.line(e.abi.DataSectionLine)
	e.writeDataSection(prog.DataSection)
	e.line("")

	e.line(e.abi.TextSectionLine)
	if err := e.writeOps(prog.Ops); err != nil {
		return "", err
	}

	return e.out.String(), nil
}

func (e *emitter) writeDeclarations(prog compiler.Program) {
	public := map[string]bool{}
	for _, name := range e.abi.AlwaysPublic {
		public[name] = true
	}

	var internal, external []string
	for name, sym := range prog.Functions {
		if sym.Storage == compiler.Internal {
			internal = append(internal, name)
		} else {
			external = append(external, name)
		}
	}
	for name := range public {
		found := false
		for _, n := range internal {
			if n == name {
				found = true
			}
		}
		if !found {
			internal = append(internal, name)
		}
	}

	for _, name := range internal {
		e.line("public %s", name)
	}
	for _, name := range external {
		e.line("extrn %s", name)
	}
}

func (e *emitter) writeDataSection(data []byte) {
	if len(data) == 0 {
		e.line("eternal db 0")
		return
	}
	hexBytes := make([]string, len(data))
	for i, b := range data {
		hexBytes[i] = fmt.Sprintf("0%02xh", b)
	}
	e.line("eternal db %s", strings.Join(hexBytes, ","))
}

func (e *emitter) writeOps(ops []ir.Op) error {
	for _, op := range ops {
		switch v := op.(type) {
		case ir.Function:
			e.frame = 0
			e.line("%s:", v.Name)
			e.line("  push rbp")
			e.line("  mov rbp, rsp")
		case ir.StackAlloc:
			e.frame = align16(8 * v.Count)
			e.line("  sub rsp, %d", e.frame)
		case ir.Invite:
			// declared in the header; nothing to emit in the body.
		case ir.Label:
			e.line("%s:", v.Name)
		case ir.EternalAssign:
			e.loadInto("rax", v.Arg)
			e.line("  mov %s, rax", slotAddr(v.Offset))
		case ir.ParamAssign:
			e.storeParam(v.ParamIndex, v.Slot)
		case ir.UnaryNot:
			e.loadInto("rax", v.Arg)
			e.line("  test rax, rax")
			e.line("  xor ecx, ecx")
			e.line("  setz cl")
			e.line("  mov %s, rcx", slotAddr(v.Offset))
		case ir.BinOp:
			if err := e.writeBinOp(v); err != nil {
				return err
			}
		case ir.Call:
			e.writeCall(v)
		case ir.Ret:
			if v.HasArg {
				e.loadInto("rax", v.Arg)
			}
			if e.frame > 0 {
				e.line("  add rsp, %d", e.frame)
			}
			e.line("  pop rbp")
			e.line("  ret")
		case ir.Jmp:
			e.line("  jmp %s", v.Name)
		case ir.JmpIfNot:
			e.loadInto("rax", v.Arg)
			e.line("  test rax, rax")
			e.line("  jz %s", v.Name)
		default:
			return codegen.InvalidOperation{Message: fmt.Sprintf("unrecognized ir.Op %T", op)}
		}
	}
	return nil
}

// loadInto emits whatever instruction materializes arg's value into
// reg: an immediate move for a literal, a memory move for a local
// slot, or a load-effective-address for a data-section string.
func (e *emitter) loadInto(reg string, arg ir.Arg) {
	switch arg.Kind {
	case ir.LocalArg:
		e.line("  mov %s, %s", reg, slotAddr(arg.Slot))
	case ir.LiteralArg:
		e.line("  mov %s, %d", reg, int64(arg.Value.I32))
	case ir.DataOffsetArg:
		e.line("  lea %s, [eternal+%d]", reg, arg.Offset)
	}
}

func (e *emitter) writeBinOp(op ir.BinOp) error {
	e.loadInto("rax", op.Lhs)
	e.loadInto("rbx", op.Rhs)

	switch op.BinOp {
	case ast.Add:
		e.line("  add rax, rbx")
		e.line("  mov %s, rax", slotAddr(op.Offset))
	case ast.Sub:
		e.line("  sub rax, rbx")
		e.line("  mov %s, rax", slotAddr(op.Offset))
	case ast.Mul:
		e.line("  imul rax, rbx")
		e.line("  mov %s, rax", slotAddr(op.Offset))
	case ast.Div:
		e.line("  xor rdx, rdx")
		e.line("  div rbx")
		e.line("  mov %s, rax", slotAddr(op.Offset))
	case ast.Equal, ast.Greater, ast.Less:
		e.line("  cmp rax, rbx")
		e.line("  xor ecx, ecx")
		e.line("  set%s cl", setCC(op.BinOp))
		e.line("  mov %s, rcx", slotAddr(op.Offset))
	default:
		return codegen.InvalidOperation{Message: fmt.Sprintf("operator %v has no native lowering", op.BinOp)}
	}
	return nil
}

func setCC(op ast.BinOp) string {
	switch op {
	case ast.Equal:
		return "e"
	case ast.Greater:
		return "g"
	case ast.Less:
		return "l"
	default:
		return "e"
	}
}

// storeParam copies incoming parameter index into local slot at
// function entry: register parameters are moved directly, parameters
// beyond the register file are read from the caller's stack-spilled
// arguments above the return address.
func (e *emitter) storeParam(index, slot int) {
	if index < len(e.abi.ArgRegisters) {
		e.line("  mov %s, %s", slotAddr(slot), e.abi.ArgRegisters[index])
		return
	}
	spillIndex := index - len(e.abi.ArgRegisters)
	// +16: skip the saved return address and the caller's pushed rbp;
	// +ShadowSpace: the caller's spilled args sit above its own shadow
	// space reservation (see writeCall), not directly above rbp+16.
	e.line("  mov rax, [rbp+%d]", 16+e.abi.ShadowSpace+8*spillIndex)
	e.line("  mov %s, rax", slotAddr(slot))
}

// writeCall marshals args per the ABI (register args, then
// stack-spilled args beyond the register file, plus any mandatory
// shadow space), calls the function, and stores its result.
func (e *emitter) writeCall(c ir.Call) {
	regCount := len(e.abi.ArgRegisters)
	extra := len(c.Args) - regCount
	if extra < 0 {
		extra = 0
	}

	reserve := align16(e.abi.ShadowSpace + extra*8)
	if reserve > 0 {
		e.line("  sub rsp, %d", reserve)
	}

	for i, arg := range c.Args {
		if i < regCount {
			e.loadInto(e.abi.ArgRegisters[i], arg)
			continue
		}
		e.loadInto("rax", arg)
		e.line("  mov [rsp+%d], rax", e.abi.ShadowSpace+8*(i-regCount))
	}

	e.line("  call %s", c.Name)

	if reserve > 0 {
		e.line("  add rsp, %d", reserve)
	}

	e.line("  mov %s, rax", slotAddr(c.Result))
}
