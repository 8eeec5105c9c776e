package linuxamd64_test

import (
	"strings"
	"testing"

	"remi/ast"
	"remi/codegen"
	"remi/codegen/linuxamd64"
	"remi/compiler"
	"remi/ir"
)

func TestBackendRegistersUnderLinuxTarget(t *testing.T) {
	if _, ok := codegen.Lookup("linux-x86_64"); !ok {
		t.Fatalf(`expected linuxamd64 to register itself under "linux-x86_64"`)
	}
}

func TestEmitMinimalReturn(t *testing.T) {
	prog := compiler.Program{
		Functions: map[string]compiler.FunctionSymbol{"main": {Storage: compiler.Internal}},
		Ops: []ir.Op{
			ir.Function{Name: "main"},
			ir.Ret{Arg: ir.Literal(ast.I32(69)), HasArg: true},
		},
	}

	out, err := (linuxamd64.Backend{}).Emit(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "format elf64") {
		t.Fatalf("missing format directive:\n%s", out)
	}
	if !strings.Contains(out, "public main") {
		t.Fatalf("missing public declaration:\n%s", out)
	}
	if !strings.Contains(out, "mov rax, 69") {
		t.Fatalf("expected the literal to be loaded into rax:\n%s", out)
	}
	if strings.Contains(out, "sub rsp") {
		t.Fatalf("expected no frame adjustment for a function with no locals:\n%s", out)
	}
	if !strings.Contains(out, "pop rbp") || !strings.Contains(out, "ret") {
		t.Fatalf("expected a standard epilogue:\n%s", out)
	}
}

func TestEmitLocalVariableUsesStackSlot(t *testing.T) {
	prog := compiler.Program{
		Functions: map[string]compiler.FunctionSymbol{"main": {Storage: compiler.Internal}},
		Ops: []ir.Op{
			ir.Function{Name: "main"},
			ir.StackAlloc{Count: 1},
			ir.EternalAssign{Offset: 0, Arg: ir.Literal(ast.I32(69))},
			ir.Ret{Arg: ir.Local(0), HasArg: true},
		},
	}

	out, err := (linuxamd64.Backend{}).Emit(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "sub rsp, 16") {
		t.Fatalf("expected a 16-byte aligned frame for one 8-byte slot:\n%s", out)
	}
	if !strings.Contains(out, "mov [rbp-8], rax") {
		t.Fatalf("expected the local to be stored at [rbp-8]:\n%s", out)
	}
}

func TestEmitCallLoadsStringArgumentAddress(t *testing.T) {
	prog := compiler.Program{
		DataSection: []byte("hi\x00"),
		Functions: map[string]compiler.FunctionSymbol{
			"main": {Storage: compiler.Internal},
			"puts": {Storage: compiler.External},
		},
		Ops: []ir.Op{
			ir.Function{Name: "main"},
			ir.Call{Result: 0, Name: "puts", Args: []ir.Arg{ir.DataOffset(0)}},
			ir.Ret{},
		},
	}

	out, err := (linuxamd64.Backend{}).Emit(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "extrn puts") {
		t.Fatalf("expected puts to be declared extrn:\n%s", out)
	}
	if !strings.Contains(out, "lea rdi, [eternal+0]") {
		t.Fatalf("expected the string address to load into rdi:\n%s", out)
	}
	if !strings.Contains(out, "call puts") {
		t.Fatalf("expected a call instruction:\n%s", out)
	}
}

func TestEmitUnaryNotLoadsBeforeTesting(t *testing.T) {
	prog := compiler.Program{
		Functions: map[string]compiler.FunctionSymbol{"main": {Storage: compiler.Internal}},
		Ops: []ir.Op{
			ir.Function{Name: "main"},
			ir.StackAlloc{Count: 1},
			ir.UnaryNot{Offset: 0, Arg: ir.Literal(ast.I32(0))},
			ir.Ret{},
		},
	}

	out, err := (linuxamd64.Backend{}).Emit(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loadIdx := strings.Index(out, "mov rax, 0")
	testIdx := strings.Index(out, "test rax, rax")
	if loadIdx == -1 || testIdx == -1 || loadIdx > testIdx {
		t.Fatalf("expected rax to be loaded before it is tested:\n%s", out)
	}
}
