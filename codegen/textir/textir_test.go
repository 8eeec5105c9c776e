package textir_test

import (
	"strings"
	"testing"

	"remi/ast"
	"remi/codegen"
	"remi/codegen/textir"
	"remi/compiler"
	"remi/ir"
)

func TestBackendRegistersUnderIR(t *testing.T) {
	if _, ok := codegen.Lookup("ir"); !ok {
		t.Fatalf(`expected textir to register itself under "ir"`)
	}
}

func TestEmitScenarioA(t *testing.T) {
	prog := compiler.Program{
		Ops: []ir.Op{
			ir.Function{Name: "main"},
			ir.Ret{Arg: ir.Literal(ast.I32(69)), HasArg: true},
		},
	}

	out, err := (textir.Backend{}).Emit(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `Function("main")`) {
		t.Fatalf("missing Function line in:\n%s", out)
	}
	if !strings.Contains(out, "Ret(Some(Literal(I32(69))))") {
		t.Fatalf("missing Ret line in:\n%s", out)
	}
	if !strings.HasPrefix(out, "; remi textual IR dump\n") {
		t.Fatalf("expected a header, got:\n%s", out)
	}
}

func TestEmitDataSection(t *testing.T) {
	prog := compiler.Program{
		DataSection: []byte{'h', 'i', 0},
		Ops:         []ir.Op{ir.Function{Name: "main"}, ir.Ret{}},
	}
	out, err := (textir.Backend{}).Emit(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "000000: 68 69 00") {
		t.Fatalf("expected a hex-dumped data row, got:\n%s", out)
	}
}

func TestEmitNeverFails(t *testing.T) {
	prog := compiler.Program{Ops: []ir.Op{ir.Jmp{Name: ".L0"}, ir.Label{Name: ".L0"}}}
	if _, err := (textir.Backend{}).Emit(prog); err != nil {
		t.Fatalf("textir backend must never fail, got: %v", err)
	}
}
