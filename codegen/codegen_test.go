package codegen_test

import (
	"testing"

	"remi/codegen"
	"remi/compiler"
)

type stubBackend struct{}

func (stubBackend) Emit(compiler.Program) (string, error) { return "stub", nil }

func TestRegisterAndLookup(t *testing.T) {
	codegen.Register("stub-target", stubBackend{})

	backend, ok := codegen.Lookup("stub-target")
	if !ok {
		t.Fatalf("expected stub-target to be registered")
	}
	out, err := backend.Emit(compiler.Program{})
	if err != nil || out != "stub" {
		t.Fatalf("unexpected Emit result: %q, %v", out, err)
	}
}

func TestLookupMissingTarget(t *testing.T) {
	if _, ok := codegen.Lookup("does-not-exist"); ok {
		t.Fatalf("expected lookup of an unregistered target to fail")
	}
}

func TestRegisterTwiceForSameTargetPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic on duplicate registration")
		}
	}()
	codegen.Register("dup-target", stubBackend{})
	codegen.Register("dup-target", stubBackend{})
}
