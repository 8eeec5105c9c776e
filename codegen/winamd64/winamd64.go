// Package winamd64 implements the x86-64 Microsoft x64 backend: flat
// assembler output targeting Windows COFF, using the Microsoft x64
// calling convention (integer args in rcx, rdx, r8, r9; the caller
// must reserve 32 bytes of shadow space before every call).
package winamd64

import (
	"remi/codegen"
	"remi/codegen/nativeasm"
	"remi/compiler"
)

func init() {
	codegen.Register("windows-x86_64", Backend{})
}

var abi = nativeasm.ABI{
	FormatLine:      "format ms64 coff",
	DataSectionLine: "section '.data' data readable writeable",
	TextSectionLine: "section '.text' code readable executable",
	ArgRegisters:    []string{"rcx", "rdx", "r8", "r9"},
	ShadowSpace:     32,
	AlwaysPublic:    []string{"main"},
}

// Backend implements codegen.Backend for windows-x86_64.
type Backend struct{}

func (Backend) Emit(prog compiler.Program) (string, error) {
	return nativeasm.Emit(prog, abi)
}
