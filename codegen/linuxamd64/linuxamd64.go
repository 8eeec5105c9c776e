// Package linuxamd64 implements the x86-64 System V backend: flat
// assembler output targeting Linux ELF64, using the System V AMD64
// calling convention (integer args in rdi, rsi, rdx, rcx, r8, r9; no
// caller-reserved shadow space).
package linuxamd64

import (
	"remi/codegen"
	"remi/codegen/nativeasm"
	"remi/compiler"
)

func init() {
	codegen.Register("linux-x86_64", Backend{})
}

var abi = nativeasm.ABI{
	FormatLine:      "format elf64",
	DataSectionLine: "section '.data' writeable",
	TextSectionLine: "section '.text' executable",
	ArgRegisters:    []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"},
	ShadowSpace:     0,
}

// Backend implements codegen.Backend for linux-x86_64.
type Backend struct{}

func (Backend) Emit(prog compiler.Program) (string, error) {
	return nativeasm.Emit(prog, abi)
}
