package ast

import "fmt"

// ValueKind discriminates the two literal value shapes the language
// supports: a 32-bit signed integer and a raw byte string.
type ValueKind int

const (
	I32Value ValueKind = iota
	StringValue
)

// Value is the sum type Literal expressions and IR literal Args
// carry: either a narrowed 32-bit integer or unescaped string
// contents.
type Value struct {
	Kind ValueKind
	I32  int32
	Str  string
}

// I32 constructs an integer Value, narrowing from the lexer's 64-bit
// literal the way the language's integer type narrows.
func I32(n int32) Value { return Value{Kind: I32Value, I32: n} }

// Str constructs a string Value from the unescaped literal contents.
func Str(s string) Value { return Value{Kind: StringValue, Str: s} }

func (v Value) String() string {
	switch v.Kind {
	case I32Value:
		return fmt.Sprintf("%d", v.I32)
	case StringValue:
		return fmt.Sprintf("%q", v.Str)
	default:
		return "<invalid value>"
	}
}
