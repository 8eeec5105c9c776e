package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"remi/ast"
	"remi/codegen/textir"
	"remi/compiler"
	"remi/lexer"
	"remi/parser"
)

// replCmd implements the read-lower-print loop. Remi has no
// interpreter, so there is nothing to evaluate: each line is lowered
// against every statement entered so far and the resulting IR is
// printed, the same way cmd_dump.go exercises codegen/textir for a
// whole file.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start a read-lower-print session" }
func (*replCmd) Usage() string {
	return `repl:
  Lower Remi statements one line at a time and print their IR.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func runRepl(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	backend := textir.Backend{}
	var statements []ast.Stmt

	for {
		fmt.Fprintf(out, ">>> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" {
			return
		}
		if line == "" {
			continue
		}

		lex := lexer.New(line)
		tokens, err := lex.Scan()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		p := parser.New(tokens)
		stmts, parseErrs := p.Parse()
		if len(parseErrs) > 0 {
			for _, pErr := range parseErrs {
				fmt.Fprintln(os.Stderr, pErr)
			}
			continue
		}

		candidate := append(append([]ast.Stmt{}, statements...), stmts...)
		prog, err := compiler.Lower(candidate)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		statements = candidate

		text, _ := backend.Emit(prog)
		fmt.Fprint(out, text)
	}
}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("\n\nWelcome to Remi!")
	runRepl(os.Stdin, os.Stdout)
	return subcommands.ExitSuccess
}
