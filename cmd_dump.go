package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"remi/driver"
)

type dumpCmd struct {
	output string
}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "Dump the textual IR for a source file" }
func (*dumpCmd) Usage() string {
	return `dump [-o out] <file>:
  Lower a Remi source file and print its IR.
`
}

func (d *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.output, "o", "", "output path (defaults to stdout)")
}

func (d *dumpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}

	artifact, err := driver.CompileFile(args[0], driver.Options{Target: "ir"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}

	if d.output == "" {
		fmt.Print(artifact.Text)
		return subcommands.ExitSuccess
	}

	if err := os.WriteFile(d.output, []byte(artifact.Text), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to write %s: %v\n", d.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
