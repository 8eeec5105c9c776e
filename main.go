package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	_ "remi/codegen/highlevel"
	_ "remi/codegen/linuxamd64"
	_ "remi/codegen/textir"
	_ "remi/codegen/winamd64"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&dumpCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
