package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/subcommands"

	"remi/config"
	"remi/driver"
)

type compileCmd struct {
	output  string
	target  string
	ldflags string
	asmOnly bool
	objOnly bool
	keep    bool
	verbose bool
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile Remi source files to a native binary" }
func (*compileCmd) Usage() string {
	return `compile [-o out] [-target target] [-ldflags flags] [-S] [-c] [-keep] [-v] <file...>:
  Compile one or more Remi source files.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output path (defaults to the first source file's base name)")
	f.StringVar(&c.target, "target", "", "windows-x86_64|linux-x86_64|javascript|ir|bytecode|objectfile")
	f.StringVar(&c.ldflags, "ldflags", "", "linker flags, space separated")
	f.BoolVar(&c.asmOnly, "S", false, "emit assembly only, skip assemble+link")
	f.BoolVar(&c.objOnly, "c", false, "emit an object file only, skip link")
	f.BoolVar(&c.keep, "keep", false, "keep .asm/.o temporaries")
	f.BoolVar(&c.verbose, "v", false, "print one line per pipeline stage to stderr")
}

func hostTarget() string {
	if runtime.GOOS == "windows" {
		return "windows-x86_64"
	}
	return "linux-x86_64"
}

func (c *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	paths := f.Args()
	if len(paths) < 1 {
		fmt.Fprintf(os.Stderr, "💥 No source files provided\n")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load("remi.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read remi.toml: %v\n", err)
		return subcommands.ExitFailure
	}

	target := c.target
	if target == "" {
		target = cfg.Build.DefaultTarget
	}
	if target == "" {
		target = hostTarget()
	}

	if target == "bytecode" {
		fmt.Fprintf(os.Stderr, "💥 target \"bytecode\" has no backend\n")
		return subcommands.ExitFailure
	}

	objectFile := target == "objectfile"
	if objectFile {
		target = hostTarget()
		c.objOnly = true
	}

	ldflags := c.ldflags
	if ldflags == "" {
		ldflags = cfg.Toolchain.LinkerFlags
	}

	opts := driver.Options{
		Target:      target,
		Assembler:   cfg.Toolchain.Assembler,
		CC:          cfg.Toolchain.CC,
		LinkerFlags: ldflags,
		KeepGoing:   false,
		Logger:      driver.New(os.Stderr, c.verbose || cfg.Build.Verbose),
	}

	artifacts, err := driver.CompileAll(paths, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	}

	if target == "javascript" || target == "ir" {
		return writeTextArtifacts(artifacts, output)
	}

	keep := c.keep || cfg.Build.KeepTemporaries
	var temporaries, objects []string

	for i, artifact := range artifacts {
		asmPath := output + fmt.Sprintf(".%d.asm", i)
		if len(artifacts) == 1 {
			asmPath = output + ".asm"
		}
		if err := os.WriteFile(asmPath, []byte(artifact.Text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to write %s: %v\n", asmPath, err)
			return subcommands.ExitFailure
		}
		temporaries = append(temporaries, asmPath)

		if c.asmOnly {
			continue
		}

		objPath, err := driver.Assemble(asmPath, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
		temporaries = append(temporaries, objPath)
		objects = append(objects, objPath)
	}

	if c.asmOnly {
		return subcommands.ExitSuccess
	}
	if c.objOnly {
		if err := driver.Cleanup(objects, true); err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		}
		if asmOnly := filterAsm(temporaries); len(asmOnly) > 0 {
			if err := driver.Cleanup(asmOnly, keep); err != nil {
				fmt.Fprintf(os.Stderr, "💥 %v\n", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	}

	if err := driver.Link(objects, output, opts); err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}

	if err := driver.Cleanup(temporaries, keep); err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func filterAsm(paths []string) []string {
	var asm []string
	for _, p := range paths {
		if strings.HasSuffix(p, ".asm") {
			asm = append(asm, p)
		}
	}
	return asm
}

func writeTextArtifacts(artifacts []driver.Artifact, output string) subcommands.ExitStatus {
	for i, artifact := range artifacts {
		path := output
		if len(artifacts) > 1 {
			path = fmt.Sprintf("%s.%d", output, i)
		}
		if err := os.WriteFile(path, []byte(artifact.Text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "💥 Failed to write %s: %v\n", path, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
