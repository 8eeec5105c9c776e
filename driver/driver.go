// Package driver orchestrates the core compiler pipeline (lexer,
// parser, lowering, codegen) against files on disk and the external
// assembler/linker toolchain. None of this is part of the compiler
// core: it exists to turn emitted text into a runnable binary.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"remi/codegen"
	"remi/compiler"
	"remi/lexer"
	"remi/parser"
)

// Options controls one CompileFile/Assemble/Link invocation.
type Options struct {
	Target      string
	Assembler   string
	CC          string
	LinkerFlags string
	KeepGoing   bool
	Verbose     bool
	Logger      *Logger
}

// Artifact is the result of running one source file through the pipeline.
type Artifact struct {
	SourcePath string
	Target     string
	Text       string
}

// CompileFile reads path, runs it through the lexer, parser, and
// lowering pass, and emits target text via the backend registered
// under opts.Target. Each call gets a fresh lowering state: there is
// no shared compiler.Program across files.
func CompileFile(path string, opts Options) (Artifact, error) {
	backend, ok := codegen.Lookup(opts.Target)
	if !ok {
		return Artifact{}, errors.Errorf("no backend registered for target %q", opts.Target)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "reading %s", path)
	}

	lex := lexer.New(string(data))
	tokens, err := lex.Scan()
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "lexing %s", path)
	}
	opts.Logger.Printf("lexed %d tokens from %s", len(tokens), path)

	p := parser.New(tokens)
	statements, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return Artifact{}, errors.Wrapf(joinErrors(parseErrs), "parsing %s", path)
	}
	opts.Logger.Printf("parsed %d statements from %s", len(statements), path)

	prog, err := compiler.Lower(statements)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "lowering %s", path)
	}
	opts.Logger.Printf("lowered %d ops from %s", len(prog.Ops), path)

	text, err := backend.Emit(prog)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "emitting %s for target %s", path, opts.Target)
	}
	opts.Logger.Printf("invoked %s backend for %s", opts.Target, path)

	return Artifact{SourcePath: path, Target: opts.Target, Text: text}, nil
}

// CompileAll folds CompileFile over paths in order. It stops at the
// first error unless opts.KeepGoing is set, in which case it keeps
// going and returns every artifact it managed to produce alongside
// the first error encountered.
func CompileAll(paths []string, opts Options) ([]Artifact, error) {
	var artifacts []Artifact
	var firstErr error

	for _, path := range paths {
		artifact, err := CompileFile(path, opts)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if !opts.KeepGoing {
				return artifacts, firstErr
			}
			continue
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, firstErr
}

// Assemble shells out to the configured assembler, synchronously, to
// turn asmPath into an object file next to it. It returns the path to
// the produced object file.
func Assemble(asmPath string, opts Options) (string, error) {
	assembler := opts.Assembler
	if assembler == "" {
		assembler = "fasm"
	}
	objPath := strings.TrimSuffix(asmPath, filepath.Ext(asmPath)) + ".o"

	cmd := exec.Command(assembler, asmPath, objPath)
	out, err := cmd.CombinedOutput()
	opts.Logger.Printf("invoked %s on %s", assembler, asmPath)
	if err != nil {
		return "", errors.Wrapf(err, "invoking %s on %s: %s", assembler, asmPath, out)
	}

	return objPath, nil
}

// Link shells out to the configured C compiler to link objPaths into
// outPath, passing -no-pie plus any user linker flags.
func Link(objPaths []string, outPath string, opts Options) error {
	cc := opts.CC
	if cc == "" {
		cc = "cc"
	}

	args := append([]string{"-no-pie", "-o", outPath}, objPaths...)
	if flags := strings.Fields(opts.LinkerFlags); len(flags) > 0 {
		args = append(args, flags...)
	}

	cmd := exec.Command(cc, args...)
	out, err := cmd.CombinedOutput()
	opts.Logger.Printf("invoked %s to link %s", cc, outPath)
	if err != nil {
		return errors.Wrapf(err, "invoking %s to produce %s: %s", cc, outPath, out)
	}

	return nil
}

// Cleanup removes the given temporary files (.asm/.o) unless keep is set.
func Cleanup(paths []string, keep bool) error {
	if keep {
		return nil
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing temporary %s", path)
		}
	}
	return nil
}

func joinErrors(errs []error) error {
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return fmt.Errorf("%s", b.String())
}
