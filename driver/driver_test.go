package driver_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"remi/driver"

	_ "remi/codegen/textir"
)

func writeSource(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestCompileFileEmitsViaRegisteredBackend(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.remi", `spellcard main() i32 { offer 69; }`)

	artifact, err := driver.CompileFile(path, driver.Options{Target: "ir"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(artifact.Text, `Function("main")`) {
		t.Fatalf("expected the ir backend output, got:\n%s", artifact.Text)
	}
	if artifact.SourcePath != path {
		t.Fatalf("expected SourcePath to be %q, got %q", path, artifact.SourcePath)
	}
}

func TestCompileFileUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.remi", `spellcard main() i32 { offer 69; }`)

	if _, err := driver.CompileFile(path, driver.Options{Target: "does-not-exist"}); err == nil {
		t.Fatalf("expected an error for an unregistered target")
	}
}

func TestCompileFileMissingSource(t *testing.T) {
	_, err := driver.CompileFile(filepath.Join(t.TempDir(), "missing.remi"), driver.Options{Target: "ir"})
	if err == nil {
		t.Fatalf("expected an error reading a missing file")
	}
}

func TestCompileFileSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.remi", `spellcard main() i32 { }}}`)

	if _, err := driver.CompileFile(path, driver.Options{Target: "ir"}); err == nil {
		t.Fatalf("expected a parse error to surface")
	}
}

func TestCompileAllStopsAtFirstErrorByDefault(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.remi", `spellcard main() i32 { offer 69; }`)
	bad := writeSource(t, dir, "bad.remi", `spellcard main() i32 { }}}`)
	alsoGood := writeSource(t, dir, "also_good.remi", `spellcard main() i32 { offer 1; }`)

	artifacts, err := driver.CompileAll([]string{good, bad, alsoGood}, driver.Options{Target: "ir"})
	if err == nil {
		t.Fatalf("expected an error from the bad file")
	}
	if len(artifacts) != 1 {
		t.Fatalf("expected to stop after the first file, got %d artifacts", len(artifacts))
	}
}

func TestCompileAllKeepGoingCollectsEveryArtifact(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.remi", `spellcard main() i32 { offer 69; }`)
	bad := writeSource(t, dir, "bad.remi", `spellcard main() i32 { }}}`)
	alsoGood := writeSource(t, dir, "also_good.remi", `spellcard main() i32 { offer 1; }`)

	artifacts, err := driver.CompileAll([]string{good, bad, alsoGood}, driver.Options{Target: "ir", KeepGoing: true})
	if err == nil {
		t.Fatalf("expected the first error to still be reported")
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected both good files to produce artifacts, got %d", len(artifacts))
	}
}

func TestCleanupRemovesTemporariesUnlessKept(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "scratch.asm", "format elf64\n")

	if err := driver.Cleanup([]string{path}, true); err != nil {
		t.Fatalf("unexpected error keeping temporaries: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected the file to survive when keep=true: %v", err)
	}

	if err := driver.Cleanup([]string{path}, false); err != nil {
		t.Fatalf("unexpected error removing temporaries: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected the file to be removed when keep=false")
	}
}

func TestCleanupToleratesAlreadyMissingFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-created.o")
	if err := driver.Cleanup([]string{path}, false); err != nil {
		t.Fatalf("expected cleanup of an already-missing file to succeed, got: %v", err)
	}
}

func TestLoggerNilSafe(t *testing.T) {
	var logger *driver.Logger
	logger.Printf("this must not panic: %d", 1)
}
