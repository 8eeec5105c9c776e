// Package codegen defines the interface every backend implements and
// a small self-registering driver registry, in the spirit of Go's own
// database/sql and image packages: a backend subpackage registers
// itself in its init() function under a target key, and the driver
// looks the key up by name without importing the backend package
// directly.
package codegen

import (
	"fmt"
	"sort"
	"sync"

	"remi/compiler"
)

// Backend lowers an already-compiled Program into target text. A
// Backend must not mutate prog.
type Backend interface {
	// Emit produces the backend's textual output for prog.
	Emit(prog compiler.Program) (string, error)
}

// Unsupported is raised when a backend encounters an IR op it cannot
// emit — currently only the high-level embedded emitter raises this.
type Unsupported struct {
	Op string
}

func (e Unsupported) Error() string {
	return fmt.Sprintf("unsupported operation for this target: %s", e.Op)
}

// InvalidOperation signals a structural violation in the IR that no
// well-formed lowering should ever produce (e.g. a ParamAssign
// targeting a non-local destination).
type InvalidOperation struct {
	Message string
}

func (e InvalidOperation) Error() string {
	return e.Message
}

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register installs a Backend under target. Called from each backend
// subpackage's init(); panics on a duplicate target, the same
// contract database/sql's Register follows.
func Register(target string, backend Backend) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := backends[target]; dup {
		panic("codegen: Register called twice for target " + target)
	}
	backends[target] = backend
}

// Lookup returns the Backend registered under target, or false if no
// backend has registered itself under that name.
func Lookup(target string) (Backend, bool) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := backends[target]
	return b, ok
}

// Targets returns every registered target key, sorted, for use in
// CLI help text and error messages.
func Targets() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
