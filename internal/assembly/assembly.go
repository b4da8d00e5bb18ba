// Package assembly represents a loaded dynamic library: construction
// from a path, symbol/vtable/section lookup, and an array-of-bytes
// pattern scanner. Loading and symbol resolution are delegated to
// github.com/ebitengine/purego's cross-platform Dlopen/Dlsym, the same
// dependency internal/jit already uses, rather than hand-rolling a
// per-OS dlopen/LoadLibrary wrapper with cgo.
package assembly

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Assembly is a loaded native module. A failed Load returns a non-nil,
// invalid Assembly: every read operation on it returns ErrNotFound
// instead of panicking, and Err reports why construction failed.
type Assembly struct {
	path   string
	handle uintptr
	valid  bool
	err    error
}

// ErrNotFound is returned by every read operation (Symbol, VirtualTable,
// FindPattern, Section) that cannot locate what it was asked for,
// including every call on an invalid Assembly.
var ErrNotFound = fmt.Errorf("assembly: not found")

// Load opens the dynamic library at path with the given portable flags.
func Load(path string, flags LoadFlags) *Assembly {
	handle, err := purego.Dlopen(path, toDlopenMode(flags))
	if err != nil {
		return &Assembly{path: path, err: fmt.Errorf("assembly: load %q: %w", path, err)}
	}
	return &Assembly{path: path, handle: handle, valid: true}
}

// FromHandle wraps an already-open OS module handle (e.g. one obtained
// elsewhere in the process) without loading anything new.
func FromHandle(path string, handle uintptr) *Assembly {
	if handle == 0 {
		return &Assembly{path: path, err: fmt.Errorf("assembly: nil handle for %q", path)}
	}
	return &Assembly{path: path, handle: handle, valid: true}
}

// Valid reports whether construction succeeded.
func (a *Assembly) Valid() bool { return a.valid }

// Err is the human-readable construction failure, if any.
func (a *Assembly) Err() error { return a.err }

// Path is the library path this Assembly was constructed from.
func (a *Assembly) Path() string { return a.path }

// Symbol performs a direct linker lookup of name.
func (a *Assembly) Symbol(name string) (uintptr, error) {
	if !a.valid {
		return 0, ErrNotFound
	}
	addr, err := purego.Dlsym(a.handle, name)
	if err != nil || addr == 0 {
		return 0, ErrNotFound
	}
	return addr, nil
}

// Close unloads the library. Any OS-reported error is returned to the
// caller to log, never propagated as a panic; per §4.1's destruction
// contract the caller decides whether it matters.
func (a *Assembly) Close() error {
	if !a.valid {
		return nil
	}
	a.valid = false
	return purego.Dlclose(a.handle)
}
