// Package service defines the Manager's collaborators: logger,
// filesystem, manifest parser, dependency resolver, assembly loader, and
// progress reporter, each addressed only by interface. Register/Get run
// single-threaded during Manager.Initialize and are read-only afterward,
// so Locator itself needs no internal locking on the hot path — only the
// Logger collaborator is documented safe to call from any thread.
package service

import (
	"os"

	"github.com/shivasurya/plugify/internal/abi"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/resolve"
	"github.com/shivasurya/plugify/output"
)

// Logger is the host logging surface every component, including a
// language module adapter, logs through. Severity matches §6's six
// levels exactly.
type Logger interface {
	Log(message string, severity output.Severity)
}

// Filesystem is the host filesystem surface the Manager uses for
// discovery and for a module's declared data directories. Every method
// returns an error instead of panicking; no method is ever called with a
// path it has not already confirmed stays within a base directory.
type Filesystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	// List enumerates dir, applying recursion/depth/extension/predicate
	// filters via opts.
	List(dir string, opts ListOptions) ([]string, error)
	MkdirAll(path string) error
	Exists(path string) bool
}

// ListOptions configures Filesystem.List.
type ListOptions struct {
	Recursive bool
	MaxDepth  int // 0 means unlimited when Recursive is set
	Ext       string
	Predicate func(path string) bool
}

// ManifestParser parses a manifest file's raw bytes into a
// manifest.Manifest, per internal/manifest.Parse's contract.
type ManifestParser interface {
	Parse(data []byte, declaredKind manifest.Kind, opts manifest.ParseOptions) (manifest.ParseResult, error)
}

// DependencyResolver orders a set of discovered manifests, per
// internal/resolve.Resolve's contract.
type DependencyResolver interface {
	Resolve(manifests []manifest.Manifest) resolve.DependencyResolution
}

// AssemblyLoader loads a native module and resolves symbols/sections
// within it, per internal/assembly.Assembly's contract.
type AssemblyLoader interface {
	Load(path string, flags int) (Assembly, error)
}

// Assembly is the narrow surface the Manager needs from a loaded module:
// enough to resolve an exported method's address and release it again.
type Assembly interface {
	Symbol(name string) (uintptr, error)
	Close() error
}

// ProgressReporter reports coarse-grained progress during a long-running
// pass (discovery, resolution, loading) without coupling to the Logger's
// line-oriented output.
type ProgressReporter interface {
	Start(description string, total int)
	Advance(delta int)
	Finish()
}

// Signature re-exports internal/abi.Signature so callers that only need
// the service package don't also need to import internal/abi directly.
type Signature = abi.Signature

// Locator is the Manager's typed service registry. Each collaborator is
// registered once during Initialize and read many times afterward.
type Locator struct {
	logger     Logger
	filesystem Filesystem
	parser     ManifestParser
	resolver   DependencyResolver
	loader     AssemblyLoader
	progress   ProgressReporter
}

// New builds an empty Locator; callers register collaborators with the
// RegisterX methods before Initialize runs.
func New() *Locator { return &Locator{} }

func (l *Locator) RegisterLogger(v Logger)               { l.logger = v }
func (l *Locator) RegisterFilesystem(v Filesystem)        { l.filesystem = v }
func (l *Locator) RegisterManifestParser(v ManifestParser) { l.parser = v }
func (l *Locator) RegisterDependencyResolver(v DependencyResolver) { l.resolver = v }
func (l *Locator) RegisterAssemblyLoader(v AssemblyLoader) { l.loader = v }
func (l *Locator) RegisterProgressReporter(v ProgressReporter) { l.progress = v }

func (l *Locator) Logger() Logger                         { return l.logger }
func (l *Locator) Filesystem() Filesystem                 { return l.filesystem }
func (l *Locator) ManifestParser() ManifestParser         { return l.parser }
func (l *Locator) DependencyResolver() DependencyResolver { return l.resolver }
func (l *Locator) AssemblyLoader() AssemblyLoader         { return l.loader }
func (l *Locator) ProgressReporter() ProgressReporter     { return l.progress }
