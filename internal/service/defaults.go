package service

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shivasurya/plugify/internal/assembly"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/resolve"
	"github.com/shivasurya/plugify/output"
)

// OSFilesystem is the default Filesystem, backed directly by the os and
// path/filepath packages.
type OSFilesystem struct{}

var _ Filesystem = OSFilesystem{}

func (OSFilesystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFilesystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFilesystem) MkdirAll(path string) error { return os.MkdirAll(path, 0o755) }

func (OSFilesystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFilesystem) List(dir string, opts ListOptions) ([]string, error) {
	var out []string
	baseDepth := strings.Count(filepath.Clean(dir), string(filepath.Separator))

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path == dir {
				return nil
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 {
				depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - baseDepth
				if depth >= opts.MaxDepth {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if opts.Ext != "" && filepath.Ext(path) != opts.Ext {
			return nil
		}
		if opts.Predicate != nil && !opts.Predicate(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

// ManifestParserFunc wraps internal/manifest.Parse to satisfy
// ManifestParser without manifest depending on service (which would
// cycle, since service already depends on manifest for its types).
type ManifestParserFunc struct{ Options manifest.ParseOptions }

var _ ManifestParser = ManifestParserFunc{}

func (f ManifestParserFunc) Parse(data []byte, declaredKind manifest.Kind, opts manifest.ParseOptions) (manifest.ParseResult, error) {
	return manifest.Parse(data, declaredKind, opts)
}

// ResolverFunc wraps internal/resolve.Resolve to satisfy
// DependencyResolver.
type ResolverFunc struct{}

var _ DependencyResolver = ResolverFunc{}

func (ResolverFunc) Resolve(manifests []manifest.Manifest) resolve.DependencyResolution {
	return resolve.Resolve(manifests)
}

// LoggerAdapter adapts *output.Logger (which exposes many severity-named
// methods) to the single-method Logger interface.
type LoggerAdapter struct{ Logger *output.Logger }

var _ Logger = LoggerAdapter{}

func (a LoggerAdapter) Log(message string, severity output.Severity) {
	a.Logger.Log(message, severity)
}

// ProgressAdapter adapts *output.Logger's progress-bar methods to the
// ProgressReporter interface.
type ProgressAdapter struct{ Logger *output.Logger }

var _ ProgressReporter = ProgressAdapter{}

func (a ProgressAdapter) Start(description string, total int) {
	_ = a.Logger.StartProgress(description, total)
}

func (a ProgressAdapter) Advance(delta int) { _ = a.Logger.UpdateProgress(delta) }

func (a ProgressAdapter) Finish() { _ = a.Logger.FinishProgress() }

// AssemblyLoaderFunc wraps internal/assembly.Load to satisfy
// AssemblyLoader; flags is the bit pattern of an assembly.LoadFlags
// value, passed as a plain int so this package does not need to
// re-export internal/assembly's type.
type AssemblyLoaderFunc struct{}

var _ AssemblyLoader = AssemblyLoaderFunc{}

func (AssemblyLoaderFunc) Load(path string, flags int) (Assembly, error) {
	a := assembly.Load(path, assembly.LoadFlags(flags))
	if !a.Valid() {
		return nil, a.Err()
	}
	return a, nil
}
