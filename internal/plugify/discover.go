package plugify

import (
	"path/filepath"
	"strings"

	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/service"
	"github.com/shivasurya/plugify/output"
)

// found is one discovered manifest file, still unparsed.
type found struct {
	path string
	kind manifest.Kind
}

// discover enumerates the plugins/ and modules/ subdirectories of the
// Manager's configured base directory, plus any extraRoots (package
// bundles already materialized by installPackages), per §6's discovery
// layout.
func (m *Manager) discover(fs service.Filesystem, extraRoots []string) []found {
	var out []found

	roots := append([]string{m.cfg.PluginsDir()}, extraRoots...)
	for _, root := range roots {
		pluginFiles, err := fs.List(root, service.ListOptions{Recursive: true, Ext: ".pplugin"})
		if err != nil {
			m.log(output.SeverityDebug, "discovery: %s unavailable: %v", root, err)
			continue
		}
		for _, p := range pluginFiles {
			out = append(out, found{path: p, kind: manifest.KindPlugin})
		}
	}

	roots = append([]string{m.cfg.ModulesDir()}, extraRoots...)
	for _, root := range roots {
		moduleFiles, err := fs.List(root, service.ListOptions{Recursive: true, Ext: ".pmodule"})
		if err != nil {
			m.log(output.SeverityDebug, "discovery: %s unavailable: %v", root, err)
			continue
		}
		for _, p := range moduleFiles {
			out = append(out, found{path: p, kind: manifest.KindModule})
		}
	}

	return out
}

// parseAndRegister reads and parses every discovered file, registering an
// Extension for each (Corrupted immediately on a parse failure), and
// returns the manifests of everything that parsed, for the resolver.
func (m *Manager) parseAndRegister(files []found) []manifest.Manifest {
	fs := m.loc.Filesystem()
	parser := m.loc.ManifestParser()

	var manifests []manifest.Manifest
	for _, f := range files {
		data, err := fs.ReadFile(f.path)
		if err != nil {
			m.registerCorrupted(stemName(f.path), f.path, err.Error())
			continue
		}

		result, err := parser.Parse(data, f.kind, manifest.ParseOptions{Lenient: true})
		if err != nil {
			m.registerCorrupted(stemName(f.path), f.path, err.Error())
			continue
		}

		e := extension.New(result.Manifest, f.path)
		for _, w := range result.Warnings {
			e.AddWarning(w)
		}
		_ = e.MarkParsing()
		_ = e.MarkParsed()
		m.addExtension(e)
		manifests = append(manifests, result.Manifest)
	}
	return manifests
}

func (m *Manager) registerCorrupted(name, path, reason string) {
	stub := manifest.Manifest{Name: name}
	e := extension.New(stub, path)
	_ = e.MarkParsing()
	e.MarkCorrupted(reason)
	m.addExtension(e)
	m.log(output.SeverityError, "manifest malformed at %s: %s", path, reason)
}

func stemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
