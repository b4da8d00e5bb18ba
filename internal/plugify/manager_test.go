package plugify

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shivasurya/plugify/internal/config"
	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/langmodule"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/resolve"
	"github.com/shivasurya/plugify/internal/service"
)

// stubFilesystem is a minimal in-memory service.Filesystem fake covering
// just what Initialize's discovery/MkdirAll calls need.
type stubFilesystem struct {
	pluginFiles map[string][]byte
	moduleFiles map[string][]byte
}

func (f *stubFilesystem) ReadFile(path string) ([]byte, error) {
	if data, ok := f.pluginFiles[path]; ok {
		return data, nil
	}
	return f.moduleFiles[path], nil
}

func (f *stubFilesystem) WriteFile(string, []byte, os.FileMode) error { return nil }
func (f *stubFilesystem) MkdirAll(string) error                       { return nil }
func (f *stubFilesystem) Exists(string) bool                          { return true }

func (f *stubFilesystem) List(dir string, _ service.ListOptions) ([]string, error) {
	var out []string
	for path := range f.pluginFiles {
		out = append(out, path)
	}
	for path := range f.moduleFiles {
		out = append(out, path)
	}
	var filtered []string
	for _, path := range out {
		if len(path) >= len(dir) && path[:len(dir)] == dir {
			filtered = append(filtered, path)
		}
	}
	return filtered, nil
}

// fakeAdapter is an in-process langmodule.Adapter stub.
type fakeAdapter struct {
	language string
	bound    []manifest.Method
}

func (a *fakeAdapter) Language() string                                     { return a.language }
func (a *fakeAdapter) Initialize(context.Context, langmodule.Provider) error { return nil }
func (a *fakeAdapter) Terminate(context.Context)                            {}

func (a *fakeAdapter) LoadPlugin(_ context.Context, _ *extension.Extension) (langmodule.MethodTable, error) {
	return langmodule.MethodTable{Hooks: langmodule.HookStart}, nil
}

func (a *fakeAdapter) StartPlugin(context.Context, *extension.Extension) error     { return nil }
func (a *fakeAdapter) EndPlugin(context.Context, *extension.Extension)             {}
func (a *fakeAdapter) UpdatePlugin(context.Context, *extension.Extension, float64) {}

func (a *fakeAdapter) BindExternalMethod(method manifest.Method, _ uintptr) error {
	a.bound = append(a.bound, method)
	return nil
}

func manifestJSON(name, language, runtime string) []byte {
	if runtime != "" {
		return []byte(`{"name":"` + name + `","version":"1.0.0","language":"` + language + `","runtime":"` + runtime + `","directories":["a"]}`)
	}
	return []byte(`{"name":"` + name + `","version":"1.0.0","language":"` + language + `","entry":"lib.so","methods":[]}`)
}

func TestManager_InitializeLoadsModuleThenPlugin(t *testing.T) {
	loc := service.New()
	loc.RegisterManifestParser(service.ManifestParserFunc{})
	loc.RegisterDependencyResolver(service.ResolverFunc{})

	cfg := config.Config{BaseDir: "/base"}
	m := New(loc, cfg)

	fs := &stubFilesystem{
		pluginFiles: map[string][]byte{
			cfg.PluginsDir() + "/demo.pplugin": manifestJSON("demo", "pyruntime", ""),
		},
		moduleFiles: map[string][]byte{
			cfg.ModulesDir() + "/pyruntime.pmodule": manifestJSON("pyruntime", "python", "python3"),
		},
	}
	loc.RegisterFilesystem(fs)

	adapter := &fakeAdapter{language: "python"}
	m.RegisterLanguageModule(adapter)

	report, err := m.Initialize(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Extensions, 2)

	plugin, ok := m.FindExtension("demo")
	require.True(t, ok)
	require.Equal(t, extension.Running, plugin.State())

	module, ok := m.FindExtension("pyruntime")
	require.True(t, ok)
	require.Equal(t, extension.Running, module.State())

	m.Terminate(context.Background())
	require.Equal(t, extension.Terminated, plugin.State())
	require.Equal(t, extension.Terminated, module.State())
}

func TestManager_MissingLanguageModuleFailsPlugin(t *testing.T) {
	loc := service.New()
	loc.RegisterManifestParser(service.ManifestParserFunc{})
	loc.RegisterDependencyResolver(service.ResolverFunc{})

	cfg := config.Config{BaseDir: "/base"}
	m := New(loc, cfg)

	fs := &stubFilesystem{
		pluginFiles: map[string][]byte{
			cfg.PluginsDir() + "/demo.pplugin": manifestJSON("demo", "missing", ""),
		},
	}
	loc.RegisterFilesystem(fs)

	report, err := m.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, report.HadError)

	plugin, ok := m.FindExtension("demo")
	require.True(t, ok)
	require.True(t, plugin.State().IsFailure())
}

func TestApplyResolution_MarksUnresolved(t *testing.T) {
	loc := service.New()
	m := New(loc, config.Default())

	e := extension.New(manifest.Manifest{Name: "x", Language: "missing", Entry: "e"}, "x.pplugin")
	_ = e.MarkParsing()
	_ = e.MarkParsed()
	m.addExtension(e)

	res := resolve.DependencyResolution{
		Unresolved:  []string{"x"},
		Diagnostics: []resolve.Issue{{Severity: resolve.SeverityError, Name: "x", Message: "language module missing"}},
	}
	m.applyResolution(res)

	require.Equal(t, extension.Unresolved, e.State())
}
