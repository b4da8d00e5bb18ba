// Package plugify implements the Manager (§4.8): the object that owns the
// extension collection and the service locator, and drives every extension
// through discovery, dependency resolution, loading, export binding, and
// the start/update/terminate lifecycle.
package plugify

import (
	"context"
	"fmt"
	"sync"

	"github.com/shivasurya/plugify/internal/config"
	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/jit"
	"github.com/shivasurya/plugify/internal/langmodule"
	"github.com/shivasurya/plugify/internal/langmodule/rpc"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/perr"
	"github.com/shivasurya/plugify/internal/service"
	"github.com/shivasurya/plugify/output"
)

// ServiceLocator is the Manager's typed collaborator registry (§4.9, backed
// by internal/service.Locator's implementation).
type ServiceLocator = service.Locator

// Manager owns every discovered Extension and drives its lifecycle. All
// public methods except Logger-routed calls are expected to run from a
// single goroutine, per §5's concurrency model; Update is safe to call
// from a dedicated update-thread goroutine provided nothing else touches
// the Manager concurrently.
type Manager struct {
	loc *ServiceLocator
	cfg config.Config

	mu         sync.Mutex
	extensions []*extension.Extension
	byName     map[string]*extension.Extension

	adapters     map[string]langmodule.Adapter                  // keyed by adapter.Language()
	hooks        map[extension.UniqueId]langmodule.HookFlags    // populated by loadPass from each plugin's MethodTable
	methodTables map[extension.UniqueId]langmodule.MethodTable  // populated by loadPass
	thunks       []*jit.InThunk                                 // export-bound callbacks, released at Terminate
}

// New builds a Manager over an already-populated ServiceLocator and a
// loaded Config.
func New(loc *ServiceLocator, cfg config.Config) *Manager {
	return &Manager{
		loc:          loc,
		cfg:          cfg,
		byName:       make(map[string]*extension.Extension),
		adapters:     make(map[string]langmodule.Adapter),
		hooks:        make(map[extension.UniqueId]langmodule.HookFlags),
		methodTables: make(map[extension.UniqueId]langmodule.MethodTable),
	}
}

// RegisterLanguageModule makes adapter available to load plugins whose
// language module manifest declares adapter.Language().
func (m *Manager) RegisterLanguageModule(adapter langmodule.Adapter) {
	m.adapters[adapter.Language()] = adapter
}

// registerConfiguredLanguageModules spawns an out-of-process
// internal/langmodule/rpc.Client for every config.LanguageModule entry
// whose language has no in-process adapter already registered via
// RegisterLanguageModule (an explicit in-process registration always
// takes precedence over the config-driven subprocess one).
func (m *Manager) registerConfiguredLanguageModules() {
	for _, lm := range m.cfg.LanguageModules {
		if _, exists := m.adapters[lm.Language]; exists {
			continue
		}
		m.RegisterLanguageModule(rpc.New(lm.Language, lm.Command, lm.Args...))
	}
}

func (m *Manager) logger() service.Logger { return m.loc.Logger() }

func (m *Manager) log(severity output.Severity, format string, args ...interface{}) {
	if l := m.logger(); l != nil {
		l.Log(fmt.Sprintf(format, args...), severity)
	}
}

// FindExtension looks up an extension by its manifest name or its
// process-assigned UniqueId (rendered as a decimal string).
func (m *Manager) FindExtension(nameOrID string) (*extension.Extension, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byName[nameOrID]; ok {
		return e, true
	}
	for _, e := range m.extensions {
		if fmt.Sprintf("%d", e.ID()) == nameOrID {
			return e, true
		}
	}
	return nil, false
}

// ExtensionsByType returns every discovered extension of the given kind, in
// discovery order.
func (m *Manager) ExtensionsByType(kind manifest.Kind) []*extension.Extension {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*extension.Extension
	for _, e := range m.extensions {
		if e.Manifest().Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Extensions returns every discovered extension, in discovery order.
func (m *Manager) Extensions() []*extension.Extension {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*extension.Extension, len(m.extensions))
	copy(out, m.extensions)
	return out
}

func (m *Manager) addExtension(e *extension.Extension) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extensions = append(m.extensions, e)
	m.byName[e.Name()] = e
}

// Initialize runs discovery, parsing, resolution, and the load/export/start
// passes. It returns a Report describing every extension's outcome even
// when individual extensions failed; only a collaborator-level failure
// (e.g. no Filesystem registered, base directories cannot be created)
// returns a non-nil error.
func (m *Manager) Initialize(ctx context.Context) (Report, error) {
	fs := m.loc.Filesystem()
	if fs == nil {
		return Report{}, perr.Wrapf(perr.RuntimeStartFailed, "manager", "no filesystem collaborator registered")
	}
	if m.loc.DependencyResolver() == nil {
		return Report{}, perr.Wrapf(perr.RuntimeStartFailed, "manager", "no dependency resolver collaborator registered")
	}

	for _, dir := range []string{m.cfg.ConfigsDir(), m.cfg.DataDir(), m.cfg.LogsDir()} {
		if err := fs.MkdirAll(dir); err != nil {
			return Report{}, perr.Wrapf(perr.RuntimeStartFailed, dir, "create base directory: %v", err)
		}
	}

	m.registerConfiguredLanguageModules()
	extraRoots := m.installPackages()

	found := m.discover(fs, extraRoots)
	manifests := m.parseAndRegister(found)

	resolution := m.loc.DependencyResolver().Resolve(manifests)
	m.applyResolution(resolution)

	m.loadPass(ctx)
	m.exportPass()
	m.startPass(ctx)

	return m.buildReport(), nil
}

// Terminate drives every Running extension through End->Terminate in
// reverse load order, then unloads every Loaded module. It is idempotent
// and best-effort: failures are logged, never propagated, per §4.8.
func (m *Manager) Terminate(ctx context.Context) {
	running := m.ExtensionsByType(manifest.KindPlugin)
	for i := len(running) - 1; i >= 0; i-- {
		m.endOne(ctx, running[i])
	}
	modules := m.ExtensionsByType(manifest.KindModule)
	for i := len(modules) - 1; i >= 0; i-- {
		m.terminateModule(ctx, modules[i])
	}

	for _, t := range m.thunks {
		t.Release()
	}
	m.thunks = nil
}

// Unload drains a single Running plugin through End->Terminate, leaving
// every other extension untouched. Per §4.8, load/start failures and
// individual unloads never cascade to siblings.
func (m *Manager) Unload(ctx context.Context, nameOrID string) error {
	e, ok := m.FindExtension(nameOrID)
	if !ok {
		return perr.Wrapf(perr.Unresolved, nameOrID, "no such extension")
	}
	if e.Manifest().Kind() == manifest.KindModule {
		m.terminateModule(ctx, e)
	} else {
		m.endOne(ctx, e)
	}
	return nil
}

// Reload unloads then re-runs the load/export/start passes for a single
// extension. A still-Running extension is unloaded first; the extension
// must then be Terminated, and any other state returns an error.
func (m *Manager) Reload(ctx context.Context, nameOrID string) error {
	e, ok := m.FindExtension(nameOrID)
	if !ok {
		return perr.Wrapf(perr.Unresolved, nameOrID, "no such extension")
	}
	if e.State() == extension.Running {
		if err := m.Unload(ctx, nameOrID); err != nil {
			return err
		}
	}
	if e.State() != extension.Terminated {
		return perr.Wrapf(perr.RuntimeStartFailed, nameOrID, "cannot reload from state %s", e.State())
	}

	fresh := extension.New(e.Manifest(), e.Location())
	m.mu.Lock()
	for i, existing := range m.extensions {
		if existing == e {
			m.extensions[i] = fresh
		}
	}
	m.byName[fresh.Name()] = fresh
	m.mu.Unlock()

	_ = fresh.MarkParsing()
	_ = fresh.MarkParsed()
	_ = fresh.MarkResolving()
	if err := fresh.MarkResolved(); err != nil {
		fresh.MarkUnresolved(err.Error())
		return err
	}

	if fresh.Manifest().Kind() == manifest.KindModule {
		m.loadModule(ctx, fresh)
	} else {
		m.loadPlugin(ctx, fresh)
		m.exportPass()
		m.startPass(ctx)
	}
	return nil
}

// Update calls tick(dt) on every Running plugin whose MethodTable declared
// an update hook, via its language module adapter. It never blocks, per §5.
func (m *Manager) Update(dt float64) {
	for _, e := range m.Extensions() {
		if e.Manifest().Kind() != manifest.KindPlugin || e.State() != extension.Running {
			continue
		}
		if !m.hooks[e.ID()].Has(langmodule.HookUpdate) {
			continue
		}
		adapter, _, ok := m.adapterForPlugin(e)
		if !ok {
			continue
		}
		adapter.UpdatePlugin(context.Background(), e, dt)
	}
}
