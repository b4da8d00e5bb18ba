package plugify

import (
	"context"
	"fmt"

	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/jit"
	"github.com/shivasurya/plugify/internal/langmodule"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/output"
)

// adapterForPlugin resolves the registered language module adapter for a
// plugin extension: its manifest's Language field names a peer module
// extension by manifest name, and that module's own Language field names
// the registered adapter, per internal/resolve's languageModulePass
// convention.
func (m *Manager) adapterForPlugin(e *extension.Extension) (langmodule.Adapter, *extension.Extension, bool) {
	moduleExt, ok := m.byName[e.Manifest().Language]
	if !ok || moduleExt.Manifest().Kind() != manifest.KindModule {
		return nil, nil, false
	}
	adapter, ok := m.adapters[moduleExt.Manifest().Language]
	return adapter, moduleExt, ok
}

// loadPass drives every Resolved extension to Loaded: modules first (so
// their adapters are initialized before any plugin tries to use one),
// then plugins.
func (m *Manager) loadPass(ctx context.Context) {
	for _, e := range m.ExtensionsByType(manifest.KindModule) {
		if e.State() != extension.Resolved {
			continue
		}
		m.loadModule(ctx, e)
	}
	for _, e := range m.ExtensionsByType(manifest.KindPlugin) {
		if e.State() != extension.Resolved {
			continue
		}
		m.loadPlugin(ctx, e)
	}
}

func (m *Manager) loadModule(ctx context.Context, e *extension.Extension) {
	adapter, ok := m.adapters[e.Manifest().Language]
	if !ok {
		e.MarkUnresolved(fmt.Sprintf("no language module adapter registered for %q", e.Manifest().Language))
		return
	}
	if err := e.MarkLoading(); err != nil {
		e.MarkFailed(err.Error())
		return
	}
	if err := adapter.Initialize(ctx, m); err != nil {
		e.MarkFailed(fmt.Sprintf("initialize: %v", err))
		return
	}
	if err := e.MarkLoaded(); err != nil {
		e.MarkFailed(err.Error())
		return
	}
	// A language module has no exported methods or start/end hooks of its
	// own beyond Initialize/Terminate, already called above; it still
	// passes through the shared state machine so Terminate's reverse walk
	// treats modules and plugins uniformly.
	for _, advance := range []func() error{e.MarkExporting, e.MarkExported, e.MarkStarting, e.MarkRunning} {
		if err := advance(); err != nil {
			e.MarkFailed(err.Error())
			return
		}
	}
	m.log(output.SeverityInfo, "module %q initialized (%s)", e.Name(), e.Manifest().Language)
}

func (m *Manager) loadPlugin(ctx context.Context, e *extension.Extension) {
	for _, dep := range e.Manifest().Dependencies {
		if dep.Optional {
			continue
		}
		other, ok := m.byName[dep.Name]
		if !ok || other.State() != extension.Loaded {
			e.MarkFailed(fmt.Sprintf("dependency %q is not loaded", dep.Name))
			return
		}
	}

	adapter, moduleExt, ok := m.adapterForPlugin(e)
	if !ok {
		e.MarkFailed(fmt.Sprintf("language module %q unavailable", e.Manifest().Language))
		return
	}
	if moduleExt.State() != extension.Running {
		e.MarkFailed(fmt.Sprintf("language module %q is not loaded", moduleExt.Name()))
		return
	}

	if err := e.MarkLoading(); err != nil {
		e.MarkFailed(err.Error())
		return
	}
	table, err := adapter.LoadPlugin(ctx, e)
	if err != nil {
		e.MarkFailed(fmt.Sprintf("load: %v", err))
		return
	}
	if err := e.MarkLoaded(); err != nil {
		e.MarkFailed(err.Error())
		return
	}
	m.hooks[e.ID()] = table.Hooks
	m.methodTables[e.ID()] = table
	m.log(output.SeverityInfo, "plugin %q loaded via %q", e.Name(), adapter.Language())
}

// exportPass drives every Loaded plugin through Exporting->Exported,
// generating a JitCallback per exported method and handing its
// native-ABI address to every registered adapter so foreign code can call
// it transparently, per §4.8's second pass.
func (m *Manager) exportPass() {
	for _, e := range m.ExtensionsByType(manifest.KindPlugin) {
		if e.State() != extension.Loaded {
			continue
		}
		if err := e.MarkExporting(); err != nil {
			e.MarkFailed(err.Error())
			continue
		}

		table := m.methodTables[e.ID()]
		for _, entry := range table.Methods {
			thunk, err := m.bindExport(entry)
			if err != nil {
				e.AddWarning(fmt.Sprintf("method %q not exported: %v", entry.Method.Name, err))
				continue
			}
			m.thunks = append(m.thunks, thunk)
		}

		if err := e.MarkExported(); err != nil {
			e.MarkFailed(err.Error())
		}
	}
}

// bindExport wraps a loaded method's native entry point in an OutThunk,
// then wraps that in an InThunk (a stable, ABI-independent callback
// address) and hands it to every registered adapter via
// BindExternalMethod, so any language module can invoke the method
// without depending on the exporting module's own calling convention.
func (m *Manager) bindExport(entry langmodule.MethodEntry) (*jit.InThunk, error) {
	sig := entry.Method.Signature()
	out, err := jit.NewOutThunk(sig, entry.Addr)
	if err != nil {
		return nil, err
	}

	cb := func(args, ret []uint64) {
		var argPtr, retPtr *uint64
		if len(args) > 0 {
			argPtr = &args[0]
		}
		if len(ret) > 0 {
			retPtr = &ret[0]
		}
		out.Call(argPtr, retPtr)
	}

	in, err := jit.NewInThunk(sig, cb)
	if err != nil {
		out.Release()
		return nil, err
	}

	for _, adapter := range m.adapters {
		if err := adapter.BindExternalMethod(entry.Method, in.Addr()); err != nil {
			m.log(output.SeverityWarning, "bind %q into %q: %v", entry.Method.Name, adapter.Language(), err)
		}
	}
	return in, nil
}

// startPass drives every Exported plugin through Starting->Running.
func (m *Manager) startPass(ctx context.Context) {
	for _, e := range m.ExtensionsByType(manifest.KindPlugin) {
		if e.State() != extension.Exported {
			continue
		}
		adapter, _, ok := m.adapterForPlugin(e)
		if !ok {
			e.MarkFailed("language module no longer available at start")
			continue
		}
		if err := e.MarkStarting(); err != nil {
			e.MarkFailed(err.Error())
			continue
		}
		if err := adapter.StartPlugin(ctx, e); err != nil {
			e.MarkFailed(fmt.Sprintf("start: %v", err))
			continue
		}
		if err := e.MarkRunning(); err != nil {
			e.MarkFailed(err.Error())
		}
	}
}

func (m *Manager) endOne(ctx context.Context, e *extension.Extension) {
	if e.State() != extension.Running {
		return
	}
	adapter, _, ok := m.adapterForPlugin(e)
	if ok {
		adapter.EndPlugin(ctx, e)
	}
	if err := e.MarkEnding(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
		return
	}
	if err := e.MarkEnded(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
		return
	}
	if err := e.MarkTerminating(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
		return
	}
	if err := e.MarkTerminated(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
	}
}

func (m *Manager) terminateModule(ctx context.Context, e *extension.Extension) {
	if e.State() != extension.Running {
		return
	}
	if err := e.MarkEnding(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
		return
	}
	if adapter, ok := m.adapters[e.Manifest().Language]; ok {
		adapter.Terminate(ctx)
	}
	if err := e.MarkEnded(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
		return
	}
	if err := e.MarkTerminating(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
		return
	}
	if err := e.MarkTerminated(); err != nil {
		m.log(output.SeverityWarning, "%s: %v", e.Name(), err)
	}
}
