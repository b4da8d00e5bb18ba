// Package langmodule defines the trait by which the Manager drives a
// language runtime: initialize, load/start/end/update a plugin, and bind an
// exported method's generated thunk into the runtime.
package langmodule

import (
	"context"

	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/manifest"
)

// HookFlags reports which optional lifecycle hooks a loaded plugin provides.
type HookFlags uint8

const (
	HookStart HookFlags = 1 << iota
	HookEnd
	HookUpdate
	HookExport
)

func (h HookFlags) Has(flag HookFlags) bool { return h&flag != 0 }

// MethodEntry is one exported method's native entry point, as reported by
// the language module after loading a plugin.
type MethodEntry struct {
	Method manifest.Method
	Addr   uintptr
}

// MethodTable is what a language module hands back from LoadPlugin: which
// lifecycle hooks it found, and a native entry point per declared method.
type MethodTable struct {
	Hooks   HookFlags
	Methods []MethodEntry
}

// Provider is what a language module adapter receives during Initialize: a
// way to look up another extension by name or ID.
type Provider interface {
	FindExtension(nameOrID string) (*extension.Extension, bool)
}

// Adapter is the trait a language module satisfies. Every method returns
// an error instead of panicking or throwing; the core never unwinds across
// an adapter call.
type Adapter interface {
	// Language names the language this adapter embeds, matching the
	// manifest "language" field of plugins it can load.
	Language() string

	Initialize(ctx context.Context, provider Provider) error
	Terminate(ctx context.Context)

	LoadPlugin(ctx context.Context, ext *extension.Extension) (MethodTable, error)
	StartPlugin(ctx context.Context, ext *extension.Extension) error
	EndPlugin(ctx context.Context, ext *extension.Extension)
	UpdatePlugin(ctx context.Context, ext *extension.Extension, dt float64)

	// BindExternalMethod hands a generated thunk for a foreign method (a
	// JitCallback entry point with that method's own native signature)
	// into this runtime so its own plugins can call it.
	BindExternalMethod(method manifest.Method, thunk uintptr) error
}
