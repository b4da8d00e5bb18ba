// Package manifest provides the typed representation of an extension
// manifest (plugin or language module) and a validating JSON5 parser for it.
package manifest

import (
	"github.com/shivasurya/plugify/internal/abi"
	"github.com/shivasurya/plugify/internal/pversion"
)

// Kind distinguishes a plugin manifest from a language module manifest.
type Kind int

const (
	KindPlugin Kind = iota
	KindModule
)

func (k Kind) String() string {
	if k == KindModule {
		return "module"
	}
	return "plugin"
}

// Enumeration is a nested name<->value table attached to an enum-typed
// Property.
type Enumeration struct {
	Name   string            `json:"name"`
	Values map[string]int64  `json:"values"`
}

// Property describes one parameter or return value.
type Property struct {
	Type       abi.ValueType `json:"type"`
	Ref        bool          `json:"ref,omitempty"`
	Prototype  *Method       `json:"prototype,omitempty"`
	Enumerate  *Enumeration  `json:"enumerate,omitempty"`
}

// Method describes one exported function of a plugin.
type Method struct {
	Name     string                `json:"name"`
	FuncName string                `json:"funcName"`
	CallConv abi.CallingConvention `json:"callConv,omitempty"`
	Params   []Property            `json:"paramTypes"`
	Ret      Property              `json:"retType"`
	VarIndex *int                  `json:"varIndex,omitempty"`
}

// IsVariadic reports whether VarIndex marks a variadic tail within range.
func (m Method) IsVariadic() bool {
	return m.VarIndex != nil && *m.VarIndex >= 0 && *m.VarIndex < len(m.Params)
}

// Signature projects a Method onto the machine-independent shape
// internal/abi and internal/jit classify: its calling convention, the
// ordered parameter types (ignoring by-reference/enum/prototype detail,
// which the JIT's scalar bridge does not carry across the call), and
// its return type.
func (m Method) Signature() abi.Signature {
	params := make([]abi.ValueType, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type
	}
	return abi.Signature{
		CallConv: m.CallConv,
		Params:   params,
		Return:   m.Ret.Type,
		VarIndex: m.VarIndex,
	}
}

// Dependency names another extension this one requires, by name and a
// version constraint; Optional dependencies warn instead of failing
// resolution when absent.
type Dependency struct {
	Name        string              `json:"name"`
	Constraints pversion.Constraint `json:"constraints,omitempty"`
	Optional    bool                `json:"optional,omitempty"`
}

// Conflict names an extension that cannot coexist with this one.
type Conflict struct {
	Name        string              `json:"name"`
	Constraints pversion.Constraint `json:"constraints,omitempty"`
	Reason      string              `json:"reason,omitempty"`
}

// Manifest is the fully parsed, validated representation of a .pplugin or
// .pmodule file.
type Manifest struct {
	Name        string              `json:"name"`
	Version     pversion.Version    `json:"version"`
	Description string              `json:"description,omitempty"`
	Author      string              `json:"author,omitempty"`
	Website     string              `json:"website,omitempty"`
	License     string              `json:"license,omitempty"`
	Platforms   []string            `json:"platforms,omitempty"`

	Dependencies []Dependency `json:"dependencies,omitempty"`
	Conflicts    []Conflict   `json:"conflicts,omitempty"`
	Obsoletes    []string     `json:"obsoletes,omitempty"`

	Language string `json:"language"`

	// Plugin-only.
	Entry   string   `json:"entry,omitempty"`
	Methods []Method `json:"methods,omitempty"`

	// Module-only.
	Runtime     string   `json:"runtime,omitempty"`
	Directories []string `json:"directories,omitempty"`
}

// Kind reports whether m describes a plugin or a language module, based on
// which of the mutually-exclusive field groups is populated.
func (m Manifest) Kind() Kind {
	if m.Runtime != "" || len(m.Directories) > 0 {
		return KindModule
	}
	return KindPlugin
}
