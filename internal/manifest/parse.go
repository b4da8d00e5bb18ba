package manifest

import (
	"fmt"
	"regexp"

	"github.com/titanous/json5"
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ParseOptions controls leniency during Parse.
type ParseOptions struct {
	// Lenient drops duplicate method/dependency names with a warning
	// instead of rejecting the manifest outright.
	Lenient bool
}

// ParseResult carries the parsed Manifest plus any non-fatal warnings
// collected while validating it.
type ParseResult struct {
	Manifest Manifest
	Warnings []string
}

// Parse reads a JSON-with-comments buffer into a validated Manifest.
// declaredKind is the extension kind the caller expects (from discovery:
// .pplugin vs .pmodule); a manifest that mixes plugin-only and module-only
// fields is always rejected regardless of declaredKind.
func Parse(data []byte, declaredKind Kind, opts ParseOptions) (ParseResult, error) {
	var m Manifest
	if err := json5.Unmarshal(data, &m); err != nil {
		return ParseResult{}, fmt.Errorf("manifest malformed: %w", err)
	}

	result := ParseResult{Manifest: m}

	if err := validateShape(&result.Manifest, declaredKind); err != nil {
		return ParseResult{}, err
	}

	warnings, err := validateContent(&result.Manifest, opts)
	if err != nil {
		return ParseResult{}, err
	}
	result.Warnings = warnings

	return result, nil
}

func validateShape(m *Manifest, declaredKind Kind) error {
	isPlugin := m.Entry != "" || len(m.Methods) > 0
	isModule := m.Runtime != "" || len(m.Directories) > 0

	if isPlugin && isModule {
		return fmt.Errorf("manifest invalid: %q mixes plugin fields (entry/methods) and module fields (runtime/directories)", m.Name)
	}

	switch declaredKind {
	case KindPlugin:
		if m.Entry == "" {
			return fmt.Errorf("manifest invalid: %q is a plugin manifest but has no entry", m.Name)
		}
	case KindModule:
		if m.Runtime == "" {
			return fmt.Errorf("manifest invalid: %q is a module manifest but has no runtime", m.Name)
		}
		if len(m.Directories) == 0 {
			return fmt.Errorf("manifest invalid: %q is a module manifest but declares no directories", m.Name)
		}
	}

	return nil
}

func validateContent(m *Manifest, opts ParseOptions) ([]string, error) {
	var warnings []string

	if m.Name == "" || !nameRe.MatchString(m.Name) {
		return nil, fmt.Errorf("manifest invalid: name %q must match [A-Za-z0-9_.-]+", m.Name)
	}
	if m.Language == "" {
		return nil, fmt.Errorf("manifest invalid: %q declares no language", m.Name)
	}

	seenDeps := make(map[string]bool, len(m.Dependencies))
	var dedupedDeps []Dependency
	for _, dep := range m.Dependencies {
		if seenDeps[dep.Name] {
			if !opts.Lenient {
				return nil, fmt.Errorf("manifest invalid: %q declares dependency %q twice", m.Name, dep.Name)
			}
			warnings = append(warnings, fmt.Sprintf("duplicate dependency %q dropped", dep.Name))
			continue
		}
		seenDeps[dep.Name] = true
		dedupedDeps = append(dedupedDeps, dep)
	}
	m.Dependencies = dedupedDeps

	if m.Kind() == KindPlugin {
		methodWarnings, err := validateMethods(m, opts)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, methodWarnings...)
	}

	return warnings, nil
}

func validateMethods(m *Manifest, opts ParseOptions) ([]string, error) {
	var warnings []string

	seen := make(map[string]bool, len(m.Methods))
	var deduped []Method
	for _, method := range m.Methods {
		if seen[method.Name] {
			if !opts.Lenient {
				return nil, fmt.Errorf("manifest invalid: %q declares method %q twice", m.Name, method.Name)
			}
			warnings = append(warnings, fmt.Sprintf("duplicate method %q dropped", method.Name))
			continue
		}
		seen[method.Name] = true

		if method.FuncName == "" {
			return nil, fmt.Errorf("manifest invalid: method %q of %q has no funcName", method.Name, m.Name)
		}
		if method.VarIndex != nil && (*method.VarIndex < 0 || *method.VarIndex >= len(method.Params)) {
			return nil, fmt.Errorf("manifest invalid: method %q of %q has varIndex out of range", method.Name, m.Name)
		}
		if method.Ret.Ref {
			return nil, fmt.Errorf("manifest invalid: method %q of %q has a by-reference return", method.Name, m.Name)
		}
		for _, p := range method.Params {
			if err := validateProperty(m.Name, method.Name, p); err != nil {
				return nil, err
			}
		}

		deduped = append(deduped, method)
	}
	m.Methods = deduped

	return warnings, nil
}

func validateProperty(manifestName, methodName string, p Property) error {
	if p.Type.String() == "function" && p.Prototype == nil {
		return fmt.Errorf("manifest invalid: method %q of %q has a function-typed parameter without a prototype", methodName, manifestName)
	}
	if p.Enumerate != nil && len(p.Enumerate.Values) == 0 {
		return fmt.Errorf("manifest invalid: method %q of %q declares an empty enumeration", methodName, manifestName)
	}
	return nil
}
