package assembly

import (
	"fmt"
	"strconv"
	"strings"
)

// mangleItanium produces a simplified Itanium C++ ABI mangling for a
// qualified class name such as "plugify::Extension" -> "N7plugify9ExtensionE".
// It covers the one shape VirtualTable needs (a ::-qualified nested-name);
// template arguments, operators and special members are out of scope.
func mangleItanium(qualifiedName string) string {
	parts := strings.Split(qualifiedName, "::")
	var b strings.Builder
	if len(parts) > 1 {
		b.WriteByte('N')
	}
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteString(p)
	}
	if len(parts) > 1 {
		b.WriteByte('E')
	}
	return b.String()
}

// VirtualTable locates a class's vtable by looking up its Itanium ABI
// "_ZTV<mangled-name>" symbol, the same symbol the platform's own C++
// compiler and linker emit for any class with at least one virtual
// function. It does not attempt MSVC's name-mangling scheme.
//
// typeName is a ::-qualified class name (e.g. "plugify::Extension") unless
// alreadyMangled is set, in which case typeName is taken as the mangled
// name fragment as-is and passed straight through to the "_ZTV" symbol —
// the escape hatch for templated or operator-overloaded classes
// mangleItanium cannot encode, where the caller already holds the
// compiler-mangled symbol.
func (a *Assembly) VirtualTable(typeName string, alreadyMangled bool) (uintptr, error) {
	mangled := typeName
	if !alreadyMangled {
		mangled = mangleItanium(typeName)
	}
	symbol := fmt.Sprintf("_ZTV%s", mangled)
	return a.Symbol(symbol)
}

// FindPattern scans this assembly's loaded image for the given AOB
// pattern, starting at the module's base address.
func (a *Assembly) FindPattern(pattern string, length int) (uintptr, error) {
	if !a.valid {
		return 0, ErrNotFound
	}
	return FindPattern(a.handle, bytesFromAddr(a.handle, length), pattern)
}
