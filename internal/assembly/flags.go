package assembly

import "github.com/ebitengine/purego"

// LoadFlags is a portable enumeration of dynamic-library load options,
// mapped per-OS onto the real dlopen/LoadLibrary primitives. Only the
// resolution and visibility bits reach the loader; see toDlopenMode.
type LoadFlags uint32

const (
	// Resolution: exactly one of Lazy/Now should be set; Now is assumed
	// if neither is.
	Lazy LoadFlags = 1 << iota
	Now
	// Visibility: exactly one of Global/Local should be set; Local is
	// assumed if neither is.
	Global
	Local
	// NoDelete keeps the library mapped even after refcount reaches zero.
	NoDelete
	// NoLoad checks whether the library is already loaded without
	// loading it.
	NoLoad
	// DeepBind prefers the library's own symbols over global ones when
	// resolving its internal references.
	DeepBind

	// Windows-only refinements. purego's cross-platform Dlopen does not
	// forward these to LoadLibraryEx; they are accepted for API parity
	// with the portable enumeration, but do not change how the library
	// is mapped. See DESIGN.md.
	Datafile
	ImageResource
	AlteredSearchPath
	System32
)

// toDlopenMode converts the portable flag set into the mode argument
// purego.Dlopen expects (RTLD_* on Unix; ignored on Windows, where
// purego always uses LoadLibraryW). Only Lazy/Now and Global/Local are
// forwarded; NoDelete, NoLoad, DeepBind and the Windows-only bits do not
// change the returned mode.
func toDlopenMode(flags LoadFlags) int {
	mode := 0
	if flags&Lazy != 0 {
		mode |= purego.RTLD_LAZY
	} else {
		mode |= purego.RTLD_NOW
	}
	if flags&Global != 0 {
		mode |= purego.RTLD_GLOBAL
	} else {
		mode |= purego.RTLD_LOCAL
	}
	return mode
}
