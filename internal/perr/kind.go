// Package perr tags the closed error taxonomy every core component
// returns through, so callers can errors.As into the kind instead of
// matching error strings — the way the teacher maps structured results
// onto exit codes (output/exit_code.go) rather than inspecting messages.
package perr

import "fmt"

// Kind is one of the closed set of error categories §7 names.
type Kind int

const (
	// ManifestMalformed covers bad JSON/JSON5 or a missing required field.
	ManifestMalformed Kind = iota
	// ManifestInvalid covers a structurally valid manifest with an
	// invalid declaration: a duplicate method, a bad name pattern, or a
	// by-reference return type.
	ManifestInvalid
	// Unresolved covers a missing/incompatible dependency, a conflict, or
	// a missing language module.
	Unresolved
	// LoadFailed covers an OS-level assembly load failure or a missing
	// entry symbol.
	LoadFailed
	// RuntimeStartFailed covers a language module's start hook reporting
	// an error.
	RuntimeStartFailed
	// ThunkGenerationFailed covers the JIT reporting an unsupported type;
	// the affected method is simply not exported.
	ThunkGenerationFailed
	// AssemblyError covers a symbol not found or a section absent.
	AssemblyError
)

func (k Kind) String() string {
	switch k {
	case ManifestMalformed:
		return "ManifestMalformed"
	case ManifestInvalid:
		return "ManifestInvalid"
	case Unresolved:
		return "Unresolved"
	case LoadFailed:
		return "LoadFailed"
	case RuntimeStartFailed:
		return "RuntimeStartFailed"
	case ThunkGenerationFailed:
		return "ThunkGenerationFailed"
	case AssemblyError:
		return "AssemblyError"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with its Kind, so callers can recover
// the kind with errors.As without parsing the message.
type Error struct {
	Kind    Kind
	Subject string // the extension, method, or symbol name the error is about
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s(%s): %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of kind k about subject, wrapping err.
func New(k Kind, subject string, err error) *Error {
	return &Error{Kind: k, Subject: subject, Err: err}
}

// Wrapf is a convenience constructor combining fmt.Errorf's formatting
// with a Kind tag.
func Wrapf(k Kind, subject, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Subject: subject, Err: fmt.Errorf(format, args...)}
}
