package extension

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shivasurya/plugify/internal/manifest"
)

// UniqueId is assigned by the Manager when an extension is discovered;
// two extensions discovered in the same session never share one.
type UniqueId uint64

var nextID atomic.Uint64

// NewUniqueId returns the next UniqueId in the current process's sequence.
func NewUniqueId() UniqueId {
	return UniqueId(nextID.Add(1))
}

// Transition records one state change with its timestamp.
type Transition struct {
	State State
	At    time.Time
}

// Extension is the runtime object that owns an extension through its full
// lifecycle. References handed out by the Manager are non-owning; they are
// invalidated only at Manager teardown.
type Extension struct {
	id       UniqueId
	manifest manifest.Manifest
	location string

	state       State
	transitions []Transition

	errors   []string
	warnings []string

	hasAssembly      bool
	hasLanguageModule bool
	exportBound      bool
}

// New creates an Extension in the Discovered state for manifest m, found at
// location on disk.
func New(m manifest.Manifest, location string) *Extension {
	e := &Extension{
		id:       NewUniqueId(),
		manifest: m,
		location: location,
	}
	e.record(Discovered)
	return e
}

func (e *Extension) record(s State) {
	e.state = s
	e.transitions = append(e.transitions, Transition{State: s, At: time.Now()})
}

func (e *Extension) ID() UniqueId             { return e.id }
func (e *Extension) Manifest() manifest.Manifest { return e.manifest }
func (e *Extension) Location() string         { return e.location }
func (e *Extension) State() State             { return e.state }
func (e *Extension) Errors() []string         { return e.errors }
func (e *Extension) Warnings() []string       { return e.warnings }

// Name is a convenience accessor over the underlying manifest.
func (e *Extension) Name() string { return e.manifest.Name }

func (e *Extension) AddWarning(msg string) { e.warnings = append(e.warnings, msg) }

func (e *Extension) addError(msg string) { e.errors = append(e.errors, msg) }

// advance moves the extension to its next linear state. It is a no-op
// (returns an error) if called from a state with no linear successor or a
// failure state.
func (e *Extension) advance(expect State) error {
	if e.state.IsFailure() {
		return fmt.Errorf("extension %q: cannot advance from failure state %s", e.manifest.Name, e.state)
	}
	if !e.state.CanAdvance() {
		return fmt.Errorf("extension %q: state %s has no successor", e.manifest.Name, e.state)
	}
	next := e.state.Advance()
	if expect != 0 && next != expect {
		return fmt.Errorf("extension %q: expected to advance to %s, got %s", e.manifest.Name, expect, next)
	}
	e.record(next)
	return nil
}

// MarkParsing, MarkParsed, ... drive the Extension through the linear
// happy-path transitions named in §4.7.
func (e *Extension) MarkParsing() error   { return e.advance(Parsing) }
func (e *Extension) MarkParsed() error    { return e.advance(Parsed) }
func (e *Extension) MarkResolving() error { return e.advance(Resolving) }
func (e *Extension) MarkResolved() error  { return e.advance(Resolved) }
func (e *Extension) MarkLoading() error   { return e.advance(Loading) }

func (e *Extension) MarkLoaded() error {
	if err := e.advance(Loaded); err != nil {
		return err
	}
	e.hasAssembly = true
	e.hasLanguageModule = true
	return nil
}

func (e *Extension) MarkExporting() error { return e.advance(Exporting) }

func (e *Extension) MarkExported() error {
	if err := e.advance(Exported); err != nil {
		return err
	}
	e.exportBound = true
	return nil
}

func (e *Extension) MarkStarting() error { return e.advance(Starting) }
func (e *Extension) MarkRunning() error  { return e.advance(Running) }
func (e *Extension) MarkEnding() error   { return e.advance(Ending) }
func (e *Extension) MarkEnded() error    { return e.advance(Ended) }

func (e *Extension) MarkTerminating() error { return e.advance(Terminating) }

func (e *Extension) MarkTerminated() error {
	if err := e.advance(Terminated); err != nil {
		return err
	}
	e.hasAssembly = false
	return nil
}

// MarkCorrupted absorbs a parse failure. errMsg is recorded in Errors.
func (e *Extension) MarkCorrupted(errMsg string) {
	e.addError(errMsg)
	e.record(Corrupted)
}

// MarkUnresolved absorbs a resolve failure (or a cascade from a failed
// dependency/language module).
func (e *Extension) MarkUnresolved(reason string) {
	e.addError(reason)
	e.record(Unresolved)
}

// MarkFailed absorbs a load or start failure.
func (e *Extension) MarkFailed(errMsg string) {
	e.addError(errMsg)
	e.record(Failed)
}

// MarkSkipped absorbs obsoletion: a newer extension supersedes this one.
func (e *Extension) MarkSkipped(reason string) {
	if reason != "" {
		e.warnings = append(e.warnings, reason)
	}
	e.record(Skipped)
}

// MarkDisabled is set before Parsing by explicit user action, short-
// circuiting the rest of the pipeline.
func (e *Extension) MarkDisabled() {
	e.record(Disabled)
}

// HasLanguageModule reports whether this extension currently has a
// non-null language-module adapter bound, per the invariant that every
// Extension in a state >= Loaded must.
func (e *Extension) HasLanguageModule() bool { return e.hasLanguageModule }

// ExportBindingComplete reports whether the export-binding pass has run for
// this extension, required before it may be Started.
func (e *Extension) ExportBindingComplete() bool { return e.exportBound }

// PhaseDuration returns the time spent in state s, or zero if s was never
// entered or is still the current state.
func (e *Extension) PhaseDuration(s State) time.Duration {
	for i, t := range e.transitions {
		if t.State != s {
			continue
		}
		if i+1 >= len(e.transitions) {
			return 0
		}
		return e.transitions[i+1].At.Sub(t.At)
	}
	return 0
}

// Transitions returns the full timestamped history of states this
// extension has passed through.
func (e *Extension) Transitions() []Transition {
	out := make([]Transition, len(e.transitions))
	copy(out, e.transitions)
	return out
}
