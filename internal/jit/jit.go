// Package jit generates the two halves of the cross-language call bridge:
// an OutThunk lets plugin code call a foreign native function through a
// uniform signature, an InThunk lets foreign native code call back into a
// method the host exposes. Neither hand-rolls machine code; both build on
// github.com/ebitengine/purego, which already knows how to marshal Go
// values into and out of the host's native calling convention without
// cgo. Package abi supplies the value-type enumeration; isFloatClass
// decides, for each declared value, whether it rides in a purego integer
// or float register slot.
package jit

import (
	"fmt"
	"sync"

	"github.com/shivasurya/plugify/internal/abi"
)

// maxIntArgs and maxFloatArgs bound how many parameters a single thunk can
// carry: independent integer and SSE counters, matching System V's and
// purego's own per-kind register classification. A signature needing more
// of either class than this is rejected at generation time rather than
// silently truncated.
const (
	maxIntArgs   = 6
	maxFloatArgs = 8
)

func isScalarSupported(vt abi.ValueType) bool {
	switch vt {
	case abi.Void, abi.Bool, abi.Char8, abi.Char16,
		abi.Int8, abi.Int16, abi.Int32, abi.Int64,
		abi.UInt8, abi.UInt16, abi.UInt32, abi.UInt64,
		abi.Pointer, abi.Float, abi.Double:
		return true
	default:
		return false
	}
}

func isFloatClass(vt abi.ValueType) bool {
	return vt == abi.Float || vt == abi.Double
}

// validateScalarSignature rejects any signature this generator cannot
// produce a thunk for: an aggregate, string, Any, function, vector, matrix
// or array parameter/return, or one that needs more integer or float
// registers than a single thunk call carries.
func validateScalarSignature(sig abi.Signature) error {
	intCount, floatCount := 0, 0
	for i, p := range sig.Params {
		if !isScalarSupported(p) {
			return fmt.Errorf("jit: parameter %d has unsupported type %s; thunk generation failed", i, p)
		}
		if isFloatClass(p) {
			floatCount++
		} else {
			intCount++
		}
	}
	if sig.Return != abi.Void && !isScalarSupported(sig.Return) {
		return fmt.Errorf("jit: return type %s is unsupported; thunk generation failed", sig.Return)
	}
	if intCount > maxIntArgs {
		return fmt.Errorf("jit: signature needs %d integer-class registers, only %d supported", intCount, maxIntArgs)
	}
	if floatCount > maxFloatArgs {
		return fmt.Errorf("jit: signature needs %d float-class registers, only %d supported", floatCount, maxFloatArgs)
	}
	return nil
}

// registry is the process-wide bookkeeping the Runtime exposes through
// Stats: a count of live thunks, protected by a mutex the way the host
// allocator in the original package was. purego itself never releases the
// executable memory behind a callback, so Release only removes a thunk
// from this accounting; it does not reclaim the underlying trampoline.
type registry struct {
	mu    sync.Mutex
	live  int
	total int
}

func (r *registry) add() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live++
	r.total++
}

func (r *registry) remove() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live > 0 {
		r.live--
	}
}

func (r *registry) stats() (live, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live, r.total
}

var global registry

// Stats reports how many generated thunks are currently live and how many
// have been generated since process start.
func Stats() (live, total int) { return global.stats() }
