package jit

import (
	"math"

	"github.com/ebitengine/purego"
	"github.com/shivasurya/plugify/internal/abi"
)

// CallbackFunc is the host-side function an InThunk invokes. args holds one
// uint64 slot per declared parameter (floats as their IEEE-754 bit
// pattern, via math.Float64bits); the callback writes its result, if any,
// into ret[0] the same way.
type CallbackFunc func(args []uint64, ret []uint64)

// InThunk is a generated stub foreign native code can call directly as if
// it were an ordinary function matching sig; each call is marshaled into
// the uniform args/ret shape and dispatched to a Go CallbackFunc.
type InThunk struct {
	addr uintptr
}

// NewInThunk builds an InThunk for signature sig that dispatches every
// call to cb. Generation fails the same way NewOutThunk does for any
// parameter or return type this generator does not support.
//
// The trampoline itself is produced by purego.NewCallback, which already
// knows how to present a Go function as a native-ABI-callable address;
// this avoids hand-writing the register-unpacking prologue a callback
// needs, and the unsafe re-entry into the Go runtime that would require
// without it.
func NewInThunk(sig abi.Signature, cb CallbackFunc) (*InThunk, error) {
	if err := validateScalarSignature(sig); err != nil {
		return nil, err
	}

	slot := make([]paramSlot, len(sig.Params))
	intIdx, floatIdx := 0, 0
	for i, p := range sig.Params {
		if isFloatClass(p) {
			slot[i] = paramSlot{float: true, index: floatIdx}
			floatIdx++
		} else {
			slot[i] = paramSlot{index: intIdx}
			intIdx++
		}
	}

	gather := func(ints [maxIntArgs]uint64, floats [maxFloatArgs]float64) []uint64 {
		out := make([]uint64, len(slot))
		for i, s := range slot {
			if s.float {
				out[i] = math.Float64bits(floats[s.index])
			} else {
				out[i] = ints[s.index]
			}
		}
		return out
	}

	var addr uintptr
	if isFloatClass(sig.Return) {
		trampoline := func(a0, a1, a2, a3, a4, a5 uint64, f0, f1, f2, f3, f4, f5, f6, f7 float64) float64 {
			args := gather([maxIntArgs]uint64{a0, a1, a2, a3, a4, a5}, [maxFloatArgs]float64{f0, f1, f2, f3, f4, f5, f6, f7})
			ret := make([]uint64, 1)
			cb(args, ret)
			return math.Float64frombits(ret[0])
		}
		addr = purego.NewCallback(trampoline)
	} else {
		trampoline := func(a0, a1, a2, a3, a4, a5 uint64, f0, f1, f2, f3, f4, f5, f6, f7 float64) uint64 {
			args := gather([maxIntArgs]uint64{a0, a1, a2, a3, a4, a5}, [maxFloatArgs]float64{f0, f1, f2, f3, f4, f5, f6, f7})
			ret := make([]uint64, 1)
			cb(args, ret)
			return ret[0]
		}
		addr = purego.NewCallback(trampoline)
	}

	global.add()
	return &InThunk{addr: addr}, nil
}

// Addr is the stub's native entry point. Hand this address to whatever
// native API expects a function pointer matching sig (e.g. a plugin's
// registration call into a C library), never to Go code directly.
func (t *InThunk) Addr() uintptr { return t.addr }

// Release drops this thunk from the runtime's live-thunk accounting, for
// the same reason and with the same caveat as OutThunk.Release.
func (t *InThunk) Release() { global.remove() }
