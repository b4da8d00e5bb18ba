package jit

import (
	"fmt"
	"math"

	"github.com/ebitengine/purego"
	"github.com/shivasurya/plugify/internal/abi"
)

// OutThunk is a generated stub that lets Go-side code (or, via Addr, a
// foreign native caller) invoke a fixed native target function through the
// uniform signature fn(args *uint64, ret *uint64): one 8-byte slot per
// declared parameter, in order, holding either the integer value directly
// or a float's IEEE-754 bit pattern via math.Float64bits.
type OutThunk struct {
	sig  abi.Signature
	addr uintptr
}

// NewOutThunk builds an OutThunk that calls target (a native function
// pointer, e.g. one resolved from an Assembly symbol) according to sig.
// Generation fails with a descriptive error if sig carries a parameter or
// return type this generator does not support, per Signature's own
// documented contract.
func NewOutThunk(sig abi.Signature, target uintptr) (*OutThunk, error) {
	if target == 0 {
		return nil, fmt.Errorf("jit: out-thunk target address is null")
	}
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

	var addr uintptr
	if isFloatClass(sig.Return) {
		var target2 func(a0, a1, a2, a3, a4, a5 uint64, f0, f1, f2, f3, f4, f5, f6, f7 float64) float64
		purego.RegisterFunc(&target2, target)
		call := func(args *uint64, ret *uint64) {
			ints, floats := spreadArgs(slot, args)
			r := target2(ints[0], ints[1], ints[2], ints[3], ints[4], ints[5],
				floats[0], floats[1], floats[2], floats[3], floats[4], floats[5], floats[6], floats[7])
			*ret = math.Float64bits(r)
		}
		addr = purego.NewCallback(call)
	} else {
		var target2 func(a0, a1, a2, a3, a4, a5 uint64, f0, f1, f2, f3, f4, f5, f6, f7 float64) uint64
		purego.RegisterFunc(&target2, target)
		call := func(args *uint64, ret *uint64) {
			ints, floats := spreadArgs(slot, args)
			r := target2(ints[0], ints[1], ints[2], ints[3], ints[4], ints[5],
				floats[0], floats[1], floats[2], floats[3], floats[4], floats[5], floats[6], floats[7])
			if sig.Return != abi.Void {
				*ret = r
			}
		}
		addr = purego.NewCallback(call)
	}

	global.add()
	return &OutThunk{sig: sig, addr: addr}, nil
}

// paramSlot records, for one declared parameter, which register-class
// counter it draws from and its position within that counter.
type paramSlot struct {
	float bool
	index int
}

func spreadArgs(slots []paramSlot, args *uint64) (ints [maxIntArgs]uint64, floats [maxFloatArgs]float64) {
	raw := unsafeSlice(args, len(slots))
	for i, s := range slots {
		if s.float {
			floats[s.index] = math.Float64frombits(raw[i])
		} else {
			ints[s.index] = raw[i]
		}
	}
	return
}

// Addr is the stub's native entry point: fn(args *uint64, ret *uint64).
func (t *OutThunk) Addr() uintptr { return t.addr }

// Call invokes the stub directly from Go, without going through a
// cross-language boundary; the Manager's export pass calls it from inside
// the InThunk callback it hands to language modules.
func (t *OutThunk) Call(args *uint64, ret *uint64) {
	callThunk(t.addr, args, ret)
}

// Release drops this thunk from the runtime's live-thunk accounting. The
// underlying trampoline memory purego allocated is not reclaimed: purego
// exposes no callback-deregistration API, so the code page lives for the
// process's remaining lifetime. This matches the documented lifetime of
// JIT-generated code, which follows call-graph reachability rather than
// the owning plugin's own lifecycle.
func (t *OutThunk) Release() { global.remove() }
