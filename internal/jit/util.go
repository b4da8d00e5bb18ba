package jit

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// unsafeSlice views the n uint64 values starting at p as a Go slice
// without copying. p is always a pointer into a caller-owned array at
// least n slots long; the uniform call contract (one slot per declared
// parameter) guarantees that.
func unsafeSlice(p *uint64, n int) []uint64 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice(p, n)
}

// callThunk invokes a native fn(args *uint64, ret *uint64) stub from Go.
// It is only used by OutThunk.Call, which invokes a thunk from Go without
// a real cross-language caller in play.
func callThunk(addr uintptr, args, ret *uint64) {
	var fn func(args, ret *uint64)
	purego.RegisterFunc(&fn, addr)
	fn(args, ret)
}
