package jit

import (
	"math"
	"testing"

	"github.com/ebitengine/purego"
	"github.com/shivasurya/plugify/internal/abi"
	"github.com/stretchr/testify/require"
)

func callIntThunk(addr uintptr, a, b uint64) uint64 {
	var fn func(a, b uint64) uint64
	purego.RegisterFunc(&fn, addr)
	return fn(a, b)
}

func callFloatThunk(addr uintptr, a, b float64) float64 {
	var fn func(a, b float64) float64
	purego.RegisterFunc(&fn, addr)
	return fn(a, b)
}

// TestInThunk_RoundTrip_Integers exercises JitCallback(sig) standing in for a
// foreign caller: it invokes the generated native entry point as an
// ordinary Go function value (via purego.RegisterFunc, the same path a
// real C caller would reach through the function pointer), and checks the
// call reaches the Go-side CallbackFunc with arguments classified into the
// right register slots.
func TestInThunk_RoundTrip_Integers(t *testing.T) {
	sig := abi.Signature{Params: []abi.ValueType{abi.Int32, abi.Int32}, Return: abi.Int32}

	var got []uint64
	cb := func(args []uint64, ret []uint64) {
		got = append([]uint64(nil), args...)
		ret[0] = args[0] + args[1]
	}

	th, err := NewInThunk(sig, cb)
	require.NoError(t, err)
	require.NotZero(t, th.Addr())

	sum := callIntThunk(th.Addr(), 7, 35)
	require.Equal(t, []uint64{7, 35}, got)
	require.Equal(t, uint64(42), sum)
}

func TestInThunk_RoundTrip_Float(t *testing.T) {
	sig := abi.Signature{Params: []abi.ValueType{abi.Double, abi.Double}, Return: abi.Double}

	cb := func(args []uint64, ret []uint64) {
		a := math.Float64frombits(args[0])
		b := math.Float64frombits(args[1])
		ret[0] = math.Float64bits(a * b)
	}

	th, err := NewInThunk(sig, cb)
	require.NoError(t, err)

	product := callFloatThunk(th.Addr(), 2.5, 4.0)
	require.InDelta(t, 10.0, product, 1e-9)
}

func TestOutThunk_RejectsUnsupportedType(t *testing.T) {
	sig := abi.Signature{Params: []abi.ValueType{abi.Vector3}, Return: abi.Void}
	_, err := NewOutThunk(sig, 0x1234)
	require.Error(t, err)
}

func TestInThunk_RejectsTooManyIntegerArgs(t *testing.T) {
	params := make([]abi.ValueType, maxIntArgs+1)
	for i := range params {
		params[i] = abi.Int64
	}
	sig := abi.Signature{Params: params, Return: abi.Void}
	_, err := NewInThunk(sig, func([]uint64, []uint64) {})
	require.Error(t, err)
}

func TestStats_TracksLiveThunks(t *testing.T) {
	liveBefore, totalBefore := Stats()
	sig := abi.Signature{Params: []abi.ValueType{abi.Int32}, Return: abi.Int32}
	th, err := NewInThunk(sig, func(args, ret []uint64) { ret[0] = args[0] })
	require.NoError(t, err)

	live, total := Stats()
	require.Equal(t, liveBefore+1, live)
	require.Equal(t, totalBefore+1, total)

	th.Release()
	live, _ = Stats()
	require.Equal(t, liveBefore, live)
}
