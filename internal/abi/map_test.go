package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReturnIsHidden_SystemVVectors(t *testing.T) {
	require.False(t, ReturnIsHidden(ArchAMD64SystemV, Vector2))
	require.False(t, ReturnIsHidden(ArchAMD64SystemV, Vector3))
	require.False(t, ReturnIsHidden(ArchAMD64SystemV, Vector4))
	require.True(t, ReturnIsHidden(ArchAMD64SystemV, Matrix4x4))
}

func TestReturnIsHidden_WindowsVectors(t *testing.T) {
	require.False(t, ReturnIsHidden(ArchAMD64Windows, Vector2))
	require.True(t, ReturnIsHidden(ArchAMD64Windows, Vector3))
	require.True(t, ReturnIsHidden(ArchAMD64Windows, Vector4))
}

func TestSlots_X86SixtyFourBitInteger(t *testing.T) {
	require.Equal(t, 2, Slots(ArchX86, Int64))
	require.Equal(t, 2, Slots(ArchX86, Vector2))
	require.Equal(t, 1, Slots(ArchX86, Int32))
}

func TestValidate_RejectsUnknownType(t *testing.T) {
	err := Validate(ArchAMD64SystemV, ValueType(9001))
	require.Error(t, err)
}

func TestParseValueType_RoundTrip(t *testing.T) {
	for _, name := range []string{"int32", "vector3[]", "bool", "matrix4x4"} {
		vt, err := ParseValueType(name)
		require.NoError(t, err)
		require.Equal(t, name, vt.String())
	}
}
