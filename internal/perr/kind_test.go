package perr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_UnwrapsAndMatchesKind(t *testing.T) {
	base := errors.New("boom")
	err := New(LoadFailed, "sample", base)

	require.ErrorIs(t, err, base)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	require.Equal(t, LoadFailed, pe.Kind)
	require.Contains(t, err.Error(), "LoadFailed")
	require.Contains(t, err.Error(), "sample")
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "ThunkGenerationFailed", ThunkGenerationFailed.String())
	require.Equal(t, "Unknown", Kind(999).String())
}
