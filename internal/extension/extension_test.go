package extension

import (
	"testing"

	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/pversion"
	"github.com/stretchr/testify/require"
)

func newTestExtension(t *testing.T) *Extension {
	t.Helper()
	m := manifest.Manifest{Name: "sample", Version: pversion.MustParse("1.0.0"), Language: "cpp", Entry: "bin/sample"}
	return New(m, "/base/plugins/sample")
}

func TestExtension_UniqueIdsNeverCollide(t *testing.T) {
	a := newTestExtension(t)
	b := newTestExtension(t)
	require.NotEqual(t, a.ID(), b.ID())
}

func TestExtension_HappyPathTransitions(t *testing.T) {
	e := newTestExtension(t)
	require.Equal(t, Discovered, e.State())

	require.NoError(t, e.MarkParsing())
	require.NoError(t, e.MarkParsed())
	require.NoError(t, e.MarkResolving())
	require.NoError(t, e.MarkResolved())
	require.NoError(t, e.MarkLoading())
	require.NoError(t, e.MarkLoaded())
	require.True(t, e.HasLanguageModule())
	require.NoError(t, e.MarkExporting())
	require.NoError(t, e.MarkExported())
	require.True(t, e.ExportBindingComplete())
	require.NoError(t, e.MarkStarting())
	require.NoError(t, e.MarkRunning())
	require.Equal(t, Running, e.State())
}

func TestExtension_CorruptedAbsorbsAndStopsAdvance(t *testing.T) {
	e := newTestExtension(t)
	require.NoError(t, e.MarkParsing())
	e.MarkCorrupted("bad json")
	require.Equal(t, Corrupted, e.State())
	require.True(t, e.State().IsFailure())
	require.NotEmpty(t, e.Errors())

	err := e.MarkParsed()
	require.Error(t, err)
}

func TestExtension_FailedHasNonEmptyErrors(t *testing.T) {
	e := newTestExtension(t)
	e.MarkFailed("missing entry symbol")
	require.Equal(t, Failed, e.State())
	require.NotEmpty(t, e.Errors())
}

func TestExtension_PhaseDuration(t *testing.T) {
	e := newTestExtension(t)
	require.NoError(t, e.MarkParsing())
	require.NoError(t, e.MarkParsed())
	// Discovered's duration is measurable; still-current state is zero.
	require.GreaterOrEqual(t, e.PhaseDuration(Discovered).Nanoseconds(), int64(0))
	require.Equal(t, int64(0), e.PhaseDuration(Parsed).Nanoseconds())
}
