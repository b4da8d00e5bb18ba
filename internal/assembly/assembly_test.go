package assembly

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsInvalidWithError(t *testing.T) {
	a := Load("/no/such/library.so", Now|Local)
	require.False(t, a.Valid())
	require.Error(t, a.Err())
}

func TestSymbol_OnInvalidAssemblyReturnsNotFound(t *testing.T) {
	a := Load("/no/such/library.so", Now)
	_, err := a.Symbol("anything")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFromHandle_RejectsNilHandle(t *testing.T) {
	a := FromHandle("in-process", 0)
	require.False(t, a.Valid())
}

func TestToDlopenMode_ResolutionAndVisibilityBits(t *testing.T) {
	modeNow := toDlopenMode(Now | Global)
	modeLazy := toDlopenMode(Lazy | Local)
	require.NotEqual(t, modeNow, modeLazy)
}

func TestMangleItanium_QualifiedName(t *testing.T) {
	require.Equal(t, "N7plugify9ExtensionE", mangleItanium("plugify::Extension"))
	require.Equal(t, "9Extension", mangleItanium("Extension"))
}

func TestParsePattern_LiteralsAndWildcards(t *testing.T) {
	toks, err := ParsePattern("48 8B ?? ?? 05")
	require.NoError(t, err)
	require.Len(t, toks, 5)
	require.Equal(t, byte(0x48), toks[0].value)
	require.True(t, toks[2].wildcard)
}

func TestFindPattern_MatchesWithWildcards(t *testing.T) {
	data := []byte{0x11, 0x48, 0x8B, 0x00, 0x00, 0x05, 0x22}
	off, err := FindPattern(0x1000, data, "48 8B ?? ?? 05")
	require.NoError(t, err)
	require.Equal(t, uintptr(0x1001), off)
}

func TestFindPattern_NoMatchReturnsNotFound(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	_, err := FindPattern(0, data, "FF FF")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSection_MissingFileReturnsNotFound(t *testing.T) {
	a := Load("/no/such/library.so", Now)
	_, err := a.Section(".text")
	require.ErrorIs(t, err, ErrNotFound)
}
