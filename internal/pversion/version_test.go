package pversion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion_ParseRoundTrip(t *testing.T) {
	cases := []string{
		"1.2.3",
		"0.0.1",
		"2.0.0-beta.1",
		"1.4.0+build.5",
		"3.1.4-rc.2+exp.sha.5114f85",
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			v, err := Parse(raw)
			require.NoError(t, err)
			require.Equal(t, raw, v.String())
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	require.True(t, MustParse("1.0.0").Less(MustParse("1.0.1")))
	require.True(t, MustParse("1.0.0-beta").Less(MustParse("1.0.0")))
	require.True(t, MustParse("2.0.0").Greater(MustParse("1.9.9")))
	require.True(t, MustParse("1.2.3").Equal(MustParse("1.2.3")))
}

func TestVersion_ParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-version")
	require.Error(t, err)
}
