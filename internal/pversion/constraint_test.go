package pversion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstraint_SatisfiedBy(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		want       bool
	}{
		{">=1.2.0 <2.0.0", "1.5.0", true},
		{">=1.2.0 <2.0.0", "2.0.0", false},
		{">=1.2.0 <2.0.0", "1.1.9", false},
		{"=1.0.0", "1.0.0", true},
		{"=1.0.0", "1.0.1", false},
		{"!=1.0.0", "1.0.1", true},
		{"~>1.2.0", "1.9.9", true},
		{"~>1.2.0", "2.0.0", false},
		{"~>1.2.0", "1.1.0", false},
		{">=1.0.0 || <0.5.0", "0.1.0", true},
		{">=1.0.0 || <0.5.0", "0.7.0", false},
	}
	for _, tc := range tests {
		t.Run(tc.constraint+"/"+tc.version, func(t *testing.T) {
			c, err := ParseConstraint(tc.constraint)
			require.NoError(t, err)
			got := c.SatisfiedBy(MustParse(tc.version))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestConstraint_StringRoundTrip(t *testing.T) {
	raw := ">=1.2.0 <2.0.0"
	c, err := ParseConstraint(raw)
	require.NoError(t, err)
	require.Equal(t, raw, c.String())
}

func TestConstraint_RejectsEmpty(t *testing.T) {
	_, err := ParseConstraint("")
	require.Error(t, err)
}
