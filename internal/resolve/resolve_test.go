package resolve

import (
	"testing"

	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/pversion"
	"github.com/stretchr/testify/require"
)

func plugin(name, version, language string, deps ...manifest.Dependency) manifest.Manifest {
	return manifest.Manifest{
		Name:         name,
		Version:      pversion.MustParse(version),
		Language:     language,
		Entry:        "bin/" + name,
		Dependencies: deps,
	}
}

func langModule(name string) manifest.Manifest {
	return manifest.Manifest{
		Name:        name,
		Version:     pversion.MustParse("1.0.0"),
		Language:    name,
		Runtime:     "bin/" + name,
		Directories: []string{"plugins"},
	}
}

func dep(name, constraint string) manifest.Dependency {
	c, err := pversion.ParseConstraint(constraint)
	if err != nil {
		panic(err)
	}
	return manifest.Dependency{Name: name, Constraints: c}
}

func TestResolve_ResolvableChain(t *testing.T) {
	manifests := []manifest.Manifest{
		langModule("cpp"),
		plugin("A", "1.0.0", "cpp"),
		plugin("B", "1.0.0", "cpp", dep("A", ">=1.0.0")),
		plugin("C", "1.0.0", "cpp", dep("B", "=1.0.0")),
	}

	res := Resolve(manifests)
	require.Empty(t, res.Unresolved)

	pos := make(map[string]int, len(res.Order))
	for i, name := range res.Order {
		pos[name] = i
	}
	require.Less(t, pos["A"], pos["B"])
	require.Less(t, pos["B"], pos["C"])
	require.Less(t, pos["cpp"], pos["A"])
}

func TestResolve_VersionMismatch(t *testing.T) {
	manifests := []manifest.Manifest{
		langModule("cpp"),
		plugin("A", "1.0.0", "cpp"),
		plugin("B", "1.0.0", "cpp", dep("A", ">=2.0.0")),
		plugin("C", "1.0.0", "cpp", dep("B", "=1.0.0")),
	}

	res := Resolve(manifests)
	require.Contains(t, res.Order, "A")
	require.Contains(t, res.Unresolved, "B")
	require.Contains(t, res.Unresolved, "C")

	found := false
	for _, issue := range res.Diagnostics {
		if issue.Name == "B" {
			found = true
			require.Contains(t, issue.Message, "A")
		}
	}
	require.True(t, found)
}

func TestResolve_MissingLanguageModule(t *testing.T) {
	manifests := []manifest.Manifest{
		langModule("cpp"),
		plugin("P", "1.0.0", "lua"),
		plugin("Q", "1.0.0", "cpp"),
	}

	res := Resolve(manifests)
	require.Contains(t, res.Unresolved, "P")
	require.Contains(t, res.Order, "Q")
}

func TestResolve_Obsoletion(t *testing.T) {
	zV2 := plugin("Z", "2.0.0", "cpp")
	zV2.Obsoletes = []string{"Z_old"}
	zV1 := plugin("Z_old", "1.0.0", "cpp")

	manifests := []manifest.Manifest{
		langModule("cpp"),
		zV2,
		zV1,
	}

	res := Resolve(manifests)
	require.Contains(t, res.Order, "Z")
	require.Contains(t, res.Skipped, "Z_old")
	require.NotContains(t, res.Order, "Z_old")
}

func TestResolve_OptionalDependencyMissingIsWarningOnly(t *testing.T) {
	d := dep("Missing", ">=1.0.0")
	d.Optional = true
	manifests := []manifest.Manifest{
		langModule("cpp"),
		plugin("A", "1.0.0", "cpp", d),
	}

	res := Resolve(manifests)
	require.Contains(t, res.Order, "A")
	require.NotContains(t, res.Unresolved, "A")

	foundWarning := false
	for _, issue := range res.Diagnostics {
		if issue.Name == "A" && issue.Severity == SeverityWarning {
			foundWarning = true
		}
	}
	require.True(t, foundWarning)
}

func TestResolve_Conflict(t *testing.T) {
	manifests := []manifest.Manifest{
		langModule("cpp"),
		plugin("A", "1.0.0", "cpp"),
		{
			Name: "B", Version: pversion.MustParse("1.0.0"), Language: "cpp", Entry: "bin/B",
			Conflicts: []manifest.Conflict{{Name: "A", Reason: "incompatible hooks"}},
		},
	}

	res := Resolve(manifests)
	require.Contains(t, res.Unresolved, "A")
	require.Contains(t, res.Unresolved, "B")
}
