package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSFilesystem_ListRecursiveWithExtFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "plugins", "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugins", "a", "a.pplugin"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugins", "a", "payload.bin"), []byte("x"), 0o644))

	fs := OSFilesystem{}
	got, err := fs.List(dir, ListOptions{Recursive: true, Ext: ".pplugin"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Contains(t, got[0], "a.pplugin")
}

func TestLocator_RegisterAndGet(t *testing.T) {
	loc := New()
	loc.RegisterFilesystem(OSFilesystem{})
	loc.RegisterManifestParser(ManifestParserFunc{})
	loc.RegisterDependencyResolver(ResolverFunc{})

	require.NotNil(t, loc.Filesystem())
	require.NotNil(t, loc.ManifestParser())
	require.NotNil(t, loc.DependencyResolver())
	require.Nil(t, loc.Logger())
}
