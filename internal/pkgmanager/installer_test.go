package pkgmanager

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func buildTestZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestInstaller_EnsureDownloadsAndCaches(t *testing.T) {
	zipData := buildTestZip(t, map[string]string{"plugin.json": `{"name":"sample"}`})
	sum := sha256.Sum256(zipData)
	checksum := fmt.Sprintf("%x", sum)

	var downloadCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/extensions/manifest.json":
			manifest := Manifest{
				Category: "extensions",
				Bundles: map[string]*Bundle{
					"sample": {
						Name:        "sample",
						ZipSize:     int64(len(zipData)),
						Checksum:    checksum,
						DownloadURL: "", // filled below
					},
				},
			}
			manifest.Bundles["sample"].DownloadURL = "http://" + r.Host + "/extensions/sample.zip"
			require.NoError(t, json.NewEncoder(w).Encode(manifest))
		case "/extensions/sample.zip":
			downloadCount++
			w.Write(zipData)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := Config{
		BaseURL:       server.URL,
		CacheDir:      t.TempDir(),
		CacheTTL:      time.Hour,
		ManifestTTL:   time.Hour,
		HTTPTimeout:   5 * time.Second,
		RetryAttempts: 2,
	}

	installer, err := NewInstaller(cfg, nil)
	require.NoError(t, err)

	dir, err := installer.Ensure("extensions/sample")
	require.NoError(t, err)
	require.DirExists(t, dir)
	require.FileExists(t, dir+"/plugin.json")
	require.Equal(t, 1, downloadCount)

	// Second Ensure call should hit the disk cache, not redownload.
	dir2, err := installer.Ensure("extensions/sample")
	require.NoError(t, err)
	require.Equal(t, dir, dir2)
	require.Equal(t, 1, downloadCount)
}

func TestInstaller_EnsureRejectsMalformedSpec(t *testing.T) {
	installer, err := NewInstaller(Config{CacheDir: t.TempDir(), RetryAttempts: 1}, nil)
	require.NoError(t, err)
	_, err = installer.Ensure("not-a-valid-spec")
	require.Error(t, err)
}

func TestParseSpec_RoundTrip(t *testing.T) {
	spec, err := ParseSpec("extensions/sample")
	require.NoError(t, err)
	require.Equal(t, "extensions", spec.Category)
	require.Equal(t, "sample", spec.Bundle)
	require.Equal(t, "extensions/sample", spec.String())
}
