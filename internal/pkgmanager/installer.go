package pkgmanager

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shivasurya/plugify/output"
)

// Logger is the narrow logging surface Installer needs; satisfied by
// output.Logger so Ensure can report download/extract progress without
// Installer owning a concrete logger implementation.
type Logger interface {
	Log(message string, severity output.Severity)
}

// Installer resolves a PackageSpec against a remote manifest, downloads
// and checksums its zip archive, and extracts it into that package's cache
// directory (<cache>/<category>/<bundle>). It is the Manager's only collaborator for materializing
// an extension's payload directory before discovery runs.
type Installer struct {
	config     Config
	cache      *DiskCache
	manifests  ManifestProvider
	httpClient *http.Client
	logger     Logger
}

// NewInstaller builds an Installer from cfg. logger may be nil, in which
// case Ensure proceeds silently.
func NewInstaller(cfg Config, logger Logger) (*Installer, error) {
	cache, err := NewDiskCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	return &Installer{
		config:     cfg,
		cache:      cache,
		manifests:  NewManifestLoader(cfg.BaseURL, cfg.ManifestTTL),
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}, nil
}

func (in *Installer) log(severity output.Severity, format string, args ...interface{}) {
	if in.logger == nil {
		return
	}
	in.logger.Log(fmt.Sprintf(format, args...), severity)
}

// Ensure materializes spec's extracted package directory, using a cached
// copy when one is valid, and returns its path. This is the fixed
// interface the Manager calls before handing an extension's directory to
// discovery.
func (in *Installer) Ensure(spec string) (string, error) {
	pkgSpec, err := ParseSpec(spec)
	if err != nil {
		return "", err
	}
	if err := pkgSpec.Validate(); err != nil {
		return "", err
	}

	manifest, err := in.manifests.LoadCategoryManifest(pkgSpec.Category)
	if err != nil {
		return "", fmt.Errorf("pkgmanager: load manifest: %w", err)
	}

	bundle, err := manifest.GetBundle(pkgSpec.Bundle)
	if err != nil {
		return "", err
	}

	if cached, err := in.cache.Get(pkgSpec, bundle.Checksum); err == nil {
		in.log(output.SeverityDebug, "pkgmanager: using cached package %s", pkgSpec)
		return cached, nil
	}

	return in.downloadAndExtract(pkgSpec, bundle)
}

func (in *Installer) downloadAndExtract(spec PackageSpec, bundle *Bundle) (string, error) {
	in.log(output.SeverityInfo, "pkgmanager: downloading %s (%s)", spec, humanize.Bytes(uint64(bundle.ZipSize)))
	zipPath, err := in.downloadZip(bundle.DownloadURL, bundle.ZipSize)
	if err != nil {
		return "", fmt.Errorf("pkgmanager: download %s: %w", spec, err)
	}
	defer os.Remove(zipPath)

	if err := VerifyChecksum(zipPath, bundle.Checksum); err != nil {
		return "", err
	}

	extractPath := filepath.Join(in.config.CacheDir, spec.Category, spec.Bundle)
	if err := os.MkdirAll(extractPath, 0o755); err != nil {
		return "", err
	}

	count, err := extractZip(zipPath, extractPath)
	if err != nil {
		return "", fmt.Errorf("pkgmanager: extract %s: %w", spec, err)
	}
	in.log(output.SeverityDebug, "pkgmanager: extracted %d files for %s", count, spec)

	if err := in.cache.Set(spec, extractPath, bundle.Checksum, in.config.CacheTTL); err != nil {
		return "", fmt.Errorf("pkgmanager: save cache entry for %s: %w", spec, err)
	}

	return extractPath, nil
}

func (in *Installer) downloadZip(url string, expectedSize int64) (string, error) {
	tempFile, err := os.CreateTemp("", "plugify-pkg-*.zip")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	var lastErr error
	for attempt := 0; attempt < in.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Second * time.Duration(attempt))
		}

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
		if err != nil {
			lastErr = err
			continue
		}

		resp, err := in.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %s", resp.Status)
			continue
		}

		written, err := io.Copy(tempFile, resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if expectedSize > 0 && written != expectedSize {
			lastErr = fmt.Errorf("size mismatch: expected %s, got %s", humanize.Bytes(uint64(expectedSize)), humanize.Bytes(uint64(written)))
			continue
		}

		return tempFile.Name(), nil
	}

	return "", fmt.Errorf("download failed after %d attempts: %w", in.config.RetryAttempts, lastErr)
}

func extractZip(zipPath, destDir string) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if err := extractOne(f, destDir); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// extractOne extracts a single zip entry, rejecting any path ("zip slip")
// that would land outside destDir.
func extractOne(f *zip.File, destDir string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	cleanDest := filepath.Clean(destDir)
	path := filepath.Join(cleanDest, f.Name)
	rel, err := filepath.Rel(cleanDest, filepath.Clean(path))
	if err != nil || rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return fmt.Errorf("pkgmanager: illegal archive entry path: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(path, f.Mode())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// Invalidate forces the next Ensure for spec to re-download, discarding
// whatever is currently cached.
func (in *Installer) Invalidate(spec string) error {
	pkgSpec, err := ParseSpec(spec)
	if err != nil {
		return err
	}
	return in.cache.Invalidate(pkgSpec)
}
