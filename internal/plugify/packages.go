package plugify

import (
	"time"

	"github.com/shivasurya/plugify/internal/pkgmanager"
	"github.com/shivasurya/plugify/output"
)

// installPackages materializes every configured package spec via a
// pkgmanager.Installer before discovery runs, returning each resolved
// directory as an extra root for discover to scan alongside
// PluginsDir/ModulesDir. A spec that fails to install is logged and
// skipped, never fatal to Initialize, matching §4.8's best-effort
// load-loop semantics applied one step earlier.
func (m *Manager) installPackages() []string {
	if m.cfg.PackageRegistryURL == "" || len(m.cfg.Packages) == 0 {
		return nil
	}

	installer, err := pkgmanager.NewInstaller(pkgmanager.Config{
		BaseURL:       m.cfg.PackageRegistryURL,
		CacheDir:      m.cfg.PackageCacheDir(),
		CacheTTL:      24 * time.Hour,
		ManifestTTL:   5 * time.Minute,
		HTTPTimeout:   30 * time.Second,
		RetryAttempts: 3,
	}, installerLogger{m})
	if err != nil {
		m.log(output.SeverityError, "pkgmanager: installer unavailable: %v", err)
		return nil
	}

	var roots []string
	for _, spec := range m.cfg.Packages {
		path, err := installer.Ensure(spec)
		if err != nil {
			m.log(output.SeverityWarning, "pkgmanager: %s: %v", spec, err)
			continue
		}
		roots = append(roots, path)
	}
	return roots
}

// installerLogger adapts Manager.log to pkgmanager.Installer's narrow
// Logger interface.
type installerLogger struct{ m *Manager }

func (l installerLogger) Log(message string, severity output.Severity) {
	l.m.log(severity, "%s", message)
}
