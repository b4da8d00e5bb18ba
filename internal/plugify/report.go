package plugify

import (
	"strconv"

	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/output"
)

// Report is Initialize's return value: a per-extension summary the CLI
// renders through output's formatters, plus whether any extension failed.
type Report struct {
	Extensions []output.ExtensionReport
	HadError   bool
}

// ExitCode maps this report onto a process exit code via output's
// existing failure-state classification. A Report exists only when
// Initialize itself succeeded, so failed extensions map to
// ExitCodeDegraded.
func (r Report) ExitCode() output.ExitCode {
	return output.DetermineExitCode(r.Extensions, false)
}

func (m *Manager) buildReport() Report {
	var report Report
	for _, e := range m.Extensions() {
		er := toExtensionReport(e)
		report.Extensions = append(report.Extensions, er)
		if e.State().IsFailure() {
			report.HadError = true
		}
	}
	return report
}

func toExtensionReport(e *extension.Extension) output.ExtensionReport {
	mf := e.Manifest()
	var deps []string
	for _, d := range mf.Dependencies {
		deps = append(deps, d.Name)
	}

	loadMillis := int64(0)
	if d := e.PhaseDuration(extension.Loading); d > 0 {
		loadMillis = d.Milliseconds()
	}

	return output.ExtensionReport{
		ID:         strconv.FormatUint(uint64(e.ID()), 10),
		Name:       e.Name(),
		Kind:       mf.Kind().String(),
		Version:    mf.Version.String(),
		Language:   mf.Language,
		State:      e.State().String(),
		Errors:     e.Errors(),
		Warnings:   e.Warnings(),
		LoadMillis: loadMillis,
		DependsOn:  deps,
	}
}
