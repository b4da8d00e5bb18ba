package plugify

import (
	"strings"

	"github.com/shivasurya/plugify/internal/extension"
	"github.com/shivasurya/plugify/internal/resolve"
	"github.com/shivasurya/plugify/output"
)

// applyResolution drives every already-Parsed extension through
// Resolving->Resolved, or into Unresolved/Skipped, following the
// resolver's verdict. Extensions that never reached Parsed (Corrupted)
// are left untouched; they never entered the candidate set.
func (m *Manager) applyResolution(res resolve.DependencyResolution) {
	reasons := make(map[string][]string)
	for _, d := range res.Diagnostics {
		if d.Severity != resolve.SeverityError {
			if e, ok := m.byName[d.Name]; ok {
				e.AddWarning(d.Message)
			}
			continue
		}
		reasons[d.Name] = append(reasons[d.Name], d.Message)
	}

	skipped := make(map[string]bool, len(res.Skipped))
	for _, name := range res.Skipped {
		skipped[name] = true
	}
	unresolved := make(map[string]bool, len(res.Unresolved))
	for _, name := range res.Unresolved {
		unresolved[name] = true
	}

	for name, e := range m.byName {
		if e.State() != extension.Parsed {
			continue
		}
		_ = e.MarkResolving()
		switch {
		case skipped[name]:
			e.MarkSkipped("superseded by another extension's obsoletes declaration")
		case unresolved[name]:
			e.MarkUnresolved(strings.Join(reasons[name], "; "))
		default:
			if err := e.MarkResolved(); err != nil {
				e.MarkUnresolved(err.Error())
			}
		}
		m.log(output.SeverityDebug, "%s: %s", name, e.State())
	}
}
