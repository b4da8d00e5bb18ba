// Package resolve implements the dependency resolution algorithm that turns
// a set of parsed manifests into a load order or a diagnosable failure. It
// is a pure function: no filesystem access, no code loading.
package resolve

import (
	"fmt"
	"sort"

	"github.com/shivasurya/plugify/internal/manifest"
)

// Severity distinguishes a hard resolution failure from an advisory note.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one diagnostic produced during resolution, attributed to the
// extension name it concerns.
type Issue struct {
	Severity Severity
	Name     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Name, i.Message)
}

// DependencyResolution is the resolver's output. Order lists every placed
// candidate in load order; candidates that could not be placed are listed
// in Unresolved, with the reasons in Diagnostics. When a dependency cycle
// is detected, Order and Unresolved are both empty and Diagnostics names
// the cycle's members.
type DependencyResolution struct {
	Order       []string
	Diagnostics []Issue
	// Unresolved names manifest names the resolver could not place, each
	// with the reason recorded in Diagnostics.
	Unresolved []string
	// Skipped names manifests removed by the obsolescence pass.
	Skipped []string
}

type candidate struct {
	manifest   manifest.Manifest
	unresolved bool
}

// Resolve runs the full six-pass algorithm over manifests (§4.6) and
// returns a DependencyResolution.
func Resolve(manifests []manifest.Manifest) DependencyResolution {
	res := DependencyResolution{}

	byName := make(map[string]*candidate, len(manifests))
	var order []string
	for _, m := range manifests {
		if _, dup := byName[m.Name]; dup {
			res.Diagnostics = append(res.Diagnostics, Issue{
				Severity: SeverityError, Name: m.Name,
				Message: "duplicate manifest name in candidate set",
			})
			continue
		}
		byName[m.Name] = &candidate{manifest: m}
		order = append(order, m.Name)
	}

	obsoleted := obsolescencePass(byName, order)
	for _, name := range obsoleted {
		delete(byName, name)
		res.Skipped = append(res.Skipped, name)
	}
	order = without(order, obsoleted)

	conflictPass(byName, order, &res)
	satisfactionPass(byName, order, &res)
	languageModulePass(byName, order, &res)

	sorted, cycle := topoSort(byName, order)
	if cycle != nil {
		res.Diagnostics = append(res.Diagnostics, Issue{
			Severity: SeverityError,
			Name:     "<resolver>",
			Message:  fmt.Sprintf("cycle detected among: %v", cycle),
		})
		return res
	}

	for _, name := range sorted {
		c := byName[name]
		if c.unresolved {
			res.Unresolved = append(res.Unresolved, name)
			continue
		}
		res.Order = append(res.Order, name)
	}

	return res
}

func without(names []string, remove []string) []string {
	if len(remove) == 0 {
		return names
	}
	skip := make(map[string]bool, len(remove))
	for _, n := range remove {
		skip[n] = true
	}
	var out []string
	for _, n := range names {
		if !skip[n] {
			out = append(out, n)
		}
	}
	return out
}

// obsolescencePass returns the names removed from the candidate set because
// some other present manifest declares `obsoletes` against them.
func obsolescencePass(byName map[string]*candidate, order []string) []string {
	var removed []string
	for _, name := range order {
		c := byName[name]
		for _, obsoleteName := range c.manifest.Obsoletes {
			if _, present := byName[obsoleteName]; present {
				removed = append(removed, obsoleteName)
			}
		}
	}
	return removed
}

func conflictPass(byName map[string]*candidate, order []string, res *DependencyResolution) {
	for _, name := range order {
		c := byName[name]
		for _, conflict := range c.manifest.Conflicts {
			other, present := byName[conflict.Name]
			if !present {
				continue
			}
			if !conflict.Constraints.IsZero() && !conflict.Constraints.SatisfiedBy(other.manifest.Version) {
				continue
			}
			c.unresolved = true
			other.unresolved = true
			reason := conflict.Reason
			if reason == "" {
				reason = "declared conflict"
			}
			res.Diagnostics = append(res.Diagnostics, Issue{
				Severity: SeverityError, Name: name,
				Message: fmt.Sprintf("conflicts with %q (%s)", conflict.Name, reason),
			})
			res.Diagnostics = append(res.Diagnostics, Issue{
				Severity: SeverityError, Name: conflict.Name,
				Message: fmt.Sprintf("conflicts with %q (%s)", name, reason),
			})
		}
	}
}

func satisfactionPass(byName map[string]*candidate, order []string, res *DependencyResolution) {
	for _, name := range order {
		c := byName[name]
		if c.unresolved {
			continue
		}
		for _, dep := range c.manifest.Dependencies {
			other, present := byName[dep.Name]
			satisfied := present && !other.unresolved && (dep.Constraints.IsZero() || dep.Constraints.SatisfiedBy(other.manifest.Version))

			if satisfied {
				continue
			}

			if dep.Optional {
				var found string
				if present {
					found = other.manifest.Version.String()
				} else {
					found = "not present"
				}
				res.Diagnostics = append(res.Diagnostics, Issue{
					Severity: SeverityWarning, Name: name,
					Message: fmt.Sprintf("optional dependency %q %s not satisfied (found %s)", dep.Name, dep.Constraints, found),
				})
				continue
			}

			c.unresolved = true
			var found string
			if present {
				found = other.manifest.Version.String()
			} else {
				found = "not present"
			}
			res.Diagnostics = append(res.Diagnostics, Issue{
				Severity: SeverityError, Name: name,
				Message: fmt.Sprintf("requires %q %s, found %s", dep.Name, dep.Constraints, found),
			})
		}
	}
}

func languageModulePass(byName map[string]*candidate, order []string, res *DependencyResolution) {
	for _, name := range order {
		c := byName[name]
		if c.unresolved || c.manifest.Kind() != manifest.KindPlugin {
			continue
		}
		module, present := byName[c.manifest.Language]
		if !present || module.manifest.Kind() != manifest.KindModule || module.unresolved {
			c.unresolved = true
			res.Diagnostics = append(res.Diagnostics, Issue{
				Severity: SeverityError, Name: name,
				Message: fmt.Sprintf("language module %q not available", c.manifest.Language),
			})
		}
	}
}

// topoSort orders the candidate set so every dependency (including the
// implicit plugin->language-module edge) precedes its dependent, breaking
// ties by name. Unresolved candidates take part like any other, edges into
// them included, so their position can be reported; Resolve then moves
// them out of the order into Unresolved.
func topoSort(byName map[string]*candidate, order []string) ([]string, []string) {
	edges := make(map[string][]string, len(order)) // name -> names it depends on
	indegree := make(map[string]int, len(order))
	for _, name := range order {
		indegree[name] = 0
	}

	addEdge := func(from, to string) {
		if _, present := byName[to]; !present {
			return
		}
		edges[from] = append(edges[from], to)
		indegree[from]++
	}

	for _, name := range order {
		c := byName[name]
		for _, dep := range c.manifest.Dependencies {
			addEdge(name, dep.Name)
		}
		if c.manifest.Kind() == manifest.KindPlugin {
			addEdge(name, c.manifest.Language)
		}
	}

	var ready []string
	for _, name := range order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	dependents := make(map[string][]string)
	for name, deps := range edges {
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var result []string
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		result = append(result, next)

		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(order) {
		var cycle []string
		placed := make(map[string]bool, len(result))
		for _, n := range result {
			placed[n] = true
		}
		for _, n := range order {
			if !placed[n] {
				cycle = append(cycle, n)
			}
		}
		sort.Strings(cycle)
		return nil, cycle
	}

	return result, nil
}
