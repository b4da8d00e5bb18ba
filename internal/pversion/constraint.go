package pversion

import (
	"fmt"
	"strings"
)

// Operator is one of the comparison operators a manifest dependency or
// conflict entry may express.
type Operator int

const (
	OpEQ      Operator = iota // =
	OpNE                      // !=
	OpGT                      // >
	OpGE                      // >=
	OpLT                      // <
	OpLE                      // <=
	OpCompat                  // ~> compatible-with-same-major
)

func (op Operator) String() string {
	switch op {
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpCompat:
		return "~>"
	default:
		return "?"
	}
}

// clause is a single operator/version pair, e.g. ">=1.2.0".
type clause struct {
	op      Operator
	version Version
}

func (c clause) satisfiedBy(v Version) bool {
	switch c.op {
	case OpEQ:
		return v.Equal(c.version)
	case OpNE:
		return !v.Equal(c.version)
	case OpGT:
		return v.Greater(c.version)
	case OpGE:
		return v.Greater(c.version) || v.Equal(c.version)
	case OpLT:
		return v.Less(c.version)
	case OpLE:
		return v.Less(c.version) || v.Equal(c.version)
	case OpCompat:
		// ~>1.2.3 means >=1.2.3 and <2.0.0 (same major as the anchor).
		if v.Less(c.version) {
			return false
		}
		return v.Major() == c.version.Major()
	default:
		return false
	}
}

func (c clause) String() string {
	return c.op.String() + c.version.String()
}

// group is a set of clauses ANDed together, e.g. ">=1.2.0 <2.0.0".
type group []clause

func (g group) satisfiedBy(v Version) bool {
	for _, c := range g {
		if !c.satisfiedBy(v) {
			return false
		}
	}
	return true
}

func (g group) String() string {
	parts := make([]string, len(g))
	for i, c := range g {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Constraint is a union of AND-groups over Version: a group matches when
// every clause inside it matches, and the constraint matches when any group
// matches. Groups are separated by "||" in the manifest string; clauses
// within a group are separated by whitespace.
type Constraint struct {
	groups []group
	raw    string
}

// ParseConstraint parses a manifest constraint string such as
// ">=1.2.0 <2.0.0" or "=1.0.0 || ~>2.1.0".
func ParseConstraint(s string) (Constraint, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Constraint{}, fmt.Errorf("parse constraint: empty string")
	}

	var groups []group
	for _, groupText := range strings.Split(raw, "||") {
		groupText = strings.TrimSpace(groupText)
		if groupText == "" {
			return Constraint{}, fmt.Errorf("parse constraint %q: empty alternative", s)
		}
		g, err := parseGroup(groupText)
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", s, err)
		}
		groups = append(groups, g)
	}

	return Constraint{groups: groups, raw: raw}, nil
}

func parseGroup(text string) (group, error) {
	var g group
	for _, field := range strings.Fields(text) {
		c, err := parseClause(field)
		if err != nil {
			return nil, err
		}
		g = append(g, c)
	}
	if len(g) == 0 {
		return nil, fmt.Errorf("no clauses found")
	}
	return g, nil
}

var operatorPrefixes = []struct {
	prefix string
	op     Operator
}{
	{">=", OpGE},
	{"<=", OpLE},
	{"!=", OpNE},
	{"~>", OpCompat},
	{">", OpGT},
	{"<", OpLT},
	{"=", OpEQ},
}

func parseClause(field string) (clause, error) {
	for _, candidate := range operatorPrefixes {
		if strings.HasPrefix(field, candidate.prefix) {
			versionText := strings.TrimSpace(strings.TrimPrefix(field, candidate.prefix))
			v, err := Parse(versionText)
			if err != nil {
				return clause{}, fmt.Errorf("clause %q: %w", field, err)
			}
			return clause{op: candidate.op, version: v}, nil
		}
	}
	// No operator prefix means an implicit exact match, e.g. "1.2.0".
	v, err := Parse(field)
	if err != nil {
		return clause{}, fmt.Errorf("clause %q: %w", field, err)
	}
	return clause{op: OpEQ, version: v}, nil
}

// SatisfiedBy reports whether v matches any alternative of the constraint.
func (c Constraint) SatisfiedBy(v Version) bool {
	if len(c.groups) == 0 {
		return true
	}
	for _, g := range c.groups {
		if g.satisfiedBy(v) {
			return true
		}
	}
	return false
}

func (c Constraint) String() string {
	if c.raw != "" {
		return c.raw
	}
	parts := make([]string, len(c.groups))
	for i, g := range c.groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, " || ")
}

// IsZero reports whether this Constraint carries no clauses (matches anything).
func (c Constraint) IsZero() bool { return len(c.groups) == 0 }

// MarshalJSON round-trips a Constraint through its manifest string form.
func (c Constraint) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strings.ReplaceAll(c.String(), `"`, `\"`) + `"`), nil
}

// UnmarshalJSON accepts a quoted constraint string.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	if s == "" {
		*c = Constraint{}
		return nil
	}
	parsed, err := ParseConstraint(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
