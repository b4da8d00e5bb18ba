// Package pversion implements the semver-compatible Version and Constraint
// types used throughout manifest parsing and dependency resolution.
package pversion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a semver-compatible triple plus optional pre-release tag and
// build metadata, totally ordered with pre-release < release.
type Version struct {
	inner *semver.Version
}

// Parse reads a version string of the form "major.minor.patch[-pre][+build]".
func Parse(s string) (Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return Version{inner: v}, nil
}

// MustParse is Parse but panics on error; reserved for literals known valid
// at compile time (tests, defaults).
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// New builds a Version directly from its numeric components.
func New(major, minor, patch uint64, prerelease, build string) Version {
	v := semver.New(major, minor, patch, prerelease, build)
	return Version{inner: v}
}

func (v Version) Major() uint64 { return v.inner.Major() }
func (v Version) Minor() uint64 { return v.inner.Minor() }
func (v Version) Patch() uint64 { return v.inner.Patch() }
func (v Version) Prerelease() string { return v.inner.Prerelease() }
func (v Version) Metadata() string { return v.inner.Metadata() }

// IsZero reports whether this Version was never parsed or constructed.
func (v Version) IsZero() bool { return v.inner == nil }

func (v Version) String() string {
	if v.inner == nil {
		return "0.0.0"
	}
	return v.inner.String()
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than other.
func (v Version) Compare(other Version) int {
	if v.inner == nil || other.inner == nil {
		return strings.Compare(v.String(), other.String())
	}
	return v.inner.Compare(other.inner)
}

func (v Version) Equal(other Version) bool   { return v.Compare(other) == 0 }
func (v Version) Less(other Version) bool    { return v.Compare(other) < 0 }
func (v Version) Greater(other Version) bool { return v.Compare(other) > 0 }

// MarshalJSON round-trips a Version through its string form.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(v.String())), nil
}

// UnmarshalJSON accepts a quoted version string.
func (v *Version) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal version: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
