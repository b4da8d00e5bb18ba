package pkgmanager

import (
	"fmt"
	"strings"
)

// ParseSpec parses "category/bundle" into a PackageSpec.
func ParseSpec(spec string) (PackageSpec, error) {
	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return PackageSpec{}, fmt.Errorf("pkgmanager: invalid package spec %q (expected category/bundle)", spec)
	}
	return PackageSpec{Category: parts[0], Bundle: parts[1]}, nil
}

// Validate reports whether s names both a category and a bundle.
func (s PackageSpec) Validate() error {
	if s.Category == "" {
		return fmt.Errorf("pkgmanager: package spec is missing a category")
	}
	if s.Bundle == "" {
		return fmt.Errorf("pkgmanager: package spec is missing a bundle")
	}
	return nil
}

// String renders s back as "category/bundle".
func (s PackageSpec) String() string {
	return fmt.Sprintf("%s/%s", s.Category, s.Bundle)
}

// GetBundle retrieves bundle metadata by name from m.
func (m *Manifest) GetBundle(bundleName string) (*Bundle, error) {
	bundle, ok := m.Bundles[bundleName]
	if !ok {
		return nil, fmt.Errorf("pkgmanager: bundle %q not found in manifest", bundleName)
	}
	return bundle, nil
}
