// SPDX-License-Identifier: MPL-2.0

// Package manifest implements the jsonmodel project manifest.
//
// The manifest (jsonmodel.toml) is the declarative descriptor of a project:
// package identity, the engine version range the project supports, runtime
// and development dependency tables keyed by package name with version-range
// values, and nested tool configuration for the project checker. It owns no
// runtime state; it is authored per release and read by tooling.
package manifest

import "strings"

const (
	// Name is the manifest file name looked up at the project root.
	Name = "jsonmodel.toml"

	// DefaultExcludePattern is the checker exclusion used when a project
	// does not configure one: virtual environments, generated migrations,
	// and top-level utility scripts.
	DefaultExcludePattern = "venv|migrations|scripts"
)

type (
	// Manifest is the parsed jsonmodel.toml document.
	Manifest struct {
		// Package holds the identity table (required).
		Package Package `toml:"package"`

		// Build declares build-system requirements (optional).
		Build *Build `toml:"build,omitempty"`

		// Dependencies maps package name to a version-range value.
		// Example: django = ">=2.2, <3.3"
		Dependencies map[string]string `toml:"dependencies,omitempty"`

		// DevDependencies maps package name to a version range, for
		// development-only tooling (formatters, test runners, type checkers).
		DevDependencies map[string]string `toml:"dev-dependencies,omitempty"`

		// Tool holds nested tool-specific configuration tables.
		Tool *Tool `toml:"tool,omitempty"`

		// FilePath stores where the manifest was loaded from (not serialized).
		FilePath string `toml:"-"`
	}

	// Package is the identity table.
	Package struct {
		// Name identifies the package. Required.
		Name string `toml:"name"`
		// Version is the package version. Must follow the dotted numeric
		// scheme so releases stay monotonically comparable.
		Version string `toml:"version"`
		// Description is a human-readable summary (optional).
		Description string `toml:"description,omitempty"`
		// Authors are free-form contact strings (optional).
		Authors []string `toml:"authors,omitempty"`
		// RequiresEngine constrains the jsonmodel engine versions the
		// project supports, e.g. ">=3.8, <3.10" (optional).
		RequiresEngine string `toml:"requires-engine,omitempty"`
	}

	// Build declares what is needed to package the project.
	Build struct {
		// Requires lists build-system requirements, each "name" or
		// "name version-range".
		Requires []string `toml:"requires,omitempty"`
	}

	// Tool is the container table for tool-specific configuration.
	Tool struct {
		// Checker configures the project checker.
		Checker *Checker `toml:"checker,omitempty"`
	}

	// Checker is the [tool.checker] table.
	Checker struct {
		// IgnoreMissingModels makes the checker skip references to models
		// it cannot find instead of reporting them.
		IgnoreMissingModels bool `toml:"ignore_missing_models,omitempty"`
		// Exclude is a regex alternation over path segments; matching
		// paths are skipped during model discovery.
		Exclude string `toml:"exclude,omitempty"`
	}
)

// ExcludePattern returns the configured checker exclusion pattern, or the
// default when the manifest does not set one.
func (m *Manifest) ExcludePattern() string {
	if m.Tool != nil && m.Tool.Checker != nil && m.Tool.Checker.Exclude != "" {
		return m.Tool.Checker.Exclude
	}
	return DefaultExcludePattern
}

// IgnoreMissingModels reports whether the checker should tolerate unresolved
// model references.
func (m *Manifest) IgnoreMissingModels() bool {
	return m.Tool != nil && m.Tool.Checker != nil && m.Tool.Checker.IgnoreMissingModels
}

// Requirement returns the declared version range for a dependency, searching
// the runtime table first and the development table second.
func (m *Manifest) Requirement(name string) (rangeStr string, dev bool, ok bool) {
	if r, found := m.Dependencies[name]; found {
		return r, false, true
	}
	if r, found := m.DevDependencies[name]; found {
		return r, true, true
	}
	return "", false, false
}

// normalizeName folds a dependency name for duplicate detection: dependency
// names compare case-insensitively and treat "-" and "_" as equivalent.
func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}
