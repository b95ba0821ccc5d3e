// SPDX-License-Identifier: MPL-2.0

// Package specifier implements version parsing and version-range matching
// for dependency declarations in the jsonmodel manifest.
//
// A version is a dotted numeric string with an optional prerelease tag
// ("3.2.10", "1.0.0-rc.1"). A specifier set is a comma-separated list of
// clauses that must all hold (">=2.2, <3.3"). Sets can be matched against
// concrete versions, checked for satisfiability, and resolved against a list
// of available versions.
package specifier

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Version is a parsed version string.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Original   string
}

// versionRegex matches dotted numeric versions with optional prerelease and
// build metadata. Minor and patch segments may be omitted ("3.8" == "3.8.0").
var versionRegex = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-([0-9A-Za-z\-.]+))?(?:\+([0-9A-Za-z\-.]+))?$`)

// ParseVersion parses a version string.
func ParseVersion(s string) (*Version, error) {
	matches := versionRegex.FindStringSubmatch(s)
	if matches == nil {
		return nil, fmt.Errorf("invalid version format: %s", s)
	}

	v := &Version{Original: s}

	var err error
	v.Major, err = strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid major version: %w", err)
	}

	if matches[2] != "" {
		v.Minor, err = strconv.Atoi(matches[2])
		if err != nil {
			return nil, fmt.Errorf("invalid minor version: %w", err)
		}
	}

	if matches[3] != "" {
		v.Patch, err = strconv.Atoi(matches[3])
		if err != nil {
			return nil, fmt.Errorf("invalid patch version: %w", err)
		}
	}

	v.Prerelease = matches[4]

	return v, nil
}

// MustParseVersion parses a version string and panics on failure. Intended
// for constants in tests and table literals.
func MustParseVersion(s string) *Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValidVersion reports whether s parses as a version.
func IsValidVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// String returns the original version string.
func (v *Version) String() string {
	return v.Original
}

// segments returns how many numeric segments the version was written with:
// 1 for "3", 2 for "3.8", 3 for "3.8.1". Prerelease and build metadata do
// not count.
func (v *Version) segments() int {
	s := strings.TrimPrefix(v.Original, "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	return strings.Count(s, ".") + 1
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
// Prerelease versions sort below their release ("3.3.0-rc.1" < "3.3.0").
// Prerelease tags order by plain string comparison, a deliberate
// simplification: "rc.10" sorts before "rc.2". Pad numeric identifiers
// ("rc.02") when that ordering matters.
func (v *Version) Compare(other *Version) int {
	if v.Major != other.Major {
		return sign(v.Major - other.Major)
	}
	if v.Minor != other.Minor {
		return sign(v.Minor - other.Minor)
	}
	if v.Patch != other.Patch {
		return sign(v.Patch - other.Patch)
	}

	if v.Prerelease == "" && other.Prerelease != "" {
		return 1
	}
	if v.Prerelease != "" && other.Prerelease == "" {
		return -1
	}
	if v.Prerelease != other.Prerelease {
		if v.Prerelease < other.Prerelease {
			return -1
		}
		return 1
	}

	return 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// SortVersions sorts version strings in descending order (newest first).
// Strings that do not parse as versions are dropped.
func SortVersions(versions []string) []string {
	var parsed []*Version
	for _, vs := range versions {
		v, err := ParseVersion(vs)
		if err != nil {
			continue
		}
		parsed = append(parsed, v)
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].Compare(parsed[j]) > 0
	})

	result := make([]string, len(parsed))
	for i, v := range parsed {
		result[i] = v.Original
	}
	return result
}
