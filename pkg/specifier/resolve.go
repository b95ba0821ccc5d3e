// SPDX-License-Identifier: MPL-2.0

package specifier

import (
	"fmt"
	"sort"
)

// Resolve selects the highest version from available that satisfies the set.
// Strings that do not parse as versions are skipped.
//
// This is the dependency-resolution primitive: given the declared range for a
// dependency and the versions that exist, pick the concrete version to use.
func Resolve(setStr string, available []string) (string, error) {
	set, err := Parse(setStr)
	if err != nil {
		return "", err
	}

	var matching []*Version
	for _, vs := range available {
		v, err := ParseVersion(vs)
		if err != nil {
			continue
		}
		if set.Match(v) {
			matching = append(matching, v)
		}
	}

	if len(matching) == 0 {
		return "", fmt.Errorf("no version matches %q (available: %v)", setStr, available)
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].Compare(matching[j]) > 0
	})

	return matching[0].Original, nil
}

// Filter returns the versions from the list that satisfy the set, preserving
// input order. Strings that do not parse as versions are skipped.
func Filter(setStr string, versions []string) ([]string, error) {
	set, err := Parse(setStr)
	if err != nil {
		return nil, err
	}

	var matching []string
	for _, vs := range versions {
		v, err := ParseVersion(vs)
		if err != nil {
			continue
		}
		if set.Match(v) {
			matching = append(matching, vs)
		}
	}

	return matching, nil
}
