// SPDX-License-Identifier: MPL-2.0

package specifier

import (
	"fmt"
	"regexp"
	"strings"
)

// Clause is a single version comparison within a specifier set.
type Clause struct {
	// Op is the comparison operator (==, !=, >, >=, <, <=, ~=, ^, ~).
	Op string
	// Version is the version the operator compares against.
	Version *Version
	// Original is the clause as written.
	Original string
}

// Set is a conjunction of clauses. A version matches the set when it matches
// every clause.
type Set struct {
	Clauses []Clause
	// Original is the set as written, e.g. ">=2.2, <3.3".
	Original string
}

// clauseRegex matches a single specifier clause.
var clauseRegex = regexp.MustCompile(`^(==|!=|>=|<=|~=|[><=^~])?\s*v?(\d+(?:\.\d+)?(?:\.\d+)?(?:-[0-9A-Za-z\-.]+)?)$`)

// ParseClause parses a single clause. A bare version is an exact match
// ("3.3" == "==3.3").
func ParseClause(s string) (*Clause, error) {
	s = strings.TrimSpace(s)

	matches := clauseRegex.FindStringSubmatch(s)
	if matches == nil {
		return nil, fmt.Errorf("invalid specifier clause: %s", s)
	}

	op := matches[1]
	switch op {
	case "", "=":
		op = "=="
	}

	version, err := ParseVersion(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid version in clause %q: %w", s, err)
	}

	return &Clause{Op: op, Version: version, Original: s}, nil
}

// Parse parses a comma-separated specifier set.
func Parse(s string) (*Set, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty specifier set")
	}

	set := &Set{Original: s}
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty clause in specifier set %q", s)
		}
		clause, err := ParseClause(part)
		if err != nil {
			return nil, err
		}
		set.Clauses = append(set.Clauses, *clause)
	}

	return set, nil
}

// IsValid reports whether s parses as a specifier set.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String returns the set as written.
func (s *Set) String() string {
	return s.Original
}

// Match reports whether v satisfies every clause in the set.
func (s *Set) Match(v *Version) bool {
	for i := range s.Clauses {
		if !s.Clauses[i].Matches(v) {
			return false
		}
	}
	return true
}

// MatchString parses vs and reports whether it satisfies the set.
func (s *Set) MatchString(vs string) (bool, error) {
	v, err := ParseVersion(vs)
	if err != nil {
		return false, err
	}
	return s.Match(v), nil
}

// Matches checks if a version satisfies the clause.
func (c *Clause) Matches(v *Version) bool {
	switch c.Op {
	case "==":
		return v.Compare(c.Version) == 0

	case "!=":
		return v.Compare(c.Version) != 0

	case "^":
		// Caret: allows changes that do not modify the left-most non-zero digit.
		// ^1.2.3 := >=1.2.3 <2.0.0
		// ^0.2.3 := >=0.2.3 <0.3.0
		// ^0.0.3 := >=0.0.3 <0.0.4
		if v.Compare(c.Version) < 0 {
			return false
		}
		if c.Version.Major != 0 {
			return v.Major == c.Version.Major
		}
		if c.Version.Minor != 0 {
			return v.Major == 0 && v.Minor == c.Version.Minor
		}
		return v.Major == 0 && v.Minor == 0 && v.Patch == c.Version.Patch

	case "~":
		// Tilde: allows patch-level changes when a minor is written,
		// minor-level changes when only the major is.
		// ~1.2.3 := >=1.2.3 <1.3.0; ~1 := >=1 <2
		if v.Compare(c.Version) < 0 {
			return false
		}
		if c.Version.segments() < 2 {
			return v.Major == c.Version.Major
		}
		return v.Major == c.Version.Major && v.Minor == c.Version.Minor

	case "~=":
		// Compatible release: equivalent to >= the version and < the next
		// release of its second-to-last segment.
		// ~=2.2 := >=2.2 <3.0; ~=2.2.1 := >=2.2.1 <2.3
		if v.Compare(c.Version) < 0 {
			return false
		}
		if upper := c.compatibleUpper(); upper != nil {
			return v.Compare(upper) < 0
		}
		return true

	case ">":
		return v.Compare(c.Version) > 0

	case ">=":
		return v.Compare(c.Version) >= 0

	case "<":
		return v.Compare(c.Version) < 0

	case "<=":
		return v.Compare(c.Version) <= 0

	default:
		return false
	}
}

// compatibleUpper returns the exclusive upper bound implied by a ~= clause.
func (c *Clause) compatibleUpper() *Version {
	v := c.Version
	if v.segments() >= 3 {
		return &Version{Major: v.Major, Minor: v.Minor + 1}
	}
	return &Version{Major: v.Major + 1}
}

// bounds converts a clause to an interval [lower, upper) over versions.
// A nil bound means unbounded on that side. != clauses return no bounds and
// are handled separately by Satisfiable.
func (c *Clause) bounds() (lower *Version, lowerInclusive bool, upper *Version, upperInclusive bool) {
	switch c.Op {
	case "==":
		return c.Version, true, c.Version, true
	case ">":
		return c.Version, false, nil, false
	case ">=":
		return c.Version, true, nil, false
	case "<":
		return nil, false, c.Version, false
	case "<=":
		return nil, false, c.Version, true
	case "~=":
		return c.Version, true, c.compatibleUpper(), false
	case "~":
		if c.Version.segments() < 2 {
			return c.Version, true, &Version{Major: c.Version.Major + 1}, false
		}
		return c.Version, true, &Version{Major: c.Version.Major, Minor: c.Version.Minor + 1}, false
	case "^":
		v := c.Version
		var up *Version
		switch {
		case v.Major != 0:
			up = &Version{Major: v.Major + 1}
		case v.Minor != 0:
			up = &Version{Minor: v.Minor + 1}
		default:
			up = &Version{Patch: v.Patch + 1}
		}
		return v, true, up, false
	default:
		return nil, false, nil, false
	}
}

// Satisfiable reports whether any version can satisfy the whole set, i.e.
// whether the effective lower bound stays strictly below the effective upper
// bound. A range like ">=3.8, <3.10" is satisfiable; ">=3.3, <2.2" and
// "==1.0, !=1.0" are not.
func (s *Set) Satisfiable() bool {
	var (
		lower, upper       *Version
		lowerInc, upperInc bool
		exclusions         []*Version
	)

	for i := range s.Clauses {
		c := &s.Clauses[i]
		if c.Op == "!=" {
			exclusions = append(exclusions, c.Version)
			continue
		}

		lo, loInc, up, upInc := c.bounds()
		if lo != nil {
			switch {
			case lower == nil, lo.Compare(lower) > 0:
				lower, lowerInc = lo, loInc
			case lo.Compare(lower) == 0 && !loInc:
				lowerInc = false
			}
		}
		if up != nil {
			switch {
			case upper == nil, up.Compare(upper) < 0:
				upper, upperInc = up, upInc
			case up.Compare(upper) == 0 && !upInc:
				upperInc = false
			}
		}
	}

	if lower != nil && upper != nil {
		cmp := lower.Compare(upper)
		if cmp > 0 {
			return false
		}
		if cmp == 0 {
			// Degenerate interval: only the single shared version remains.
			if !lowerInc || !upperInc {
				return false
			}
			for _, ex := range exclusions {
				if ex.Compare(lower) == 0 {
					return false
				}
			}
			return true
		}
	}

	// A non-degenerate interval contains more versions than any finite
	// exclusion list can remove.
	return true
}
