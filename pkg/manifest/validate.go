// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"jsonmodel-cli/pkg/specifier"
)

type (
	// Issue is a single manifest validation problem. Issues are collected
	// and reported as a batch rather than failing on the first problem.
	//
	//nolint:errname // Named Issue, not Error - collected and inspected, not just thrown
	Issue struct {
		// Table names the manifest table ("package", "dependencies", ...).
		Table string
		// Key is the offending key within the table (optional).
		Key string
		// Message describes the problem.
		Message string
	}

	// IssueList is the batch of problems found by Validate. It implements
	// error so callers can wrap it.
	IssueList []Issue
)

// Error implements the error interface for Issue.
func (i Issue) Error() string {
	if i.Key != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Table, i.Key, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Table, i.Message)
}

// Error implements the error interface for IssueList.
func (l IssueList) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, iss := range l {
		msgs[i] = iss.Error()
	}
	return fmt.Sprintf("%d manifest problems:\n  %s", len(l), strings.Join(msgs, "\n  "))
}

// packageNameRegex constrains package names: a leading letter, then
// alphanumerics with single "-", "_", or "." separators.
var packageNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(?:[-_.][A-Za-z0-9]+)*$`)

// Validate runs all structural checks and returns the problems found.
// A nil or empty result means the manifest is well formed:
//
//   - identity fields are present and the version is comparable
//   - every declared version range parses and is non-empty
//   - dependency tables hold no duplicate keys (after name normalization)
//   - a name declared in both tables must have jointly satisfiable ranges
//   - the checker exclude pattern compiles as a regular expression
func (m *Manifest) Validate() IssueList {
	var issues IssueList

	issues = append(issues, m.checkPackage()...)
	issues = append(issues, checkTable("dependencies", m.Dependencies)...)
	issues = append(issues, checkTable("dev-dependencies", m.DevDependencies)...)
	issues = append(issues, m.checkCrossTable()...)
	issues = append(issues, m.checkChecker()...)

	return issues
}

func (m *Manifest) checkPackage() IssueList {
	var issues IssueList

	if m.Package.Name == "" {
		issues = append(issues, Issue{Table: "package", Key: "name", Message: "is required"})
	} else if !packageNameRegex.MatchString(m.Package.Name) {
		issues = append(issues, Issue{
			Table:   "package",
			Key:     "name",
			Message: fmt.Sprintf("%q is not a valid package name", m.Package.Name),
		})
	}

	if m.Package.Version == "" {
		issues = append(issues, Issue{Table: "package", Key: "version", Message: "is required"})
	} else if !specifier.IsValidVersion(m.Package.Version) {
		issues = append(issues, Issue{
			Table:   "package",
			Key:     "version",
			Message: fmt.Sprintf("%q is not a comparable version", m.Package.Version),
		})
	}

	if m.Package.RequiresEngine != "" {
		issues = append(issues, checkRange("package", "requires-engine", m.Package.RequiresEngine)...)
	}

	return issues
}

// checkTable validates one dependency table: every key a valid name, every
// value a parseable, non-empty version range, and no two keys that collide
// after normalization. The TOML layer already rejects exact duplicates;
// normalization catches "My-Dep" vs "my_dep".
func checkTable(table string, deps map[string]string) IssueList {
	var issues IssueList

	seen := make(map[string]string, len(deps))
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !packageNameRegex.MatchString(name) {
			issues = append(issues, Issue{
				Table:   table,
				Key:     name,
				Message: "is not a valid package name",
			})
		}

		norm := normalizeName(name)
		if prev, dup := seen[norm]; dup {
			issues = append(issues, Issue{
				Table:   table,
				Key:     name,
				Message: fmt.Sprintf("duplicates %q after name normalization", prev),
			})
		} else {
			seen[norm] = name
		}

		issues = append(issues, checkRange(table, name, deps[name])...)
	}

	return issues
}

func checkRange(table, key, rangeStr string) IssueList {
	set, err := specifier.Parse(rangeStr)
	if err != nil {
		return IssueList{{
			Table:   table,
			Key:     key,
			Message: fmt.Sprintf("invalid version range %q: %v", rangeStr, err),
		}}
	}
	if !set.Satisfiable() {
		return IssueList{{
			Table:   table,
			Key:     key,
			Message: fmt.Sprintf("version range %q is empty (no version can satisfy it)", rangeStr),
		}}
	}
	return nil
}

// checkCrossTable flags names declared in both dependency tables whose
// combined ranges no version could satisfy.
func (m *Manifest) checkCrossTable() IssueList {
	var issues IssueList

	devByNorm := make(map[string]string, len(m.DevDependencies))
	for name := range m.DevDependencies {
		devByNorm[normalizeName(name)] = name
	}

	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		devName, shared := devByNorm[normalizeName(name)]
		if !shared {
			continue
		}
		combined := m.Dependencies[name] + ", " + m.DevDependencies[devName]
		set, err := specifier.Parse(combined)
		if err != nil {
			// Each range is reported individually by checkTable.
			continue
		}
		if !set.Satisfiable() {
			issues = append(issues, Issue{
				Table: "dependencies",
				Key:   name,
				Message: fmt.Sprintf("conflicts with dev-dependency %q: no version satisfies both %q and %q",
					devName, m.Dependencies[name], m.DevDependencies[devName]),
			})
		}
	}

	return issues
}

func (m *Manifest) checkChecker() IssueList {
	checker := m.checker()
	if checker == nil || checker.Exclude == "" {
		return nil
	}

	if _, err := regexp.Compile(checker.Exclude); err != nil {
		return IssueList{{
			Table:   "tool.checker",
			Key:     "exclude",
			Message: fmt.Sprintf("invalid pattern: %v", err),
		}}
	}

	for _, branch := range strings.Split(checker.Exclude, "|") {
		if strings.TrimSpace(branch) == "" {
			return IssueList{{
				Table:   "tool.checker",
				Key:     "exclude",
				Message: "pattern has an empty alternation branch, which matches every path",
			}}
		}
	}

	return nil
}
