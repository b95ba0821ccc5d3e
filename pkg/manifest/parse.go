// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"jsonmodel-cli/internal/issue"
)

// MaxManifestSize is the maximum accepted manifest size (1MB). Manifests are
// short declarative documents; larger files are rejected before decoding.
const MaxManifestSize int64 = 1 << 20

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.New().
			Op("read manifest").
			Resource(path).
			Hint("Run 'jsonmodel check' from the project root containing " + Name).
			Wrap(err).
			Err()
	}
	return ParseBytes(data, path)
}

// Find walks upward from dir looking for a manifest file and loads the first
// one found.
func Find(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, issue.Wrap(err, "locate manifest")
	}

	for {
		candidate := filepath.Join(abs, Name)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return Load(candidate)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}

	return nil, issue.New().
		Op("locate manifest").
		Resource(dir).
		Hint("Create a " + Name + " at the project root").
		Err()
}

// ParseBytes parses manifest content. path is used in error messages and
// recorded as FilePath.
func ParseBytes(data []byte, path string) (*Manifest, error) {
	m, err := ParseBytesLenient(data, path)
	if err != nil {
		return nil, err
	}

	if issues := m.Validate(); len(issues) > 0 {
		return nil, issue.New().
			Op("parse manifest").
			Resource(path).
			Wrap(IssueList(issues)).
			Err()
	}

	return m, nil
}

// ParseBytesLenient decodes manifest content without the validation gate.
// Tools that report validation issues themselves use it to keep an invalid
// document inspectable; everything else should go through ParseBytes.
func ParseBytesLenient(data []byte, path string) (*Manifest, error) {
	if int64(len(data)) > MaxManifestSize {
		return nil, fmt.Errorf("%s: manifest size %d bytes exceeds maximum %d bytes",
			path, len(data), MaxManifestSize)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, issue.New().
			Op("parse manifest").
			Resource(path).
			Hint("Check the TOML syntax near the reported position").
			Wrap(err).
			Err()
	}

	m.FilePath = path
	return &m, nil
}

// Marshal serializes the manifest back to TOML. Parsing the output yields a
// document equivalent to the one Marshal was called on, independent of the
// original formatting.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, issue.Wrap(err, "serialize manifest")
	}
	return data, nil
}

// Save writes the manifest to path in canonical formatting.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return issue.New().Op("write manifest").Resource(path).Wrap(err).Err()
	}
	return nil
}

// Equivalent reports whether two manifests declare the same document: same
// identity, same tables, same keys and values. Formatting and FilePath are
// not part of the comparison.
func (m *Manifest) Equivalent(other *Manifest) bool {
	if m == nil || other == nil {
		return m == other
	}
	if !packageEqual(m.Package, other.Package) {
		return false
	}
	if !buildEqual(m.Build, other.Build) {
		return false
	}
	if !tableEqual(m.Dependencies, other.Dependencies) {
		return false
	}
	if !tableEqual(m.DevDependencies, other.DevDependencies) {
		return false
	}
	return checkerEqual(m.checker(), other.checker())
}

func (m *Manifest) checker() *Checker {
	if m.Tool == nil {
		return nil
	}
	return m.Tool.Checker
}

func packageEqual(a, b Package) bool {
	if a.Name != b.Name || a.Version != b.Version ||
		a.Description != b.Description || a.RequiresEngine != b.RequiresEngine {
		return false
	}
	return stringsEqual(a.Authors, b.Authors)
}

func buildEqual(a, b *Build) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return len(b.Requires) == 0
	case b == nil:
		return len(a.Requires) == 0
	default:
		return stringsEqual(a.Requires, b.Requires)
	}
}

func checkerEqual(a, b *Checker) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return !b.IgnoreMissingModels && b.Exclude == ""
	case b == nil:
		return !a.IgnoreMissingModels && a.Exclude == ""
	default:
		return *a == *b
	}
}

func tableEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
