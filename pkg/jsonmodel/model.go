// SPDX-License-Identifier: MPL-2.0

package jsonmodel

import (
	"fmt"
	"regexp"
)

// modelNameRegex constrains model names: a leading letter, then
// alphanumerics with optional single underscores.
var modelNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(?:_[A-Za-z0-9]+)*$`)

// Model is a named, ordered field registry. A model is immutable after
// construction and safe for concurrent use; instances hold the mutable data.
type Model struct {
	name        string
	description string
	fields      []Field
	byName      map[string]*Field
}

// New builds a model from field descriptors. The field order is preserved
// for serialization. Duplicate field names are a construction error: two
// descriptors for one key would make the JSON structure ambiguous.
//
// New validates names and duplicates only; run [Model.Check] for the full
// definition checks.
func New(name string, fields ...Field) (*Model, error) {
	if !modelNameRegex.MatchString(name) {
		return nil, fmt.Errorf("invalid model name %q", name)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("model %s: at least one field is required", name)
	}

	m := &Model{
		name:   name,
		fields: make([]Field, len(fields)),
		byName: make(map[string]*Field, len(fields)),
	}
	copy(m.fields, fields)

	for i := range m.fields {
		f := &m.fields[i]
		if _, dup := m.byName[f.Name]; dup {
			return nil, fmt.Errorf("model %s: field %q declared twice", name, f.Name)
		}
		m.byName[f.Name] = f
	}

	return m, nil
}

// MustNew builds a model and panics on error. Intended for model values
// declared as package variables.
func MustNew(name string, fields ...Field) *Model {
	m, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Description returns the optional model description.
func (m *Model) Description() string {
	return m.description
}

// Fields returns the field descriptors in declaration order. The returned
// slice is a copy; mutating it does not affect the model.
func (m *Model) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Field returns the descriptor for name, or nil when the model has no such
// field.
func (m *Model) Field(name string) *Field {
	return m.byName[name]
}

// NumFields returns the number of declared fields.
func (m *Model) NumFields() int {
	return len(m.fields)
}

// Check runs definition checks on the model and all its fields. Checks run
// once at startup (or from 'jsonmodel check'), not on every instance.
func (m *Model) Check() []CheckIssue {
	var issues []CheckIssue

	for i := range m.fields {
		for _, fi := range m.fields[i].Check() {
			fi.Model = m.name
			issues = append(issues, fi)
		}
	}

	return issues
}
