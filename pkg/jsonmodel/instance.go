// SPDX-License-Identifier: MPL-2.0

package jsonmodel

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// FieldError is a data validation problem on a single field.
	FieldError struct {
		// Field is the field name, or "" for model-wide problems.
		Field string
		// Message describes the problem.
		Message string
	}

	// ValidationErrors is the batch of problems found by FullClean.
	ValidationErrors []FieldError

	// Instance is a model-bound value set for one JSON document.
	//
	// Values are stored in decoded Go form (int64, float64, string, bool,
	// time.Time, time.Duration). Keys present in input data but not declared
	// on the model are dropped, mirroring the write path: only declared
	// fields are ever serialized.
	Instance struct {
		model    *Model
		values   map[string]any
		hasInput bool

		// loadErrors holds per-field decode failures deferred from Load.
		// Loading malformed stored data must not fail; validation reports
		// the problems instead.
		loadErrors map[string]error
	}
)

// Error implements the error interface for FieldError.
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error implements the error interface for ValidationErrors.
func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  %s", len(v), strings.Join(msgs, "\n  "))
}

// Load builds an instance from raw data without validating it. Field values
// that fail to decode are recorded and surface from FullClean; the load
// itself never fails. Use Load for data read back from storage, where
// rejecting a row outright would make the malformed value unreachable.
func (m *Model) Load(data map[string]any) *Instance {
	inst := &Instance{
		model:    m,
		values:   make(map[string]any, len(m.fields)),
		hasInput: data != nil,
	}

	for i := range m.fields {
		f := &m.fields[i]

		raw, present := data[f.Name]
		if !present {
			if f.Default != nil {
				if def, err := f.Decode(f.Default); err == nil {
					inst.values[f.Name] = def
				}
			}
			continue
		}

		decoded, err := f.Decode(raw)
		if err != nil {
			if inst.loadErrors == nil {
				inst.loadErrors = make(map[string]error)
			}
			inst.loadErrors[f.Name] = err
			continue
		}
		inst.values[f.Name] = decoded
	}

	return inst
}

// Instance builds a validated instance from data. It is Load followed by
// FullClean; use it for data coming from users or application code.
func (m *Model) Instance(data map[string]any) (*Instance, error) {
	inst := m.Load(data)
	if err := inst.FullClean(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Empty returns an instance with only field defaults set. An empty instance
// is not validated; required fields without defaults stay unset so forms for
// new objects do not fail before the user enters anything.
func (m *Model) Empty() *Instance {
	inst := m.Load(nil)
	inst.hasInput = false
	return inst
}

// Model returns the model the instance is bound to.
func (i *Instance) Model() *Model {
	return i.model
}

// HasInput reports whether the instance was built from input data, as
// opposed to an empty or defaults-only instance.
func (i *Instance) HasInput() bool {
	return i.hasInput
}

// Get returns the decoded value for a field and whether it is set.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return v, ok
}

// Set decodes and assigns a value to a declared field. Setting nil clears
// the field. Assigning to an undeclared field is an error.
func (i *Instance) Set(name string, value any) error {
	f := i.model.Field(name)
	if f == nil {
		return fmt.Errorf("model %s has no field named %q", i.model.Name(), name)
	}

	if value == nil {
		delete(i.values, name)
		delete(i.loadErrors, name)
		return nil
	}

	decoded, err := f.Decode(value)
	if err != nil {
		return fmt.Errorf("field %s: %w", name, err)
	}

	i.values[name] = decoded
	delete(i.loadErrors, name)
	i.hasInput = true
	return nil
}

// LoadErrors returns the per-field decode failures deferred from Load, in
// field declaration order, or nil when loading was clean. Callers that skip
// full validation can still refuse to act on an instance that lost values.
func (i *Instance) LoadErrors() ValidationErrors {
	if len(i.loadErrors) == 0 {
		return nil
	}
	errs := make(ValidationErrors, 0, len(i.loadErrors))
	for idx := range i.model.fields {
		f := &i.model.fields[idx]
		if loadErr, bad := i.loadErrors[f.Name]; bad {
			errs = append(errs, FieldError{Field: f.Name, Message: loadErr.Error()})
		}
	}
	return errs
}

// FullClean validates the instance against its model: deferred decode
// failures, required fields, choice membership, and length limits. Returns
// nil or a [ValidationErrors] batch covering every problem found.
func (i *Instance) FullClean() error {
	var errs ValidationErrors

	for idx := range i.model.fields {
		f := &i.model.fields[idx]

		if loadErr, bad := i.loadErrors[f.Name]; bad {
			errs = append(errs, FieldError{Field: f.Name, Message: loadErr.Error()})
			continue
		}

		value, set := i.values[f.Name]
		if !set {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "this field is required"})
			}
			continue
		}

		if len(f.Choices) > 0 && !choiceAllowed(f, value) {
			errs = append(errs, FieldError{
				Field:   f.Name,
				Message: fmt.Sprintf("value %v is not a valid choice", value),
			})
		}

		if f.Kind == KindString && f.MaxLength > 0 {
			if s, ok := value.(string); ok && len([]rune(s)) > f.MaxLength {
				errs = append(errs, FieldError{
					Field:   f.Name,
					Message: fmt.Sprintf("value exceeds maximum length %d", f.MaxLength),
				})
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func choiceAllowed(f *Field, value any) bool {
	for _, choice := range f.Choices {
		decoded, err := f.Decode(choice)
		if err != nil {
			continue
		}
		if equalValues(decoded, value) {
			return true
		}
	}
	return false
}

// Encode validates the instance and converts it to a JSON-serializable map
// holding only set fields. This is the write path for storage: every value
// goes through its field's Encode so the stored representations stay
// interchangeable with other consumers of the column.
func (i *Instance) Encode() (map[string]any, error) {
	if err := i.FullClean(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(i.values))
	for idx := range i.model.fields {
		f := &i.model.fields[idx]
		value, set := i.values[f.Name]
		if !set {
			continue
		}
		encoded, err := f.Encode(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		out[f.Name] = encoded
	}

	return out, nil
}

// SetFields returns the names of fields with a value, sorted.
func (i *Instance) SetFields() []string {
	names := make([]string, 0, len(i.values))
	for name := range i.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
