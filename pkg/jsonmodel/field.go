// SPDX-License-Identifier: MPL-2.0

package jsonmodel

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Kind enumerates the value types a field can hold.
type Kind string

const (
	// KindString holds text.
	KindString Kind = "string"
	// KindInt holds 64-bit integers. JSON numbers must be integral.
	KindInt Kind = "int"
	// KindFloat holds 64-bit floats.
	KindFloat Kind = "float"
	// KindBool holds booleans.
	KindBool Kind = "bool"
	// KindTime holds timestamps, serialized as RFC 3339 strings.
	KindTime Kind = "time"
	// KindDuration holds durations, serialized in Go duration syntax
	// ("1h30m"). Plain JSON numbers are read as seconds.
	KindDuration Kind = "duration"
	// KindDecimal holds fixed-point numbers as strings, so values survive
	// serialization without float rounding and stay queryable outside Go.
	KindDecimal Kind = "decimal"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindBool, KindTime, KindDuration, KindDecimal:
		return true
	}
	return false
}

// Field describes one entry of a model.
type Field struct {
	// Name is the field identifier and the JSON object key.
	Name string
	// Kind is the value type.
	Kind Kind
	// Required makes validation fail when the value is absent.
	Required bool
	// Default is used when input data has no value for the field (optional).
	// Must itself be a valid value for the kind.
	Default any
	// Choices restricts the value to a fixed set (optional).
	Choices []any
	// MaxLength limits string length in runes. Only meaningful for
	// KindString; zero means unlimited.
	MaxLength int
}

// fieldNameRegex constrains field names to identifier syntax.
var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// decimalRegex matches fixed-point literals like "10", "-3.50".
var decimalRegex = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// CheckIssue is a single model definition problem found by Check. Definition
// problems are collected and reported as a batch, separate from data
// validation errors.
//
//nolint:errname // Named Issue, not Error - collected and inspected, not just thrown
type CheckIssue struct {
	// Model is the model name (may be empty for field-level checks run
	// outside a model).
	Model string
	// Field is the field name (optional).
	Field string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (c CheckIssue) Error() string {
	switch {
	case c.Model != "" && c.Field != "":
		return fmt.Sprintf("%s.%s: %s", c.Model, c.Field, c.Message)
	case c.Model != "":
		return fmt.Sprintf("%s: %s", c.Model, c.Message)
	case c.Field != "":
		return fmt.Sprintf("%s: %s", c.Field, c.Message)
	default:
		return c.Message
	}
}

// Check validates the field definition itself: name syntax, a known kind,
// a default and choices that fit the kind, and MaxLength used only where it
// applies. Returns the problems found.
func (f *Field) Check() []CheckIssue {
	var issues []CheckIssue

	report := func(format string, args ...any) {
		issues = append(issues, CheckIssue{Field: f.Name, Message: fmt.Sprintf(format, args...)})
	}

	if !fieldNameRegex.MatchString(f.Name) {
		issues = append(issues, CheckIssue{
			Field:   f.Name,
			Message: fmt.Sprintf("invalid field name %q", f.Name),
		})
	}

	if !f.Kind.IsValid() {
		report("unknown kind %q", f.Kind)
		return issues
	}

	if f.MaxLength != 0 && f.Kind != KindString {
		report("max length only applies to string fields, not %s", f.Kind)
	}
	if f.MaxLength < 0 {
		report("max length must not be negative")
	}

	if f.Default != nil {
		if _, err := f.Decode(f.Default); err != nil {
			report("default does not fit kind %s: %v", f.Kind, err)
		}
	}

	for i, choice := range f.Choices {
		if _, err := f.Decode(choice); err != nil {
			report("choice %d does not fit kind %s: %v", i, f.Kind, err)
		}
	}

	return issues
}

// Decode converts a raw JSON-decoded value into the field's Go
// representation. It accepts the forms encoding/json produces (float64 for
// numbers, string, bool) plus already-typed Go values, so data loaded from a
// database and data built in code go through the same path.
func (f *Field) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return s, nil

	case KindInt:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", raw)
		}

	case KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("expected number, got %T", raw)
		}

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", raw)
		}
		return b, nil

	case KindTime:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("expected RFC 3339 timestamp, got %q", v)
			}
			return t, nil
		default:
			return nil, fmt.Errorf("expected timestamp, got %T", raw)
		}

	case KindDuration:
		switch v := raw.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("expected duration, got %q", v)
			}
			return d, nil
		case float64:
			// JSON numbers are seconds.
			return time.Duration(v * float64(time.Second)), nil
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		default:
			return nil, fmt.Errorf("expected duration, got %T", raw)
		}

	case KindDecimal:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected decimal string, got %T", raw)
		}
		if !decimalRegex.MatchString(s) {
			return nil, fmt.Errorf("expected decimal string, got %q", s)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown kind %q", f.Kind)
	}
}

// Encode converts a decoded Go value into its JSON-serializable form. The
// representations are chosen so the stored JSON stays readable when queried
// outside this library: timestamps as RFC 3339 strings, durations in Go
// duration syntax, decimals as strings.
func (f *Field) Encode(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	decoded, err := f.Decode(value)
	if err != nil {
		return nil, err
	}

	switch v := decoded.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case time.Duration:
		return v.String(), nil
	default:
		return v, nil
	}
}

// equalValues compares two decoded values of the same kind.
func equalValues(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}
