// SPDX-License-Identifier: MPL-2.0

package jsoncolumn

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"jsonmodel-cli/pkg/jsonmodel"
)

// Column binds one model to a JSON database column. The zero value is not
// usable; construct with [New].
//
// Writing goes through the instance's full validation, so invalid data never
// reaches the database. Reading deliberately does not validate: stored rows
// that predate a model change must remain loadable so the data can be fixed.
type Column struct {
	model *jsonmodel.Model
	inst  *jsonmodel.Instance
}

// New returns a column bound to model.
func New(model *jsonmodel.Model) *Column {
	return &Column{model: model}
}

// Model returns the bound model.
func (c *Column) Model() *jsonmodel.Model {
	return c.model
}

// Instance returns the current instance, or nil when the column holds SQL
// NULL.
func (c *Column) Instance() *jsonmodel.Instance {
	return c.inst
}

// SetInstance assigns an instance to the column. The instance must be bound
// to the column's model. A nil instance makes the column write SQL NULL.
func (c *Column) SetInstance(inst *jsonmodel.Instance) error {
	if inst != nil && inst.Model() != c.model {
		return fmt.Errorf("instance is bound to model %s, column holds %s",
			inst.Model().Name(), c.model.Name())
	}
	c.inst = inst
	return nil
}

// Set builds a validated instance from data and assigns it. Passing nil
// clears the column to SQL NULL.
func (c *Column) Set(data map[string]any) error {
	if data == nil {
		c.inst = nil
		return nil
	}
	inst, err := c.model.Instance(data)
	if err != nil {
		return err
	}
	c.inst = inst
	return nil
}

// Value implements driver.Valuer. A nil instance and an instance with no set
// fields both write SQL NULL: an all-empty document carries no information
// and NULL keeps it distinguishable from {} in queries. An instance that
// still carries deferred decode failures never writes: every field of a
// scanned row can fail to decode, which leaves no set fields, and NULL would
// silently replace the stored document.
func (c *Column) Value() (driver.Value, error) {
	if c.inst == nil {
		return nil, nil
	}
	if errs := c.inst.LoadErrors(); errs != nil {
		return nil, fmt.Errorf("column %s: %w", c.model.Name(), errs)
	}
	if len(c.inst.SetFields()) == 0 {
		return nil, nil
	}

	encoded, err := c.inst.Encode()
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", c.model.Name(), err)
	}

	raw, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", c.model.Name(), err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner. NULL scans to a nil instance. Stored values
// load without validation; call FullClean on the instance before trusting
// the data.
func (c *Column) Scan(src any) error {
	raw, null, err := rawJSON(src)
	if err != nil {
		return fmt.Errorf("column %s: %w", c.model.Name(), err)
	}
	if null {
		c.inst = nil
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("column %s: invalid stored JSON: %w", c.model.Name(), err)
	}

	c.inst = c.model.Load(data)
	return nil
}

// rawJSON normalizes the driver value forms a JSON column can arrive as.
func rawJSON(src any) (raw []byte, null bool, err error) {
	switch v := src.(type) {
	case nil:
		return nil, true, nil
	case []byte:
		if len(v) == 0 {
			return nil, true, nil
		}
		return v, false, nil
	case string:
		if v == "" {
			return nil, true, nil
		}
		return []byte(v), false, nil
	default:
		return nil, false, fmt.Errorf("cannot scan %T into a JSON column", src)
	}
}
