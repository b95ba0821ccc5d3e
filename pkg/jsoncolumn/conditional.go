// SPDX-License-Identifier: MPL-2.0

package jsoncolumn

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"jsonmodel-cli/pkg/jsonmodel"
)

// DefaultSelectorKey is the data key a conditional column stores its
// selector under inside the JSON document.
const DefaultSelectorKey = "_selector"

type (
	// ConditionalColumn stores one of several models in a single JSON
	// column. Which model applies is decided by a selector value persisted
	// inside the document itself, so rows remain self-describing when read
	// outside this library.
	//
	// A selector with no mapped model is not an error: the document loads
	// with a nil model and no data requirements, which keeps rows readable
	// while the selector's model definition is still being rolled out.
	ConditionalColumn struct {
		models      map[string]*jsonmodel.Model
		selectorKey string

		selector string
		inst     *jsonmodel.Instance
		raw      map[string]any
	}

	// ConditionalOption configures a conditional column.
	ConditionalOption func(*ConditionalColumn)
)

// WithSelectorKey overrides the data key the selector is stored under.
func WithSelectorKey(key string) ConditionalOption {
	return func(c *ConditionalColumn) {
		c.selectorKey = key
	}
}

// NewConditional returns a conditional column over the given selector-to-model
// map. The map must be non-empty, every entry must be a model, and the
// selector key must not collide with any field name of any mapped model.
func NewConditional(models map[string]*jsonmodel.Model, opts ...ConditionalOption) (*ConditionalColumn, error) {
	c := &ConditionalColumn{
		models:      models,
		selectorKey: DefaultSelectorKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	if issues := c.Check(); len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.Error()
		}
		return nil, fmt.Errorf("conditional column definition: %s", strings.Join(msgs, "; "))
	}
	return c, nil
}

// Check validates the column definition and returns the problems found.
func (c *ConditionalColumn) Check() []jsonmodel.CheckIssue {
	var issues []jsonmodel.CheckIssue

	if len(c.models) == 0 {
		issues = append(issues, jsonmodel.CheckIssue{
			Message: "selector map must contain at least one model",
		})
	}
	if c.selectorKey == "" {
		issues = append(issues, jsonmodel.CheckIssue{
			Message: "selector key must not be empty",
		})
	}

	for selector, model := range c.models {
		if model == nil {
			issues = append(issues, jsonmodel.CheckIssue{
				Message: fmt.Sprintf("selector %q maps to no model", selector),
			})
			continue
		}
		if c.selectorKey != "" && model.Field(c.selectorKey) != nil {
			issues = append(issues, jsonmodel.CheckIssue{
				Model: model.Name(),
				Field: c.selectorKey,
				Message: fmt.Sprintf(
					"field name collides with the selector key %q", c.selectorKey),
			})
		}
	}

	return issues
}

// SelectorKey returns the data key the selector is stored under.
func (c *ConditionalColumn) SelectorKey() string {
	return c.selectorKey
}

// Selector returns the current selector value.
func (c *ConditionalColumn) Selector() string {
	return c.selector
}

// Model returns the model for the current selector, or nil when the selector
// is empty or unmapped.
func (c *ConditionalColumn) Model() *jsonmodel.Model {
	return c.models[c.selector]
}

// Instance returns the current instance, or nil when the column holds SQL
// NULL or the selector is unmapped.
func (c *ConditionalColumn) Instance() *jsonmodel.Instance {
	return c.inst
}

// Raw returns the stored document for an unmapped selector, selector key
// included. It is nil whenever a model applied.
func (c *ConditionalColumn) Raw() map[string]any {
	return c.raw
}

// Set validates data against the selector's model and assigns both. An
// unmapped selector accepts the data as-is, since no model means no
// requirements.
func (c *ConditionalColumn) Set(selector string, data map[string]any) error {
	model, mapped := c.models[selector]
	if !mapped {
		c.selector = selector
		c.inst = nil
		c.raw = data
		return nil
	}

	inst, err := model.Instance(data)
	if err != nil {
		return err
	}
	c.selector = selector
	c.inst = inst
	c.raw = nil
	return nil
}

// Clear resets the column to SQL NULL.
func (c *ConditionalColumn) Clear() {
	c.selector = ""
	c.inst = nil
	c.raw = nil
}

// Value implements driver.Valuer. The selector is written into the document
// under the selector key so the read path can pick the model back out.
func (c *ConditionalColumn) Value() (driver.Value, error) {
	if c.selector == "" && c.inst == nil && c.raw == nil {
		return nil, nil
	}

	var doc map[string]any
	switch {
	case c.inst != nil:
		encoded, err := c.inst.Encode()
		if err != nil {
			return nil, fmt.Errorf("conditional column (%s): %w", c.selector, err)
		}
		doc = encoded
	case c.raw != nil:
		doc = make(map[string]any, len(c.raw))
		for k, v := range c.raw {
			doc[k] = v
		}
	default:
		doc = make(map[string]any, 1)
	}
	doc[c.selectorKey] = c.selector

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("conditional column (%s): %w", c.selector, err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner. The stored selector decides the model; data
// for a mapped selector loads without validation, data for an unmapped one
// is kept verbatim.
func (c *ConditionalColumn) Scan(src any) error {
	raw, null, err := rawJSON(src)
	if err != nil {
		return fmt.Errorf("conditional column: %w", err)
	}
	if null {
		c.Clear()
		return nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("conditional column: invalid stored JSON: %w", err)
	}

	selector, _ := doc[c.selectorKey].(string)
	data := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == c.selectorKey {
			continue
		}
		data[k] = v
	}

	c.selector = selector
	model, mapped := c.models[selector]
	if !mapped {
		c.inst = nil
		c.raw = doc
		return nil
	}

	c.inst = model.Load(data)
	c.raw = nil
	return nil
}
