// SPDX-License-Identifier: MPL-2.0

// Package issue provides the user-facing error type for jsonmodel.
//
// An [Error] carries the operation that failed, the resource involved, and
// hints for fixing the problem. CLI commands unwrap it to render hints
// separately from the error chain.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an error with context for user-facing messages.
//
// Construct it with the [Context] builder:
//
//	return issue.New().
//		Op("parse manifest").
//		Resource("jsonmodel.toml").
//		Hint("Check the TOML syntax near the reported line").
//		Wrap(err).
//		Err()
type Error struct {
	// Operation describes what was being attempted ("parse manifest",
	// "load model definitions").
	Operation string

	// Resource identifies the file, path, or entity involved (optional).
	Resource string

	// Hints suggest how to fix the problem (optional).
	Hints []string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface with a concise single-line message.
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal display. Hints are listed as bullet
// points under the message. In verbose mode the full error chain is appended.
func (e *Error) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Hints) > 0 {
		msg.WriteString("\n")
		for _, hint := range e.Hints {
			msg.WriteString("\n  • ")
			msg.WriteString(hint)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// Context is a fluent builder for [Error].
type Context struct {
	operation string
	resource  string
	hints     []string
	cause     error
}

// New creates an empty Context.
func New() *Context {
	return &Context{}
}

// Op sets the operation being performed. The operation should be a verb
// phrase like "parse manifest" or "run project checks"; Error prefixes it
// with "failed to".
func (c *Context) Op(op string) *Context {
	c.operation = op
	return c
}

// Resource sets the file, path, or entity involved.
func (c *Context) Resource(res string) *Context {
	c.resource = res
	return c
}

// Hint appends a suggestion for fixing the problem.
func (c *Context) Hint(hint string) *Context {
	c.hints = append(c.hints, hint)
	return c
}

// Wrap records the underlying cause.
func (c *Context) Wrap(err error) *Context {
	c.cause = err
	return c
}

// Build creates the Error. The operation is required; Build returns nil
// without one so a misuse is visible at the call site.
func (c *Context) Build() *Error {
	if c.operation == "" {
		return nil
	}
	return &Error{
		Operation: c.operation,
		Resource:  c.resource,
		Hints:     c.hints,
		Cause:     c.cause,
	}
}

// Err returns the built Error as an error interface, for direct use in
// return statements.
func (c *Context) Err() error {
	e := c.Build()
	if e == nil {
		return nil
	}
	return e
}

// Wrap is shorthand for wrapping an error with only an operation. Returns
// nil when err is nil so it can be used unconditionally on call results.
func Wrap(err error, operation string) error {
	if err == nil {
		return nil
	}
	return &Error{Operation: operation, Cause: err}
}
