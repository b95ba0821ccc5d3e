// SPDX-License-Identifier: MPL-2.0

// Package jsonmodel implements typed models for JSON-valued data.
//
// A Model is a named, ordered set of field descriptors that defines the
// expected structure of a JSON document, typically one stored in a JSON
// database column. Models validate data (required fields, kinds, choices,
// length limits), supply defaults, and convert values between their Go
// representation and a JSON-serializable form.
//
// Models can be constructed programmatically with [New], or declared in
// *.model.cue definition files and loaded with [LoadDefinitions].
// Binding a model to a database column lives in package jsoncolumn.
package jsonmodel
