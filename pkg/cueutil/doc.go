// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing helpers for jsonmodel.
//
// Model definition files and the user configuration file are both CUE
// documents validated against embedded schemas. This package implements the
// common flow (compile schema, compile input, unify, validate, decode) and
// formats CUE errors with JSON-path prefixes so users can locate the
// offending field.
package cueutil
