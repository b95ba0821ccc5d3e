// SPDX-License-Identifier: MPL-2.0

// Package jsoncolumn binds jsonmodel models to SQL JSON columns.
//
// A [Column] carries one model-bound instance across the database boundary:
// it implements driver.Valuer for the write path (validate, encode, marshal)
// and sql.Scanner for the read path (unmarshal, decode without validating, so
// malformed stored data can still be loaded and repaired). A
// [ConditionalColumn] stores one of several models in the same column and
// records which one under a reserved selector key inside the JSON document.
package jsoncolumn
