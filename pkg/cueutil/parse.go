// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxInputSize is the maximum accepted size for a CUE input file (2MB).
// Model definitions and config files are small; anything larger is rejected
// before compilation to keep a malformed or hostile file from exhausting memory.
const DefaultMaxInputSize int64 = 2 * 1024 * 1024

type (
	// parseOptions holds configuration for a single Decode call.
	parseOptions struct {
		maxInputSize int64
		concrete     bool
		filename     string
	}

	// Option configures Decode behavior.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxInputSize: DefaultMaxInputSize,
		concrete:     true,
	}
}

// WithMaxInputSize overrides the maximum accepted input size.
func WithMaxInputSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxInputSize = size
	}
}

// WithPartial allows non-concrete values after unification. Use it for
// documents where optional fields may legitimately stay unset.
func WithPartial() Option {
	return func(o *parseOptions) {
		o.concrete = false
	}
}

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// Result bundles the decoded Go value with the unified CUE value, which
// remains available for callers that need to inspect fields not mapped onto
// the Go struct.
type Result[T any] struct {
	Value   *T
	Unified cue.Value
}

// Decode validates CUE input against an embedded schema and decodes it into T.
//
// The flow has three steps: compile the schema, compile the input and unify it
// with the schema definition named by defPath (e.g. "#Model"), then validate
// and decode. Validation errors are returned with JSON-path prefixes via
// FormatError.
func Decode[T any](schema, input []byte, defPath string, opts ...Option) (*Result[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if int64(len(input)) > options.maxInputSize {
		return nil, fmt.Errorf("%s: input size %d bytes exceeds maximum %d bytes",
			filename, len(input), options.maxInputSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	inputValue := ctx.CompileBytes(input, cue.Filename(filename))
	if inputValue.Err() != nil {
		return nil, FormatError(inputValue.Err(), filename)
	}

	unified := def.Unify(inputValue)

	var validateOpts []cue.Option
	if options.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, filename)
	}

	var decoded T
	if err := unified.Decode(&decoded); err != nil {
		return nil, FormatError(err, filename)
	}

	return &Result[T]{Value: &decoded, Unified: unified}, nil
}

// DecodeString is a convenience wrapper for schemas embedded as string
// constants.
func DecodeString[T any](schema string, input []byte, defPath string, opts ...Option) (*Result[T], error) {
	return Decode[T]([]byte(schema), input, defPath, opts...)
}
