// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidModelDir is returned when a model directory entry is whitespace-only.
	ErrInvalidModelDir = errors.New("invalid model directory")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields. It wraps
	// ErrInvalidConfig for errors.Is() compatibility and collects field-level
	// validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UI configures the command-line interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Checker sets fallbacks for projects whose manifest has no
		// [tool.checker] table. The manifest always wins when present.
		Checker CheckerConfig `json:"checker" mapstructure:"checker"`
		// ModelDirs lists extra directories to search for model definition
		// files, in addition to the project tree.
		ModelDirs []string `json:"model_dirs" mapstructure:"model_dirs"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme selects "auto", "dark" or "light" output styling.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables diagnostic logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// CheckerConfig holds checker fallbacks applied when the project manifest
	// does not configure the checker itself.
	CheckerConfig struct {
		// IgnoreMissingModels downgrades references to undefined models from
		// errors to warnings.
		IgnoreMissingModels bool `json:"ignore_missing_models" mapstructure:"ignore_missing_models"`
		// Exclude is a regular expression of path fragments the checker skips.
		Exclude string `json:"exclude" mapstructure:"exclude"`
	}
)

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("%v: %q (valid: auto, dark, light)", ErrInvalidColorScheme, e.Value)
}

// Unwrap enables errors.Is(err, ErrInvalidColorScheme).
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Unwrap enables errors.Is(err, ErrInvalidConfig).
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks that the color scheme is a recognized value.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Validate checks the whole configuration and collects every field problem.
func (c *Config) Validate() error {
	var fieldErrors []error

	if err := c.UI.ColorScheme.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}

	for i, dir := range c.ModelDirs {
		if strings.TrimSpace(dir) == "" {
			fieldErrors = append(fieldErrors,
				fmt.Errorf("%w: model_dirs[%d] is empty", ErrInvalidModelDir, i))
		}
	}

	if len(fieldErrors) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrors}
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Checker: CheckerConfig{
			IgnoreMissingModels: false,
			Exclude:             "",
		},
	}
}
