// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/jsonmodel/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/jsonmodel/config.cue on macOS, %APPDATA%\jsonmodel\config.cue
// on Windows). Settings here are user preferences that apply across projects: UI options
// and checker fallbacks. Per-project settings live in the project manifest and always win.
//
// Configuration files are validated against a CUE schema (config_schema.cue) before use,
// so invalid files fail with located error messages instead of silently misbehaving.
package config
