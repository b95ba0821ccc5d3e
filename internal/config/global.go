// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// configFilePathOverride forces loading from a specific config file,
// set via the --config flag before any Load call.
var configFilePathOverride string

// SetConfigFilePathOverride sets a custom config file path.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// Load reads the configuration honoring the --config override, falling back
// to the platform config directory and finally to defaults.
func Load() (*Config, error) {
	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	return cfg, err
}

// configDirOverride allows tests to override the config directory.
// This is necessary because os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI).
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
