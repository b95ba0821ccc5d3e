// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for jsonmodel.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"jsonmodel-cli/internal/config"
	"jsonmodel-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// loadedConfig holds the configuration resolved during initialization.
	loadedConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "jsonmodel",
		Short: "Schema-checked JSON database columns",
		Long: TitleStyle.Render("jsonmodel") + SubtitleStyle.Render(" - Schema-checked JSON database columns") + `

jsonmodel projects declare typed JSON models in '*.model.cue' definition
files and describe themselves with a 'jsonmodel.toml' manifest carrying
package identity, dependency version ranges, and checker configuration.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a jsonmodel.toml at your project root
  2. Declare models in *.model.cue files
  3. Run: jsonmodel check

` + SubtitleStyle.Render("Examples:") + `
  jsonmodel check                     Check manifest and models
  jsonmodel manifest show             Print the parsed manifest
  jsonmodel deps check                Verify dependency ranges are satisfiable
  jsonmodel deps resolve orders 1.2.0 1.4.1
                                      Pick the best version for a range
  jsonmodel validate OrderDetails data.json
                                      Validate a JSON document against a model`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/jsonmodel/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(validateCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Config problems must be visible, but never block the run.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	loadedConfig = cfg

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	applyColorScheme(currentConfig().UI.ColorScheme)
}

// currentConfig returns the resolved configuration, defaulting when loading
// failed or initialization has not run.
func currentConfig() *config.Config {
	if loadedConfig == nil {
		return config.DefaultConfig()
	}
	return loadedConfig
}

// formatErrorForDisplay formats an error for user display. Errors carrying
// operation context render with their hints; verbose mode shows the full
// error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ie *issue.Error
	if errors.As(err, &ie) {
		return ie.Format(verboseMode)
	}
	return err.Error()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
