// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"jsonmodel-cli/pkg/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and format the project manifest",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Print the parsed manifest",
	Long: `Show locates the project manifest and prints its parsed contents:
package identity, dependency tables, and checker configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManifestShow,
}

var manifestFmtCmd = &cobra.Command{
	Use:   "fmt [dir]",
	Short: "Rewrite the manifest in canonical formatting",
	Long: `Fmt parses the project manifest and writes it back in canonical
formatting. The rewritten document is equivalent to the original: same
identity, same tables, same keys and values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManifestFmt,
}

func init() {
	manifestCmd.AddCommand(manifestShowCmd)
	manifestCmd.AddCommand(manifestFmtCmd)
}

func manifestDir(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}

func runManifestShow(cmd *cobra.Command, args []string) error {
	m, err := manifest.Find(manifestDir(args))
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render(m.Package.Name)+" "+m.Package.Version)
	if m.Package.Description != "" {
		fmt.Fprintln(out, SubtitleStyle.Render(m.Package.Description))
	}
	if len(m.Package.Authors) > 0 {
		fmt.Fprintln(out, "authors: "+strings.Join(m.Package.Authors, ", "))
	}
	if m.Package.RequiresEngine != "" {
		fmt.Fprintln(out, "engine:  "+m.Package.RequiresEngine)
	}
	fmt.Fprintln(out, VerboseStyle.Render("from "+m.FilePath))

	printTable(cmd, "dependencies", m.Dependencies)
	printTable(cmd, "dev-dependencies", m.DevDependencies)

	if m.Tool != nil && m.Tool.Checker != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, SubtitleStyle.Render("checker:"))
		fmt.Fprintf(out, "  ignore_missing_models = %v\n", m.Tool.Checker.IgnoreMissingModels)
		if m.Tool.Checker.Exclude != "" {
			fmt.Fprintf(out, "  exclude = %q\n", m.Tool.Checker.Exclude)
		}
	}

	return nil
}

func printTable(cmd *cobra.Command, title string, deps map[string]string) {
	if len(deps) == 0 {
		return
	}
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render(title+":"))
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s = %q\n", NameStyle.Render(name), deps[name])
	}
}

func runManifestFmt(cmd *cobra.Command, args []string) error {
	m, err := manifest.Find(manifestDir(args))
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if err := m.Save(m.FilePath); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("formatted ")+m.FilePath)
	return nil
}
