// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"jsonmodel-cli/pkg/manifest"
	"jsonmodel-cli/pkg/specifier"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Inspect and resolve dependency version ranges",
}

var depsCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Verify every declared version range is satisfiable",
	Long: `Check parses each version range declared in [dependencies] and
[dev-dependencies] and reports whether any version at all can satisfy it.
A range whose lower bound is not strictly below its upper bound admits no
version and fails the check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDepsCheck,
}

var depsResolveCmd = &cobra.Command{
	Use:   "resolve <name> <versions...>",
	Short: "Pick the highest candidate version satisfying a dependency's range",
	Long: `Resolve looks up the version range declared for a dependency in the
project manifest and picks the highest of the given candidate versions that
satisfies it.

Example:
  jsonmodel deps resolve django 2.2.1 3.2.10 3.3.0`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDepsResolve,
}

func init() {
	depsCmd.AddCommand(depsCheckCmd)
	depsCmd.AddCommand(depsResolveCmd)
}

func runDepsCheck(cmd *cobra.Command, args []string) error {
	m, err := manifest.Find(manifestDir(args))
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()
	problems := 0
	problems += reportTable(cmd, "dependencies", m.Dependencies)
	problems += reportTable(cmd, "dev-dependencies", m.DevDependencies)

	if problems > 0 {
		fmt.Fprintln(out, ErrorStyle.Render(
			fmt.Sprintf("%d unsatisfiable or malformed range(s)", problems)))
		return &ExitError{Code: 1}
	}

	total := len(m.Dependencies) + len(m.DevDependencies)
	fmt.Fprintln(out, SuccessStyle.Render(
		fmt.Sprintf("all %d range(s) satisfiable", total)))
	return nil
}

func reportTable(cmd *cobra.Command, title string, deps map[string]string) int {
	out := cmd.OutOrStdout()
	problems := 0

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rangeStr := deps[name]
		set, err := specifier.Parse(rangeStr)
		switch {
		case err != nil:
			problems++
			fmt.Fprintf(out, "%s %s.%s = %q: %v\n",
				ErrorStyle.Render("malformed    "), title, NameStyle.Render(name), rangeStr, err)
		case !set.Satisfiable():
			problems++
			fmt.Fprintf(out, "%s %s.%s = %q admits no version\n",
				ErrorStyle.Render("unsatisfiable"), title, NameStyle.Render(name), rangeStr)
		default:
			if verbose {
				fmt.Fprintf(out, "%s %s.%s = %q\n",
					SuccessStyle.Render("ok           "), title, NameStyle.Render(name), rangeStr)
			}
		}
	}

	return problems
}

func runDepsResolve(cmd *cobra.Command, args []string) error {
	name, candidates := args[0], args[1:]

	m, err := manifest.Find(".")
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	rangeStr, dev, ok := m.Requirement(name)
	if !ok {
		return &ExitError{Code: 1, Err: fmt.Errorf(
			"dependency %q is not declared in %s", name, m.FilePath)}
	}

	best, err := specifier.Resolve(rangeStr, candidates)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()
	table := "dependencies"
	if dev {
		table = "dev-dependencies"
	}
	fmt.Fprintf(out, "%s %s (%s, range %q)\n",
		SuccessStyle.Render(best), NameStyle.Render(name), table, rangeStr)
	return nil
}
