// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"jsonmodel-cli/internal/checker"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check the project manifest and model definitions",
	Long: `Check locates the project manifest (walking upward from the given
directory, or the working directory), validates it, walks the project tree
for model definition files while honoring the checker exclude pattern, and
compiles every model.

Problems are reported all at once; the command exits non-zero when any
finding has error severity.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "checker",
		Level:  level,
	})

	c := checker.New(
		checker.WithLogger(logger),
		checker.WithFallback(currentConfig().Checker),
		checker.WithModelDirs(currentConfig().ModelDirs),
	)

	report, err := c.Run(cmd.Context(), dir)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	out := cmd.OutOrStdout()

	for _, f := range report.Findings {
		switch f.Severity {
		case checker.SeverityError:
			fmt.Fprintln(out, ErrorStyle.Render("error   ")+f.Path+": "+f.Message)
		case checker.SeverityWarning:
			fmt.Fprintln(out, WarningStyle.Render("warning ")+f.Path+": "+f.Message)
		}
	}

	if verbose && len(report.Models) > 0 {
		names := make([]string, 0, len(report.Models))
		for name := range report.Models {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(out, VerboseStyle.Render("models:"))
		for _, name := range names {
			fmt.Fprintf(out, "  %s (%d fields)\n",
				NameStyle.Render(name), report.Models[name].NumFields())
		}
	}

	errs, warnings := report.Counts()
	switch {
	case errs > 0:
		fmt.Fprintln(out, ErrorStyle.Render(
			fmt.Sprintf("check failed: %d error(s), %d warning(s)", errs, warnings)))
		return &ExitError{Code: 1}
	case warnings > 0:
		fmt.Fprintln(out, WarningStyle.Render(
			fmt.Sprintf("check passed with %d warning(s)", warnings)))
	default:
		fmt.Fprintln(out, SuccessStyle.Render(
			fmt.Sprintf("check passed: %d model(s), no problems", len(report.Models))))
	}

	return nil
}
