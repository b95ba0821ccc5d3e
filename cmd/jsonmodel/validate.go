// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"jsonmodel-cli/internal/checker"
	"jsonmodel-cli/internal/issue"
	"jsonmodel-cli/pkg/jsonmodel"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model> <json-file>",
	Short: "Validate a JSON document against a project model",
	Long: `Validate compiles the project's model definitions, looks up the
named model, and validates the JSON document in the given file against it
(pass "-" to read from stdin). Every problem is reported, not just the
first.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	modelName, jsonPath := args[0], args[1]

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "checker",
		Level:  log.ErrorLevel,
	})
	c := checker.New(
		checker.WithLogger(logger),
		checker.WithFallback(currentConfig().Checker),
		checker.WithModelDirs(currentConfig().ModelDirs),
	)

	report, err := c.Run(cmd.Context(), ".")
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	model, ok := report.Models[modelName]
	if !ok {
		return &ExitError{Code: 1, Err: issue.New().
			Op("look up model").
			Resource(modelName).
			Hint("Run 'jsonmodel check -v' to list the project's models").
			Wrap(fmt.Errorf("model %q is not declared in this project", modelName)).
			Err()}
	}

	data, err := readDocument(cmd, jsonPath)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ExitError{Code: 1, Err: issue.New().
			Op("parse document").
			Resource(jsonPath).
			Hint("The document must be a JSON object").
			Wrap(err).
			Err()}
	}

	out := cmd.OutOrStdout()

	if _, err := model.Instance(doc); err != nil {
		var verrs jsonmodel.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fmt.Fprintln(out, ErrorStyle.Render("invalid ")+fe.Error())
			}
			return &ExitError{Code: 1}
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(out, SuccessStyle.Render("valid ")+
		jsonPath+" conforms to "+NameStyle.Render(modelName))
	return nil
}

func readDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.New().
			Op("read document").
			Resource(path).
			Wrap(err).
			Err()
	}
	return data, nil
}
