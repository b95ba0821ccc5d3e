// SPDX-License-Identifier: MPL-2.0

package jsonmodel

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"jsonmodel-cli/internal/issue"
	"jsonmodel-cli/pkg/cueutil"
)

// DefinitionSuffix is the file suffix for declarative model definitions.
const DefinitionSuffix = ".model.cue"

//go:embed model_schema.cue
var definitionSchema string

type (
	fieldDef struct {
		Name      string `json:"name"`
		Kind      string `json:"kind"`
		Required  bool   `json:"required,omitempty"`
		Default   any    `json:"default,omitempty"`
		Choices   []any  `json:"choices,omitempty"`
		MaxLength int    `json:"max_length,omitempty"`
	}

	modelDef struct {
		Name        string     `json:"name"`
		Description string     `json:"description,omitempty"`
		Fields      []fieldDef `json:"fields"`
	}

	definitionsFile struct {
		Models []modelDef `json:"models"`
	}
)

// LoadDefinitions reads a *.model.cue file and compiles the models it
// declares.
func LoadDefinitions(path string) ([]*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.New().
			Op("read model definitions").
			Resource(path).
			Wrap(err).
			Err()
	}
	return ParseDefinitions(data, path)
}

// ParseDefinitions parses model definition content. The input is validated
// against the embedded definition schema before the models are compiled, so
// structural errors carry JSON-path locations.
func ParseDefinitions(data []byte, path string) ([]*Model, error) {
	result, err := cueutil.DecodeString[definitionsFile](
		definitionSchema,
		data,
		"#Definitions",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, issue.New().
			Op("parse model definitions").
			Resource(path).
			Hint("Definition files declare models under a top-level 'models' list").
			Wrap(err).
			Err()
	}

	models := make([]*Model, 0, len(result.Value.Models))
	seen := make(map[string]bool, len(result.Value.Models))

	for _, def := range result.Value.Models {
		if seen[def.Name] {
			return nil, issue.New().
				Op("parse model definitions").
				Resource(path).
				Wrap(fmt.Errorf("model %q declared twice", def.Name)).
				Err()
		}
		seen[def.Name] = true

		model, buildErr := buildModel(def)
		if buildErr != nil {
			return nil, issue.New().
				Op("parse model definitions").
				Resource(path).
				Wrap(buildErr).
				Err()
		}
		models = append(models, model)
	}

	return models, nil
}

func buildModel(def modelDef) (*Model, error) {
	fields := make([]Field, len(def.Fields))
	for i, fd := range def.Fields {
		fields[i] = Field{
			Name:      fd.Name,
			Kind:      Kind(fd.Kind),
			Required:  fd.Required,
			Default:   fd.Default,
			Choices:   fd.Choices,
			MaxLength: fd.MaxLength,
		}
	}

	model, err := New(def.Name, fields...)
	if err != nil {
		return nil, err
	}
	model.description = strings.TrimSpace(def.Description)

	if issues := model.Check(); len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, ci := range issues {
			msgs[i] = ci.Error()
		}
		return nil, fmt.Errorf("model %s has definition problems:\n  %s",
			def.Name, strings.Join(msgs, "\n  "))
	}

	return model, nil
}

// IsDefinitionFile reports whether path names a model definition file.
func IsDefinitionFile(path string) bool {
	return strings.HasSuffix(path, DefinitionSuffix)
}
