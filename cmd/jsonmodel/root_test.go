// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jsonmodel-cli/pkg/manifest"
)

const testManifest = `
[package]
name = "shop"
version = "1.0.0"
description = "test project"

[dependencies]
orders = ">=1.0, <2.0"

[tool.checker]
ignore_missing_models = true
`

const testDefinitions = `
models: [
	{
		name: "OrderDetails"
		fields: [
			{name: "status", kind: "string", required: true, choices: ["open", "shipped", "closed"]},
			{name: "quantity", kind: "int", required: true},
		]
	},
]
`

// runCLI executes the root command with args and captures its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// setupTestProject creates a project directory and makes it the working dir.
func setupTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProjectFile(t, root, manifest.Name, testManifest)
	writeProjectFile(t, root, "orders.model.cue", testDefinitions)
	t.Chdir(root)
	return root
}

func writeProjectFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean project", func(t *testing.T) {
		setupTestProject(t)

		out, err := runCLI(t, "check")
		if err != nil {
			t.Fatalf("check failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "check passed") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("broken definition fails with exit error", func(t *testing.T) {
		root := setupTestProject(t)
		writeProjectFile(t, root, "broken.model.cue", `models: [{`)

		out, err := runCLI(t, "check")
		if err == nil {
			t.Fatalf("expected failure, got:\n%s", out)
		}
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != 1 {
			t.Errorf("expected ExitError with code 1, got %v", err)
		}
		if !strings.Contains(out, "broken.model.cue") {
			t.Errorf("output should name the broken file: %s", out)
		}
	})

	t.Run("excluded paths are not checked", func(t *testing.T) {
		root := setupTestProject(t)
		writeProjectFile(t, root, filepath.Join("venv", "broken.model.cue"), `models: [{`)

		out, err := runCLI(t, "check")
		if err != nil {
			t.Fatalf("check failed: %v\n%s", err, out)
		}
	})
}

func TestManifestShowCommand(t *testing.T) {
	setupTestProject(t)

	out, err := runCLI(t, "manifest", "show")
	if err != nil {
		t.Fatalf("manifest show failed: %v\n%s", err, out)
	}
	for _, want := range []string{"shop", "1.0.0", "orders", ">=1.0, <2.0", "ignore_missing_models = true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestManifestFmtCommand(t *testing.T) {
	root := setupTestProject(t)

	out, err := runCLI(t, "manifest", "fmt")
	if err != nil {
		t.Fatalf("manifest fmt failed: %v\n%s", err, out)
	}

	// The rewritten manifest must stay equivalent.
	m, err := manifest.Load(filepath.Join(root, manifest.Name))
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	orig, err := manifest.ParseBytes([]byte(testManifest), "orig")
	if err != nil {
		t.Fatalf("parse original: %v", err)
	}
	if !m.Equivalent(orig) {
		t.Error("formatted manifest is not equivalent to the original")
	}
}

func TestDepsCheckCommand(t *testing.T) {
	t.Run("satisfiable ranges", func(t *testing.T) {
		setupTestProject(t)

		out, err := runCLI(t, "deps", "check")
		if err != nil {
			t.Fatalf("deps check failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "satisfiable") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("manifest with empty range fails before the command runs", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, manifest.Name, `
[package]
name = "shop"
version = "1.0.0"

[dependencies]
orders = ">=2.0, <1.0"
`)
		t.Chdir(root)

		_, err := runCLI(t, "deps", "check")
		if err == nil {
			t.Fatal("expected failure for unsatisfiable range")
		}
	})
}

func TestDepsResolveCommand(t *testing.T) {
	setupTestProject(t)

	t.Run("picks the highest matching version", func(t *testing.T) {
		out, err := runCLI(t, "deps", "resolve", "orders", "0.9.0", "1.2.0", "1.9.3", "2.0.0")
		if err != nil {
			t.Fatalf("deps resolve failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "1.9.3") {
			t.Errorf("expected 1.9.3, got: %s", out)
		}
	})

	t.Run("undeclared dependency", func(t *testing.T) {
		out, err := runCLI(t, "deps", "resolve", "nosuch", "1.0.0")
		if err == nil {
			t.Fatalf("expected failure, got:\n%s", out)
		}
	})

	t.Run("no candidate matches", func(t *testing.T) {
		_, err := runCLI(t, "deps", "resolve", "orders", "2.0.0", "3.0.0")
		if err == nil {
			t.Fatal("expected failure when nothing satisfies the range")
		}
	})
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		root := setupTestProject(t)
		writeProjectFile(t, root, "doc.json", `{"status": "open", "quantity": 2}`)

		out, err := runCLI(t, "validate", "OrderDetails", "doc.json")
		if err != nil {
			t.Fatalf("validate failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "valid") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("invalid document reports every problem", func(t *testing.T) {
		root := setupTestProject(t)
		writeProjectFile(t, root, "doc.json", `{"status": "lost"}`)

		out, err := runCLI(t, "validate", "OrderDetails", "doc.json")
		if err == nil {
			t.Fatalf("expected failure, got:\n%s", out)
		}
		if !strings.Contains(out, "not a valid choice") || !strings.Contains(out, "required") {
			t.Errorf("expected both problems reported:\n%s", out)
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		root := setupTestProject(t)
		writeProjectFile(t, root, "doc.json", `{}`)

		_, err := runCLI(t, "validate", "NoSuchModel", "doc.json")
		if err == nil {
			t.Fatal("expected failure for unknown model")
		}
	})
}
