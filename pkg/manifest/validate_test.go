// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"strings"
	"testing"
)

func validManifest() *Manifest {
	return &Manifest{
		Package: Package{
			Name:           "orders-models",
			Version:        "0.0.1-rc.8",
			RequiresEngine: ">=3.8, <3.10",
		},
		Dependencies: map[string]string{
			"django": ">=2.2, <3.3",
		},
		DevDependencies: map[string]string{
			"checker": ">=0.9, <2.0",
		},
		Tool: &Tool{Checker: &Checker{Exclude: DefaultExcludePattern}},
	}
}

func TestValidate_OK(t *testing.T) {
	if issues := validManifest().Validate(); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestValidate_Package(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Manifest)
		wantKey string
	}{
		{
			name:    "missing name",
			mutate:  func(m *Manifest) { m.Package.Name = "" },
			wantKey: "name",
		},
		{
			name:    "invalid name",
			mutate:  func(m *Manifest) { m.Package.Name = "9lives!" },
			wantKey: "name",
		},
		{
			name:    "missing version",
			mutate:  func(m *Manifest) { m.Package.Version = "" },
			wantKey: "version",
		},
		{
			name:    "non-comparable version",
			mutate:  func(m *Manifest) { m.Package.Version = "latest" },
			wantKey: "version",
		},
		{
			name:    "invalid engine range",
			mutate:  func(m *Manifest) { m.Package.RequiresEngine = "whenever" },
			wantKey: "requires-engine",
		},
		{
			name:    "empty engine range",
			mutate:  func(m *Manifest) { m.Package.RequiresEngine = ">=3.10, <3.8" },
			wantKey: "requires-engine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(m)
			issues := m.Validate()
			if len(issues) == 0 {
				t.Fatal("expected issues")
			}
			if issues[0].Table != "package" || issues[0].Key != tt.wantKey {
				t.Errorf("expected issue on package.%s, got %v", tt.wantKey, issues[0])
			}
		})
	}
}

func TestValidate_Tables(t *testing.T) {
	t.Run("empty range is flagged", func(t *testing.T) {
		m := validManifest()
		m.Dependencies["django"] = ">=3.3, <2.2"
		issues := m.Validate()
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %v", issues)
		}
		if !strings.Contains(issues[0].Message, "empty") {
			t.Errorf("expected empty-range message, got %q", issues[0].Message)
		}
	})

	t.Run("unparseable range is flagged", func(t *testing.T) {
		m := validManifest()
		m.DevDependencies["checker"] = "newest"
		issues := m.Validate()
		if len(issues) != 1 || issues[0].Table != "dev-dependencies" {
			t.Fatalf("expected 1 dev-dependencies issue, got %v", issues)
		}
	})

	t.Run("normalized duplicate keys are flagged", func(t *testing.T) {
		m := validManifest()
		m.Dependencies["My-Dep"] = ">=1.0"
		m.Dependencies["my_dep"] = ">=1.1"
		issues := m.Validate()
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %v", issues)
		}
		if !strings.Contains(issues[0].Message, "normalization") {
			t.Errorf("expected duplicate message, got %q", issues[0].Message)
		}
	})

	t.Run("invalid dependency name is flagged", func(t *testing.T) {
		m := validManifest()
		m.Dependencies["-leading-dash"] = ">=1.0"
		issues := m.Validate()
		if len(issues) != 1 || issues[0].Key != "-leading-dash" {
			t.Fatalf("expected name issue, got %v", issues)
		}
	})
}

func TestValidate_CrossTable(t *testing.T) {
	t.Run("conflicting shared dependency", func(t *testing.T) {
		m := validManifest()
		m.Dependencies["shared"] = ">=2.0, <3.0"
		m.DevDependencies["shared"] = ">=3.0"
		issues := m.Validate()
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %v", issues)
		}
		if !strings.Contains(issues[0].Message, "conflicts with dev-dependency") {
			t.Errorf("unexpected message %q", issues[0].Message)
		}
	})

	t.Run("compatible shared dependency is fine", func(t *testing.T) {
		m := validManifest()
		m.Dependencies["shared"] = ">=2.0, <3.0"
		m.DevDependencies["shared"] = ">=2.5"
		if issues := m.Validate(); len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})
}

func TestValidate_Checker(t *testing.T) {
	t.Run("invalid regex", func(t *testing.T) {
		m := validManifest()
		m.Tool.Checker.Exclude = "venv|("
		issues := m.Validate()
		if len(issues) != 1 || issues[0].Table != "tool.checker" {
			t.Fatalf("expected tool.checker issue, got %v", issues)
		}
	})

	t.Run("empty alternation branch", func(t *testing.T) {
		m := validManifest()
		m.Tool.Checker.Exclude = "venv||scripts"
		issues := m.Validate()
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %v", issues)
		}
		if !strings.Contains(issues[0].Message, "alternation") {
			t.Errorf("unexpected message %q", issues[0].Message)
		}
	})

	t.Run("missing checker table is fine", func(t *testing.T) {
		m := validManifest()
		m.Tool = nil
		if issues := m.Validate(); len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "with key",
			issue: Issue{Table: "dependencies", Key: "django", Message: "bad range"},
			want:  "[dependencies] django: bad range",
		},
		{
			name:  "without key",
			issue: Issue{Table: "package", Message: "something"},
			want:  "[package] something",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIssueList_Error(t *testing.T) {
	list := IssueList{
		{Table: "dependencies", Key: "a", Message: "x"},
		{Table: "dependencies", Key: "b", Message: "y"},
	}
	msg := list.Error()
	if !strings.Contains(msg, "2 manifest problems") {
		t.Errorf("expected count prefix, got %q", msg)
	}
	if !strings.Contains(msg, "[dependencies] a: x") || !strings.Contains(msg, "[dependencies] b: y") {
		t.Errorf("expected both issues listed, got %q", msg)
	}
}
