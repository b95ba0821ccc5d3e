// SPDX-License-Identifier: MPL-2.0

package specifier

import (
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{"full", "3.2.10", Version{Major: 3, Minor: 2, Patch: 10}, false},
		{"major minor", "3.8", Version{Major: 3, Minor: 8}, false},
		{"major only", "4", Version{Major: 4}, false},
		{"v prefix", "v1.2.3", Version{Major: 1, Minor: 2, Patch: 3}, false},
		{"prerelease", "3.3.0-rc.1", Version{Major: 3, Minor: 3, Prerelease: "rc.1"}, false},
		{"build metadata ignored", "1.0.0+build.5", Version{Major: 1}, false},
		{"empty", "", Version{}, true},
		{"garbage", "latest", Version{}, true},
		{"trailing dot", "1.2.", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersion(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) failed: %v", tt.input, err)
			}
			if got.Major != tt.want.Major || got.Minor != tt.want.Minor ||
				got.Patch != tt.want.Patch || got.Prerelease != tt.want.Prerelease {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"3.8", "3.8.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.10.0", "2.9.9", 1},
		{"3.2.10", "3.2.9", 1},
		{"3.3.0-rc.1", "3.3.0", -1},
		{"3.3.0", "3.3.0-rc.1", 1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		// Prerelease tags compare as plain strings, so multi-digit numeric
		// identifiers sort character by character.
		{"1.0.0-rc.10", "1.0.0-rc.2", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b))
			if got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("single clause", func(t *testing.T) {
		set, err := Parse(">=2.2")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(set.Clauses) != 1 {
			t.Fatalf("expected 1 clause, got %d", len(set.Clauses))
		}
		if set.Clauses[0].Op != ">=" {
			t.Errorf("expected op >=, got %q", set.Clauses[0].Op)
		}
	})

	t.Run("comma separated set", func(t *testing.T) {
		set, err := Parse(">=2.2, <3.3")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(set.Clauses) != 2 {
			t.Fatalf("expected 2 clauses, got %d", len(set.Clauses))
		}
	})

	t.Run("bare version means exact", func(t *testing.T) {
		set, err := Parse("1.2.3")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if set.Clauses[0].Op != "==" {
			t.Errorf("expected op ==, got %q", set.Clauses[0].Op)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, input := range []string{"", "   ", ">=2.2,,<3.3", ">=abc", "=> 1.0"} {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) expected error", input)
			}
		}
	})
}

func TestSet_Match(t *testing.T) {
	tests := []struct {
		set     string
		version string
		want    bool
	}{
		// The documented manifest example: Django-style framework range.
		{">=2.2, <3.3", "3.2.10", true},
		{">=2.2, <3.3", "3.3.0", false},
		{">=2.2, <3.3", "2.2.0", true},
		{">=2.2, <3.3", "2.1.9", false},

		// Runtime range from the manifest.
		{">=3.8, <3.10", "3.8.0", true},
		{">=3.8, <3.10", "3.9.18", true},
		{">=3.8, <3.10", "3.10.0", false},

		{"==1.2.3", "1.2.3", true},
		{"==1.2.3", "1.2.4", false},
		{"!=1.2.3", "1.2.4", true},
		{"!=1.2.3", "1.2.3", false},

		{"^1.2.3", "1.9.0", true},
		{"^1.2.3", "2.0.0", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		// A major-only tilde spans the whole major release.
		{"~1", "1.0.0", true},
		{"~1", "1.9.3", true},
		{"~1", "2.0.0", false},
		{"~1.2", "1.2.9", true},
		{"~1.2", "1.3.0", false},

		{"~=2.2", "2.9.0", true},
		{"~=2.2", "3.0.0", false},
		{"~=2.2.1", "2.2.9", true},
		{"~=2.2.1", "2.3.0", false},

		{"<=3.3", "3.3.0", true},
		{">3.3", "3.3.0", false},

		// Prereleases sort below the release they precede.
		{"<3.3", "3.3.0-rc.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.set+" / "+tt.version, func(t *testing.T) {
			set, err := Parse(tt.set)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.set, err)
			}
			got, err := set.MatchString(tt.version)
			if err != nil {
				t.Fatalf("MatchString(%q) failed: %v", tt.version, err)
			}
			if got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.set, tt.version, got, tt.want)
			}
		})
	}
}

func TestSet_Satisfiable(t *testing.T) {
	tests := []struct {
		set  string
		want bool
	}{
		{">=3.8, <3.10", true},
		{">=2.2, <3.3", true},
		{">=3.3, <2.2", false},
		{">=3.3, <3.3", false},
		{">=3.3, <=3.3", true},
		{">3.3, <=3.3", false},
		{"==1.0", true},
		{"==1.0, !=1.0", false},
		{"==1.0, ==2.0", false},
		{">=1.0", true},
		{"<2.0", true},
		{">=1.0, <2.0, !=1.5.0", true},
		{"^1.2.0, <1.1.0", false},
		{"~=2.2, <2.0", false},
		// A major-only tilde bounds at the next major, not the next minor.
		{"~1, >=1.5", true},
		{"~1.2, >=1.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			set, err := Parse(tt.set)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.set, err)
			}
			if got := set.Satisfiable(); got != tt.want {
				t.Errorf("Satisfiable(%q) = %v, want %v", tt.set, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	available := []string{"2.1.0", "2.2.0", "3.0.0", "3.2.10", "3.3.0", "bogus"}

	t.Run("picks highest match", func(t *testing.T) {
		got, err := Resolve(">=2.2, <3.3", available)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got != "3.2.10" {
			t.Errorf("Resolve = %q, want 3.2.10", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := Resolve(">=4.0", available); err == nil {
			t.Error("expected error when nothing matches")
		}
	})

	t.Run("invalid set", func(t *testing.T) {
		if _, err := Resolve("not-a-range", available); err == nil {
			t.Error("expected error for invalid set")
		}
	})
}

func TestFilter(t *testing.T) {
	got, err := Filter(">=2.2, <3.3", []string{"2.1.0", "2.2.0", "3.2.10", "3.3.0"})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	want := []string{"2.2.0", "3.2.10"}
	if len(got) != len(want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Filter[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSortVersions(t *testing.T) {
	got := SortVersions([]string{"1.0.0", "3.2.10", "2.2.0", "junk", "3.3.0-rc.1", "3.3.0"})
	want := []string{"3.3.0", "3.3.0-rc.1", "3.2.10", "2.2.0", "1.0.0"}
	if len(got) != len(want) {
		t.Fatalf("SortVersions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortVersions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
