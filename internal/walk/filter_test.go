package walk

import (
	"errors"
	"regexp/syntax"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"main.go", "main.go"},
		{"a/b/c.txt", "a/b/c.txt"},
		{"a//b///c.txt", "a/b/c.txt"},
		// "e" followed by a combining acute accent composes to U+00E9.
		{"cafe\u0301.txt", "caf\u00e9.txt"},
		{"caf\u00e9.txt", "caf\u00e9.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterSetMatch(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{"no filters", nil, nil, "anything/at/all", true},
		{"include hit", []string{`.*\.go`}, nil, "cmd/main.go", true},
		{"include miss", []string{`.*\.go`}, nil, "README.md", false},
		{"include is not a substring search", []string{`main`}, nil, "main.go", false},
		{"any include suffices", []string{`.*\.c`, `.*\.h`}, nil, "src/x.h", true},
		{"exclude only", nil, []string{`vendor/.*`}, "vendor/lib.go", false},
		{"exclude only keeps the rest", nil, []string{`vendor/.*`}, "lib.go", true},
		{"exclude wins", []string{`.*\.go`}, []string{`.*_test\.go`}, "walker_test.go", false},
		{"alternation is anchored as a whole", []string{`a|b`}, nil, "ab", false},
		{"alternation first branch", []string{`a|b`}, nil, "a", true},
		{"pattern is normalized too", []string{"cafe\u0301\\.txt"}, nil, "caf\u00e9.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewFilterSet(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("NewFilterSet failed: %v", err)
			}
			if got := set.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilterSetInvalidPattern(t *testing.T) {
	for _, tc := range []struct {
		include []string
		exclude []string
	}{
		{include: []string{`(`}},
		{exclude: []string{`[a-`}},
	} {
		_, err := NewFilterSet(tc.include, tc.exclude)
		if err == nil {
			t.Fatalf("expected error for include=%q exclude=%q", tc.include, tc.exclude)
		}

		var filterErr *FilterError
		if !errors.As(err, &filterErr) {
			t.Fatalf("expected *FilterError, got %T", err)
		}
		var syntaxErr *syntax.Error
		if !errors.As(err, &syntaxErr) {
			t.Errorf("expected wrapped *syntax.Error, got %v", filterErr.Err)
		}
	}
}
