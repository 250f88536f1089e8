package walk

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FilterSet holds compiled inclusion and exclusion patterns. Patterns are
// anchored, so a path matches only when the whole path matches.
type FilterSet struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewFilterSet compiles the given patterns.
func NewFilterSet(include, exclude []string) (*FilterSet, error) {
	inc, err := compileAll(include)
	if err != nil {
		return nil, err
	}
	exc, err := compileAll(exclude)
	if err != nil {
		return nil, err
	}
	return &FilterSet{include: inc, exclude: exc}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + norm.NFC.String(p) + `)$`)
		if err != nil {
			return nil, &FilterError{Pattern: p, Err: err}
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Match reports whether a normalized relative path passes the filters:
// it must match no exclusion pattern, and match an inclusion pattern
// unless there are none.
func (f *FilterSet) Match(relPath string) bool {
	if matchAny(f.exclude, relPath) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchAny(f.include, relPath)
}

func matchAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// NormalizePath converts a root-relative path to the form filters are
// matched against: forward slashes, no repeated separators, Unicode NFC.
func NormalizePath(rel string) string {
	p := filepath.ToSlash(rel)
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return norm.NFC.String(p)
}

// FilterError reports a pattern that failed to compile.
type FilterError struct {
	Pattern string
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Pattern, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}
