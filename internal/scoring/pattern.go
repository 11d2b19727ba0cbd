package scoring

import (
	"fmt"
	"regexp"
)

// Pattern is a declarative URL predicate: the expression source plus its
// compiled matcher. The zero Pattern matches nothing.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern compiles a regular expression into a Pattern.
func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile url pattern %q: %w", expr, err)
	}
	return Pattern{source: expr, re: re}, nil
}

// MustPattern is CompilePattern for compiled-in expressions.
func MustPattern(expr string) Pattern {
	p, err := CompilePattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// mustPatterns compiles a list of compiled-in expressions.
func mustPatterns(exprs ...string) []Pattern {
	out := make([]Pattern, len(exprs))
	for i, e := range exprs {
		out[i] = MustPattern(e)
	}
	return out
}

// Match reports whether s satisfies the pattern. Empty input never matches.
func (p Pattern) Match(s string) bool {
	if p.re == nil || s == "" {
		return false
	}
	return p.re.MatchString(s)
}

// String returns the expression source.
func (p Pattern) String() string {
	return p.source
}

// MarshalText renders the pattern as its source so configs serialize cleanly.
func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.source), nil
}

// UnmarshalText compiles the pattern from its source.
func (p *Pattern) UnmarshalText(text []byte) error {
	compiled, err := CompilePattern(string(text))
	if err != nil {
		return err
	}
	*p = compiled
	return nil
}
