package domain

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultPatternTimeout bounds one name match so a backtracking-heavy filter cannot stall a run.
const DefaultPatternTimeout = 500 * time.Millisecond

// NamePattern is a compiled host/service name filter anchored to the whole name.
// Params: user expression in Perl-compatible syntax.
// Returns: matcher used by MatchName.
type NamePattern struct {
	expr string
	re   *regexp2.Regexp
}

// CompileNamePattern compiles a filter so it must match the full object name.
// Params: expression as typed by the operator (e.g. "web[0-9]+").
// Returns: compiled pattern or syntax error.
func CompileNamePattern(expr string) (*NamePattern, error) {
	re, err := regexp2.Compile("^(?:"+expr+")$", regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile name pattern %q: %w", expr, err)
	}
	re.MatchTimeout = DefaultPatternTimeout
	return &NamePattern{expr: expr, re: re}, nil
}

// Match evaluates pattern against one name.
// Params: object name.
// Returns: true on full match; nil pattern matches everything, a timed out match does not.
func (p *NamePattern) Match(name string) bool {
	if p == nil {
		return true
	}
	ok, err := p.re.MatchString(name)
	if err != nil {
		return false
	}
	return ok
}

// String returns the expression as given by the operator.
func (p *NamePattern) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}
