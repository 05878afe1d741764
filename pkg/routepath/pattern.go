package routepath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Pattern compilation errors.
var (
	ErrEmptyPattern        = errors.New("empty pattern")
	ErrMissingLeadingSlash = errors.New("pattern must start with /")
	ErrEmptySegment        = errors.New("pattern contains an empty segment")
	ErrEmptyParamName      = errors.New("parameter segment has no name")
	ErrInvalidParamName    = errors.New("invalid parameter name")
	ErrMisplacedParam      = errors.New("':' is only allowed at the start of a segment")
)

// paramNameRe validates parameter names: identifier-shaped, so generated
// artifacts can embed them directly.
var paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Matcher is a compiled route pattern. It answers a single question: does a
// concrete request path belong to this route. Parameter values are not
// extracted; two patterns that differ only in parameter names behave
// identically.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
	params  []string
}

// Compile compiles a route pattern into a Matcher.
//
// Patterns consist of literal segments and parameter segments:
//   - A literal segment matches itself exactly.
//   - A parameter segment (":id") matches exactly one non-empty path segment.
//
// Matching is anchored at both ends and accepts one optional trailing slash,
// so "/detail/:id" matches "/detail/42" and "/detail/42/" but not "/detail"
// or "/detail/a/b". A single trailing slash in the pattern itself is
// tolerated and ignored.
//
// Malformed patterns (missing leading slash, empty segments, ":" without a
// name or inside a literal) fail here rather than at match time.
func Compile(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q", ErrMissingLeadingSlash, pattern)
	}

	if pattern == "/" {
		return &Matcher{pattern: pattern, re: regexp.MustCompile(`^/$`)}, nil
	}

	// "/detail/" declares the same route as "/detail".
	trimmed := strings.TrimSuffix(pattern, "/")

	segments := strings.Split(trimmed[1:], "/")
	var (
		b      strings.Builder
		params []string
	)
	b.WriteString("^")

	for _, seg := range segments {
		b.WriteString("/")
		switch {
		case seg == "":
			return nil, fmt.Errorf("%w: %q", ErrEmptySegment, pattern)
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyParamName, pattern)
			}
			if !paramNameRe.MatchString(name) {
				return nil, fmt.Errorf("%w: %q in %q", ErrInvalidParamName, name, pattern)
			}
			params = append(params, name)
			b.WriteString(`([^/]+)`)
		case strings.Contains(seg, ":"):
			return nil, fmt.Errorf("%w: %q in %q", ErrMisplacedParam, seg, pattern)
		default:
			b.WriteString(regexp.QuoteMeta(seg))
		}
	}

	b.WriteString(`/?$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	return &Matcher{pattern: pattern, re: re, params: params}, nil
}

// MustCompile is like Compile but panics on error. For patterns known at
// program initialization.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether path belongs to this route.
func (m *Matcher) Match(path string) bool {
	return m.re.MatchString(path)
}

// Pattern returns the pattern the matcher was compiled from.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Params returns the parameter names in declaration order. The names are
// informational; they never influence matching.
func (m *Matcher) Params() []string {
	return m.params
}

// IsStatic reports whether the pattern contains no parameter segments.
func (m *Matcher) IsStatic() bool {
	return len(m.params) == 0
}

// String returns the underlying expression, for diagnostics and listings.
func (m *Matcher) String() string {
	return m.re.String()
}
