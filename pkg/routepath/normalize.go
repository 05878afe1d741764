package routepath

import (
	"errors"
	"strings"
)

// Path normalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// NormalizeResult contains the result of path normalization.
type NormalizeResult struct {
	// Path is the normalized path (without query string).
	Path string

	// Query is the query string (without leading "?"), preserved verbatim.
	Query string

	// Changed indicates whether normalization modified the path.
	Changed bool
}

// NormalizePath normalizes a request path before it is matched against the
// route table or used as a cache key: duplicate slashes collapse, "." and
// resolvable ".." segments disappear, a trailing slash is dropped (except for
// root) and a missing leading slash is added. A query string may ride along;
// it is split off and preserved untouched.
//
// Rejected inputs, each with its own sentinel error: backslashes, NUL bytes
// (literal or %00), malformed percent-escapes, and ".." that would climb
// above root.
func NormalizePath(input string) (NormalizeResult, error) {
	path, query, _ := strings.Cut(input, "?")

	// SECURITY: these never appear in a legitimate route path.
	if strings.Contains(path, `\`) {
		return NormalizeResult{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return NormalizeResult{}, ErrNullByteInPath
	}
	if err := checkEscapes(path); err != nil {
		return NormalizeResult{}, err
	}

	// Rebuild from the non-empty segments. Splitting on "/" makes duplicate
	// slashes, a trailing slash and a missing leading slash all fall out as
	// empty segments.
	var kept []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(kept) == 0 {
				return NormalizeResult{}, ErrPathEscapesRoot
			}
			kept = kept[:len(kept)-1]
		default:
			kept = append(kept, seg)
		}
	}

	normalized := "/" + strings.Join(kept, "/")
	return NormalizeResult{
		Path:    normalized,
		Query:   query,
		Changed: normalized != path,
	}, nil
}

// checkEscapes validates every %XX escape without decoding it; matching and
// cache keys operate on the raw path.
func checkEscapes(path string) error {
	for i := strings.IndexByte(path, '%'); i >= 0; {
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		next := strings.IndexByte(path[i+3:], '%')
		if next < 0 {
			return nil
		}
		i += 3 + next
	}
	return nil
}

func isHex(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	}
	return false
}
