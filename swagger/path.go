package swagger

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedPattern is returned when a rule pattern does not start with a
// slash. It aborts document generation.
var ErrMalformedPattern = errors.New("swagger: malformed rule pattern")

// placeholderRegexp matches <name> and <converter:name> placeholders.
var placeholderRegexp = regexp.MustCompile(`<(?:([^<>:]+):)?([^<>:]+)>`)

// NormalizePath converts a rule pattern into a path template:
// "/balloons/<int:id>/" becomes "/balloons/{id}". The root pattern is
// returned unchanged.
func NormalizePath(pattern string) (string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return "", fmt.Errorf("%w: %q does not start with a slash", ErrMalformedPattern, pattern)
	}
	if pattern == "/" {
		return pattern, nil
	}

	path := placeholderRegexp.ReplaceAllString(pattern, "{$2}")
	return strings.TrimSuffix(path, "/"), nil
}

// placeholderConverters returns the converter declared for each placeholder
// of pattern; untyped placeholders map to "".
func placeholderConverters(pattern string) map[string]string {
	matches := placeholderRegexp.FindAllStringSubmatch(pattern, -1)
	out := make(map[string]string, len(matches))
	for _, m := range matches {
		out[m[2]] = m[1]
	}
	return out
}
